package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestListFilter(t *testing.T) {
	seller := primitive.NewObjectID()
	available := models.ProductAvailable

	filter := listFilter(models.ProductQuery{
		Category: "c++ books",
		Search:   "lamp",
		SellerID: &seller,
		Status:   &available,
		Price:    models.PriceUnder100.Range(),
	})

	assert.Equal(t, available, filter["status"])
	assert.Equal(t, seller, filter["seller_id"])
	assert.Equal(t, primitive.Regex{Pattern: `c\+\+ books`, Options: "i"}, filter["category"])
	assert.Equal(t, bson.M{"$lt": 100.0}, filter["price"])
	assert.Len(t, filter["$or"], 3)
}

func TestListFilterOpen(t *testing.T) {
	assert.Empty(t, listFilter(models.ProductQuery{}))
}

func TestPriceFilterBounds(t *testing.T) {
	assert.Equal(t, bson.M{"$gte": 100.0, "$lte": 500.0}, priceFilter(models.Price100To500.Range()))
	assert.Equal(t, bson.M{"$gt": 2000.0}, priceFilter(models.PriceAbove2000.Range()))
}

func TestListSort(t *testing.T) {
	assert.Equal(t, "created_at", listSort("")[0].Key)
	assert.Equal(t, -1, listSort(models.SortNewest)[0].Value)
	assert.Equal(t, bson.E{Key: "price", Value: -1}, listSort(models.SortPriceHigh)[0])
}

// testDB connects to MONGO_TEST_URI and returns a throwaway database
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, err := ConnectDB(ctx, uri)
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("campus_connect_test_%d", time.Now().UnixNano()))
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestMongoProductLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New(testDB(t))

	seller := models.User{StudentID: "S100", Email: "seller@campus.edu", Name: "Seller"}
	require.NoError(t, store.Users.Create(ctx, &seller))
	err := store.Users.Create(ctx, &models.User{StudentID: "S100", Email: "other@campus.edu"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	product := models.Product{
		Title:     "Desk Lamp",
		Price:     99,
		Category:  "Electronics",
		SellerID:  seller.ID,
		Status:    models.ProductAvailable,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Products.Create(ctx, &product))

	got, total, err := store.Products.List(ctx, models.ProductQuery{Search: "LAMP", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, product.ID, got[0].ID)

	_, err = store.Products.MarkSold(ctx, product.ID)
	require.NoError(t, err)
	_, err = store.Products.MarkSold(ctx, product.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = store.Products.MarkSold(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, store.Products.Release(ctx, product.ID))
}

func TestMongoSellerRatingStats(t *testing.T) {
	ctx := context.Background()
	store := New(testDB(t))
	seller := primitive.NewObjectID()

	for _, rating := range []int{4, 5, 3} {
		txn := models.Transaction{SellerID: seller, BuyerID: primitive.NewObjectID(), Status: models.TransactionCompleted}
		require.NoError(t, store.Transactions.Create(ctx, &txn))
		_, err := store.Transactions.SetReview(ctx, txn.ID, rating, "")
		require.NoError(t, err)
	}

	stats, err := store.Transactions.SellerRatingStats(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 4.0, stats.Average, 1e-9)
}

func TestMongoMarkThreadRead(t *testing.T) {
	ctx := context.Background()
	store := New(testDB(t))
	product := primitive.NewObjectID()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		msg := models.Message{SenderID: alice, ReceiverID: bob, ProductID: product, Content: "hi", CreatedAt: time.Now()}
		require.NoError(t, store.Messages.Create(ctx, &msg))
	}

	n, err := store.Messages.MarkThreadRead(ctx, product, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	thread, err := store.Messages.Thread(ctx, product, bob, alice)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.True(t, thread[0].IsRead)
}
