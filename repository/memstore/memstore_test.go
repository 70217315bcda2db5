package memstore

import (
	"context"
	"math"
	"testing"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedProducts(t *testing.T, repo *ProductRepository, seller primitive.ObjectID) []models.Product {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	fixtures := []models.Product{
		{Title: "Calculus Textbook", Description: "Stewart 8th edition", Price: 450, Category: "Books"},
		{Title: "Desk Lamp", Description: "LED, barely used", Price: 99, Category: "Electronics"},
		{Title: "Bicycle", Description: "Hero cycle", Price: 2500, Category: "Sports"},
		{Title: "Physics Notes", Description: "handwritten", Price: 100, Category: "Books"},
	}
	for i := range fixtures {
		fixtures[i].SellerID = seller
		fixtures[i].Status = models.ProductAvailable
		fixtures[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), &fixtures[i]))
	}
	return fixtures
}

func titles(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}

func TestProductListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	seedProducts(t, repo, primitive.NewObjectID())

	t.Run("category is case insensitive", func(t *testing.T) {
		got, total, err := repo.List(ctx, models.ProductQuery{Category: "books", Sort: models.SortOldest})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []string{"Calculus Textbook", "Physics Notes"}, titles(got))
	})

	t.Run("search covers description", func(t *testing.T) {
		got, _, err := repo.List(ctx, models.ProductQuery{Search: "HANDWRITTEN"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Physics Notes"}, titles(got))
	})

	t.Run("bucket bounds", func(t *testing.T) {
		got, _, err := repo.List(ctx, models.ProductQuery{Price: models.PriceUnder100.Range(), Sort: models.SortPriceLow})
		require.NoError(t, err)
		assert.Equal(t, []string{"Desk Lamp"}, titles(got))

		got, _, err = repo.List(ctx, models.ProductQuery{Price: models.Price100To500.Range(), Sort: models.SortPriceLow})
		require.NoError(t, err)
		assert.Equal(t, []string{"Physics Notes", "Calculus Textbook"}, titles(got))
	})

	t.Run("sort and pagination", func(t *testing.T) {
		got, total, err := repo.List(ctx, models.ProductQuery{Sort: models.SortPriceHigh, Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []string{"Desk Lamp"}, titles(got))

		got, _, err = repo.List(ctx, models.ProductQuery{Page: 5, Limit: 3})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("newest first by default", func(t *testing.T) {
		got, _, err := repo.List(ctx, models.ProductQuery{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"Physics Notes"}, titles(got))
	})
}

func TestProductMarkSoldIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	products := seedProducts(t, repo, primitive.NewObjectID())
	id := products[0].ID

	sold, err := repo.MarkSold(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ProductSold, sold.Status)

	_, err = repo.MarkSold(ctx, id)
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = repo.Update(ctx, id, models.ProductUpdate{})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.ErrorIs(t, repo.Delete(ctx, id), repository.ErrConflict)

	require.NoError(t, repo.Release(ctx, id))
	assert.ErrorIs(t, repo.Release(ctx, id), repository.ErrConflict)

	_, err = repo.MarkSold(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductImagesAreCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	p := models.Product{Title: "Mug", Category: "Kitchen", Images: []string{"a.png"}, Status: models.ProductAvailable}
	require.NoError(t, repo.Create(ctx, &p))

	p.Images[0] = "mutated.png"
	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, stored.Images)
}

func TestPopularCategories(t *testing.T) {
	repo := NewProductRepository()
	seedProducts(t, repo, primitive.NewObjectID())

	got, err := repo.PopularCategories(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryCount{
		{Category: "Books", Count: 2},
		{Category: "Electronics", Count: 1},
	}, got)

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Electronics", "Sports"}, categories)
}

func TestSellerRatingStats(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	seller := primitive.NewObjectID()

	stats, err := repo.SellerRatingStats(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, models.RatingStats{}, stats)

	for _, rating := range []int{5, 4, 0} {
		txn := models.Transaction{SellerID: seller, BuyerID: primitive.NewObjectID(), Status: models.TransactionCompleted}
		require.NoError(t, repo.Create(ctx, &txn))
		if rating > 0 {
			_, err := repo.SetReview(ctx, txn.ID, rating, "ok")
			require.NoError(t, err)
		}
	}

	stats, err = repo.SellerRatingStats(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 4.5, stats.Average, 1e-9)
}

func TestTransactionUpdateStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	txn := models.Transaction{Status: models.TransactionPending}
	require.NoError(t, repo.Create(ctx, &txn))

	updated, err := repo.UpdateStatus(ctx, txn.ID, models.TransactionPending, models.TransactionConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionConfirmed, updated.Status)

	_, err = repo.UpdateStatus(ctx, txn.ID, models.TransactionPending, models.TransactionCancelled)
	assert.ErrorIs(t, err, repository.ErrConflict)

	completed, err := repo.UpdateStatus(ctx, txn.ID, models.TransactionConfirmed, models.TransactionCompleted)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
}

func TestMarkThreadRead(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository()
	product := primitive.NewObjectID()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	send := func(from, to primitive.ObjectID) models.Message {
		msg := models.Message{SenderID: from, ReceiverID: to, ProductID: product, Content: "hi", MessageType: models.MessageText}
		require.NoError(t, repo.Create(ctx, &msg))
		return msg
	}
	send(alice, bob)
	send(alice, bob)
	reply := send(bob, alice)

	n, err := repo.MarkThreadRead(ctx, product, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.MarkThreadRead(ctx, product, alice, bob)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := repo.FindByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsRead)

	thread, err := repo.Thread(ctx, product, bob, alice)
	require.NoError(t, err)
	assert.Len(t, thread, 3)

	involving, err := repo.ListInvolving(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, involving)
}

func TestThreadSortsByCreation(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository()
	product := primitive.NewObjectID()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now()

	for _, m := range []models.Message{
		{SenderID: alice, ReceiverID: bob, ProductID: product, Content: "third", CreatedAt: now},
		{SenderID: bob, ReceiverID: alice, ProductID: product, Content: "first", CreatedAt: now.Add(-2 * time.Minute)},
		{SenderID: alice, ReceiverID: bob, ProductID: product, Content: "second", CreatedAt: now.Add(-time.Minute)},
	} {
		m := m
		require.NoError(t, repo.Create(ctx, &m))
	}

	thread, err := repo.Thread(ctx, product, alice, bob)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{thread[0].Content, thread[1].Content, thread[2].Content})
}

func TestProductListSkipsNegativeOffset(t *testing.T) {
	repo := NewProductRepository()
	seedProducts(t, repo, primitive.NewObjectID())

	assert.NotPanics(t, func() {
		got, total, err := repo.List(context.Background(), models.ProductQuery{Page: math.MaxInt, Limit: 12})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Empty(t, got)
	})
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &models.User{StudentID: "S1", Email: "a@campus.edu"}))

	err := repo.Create(ctx, &models.User{StudentID: "S2", Email: "A@Campus.edu"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	err = repo.Create(ctx, &models.User{StudentID: "S1", Email: "b@campus.edu"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, repo.SetAdmin(ctx, "S1", true))
	u, err := repo.FindByEmail(ctx, "A@CAMPUS.EDU")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	assert.ErrorIs(t, repo.SetAdmin(ctx, "missing", true), repository.ErrNotFound)
}
