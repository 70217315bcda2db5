package mongostore

import (
	"context"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WishlistRepository stores saved products in the wishlists collection
type WishlistRepository struct {
	Collection *mongo.Collection
}

// NewWishlistRepository creates a WishlistRepository
func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{Collection: db.Collection(wishlistCollection)}
}

// Add relies on the unique (user_id, product_id) index to reject duplicates
func (r *WishlistRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, item)
	return translate(err)
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *WishlistRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	items := make([]models.WishlistItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *WishlistRepository) Exists(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	n, err := r.Collection.CountDocuments(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
