package mongostore

import (
	"context"
	"time"

	"campus-connect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransactionRepository stores purchases in the transactions collection
type TransactionRepository struct {
	Collection *mongo.Collection
}

// NewTransactionRepository creates a TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{Collection: db.Collection(transactionsCollection)}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if txn.ID.IsZero() {
		txn.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, txn)
	return translate(err)
}

func (r *TransactionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&txn); err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

func (r *TransactionRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Transaction, error) {
	filter := bson.M{"$or": bson.A{bson.M{"buyer_id": userID}, bson.M{"seller_id": userID}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	txns := make([]models.Transaction, 0)
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.TransactionStatus) (*models.Transaction, error) {
	set := bson.M{"status": to, "updated_at": time.Now()}
	if to == models.TransactionCompleted {
		set["is_completed"] = true
	}

	var txn models.Transaction
	filter := bson.M{"_id": id, "status": from}
	err := r.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, returnAfter()).Decode(&txn)
	if err == mongo.ErrNoDocuments {
		return nil, missOrConflict(ctx, r.Collection, id)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) SetReview(ctx context.Context, id primitive.ObjectID, rating int, review string) (*models.Transaction, error) {
	update := bson.M{"$set": bson.M{"rating": rating, "review": review, "updated_at": time.Now()}}

	var txn models.Transaction
	if err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&txn); err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

// SellerRatingStats averages the ratings of every rated transaction of the
// seller on the server side.
func (r *TransactionRepository) SellerRatingStats(ctx context.Context, sellerID primitive.ObjectID) (models.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"seller_id": sellerID, "rating": bson.M{"$exists": true, "$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingStats{}, err
	}
	defer cursor.Close(ctx)

	var row struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if !cursor.Next(ctx) {
		return models.RatingStats{}, cursor.Err()
	}
	if err := cursor.Decode(&row); err != nil {
		return models.RatingStats{}, err
	}
	return models.RatingStats{Average: row.Average, Count: row.Count}, nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}
