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

// MessageRepository stores the chat log in the messages collection
type MessageRepository struct {
	Collection *mongo.Collection
}

// NewMessageRepository creates a MessageRepository
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{Collection: db.Collection(messagesCollection)}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, msg)
	return translate(err)
}

func (r *MessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var msg models.Message
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

func (r *MessageRepository) ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}})
}

func (r *MessageRepository) Thread(ctx context.Context, productID, a, b primitive.ObjectID) ([]models.Message, error) {
	return r.find(ctx, bson.M{
		"product_id": productID,
		"$or": bson.A{
			bson.M{"sender_id": a, "receiver_id": b},
			bson.M{"sender_id": b, "receiver_id": a},
		},
	})
}

// find returns matching messages oldest first
func (r *MessageRepository) find(ctx context.Context, filter bson.M) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	messages := make([]models.Message, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MessageRepository) MarkThreadRead(ctx context.Context, productID, sender, receiver primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"product_id":  productID,
		"sender_id":   sender,
		"receiver_id": receiver,
		"is_read":     false,
	}
	result, err := r.Collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now()}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var msg models.Message
	update := bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now()}}
	if err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&msg); err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}
