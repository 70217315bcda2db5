package mongostore

import (
	"context"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository stores users in the users collection
type UserRepository struct {
	Collection *mongo.Collection
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Collection: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, user)
	return translate(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"student_id": studentID})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.Collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	found := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		found[user.ID] = &user
	}
	return found, cursor.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Hostel != nil {
		set["hostel"] = *update.Hostel
	}
	if update.Room != nil {
		set["room"] = *update.Room
	}
	if update.ContactInfo != nil {
		set["contact_info"] = *update.ContactInfo
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.ProfilePic != nil {
		set["profile_pic"] = *update.ProfilePic
	}
	if update.Preferences != nil {
		set["preferences"] = *update.Preferences
	}

	var user models.User
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.set(ctx, bson.M{"_id": id}, bson.M{"is_verified": true})
}

func (r *UserRepository) SetAdmin(ctx context.Context, studentID string, admin bool) error {
	return r.set(ctx, bson.M{"student_id": studentID}, bson.M{"is_admin": admin})
}

func (r *UserRepository) SetRating(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error {
	return r.set(ctx, bson.M{"_id": id}, bson.M{"rating": stats.Average, "total_ratings": stats.Count})
}

func (r *UserRepository) set(ctx context.Context, filter, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context, verifiedOnly bool) (int64, error) {
	filter := bson.M{}
	if verifiedOnly {
		filter["is_verified"] = true
	}
	return r.Collection.CountDocuments(ctx, filter)
}
