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

// ReportRepository stores moderation reports in the reports collection
type ReportRepository struct {
	Collection *mongo.Collection
}

// NewReportRepository creates a ReportRepository
func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{Collection: db.Collection(reportsCollection)}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, report)
	return translate(err)
}

func (r *ReportRepository) List(ctx context.Context) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	reports := make([]models.Report, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) Update(ctx context.Context, id primitive.ObjectID, status models.ReportStatus, adminNote *string) (*models.Report, error) {
	set := bson.M{"status": status, "updated_at": time.Now()}
	if adminNote != nil {
		set["admin_note"] = *adminNote
	}

	var report models.Report
	if err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&report); err != nil {
		return nil, translate(err)
	}
	return &report, nil
}
