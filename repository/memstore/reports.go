package memstore

import (
	"context"
	"sync"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportRepository is an in-memory repository.ReportRepository
type ReportRepository struct {
	mu      sync.RWMutex
	reports []models.Report
}

// NewReportRepository creates an empty ReportRepository
func NewReportRepository() *ReportRepository {
	return &ReportRepository{}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	r.reports = append(r.reports, *report)
	return nil
}

// List returns reports newest first
func (r *ReportRepository) List(ctx context.Context) ([]models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Report, 0, len(r.reports))
	for i := len(r.reports) - 1; i >= 0; i-- {
		result = append(result, r.reports[i])
	}
	return result, nil
}

func (r *ReportRepository) Update(ctx context.Context, id primitive.ObjectID, status models.ReportStatus, adminNote *string) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.reports {
		if r.reports[i].ID != id {
			continue
		}
		r.reports[i].Status = status
		if adminNote != nil {
			r.reports[i].AdminNote = *adminNote
		}
		r.reports[i].UpdatedAt = time.Now()
		report := r.reports[i]
		return &report, nil
	}
	return nil, repository.ErrNotFound
}
