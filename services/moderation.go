package services

import (
	"context"
	"strings"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ModerationService records abuse reports and lets admins triage them
type ModerationService struct {
	reports  repository.ReportRepository
	users    repository.UserRepository
	products repository.ProductRepository
}

// NewModerationService creates a ModerationService
func NewModerationService(reports repository.ReportRepository, users repository.UserRepository,
	products repository.ProductRepository) *ModerationService {
	return &ModerationService{reports: reports, users: users, products: products}
}

// Create files a report against an existing product or user
func (s *ModerationService) Create(ctx context.Context, reporter *models.User, req models.CreateReportRequest) (*models.Report, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	id, err := parseID(req.TargetID, "target")
	if err != nil {
		return nil, err
	}

	var target models.ReportTarget
	switch req.TargetType {
	case models.TargetProduct:
		if _, err := s.products.FindByID(ctx, id); err != nil {
			return nil, fromRepo(err, "product")
		}
		target = models.ProductTarget(id)
	case models.TargetUser:
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return nil, fromRepo(err, "user")
		}
		target = models.UserTarget(id)
	default:
		return nil, invalidInput("unknown target type " + string(req.TargetType))
	}

	now := time.Now()
	report := &models.Report{
		ID:         primitive.NewObjectID(),
		ReporterID: reporter.ID,
		Target:     target,
		Reason:     req.Reason,
		Status:     models.ReportPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, internal("error creating report", err)
	}
	return report, nil
}

// List returns every report, newest first, with reporter details
func (s *ModerationService) List(ctx context.Context, actor *models.User) ([]models.ReportView, error) {
	if err := requireAdmin(ctx, s.users, actor); err != nil {
		return nil, err
	}
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, internal("error listing reports", err)
	}

	ids := make([]primitive.ObjectID, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ReporterID)
	}
	reporters, err := s.users.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, internal("failed to load reporters", err)
	}

	views := make([]models.ReportView, 0, len(reports))
	for _, r := range reports {
		view := models.ReportView{Report: r}
		if u, ok := reporters[r.ReporterID]; ok {
			view.Reporter = &models.ReporterSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		views = append(views, view)
	}
	return views, nil
}

// Update sets a report's status and optional admin note
func (s *ModerationService) Update(ctx context.Context, actor *models.User, reportID string, req models.UpdateReportRequest) (*models.Report, error) {
	if err := requireAdmin(ctx, s.users, actor); err != nil {
		return nil, err
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}
	id, err := parseID(reportID, "report")
	if err != nil {
		return nil, err
	}
	report, err := s.reports.Update(ctx, id, req.Status, req.AdminNote)
	if err != nil {
		return nil, fromRepo(err, "report")
	}
	return report, nil
}
