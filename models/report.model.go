package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetType names the kind of entity a report is filed against
type TargetType string

const (
	TargetProduct TargetType = "product"
	TargetUser    TargetType = "user"
)

// ReportTarget is the reported entity. Only one of the two kinds is ever set;
// construct it with ProductTarget or UserTarget.
type ReportTarget struct {
	Type TargetType         `bson:"target_type" json:"target_type"`
	ID   primitive.ObjectID `bson:"target_id" json:"target_id"`
}

// ProductTarget returns a target referring to a listing
func ProductTarget(id primitive.ObjectID) ReportTarget {
	return ReportTarget{Type: TargetProduct, ID: id}
}

// UserTarget returns a target referring to an account
func UserTarget(id primitive.ObjectID) ReportTarget {
	return ReportTarget{Type: TargetUser, ID: id}
}

// ReportStatus is the moderation state of a report
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportResolved ReportStatus = "resolved"
)

// Valid reports whether s is a known status
func (s ReportStatus) Valid() bool {
	return s == ReportPending || s == ReportReviewed || s == ReportResolved
}

// Report is an abuse report against a product or a user
type Report struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReporterID primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	Target     ReportTarget       `bson:",inline" json:"target"`
	Reason     string             `bson:"reason" json:"reason"`
	Status     ReportStatus       `bson:"status" json:"status"`
	AdminNote  string             `bson:"admin_note,omitempty" json:"admin_note,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// ReportView is a report with the reporter attached
type ReportView struct {
	Report
	Reporter *ReporterSummary `json:"reporter,omitempty"`
}

// ReporterSummary identifies who filed a report to moderators
type ReporterSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// CreateReportRequest is the input for filing a report
type CreateReportRequest struct {
	TargetType TargetType `json:"target_type" validate:"required,oneof=product user"`
	TargetID   string     `json:"target_id" validate:"required"`
	Reason     string     `json:"reason" validate:"required,max=1000"`
}

// UpdateReportRequest is the moderator input for a report
type UpdateReportRequest struct {
	Status    ReportStatus `json:"status" validate:"required,oneof=pending reviewed resolved"`
	AdminNote *string      `json:"admin_note,omitempty" validate:"omitempty,max=2000"`
}
