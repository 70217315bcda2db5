package controllers

import (
	"net/http"

	"campus-connect/models"
	"campus-connect/services"

	"github.com/gorilla/mux"
)

// ReportController handles moderation requests
type ReportController struct {
	Moderation *services.ModerationService
}

// NewReportController creates a new ReportController
func NewReportController(moderation *services.ModerationService) *ReportController {
	return &ReportController{Moderation: moderation}
}

// CreateReport files a report against a product or user
func (rc *ReportController) CreateReport(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := rc.Moderation.Create(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// GetReports lists every report (admin only)
func (rc *ReportController) GetReports(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	reports, err := rc.Moderation.List(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// UpdateReport sets a report's status and note (admin only)
func (rc *ReportController) UpdateReport(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.UpdateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := rc.Moderation.Update(r.Context(), user, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
