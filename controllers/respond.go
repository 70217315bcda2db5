package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"campus-connect/middleware"
	"campus-connect/models"
	"campus-connect/services"
)

var statusByKind = map[services.Kind]int{
	services.KindNotFound:         http.StatusNotFound,
	services.KindForbidden:        http.StatusForbidden,
	services.KindConflict:         http.StatusConflict,
	services.KindInvalidInput:     http.StatusBadRequest,
	services.KindInvalidOperation: http.StatusBadRequest,
	services.KindUnauthorized:     http.StatusUnauthorized,
	services.KindInternal:         http.StatusInternalServerError,
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Kind    services.Kind `json:"kind"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// writeError maps a service error to its HTTP status. Internal causes are
// logged and never returned.
func writeError(w http.ResponseWriter, err error) {
	kind := services.KindOf(err)
	message := "Internal server error"
	if kind == services.KindInternal {
		log.Printf("internal error: %v", err)
	} else {
		var se *services.Error
		if errors.As(err, &se) {
			message = se.Message
		}
	}
	writeJSON(w, statusByKind[kind], ErrorResponse{Kind: kind, Message: message})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Kind: services.KindInvalidInput, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "Invalid input")
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Kind: services.KindUnauthorized, Message: "Unauthorized"})
	}
	return user, ok
}

type messageResponse struct {
	Message string `json:"message"`
}
