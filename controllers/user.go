package controllers

import (
	"net/http"

	"campus-connect/models"
	"campus-connect/services"

	"github.com/gorilla/mux"
)

// UserController handles account and profile requests
type UserController struct {
	Identity *services.IdentityService
}

// NewUserController creates a new UserController
func NewUserController(identity *services.IdentityService) *UserController {
	return &UserController{Identity: identity}
}

type signupResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := uc.Identity.Signup(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signupResponse{
		Message: "User registered successfully. Please check your email to verify your account.",
		User:    user,
	})
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		badRequest(w, "Verification token missing")
		return
	}
	if err := uc.Identity.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Email verified successfully. You can now log in."})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := uc.Identity.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetProfile returns the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	profile, err := uc.Identity.Profile(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile edits the authenticated user's profile
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var update models.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	profile, err := uc.Identity.UpdateProfile(r.Context(), user, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetUser returns another user's public profile
func (uc *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	summary, err := uc.Identity.PublicProfile(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
