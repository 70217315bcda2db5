package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-connect/lock"
	"campus-connect/models"
	"campus-connect/repository"
	"campus-connect/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// SignupRequest is the input for creating an account
type SignupRequest struct {
	StudentID   string `json:"student_id" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required,max=100"`
	Hostel      string `json:"hostel" validate:"required,max=100"`
	Room        string `json:"room" validate:"required,max=20"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	ContactInfo string `json:"contact_info" validate:"max=200"`
}

// LoginRequest is the input for exchanging credentials for a token
type LoginRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// AuthResult is returned by a successful login
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// IdentityService manages accounts, credentials and seller ratings
type IdentityService struct {
	users        repository.UserRepository
	transactions repository.TransactionRepository
	tokens       *utils.TokenIssuer
	email        *utils.EmailService
	locker       lock.Locker
}

// NewIdentityService creates an IdentityService
func NewIdentityService(users repository.UserRepository, transactions repository.TransactionRepository,
	tokens *utils.TokenIssuer, email *utils.EmailService, locker lock.Locker) *IdentityService {
	return &IdentityService{users: users, transactions: transactions, tokens: tokens, email: email, locker: locker}
}

// Signup creates an unverified account and sends the verification link
func (s *IdentityService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.StudentID = strings.TrimSpace(req.StudentID)
	if err := validateInput(req); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("error hashing password", err)
	}

	now := time.Now()
	user := &models.User{
		ID:          primitive.NewObjectID(),
		StudentID:   req.StudentID,
		Email:       req.Email,
		Name:        req.Name,
		Hostel:      req.Hostel,
		Room:        req.Room,
		Password:    string(hashedPassword),
		ContactInfo: req.ContactInfo,
		Preferences: models.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("a user with this student id or email already exists")
		}
		return nil, internal("error creating user", err)
	}

	token, err := s.tokens.GenerateJWT(user.ID.Hex(), utils.PurposeVerifyEmail)
	if err != nil {
		return nil, internal("error generating verification token", err)
	}
	s.email.SendVerificationEmail(user.Email, token)
	return user, nil
}

// VerifyEmail marks the account named by a verification token as verified
func (s *IdentityService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseJWT(token, utils.PurposeVerifyEmail)
	if err != nil {
		return invalidInput("invalid or expired verification token")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return invalidInput("invalid or expired verification token")
	}
	return fromRepo(s.users.SetVerified(ctx, id), "user")
}

// Login checks the credentials and issues a session token
func (s *IdentityService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	user, err := s.users.FindByStudentID(ctx, strings.TrimSpace(req.StudentID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindUnauthorized, "invalid credentials")
		}
		return nil, internal("error finding user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, newError(KindUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateJWT(user.ID.Hex(), utils.PurposeSession)
	if err != nil {
		return nil, internal("error generating token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the current user record
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ParseJWT(token, utils.PurposeSession)
	if err != nil {
		return nil, newError(KindUnauthorized, "invalid token")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, newError(KindUnauthorized, "invalid token")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindUnauthorized, "user no longer exists")
		}
		return nil, internal("error loading user", err)
	}
	return user, nil
}

// Profile returns the caller's own record
func (s *IdentityService) Profile(ctx context.Context, actor *models.User) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fromRepo(err, "user")
	}
	return user, nil
}

// PublicProfile returns the display view of another user
func (s *IdentityService) PublicProfile(ctx context.Context, userID string) (*models.UserSummary, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "user")
	}
	return user.Summary(), nil
}

// UpdateProfile edits the caller's profile fields
func (s *IdentityService) UpdateProfile(ctx context.Context, actor *models.User, update models.ProfileUpdate) (*models.User, error) {
	if err := validateInput(update); err != nil {
		return nil, err
	}
	user, err := s.users.UpdateProfile(ctx, actor.ID, update)
	if err != nil {
		return nil, fromRepo(err, "user")
	}
	return user, nil
}

// PromoteAdmin sets the admin flag on the account with the given student id
func (s *IdentityService) PromoteAdmin(ctx context.Context, studentID string) error {
	return fromRepo(s.users.SetAdmin(ctx, studentID, true), "user")
}

// RecomputeSellerRating rebuilds the seller's rating from every rated
// transaction. It holds the seller's lock so concurrent reviews cannot
// overwrite each other with stale aggregates.
func (s *IdentityService) RecomputeSellerRating(ctx context.Context, sellerID primitive.ObjectID) (models.RatingStats, error) {
	unlock, err := s.locker.Lock(ctx, "seller-rating:"+sellerID.Hex())
	if err != nil {
		return models.RatingStats{}, internal("failed to lock seller rating", err)
	}
	defer unlock()

	stats, err := s.transactions.SellerRatingStats(ctx, sellerID)
	if err != nil {
		return models.RatingStats{}, internal("failed to aggregate seller rating", err)
	}
	if err := s.users.SetRating(ctx, sellerID, stats); err != nil {
		return models.RatingStats{}, fromRepo(err, "seller")
	}
	return stats, nil
}
