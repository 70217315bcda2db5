// Package repository declares the persistence contracts used by the services.
// Implementations live in mongostore (production) and memstore (tests and
// local development).
package repository

import (
	"context"
	"errors"

	"campus-connect/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when the addressed document does not exist
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrConflict is returned when a conditional write did not match the expected state
	ErrConflict = errors.New("repository: state conflict")
)

// UserRepository stores student accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
	SetVerified(ctx context.Context, id primitive.ObjectID) error
	SetAdmin(ctx context.Context, studentID string, admin bool) error
	SetRating(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error
	Count(ctx context.Context, verifiedOnly bool) (int64, error)
}

// ProductRepository stores listings
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)
	List(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error)
	// Update applies the change only while the product is still available;
	// ErrConflict otherwise.
	Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error)
	// Delete removes the product only while it is still available.
	Delete(ctx context.Context, id primitive.ObjectID) error
	// MarkSold flips the status to sold only if it is currently available. It
	// is the single guard against double purchase.
	MarkSold(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	// Release flips a sold product back to available.
	Release(ctx context.Context, id primitive.ObjectID) error
	Categories(ctx context.Context) ([]string, error)
	PopularCategories(ctx context.Context, limit int) ([]models.CategoryCount, error)
	Count(ctx context.Context) (int64, error)
}

// TransactionRepository stores purchases
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Transaction, error)
	// UpdateStatus moves the transaction from one status to another; ErrConflict
	// if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.TransactionStatus) (*models.Transaction, error)
	SetReview(ctx context.Context, id primitive.ObjectID, rating int, review string) (*models.Transaction, error)
	// SellerRatingStats aggregates every rated transaction of the seller.
	SellerRatingStats(ctx context.Context, sellerID primitive.ObjectID) (models.RatingStats, error)
	Count(ctx context.Context) (int64, error)
}

// MessageRepository stores the chat log
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	// ListInvolving returns every message sent or received by the user,
	// oldest first.
	ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
	// Thread returns the messages between a and b about the product, oldest first.
	Thread(ctx context.Context, productID, a, b primitive.ObjectID) ([]models.Message, error)
	// MarkThreadRead marks every unread message from sender to receiver about the product.
	MarkThreadRead(ctx context.Context, productID, sender, receiver primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
}

// ReportRepository stores moderation reports
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context) ([]models.Report, error)
	Update(ctx context.Context, id primitive.ObjectID, status models.ReportStatus, adminNote *string) (*models.Report, error)
}

// WishlistRepository stores saved products
type WishlistRepository interface {
	Add(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, userID, productID primitive.ObjectID) error
	List(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error)
	Exists(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
}

// Store bundles the repositories of one backend
type Store struct {
	Users        UserRepository
	Products     ProductRepository
	Transactions TransactionRepository
	Messages     MessageRepository
	Reports      ReportRepository
	Wishlist     WishlistRepository
}
