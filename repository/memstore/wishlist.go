package memstore

import (
	"context"
	"sync"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistRepository is an in-memory repository.WishlistRepository
type WishlistRepository struct {
	mu    sync.RWMutex
	items []models.WishlistItem
}

// NewWishlistRepository creates an empty WishlistRepository
func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{}
}

func (r *WishlistRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return repository.ErrDuplicate
		}
	}
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// List returns the user's items newest first
func (r *WishlistRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.WishlistItem, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			result = append(result, r.items[i])
		}
	}
	return result, nil
}

func (r *WishlistRepository) Exists(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}
