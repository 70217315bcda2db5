package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionRepository is an in-memory repository.TransactionRepository
type TransactionRepository struct {
	mu   sync.RWMutex
	txns map[primitive.ObjectID]models.Transaction
}

// NewTransactionRepository creates an empty TransactionRepository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{txns: make(map[primitive.ObjectID]models.Transaction)}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if txn.ID.IsZero() {
		txn.ID = primitive.NewObjectID()
	}
	if _, exists := r.txns[txn.ID]; exists {
		return repository.ErrDuplicate
	}
	r.txns[txn.ID] = *txn
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.txns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *TransactionRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Transaction, error) {
	r.mu.RLock()
	result := make([]models.Transaction, 0)
	for _, t := range r.txns {
		if t.Involves(userID) {
			result = append(result, t)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.TransactionStatus) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.txns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if t.Status != from {
		return nil, repository.ErrConflict
	}
	t.Status = to
	if to == models.TransactionCompleted {
		t.IsCompleted = true
	}
	t.UpdatedAt = time.Now()
	r.txns[id] = t
	return &t, nil
}

func (r *TransactionRepository) SetReview(ctx context.Context, id primitive.ObjectID, rating int, review string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.txns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Rating = &rating
	t.Review = review
	t.UpdatedAt = time.Now()
	r.txns[id] = t
	return &t, nil
}

func (r *TransactionRepository) SellerRatingStats(ctx context.Context, sellerID primitive.ObjectID) (models.RatingStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum, count int
	for _, t := range r.txns {
		if t.SellerID == sellerID && t.Rating != nil {
			sum += *t.Rating
			count++
		}
	}
	if count == 0 {
		return models.RatingStats{}, nil
	}
	return models.RatingStats{Average: float64(sum) / float64(count), Count: count}, nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.txns)), nil
}
