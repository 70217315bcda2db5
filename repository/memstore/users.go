package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is an in-memory repository.UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

// NewUserRepository creates an empty UserRepository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.StudentID == user.StudentID || strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return u.StudentID == studentID })
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) findBy(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(&u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found[id] = &u
		}
	}
	return found, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	update.Apply(&u)
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return &u, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.modify(id, func(u *models.User) { u.IsVerified = true })
}

func (r *UserRepository) SetAdmin(ctx context.Context, studentID string, admin bool) error {
	u, err := r.FindByStudentID(ctx, studentID)
	if err != nil {
		return err
	}
	return r.modify(u.ID, func(u *models.User) { u.IsAdmin = admin })
}

func (r *UserRepository) SetRating(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error {
	return r.modify(id, func(u *models.User) {
		u.Rating = stats.Average
		u.TotalRatings = stats.Count
	})
}

func (r *UserRepository) modify(id primitive.ObjectID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *UserRepository) Count(ctx context.Context, verifiedOnly bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.users {
		if !verifiedOnly || u.IsVerified {
			n++
		}
	}
	return n, nil
}
