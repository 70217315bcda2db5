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

// MessageRepository is an in-memory repository.MessageRepository. Messages are
// kept in insertion order, which is also creation order.
type MessageRepository struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewMessageRepository creates an empty MessageRepository
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.messages {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MessageRepository) ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	return r.filter(func(m *models.Message) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	}), nil
}

// Thread returns the messages between a and b about productID, oldest first
func (r *MessageRepository) Thread(ctx context.Context, productID, a, b primitive.ObjectID) ([]models.Message, error) {
	msgs := r.filter(func(m *models.Message) bool {
		if m.ProductID != productID {
			return false
		}
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	})
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (r *MessageRepository) filter(keep func(*models.Message) bool) []models.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Message, 0)
	for i := range r.messages {
		if keep(&r.messages[i]) {
			result = append(result, r.messages[i])
		}
	}
	return result
}

func (r *MessageRepository) MarkThreadRead(ctx context.Context, productID, sender, receiver primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := time.Now()
	for i := range r.messages {
		m := &r.messages[i]
		if m.ProductID == productID && m.SenderID == sender && m.ReceiverID == receiver && !m.IsRead {
			m.IsRead = true
			m.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages[i].IsRead = true
			r.messages[i].UpdatedAt = time.Now()
			m := r.messages[i]
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}
