package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"campus-connect/lock"
	"campus-connect/models"
	"campus-connect/repository"
	"campus-connect/repository/memstore"
	"campus-connect/utils"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (n *recordingNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (n *recordingNotifier) to(addr string) []sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEmail
	for _, e := range n.sent {
		if e.To == addr {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	store    repository.Store
	svc      *Services
	email    *utils.EmailService
	notifier *recordingNotifier
	tokens   *utils.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	notifier := &recordingNotifier{}
	email := utils.NewEmailService(notifier, "http://localhost:8000")
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	store := memstore.New()
	return &fixture{
		store:    store,
		svc:      New(store, tokens, email, lock.NewLocalLocker()),
		email:    email,
		notifier: notifier,
		tokens:   tokens,
	}
}

func (f *fixture) user(t *testing.T, studentID string) *models.User {
	t.Helper()
	u := &models.User{
		ID:          primitive.NewObjectID(),
		StudentID:   studentID,
		Email:       strings.ToLower(studentID) + "@campus.edu",
		Name:        "Student " + studentID,
		Hostel:      "H4",
		Room:        "101",
		Preferences: models.DefaultPreferences(),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) admin(t *testing.T, studentID string) *models.User {
	t.Helper()
	u := f.user(t, studentID)
	require.NoError(t, f.store.Users.SetAdmin(context.Background(), studentID, true))
	u.IsAdmin = true
	return u
}

func (f *fixture) product(t *testing.T, seller *models.User, title, category string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: "a " + title,
		Price:       price,
		Category:    category,
		Images:      []string{},
		SellerID:    seller.ID,
		Status:      models.ProductAvailable,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, f.store.Products.Create(context.Background(), p))
	return p
}

// completedPurchase runs a purchase through to completion
func (f *fixture) completedPurchase(t *testing.T, buyer, seller *models.User, price float64) *models.TransactionView {
	t.Helper()
	ctx := context.Background()
	p := f.product(t, seller, "item", "Books", price)
	txn, err := f.svc.Transactions.Purchase(ctx, buyer, models.PurchaseRequest{ProductID: p.ID.Hex(), Amount: price})
	require.NoError(t, err)
	_, err = f.svc.Transactions.UpdateStatus(ctx, seller, txn.ID.Hex(), models.TransactionConfirmed)
	require.NoError(t, err)
	done, err := f.svc.Transactions.UpdateStatus(ctx, seller, txn.ID.Hex(), models.TransactionCompleted)
	require.NoError(t, err)
	return done
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}
