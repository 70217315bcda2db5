package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"campus-connect/models"
	"campus-connect/repository"
	"campus-connect/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionService executes purchases and drives their lifecycle
type TransactionService struct {
	transactions repository.TransactionRepository
	products     repository.ProductRepository
	users        repository.UserRepository
	identity     *IdentityService
	email        *utils.EmailService
}

// NewTransactionService creates a TransactionService
func NewTransactionService(transactions repository.TransactionRepository, products repository.ProductRepository,
	users repository.UserRepository, identity *IdentityService, email *utils.EmailService) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		products:     products,
		users:        users,
		identity:     identity,
		email:        email,
	}
}

// Purchase buys an available product. The product's conditional flip to sold
// is the only guard against a double purchase; if the transaction cannot be
// recorded afterwards the product is released again.
func (s *TransactionService) Purchase(ctx context.Context, buyer *models.User, req models.PurchaseRequest) (*models.TransactionView, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	if !product.IsAvailable() {
		return nil, conflict("product already sold")
	}
	if product.SellerID == buyer.ID {
		return nil, newError(KindInvalidOperation, "cannot buy own product")
	}

	sold, err := s.products.MarkSold(ctx, productID)
	if err != nil {
		return nil, soldConflict(err)
	}

	now := time.Now()
	txn := &models.Transaction{
		ID:             primitive.NewObjectID(),
		BuyerID:        buyer.ID,
		SellerID:       sold.SellerID,
		ProductID:      sold.ID,
		Amount:         req.Amount,
		Status:         models.TransactionPending,
		PaymentMethod:  req.PaymentMethod,
		PickupLocation: req.PickupLocation,
		PickupTime:     req.PickupTime,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	txn.QRCode, err = utils.EncodePickupCode(models.PickupPayload{
		TransactionID: txn.ID.Hex(),
		ProductID:     txn.ProductID.Hex(),
		BuyerID:       txn.BuyerID.Hex(),
		SellerID:      txn.SellerID.Hex(),
		Amount:        txn.Amount,
	})
	if err == nil {
		err = s.transactions.Create(ctx, txn)
	}
	if err != nil {
		s.release(sold.ID)
		return nil, internal("error creating transaction", err)
	}

	views, err := s.views(ctx, []models.Transaction{*txn})
	if err != nil {
		return nil, err
	}

	seller, err := s.users.FindByID(ctx, txn.SellerID)
	if err == nil && seller.WantsEmail() {
		s.email.SendPurchaseNotification(seller.Email, buyer.Name, sold.Title, txn.Amount, txn.PickupLocation)
	}
	return &views[0], nil
}

// release undoes a product flip when the purchase could not be completed
func (s *TransactionService) release(productID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.products.Release(ctx, productID); err != nil {
		log.Printf("Failed to release product %s after aborted purchase: %v", productID.Hex(), err)
	}
}

// Get returns a transaction visible to its buyer or seller
func (s *TransactionService) Get(ctx context.Context, actor *models.User, transactionID string) (*models.TransactionView, error) {
	txn, err := s.find(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Involves(actor.ID) {
		return nil, forbidden("not a participant of this transaction")
	}
	views, err := s.views(ctx, []models.Transaction{*txn})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListMine returns the actor's purchases and sales, newest first
func (s *TransactionService) ListMine(ctx context.Context, actor *models.User) ([]models.TransactionView, error) {
	txns, err := s.transactions.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, internal("error listing transactions", err)
	}
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].CreatedAt.After(txns[j].CreatedAt) })
	return s.views(ctx, txns)
}

// UpdateStatus moves a transaction along its lifecycle. Only the seller may
// do so and only along pending→confirmed→completed, with cancellation
// allowed before completion. Cancelling puts the product back on sale.
func (s *TransactionService) UpdateStatus(ctx context.Context, actor *models.User, transactionID string, status models.TransactionStatus) (*models.TransactionView, error) {
	txn, err := s.find(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.SellerID != actor.ID {
		return nil, forbidden("only the seller can update the transaction status")
	}
	if !status.Valid() {
		return nil, invalidInput("unknown transaction status " + string(status))
	}
	if !txn.Status.CanTransition(status) {
		return nil, conflict("cannot move transaction from " + string(txn.Status) + " to " + string(status))
	}

	updated, err := s.transactions.UpdateStatus(ctx, txn.ID, txn.Status, status)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, conflict("transaction status changed concurrently")
		}
		return nil, fromRepo(err, "transaction")
	}
	if status == models.TransactionCancelled {
		// the cancellation is committed at this point, so a failed release is only logged
		if err := s.products.Release(ctx, updated.ProductID); err != nil && !errors.Is(err, repository.ErrConflict) {
			log.Printf("Failed to release product %s after cancelling transaction %s: %v", updated.ProductID.Hex(), updated.ID.Hex(), err)
		}
	}

	views, err := s.views(ctx, []models.Transaction{*updated})
	if err != nil {
		return nil, err
	}

	buyer, err := s.users.FindByID(ctx, updated.BuyerID)
	if err == nil && buyer.WantsEmail() && views[0].Product != nil {
		s.email.SendStatusNotification(buyer.Email, views[0].Product.Title, string(status))
	}
	return &views[0], nil
}

// SubmitReview records the buyer's rating of a completed transaction and
// rebuilds the seller's aggregate rating. Submitting again overwrites.
func (s *TransactionService) SubmitReview(ctx context.Context, actor *models.User, transactionID string, req models.ReviewRequest) (*models.TransactionView, error) {
	txn, err := s.find(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.BuyerID != actor.ID {
		return nil, forbidden("only the buyer can review the transaction")
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if txn.Status != models.TransactionCompleted {
		return nil, conflict("only completed transactions can be reviewed")
	}

	updated, err := s.transactions.SetReview(ctx, txn.ID, req.Rating, req.Review)
	if err != nil {
		return nil, fromRepo(err, "transaction")
	}
	if _, err := s.identity.RecomputeSellerRating(ctx, updated.SellerID); err != nil {
		return nil, err
	}

	views, err := s.views(ctx, []models.Transaction{*updated})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *TransactionService) find(ctx context.Context, transactionID string) (*models.Transaction, error) {
	id, err := parseID(transactionID, "transaction")
	if err != nil {
		return nil, err
	}
	txn, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "transaction")
	}
	return txn, nil
}

// views attaches buyer, seller and product summaries
func (s *TransactionService) views(ctx context.Context, txns []models.Transaction) ([]models.TransactionView, error) {
	userIDs := make([]primitive.ObjectID, 0, 2*len(txns))
	productIDs := make([]primitive.ObjectID, 0, len(txns))
	for _, t := range txns {
		userIDs = append(userIDs, t.BuyerID, t.SellerID)
		productIDs = append(productIDs, t.ProductID)
	}
	users, err := loadUsers(ctx, s.users, userIDs...)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindByIDs(ctx, unique(productIDs))
	if err != nil {
		return nil, internal("failed to load products", err)
	}

	views := make([]models.TransactionView, 0, len(txns))
	for _, t := range txns {
		views = append(views, models.TransactionView{
			Transaction: t,
			Buyer:       users[t.BuyerID],
			Seller:      users[t.SellerID],
			Product:     products[t.ProductID].Summary(),
		})
	}
	return views, nil
}
