package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionStatus is the lifecycle state of a purchase
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionConfirmed TransactionStatus = "confirmed"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionConfirmed, TransactionCompleted, TransactionCancelled:
		return true
	}
	return false
}

// transitions lists the statuses reachable from each status
var transitions = map[TransactionStatus][]TransactionStatus{
	TransactionPending:   {TransactionConfirmed, TransactionCancelled},
	TransactionConfirmed: {TransactionCompleted, TransactionCancelled},
}

// CanTransition reports whether a seller may move a transaction from s to next
func (s TransactionStatus) CanTransition(next TransactionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod is recorded on the transaction; no payment is processed
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentUPI   PaymentMethod = "upi"
	PaymentPaytm PaymentMethod = "paytm"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentUPI || m == PaymentPaytm
}

// Transaction represents a purchase of a single product between two students
type Transaction struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BuyerID        primitive.ObjectID `bson:"buyer_id" json:"buyer_id"`
	SellerID       primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	ProductID      primitive.ObjectID `bson:"product_id" json:"product_id"`
	Amount         float64            `bson:"amount" json:"amount"`
	Status         TransactionStatus  `bson:"status" json:"status"`
	PaymentMethod  PaymentMethod      `bson:"payment_method" json:"payment_method"`
	PickupLocation string             `bson:"pickup_location,omitempty" json:"pickup_location,omitempty"`
	PickupTime     *time.Time         `bson:"pickup_time,omitempty" json:"pickup_time,omitempty"`
	QRCode         string             `bson:"qr_code,omitempty" json:"qr_code,omitempty"`
	Rating         *int               `bson:"rating,omitempty" json:"rating,omitempty"`
	Review         string             `bson:"review,omitempty" json:"review,omitempty"`
	IsCompleted    bool               `bson:"is_completed" json:"is_completed"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// Involves reports whether the user is the buyer or the seller
func (t *Transaction) Involves(userID primitive.ObjectID) bool {
	return t.BuyerID == userID || t.SellerID == userID
}

// TransactionView is a transaction with its participants and product attached
type TransactionView struct {
	Transaction
	Buyer   *UserSummary    `json:"buyer,omitempty"`
	Seller  *UserSummary    `json:"seller,omitempty"`
	Product *ProductSummary `json:"product,omitempty"`
}

// PurchaseRequest is the input for buying a product
type PurchaseRequest struct {
	ProductID      string        `json:"product_id" validate:"required"`
	Amount         float64       `json:"amount" validate:"gt=0"`
	PaymentMethod  PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash upi paytm"`
	PickupLocation string        `json:"pickup_location" validate:"max=200"`
	PickupTime     *time.Time    `json:"pickup_time,omitempty"`
}

// ReviewRequest is the input a buyer submits after a completed purchase
type ReviewRequest struct {
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Review string `json:"review" validate:"max=2000"`
}

// PickupPayload is encoded into the pickup confirmation code
type PickupPayload struct {
	TransactionID string  `json:"transaction_id"`
	ProductID     string  `json:"product_id"`
	BuyerID       string  `json:"buyer_id"`
	SellerID      string  `json:"seller_id"`
	Amount        float64 `json:"amount"`
}
