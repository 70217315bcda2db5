package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageType distinguishes plain chat from offers and pickup coordination
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageOffer  MessageType = "offer"
	MessagePickup MessageType = "pickup"
)

// Message is a single entry in the chat log between two students about a product
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SenderID       primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID     primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	ProductID      primitive.ObjectID `bson:"product_id" json:"product_id"`
	Content        string             `bson:"content" json:"content"`
	IsRead         bool               `bson:"is_read" json:"is_read"`
	MessageType    MessageType        `bson:"message_type" json:"message_type"`
	OfferAmount    *float64           `bson:"offer_amount,omitempty" json:"offer_amount,omitempty"`
	PickupLocation string             `bson:"pickup_location,omitempty" json:"pickup_location,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// Counterpart returns the participant that is not self
func (m *Message) Counterpart(self primitive.ObjectID) primitive.ObjectID {
	if m.SenderID == self {
		return m.ReceiverID
	}
	return m.SenderID
}

// MessageView is a message with sender and receiver attached
type MessageView struct {
	Message
	Sender   *UserSummary `json:"sender,omitempty"`
	Receiver *UserSummary `json:"receiver,omitempty"`
}

// SendMessageRequest is the input for posting a message
type SendMessageRequest struct {
	ReceiverID     string      `json:"receiver_id" validate:"required"`
	ProductID      string      `json:"product_id" validate:"required"`
	Content        string      `json:"content" validate:"required,max=2000"`
	MessageType    MessageType `json:"message_type" validate:"omitempty,oneof=text offer pickup"`
	OfferAmount    *float64    `json:"offer_amount,omitempty"`
	PickupLocation string      `json:"pickup_location,omitempty" validate:"max=200"`
}

// Conversation is derived from the message log: one row per counterpart
type Conversation struct {
	Counterpart primitive.ObjectID `json:"counterpart_id"`
	User        *UserSummary       `json:"user,omitempty"`
	LastMessage Message            `json:"last_message"`
	UnreadCount int                `json:"unread_count"`
}

// Thread is the product-scoped exchange between two students
type Thread struct {
	Messages    []MessageView `json:"messages"`
	UnreadCount int           `json:"unread_count"`
}
