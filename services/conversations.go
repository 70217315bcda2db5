package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"campus-connect/models"
	"campus-connect/repository"
	"campus-connect/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConversationService stores messages and derives conversations from them
type ConversationService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	products repository.ProductRepository
	email    *utils.EmailService
}

// NewConversationService creates a ConversationService
func NewConversationService(messages repository.MessageRepository, users repository.UserRepository,
	products repository.ProductRepository, email *utils.EmailService) *ConversationService {
	return &ConversationService{messages: messages, users: users, products: products, email: email}
}

// Send posts a message about a product and notifies the receiver
func (s *ConversationService) Send(ctx context.Context, sender *models.User, req models.SendMessageRequest) (*models.MessageView, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	receiverID, err := parseID(req.ReceiverID, "receiver")
	if err != nil {
		return nil, err
	}
	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	if req.MessageType == "" {
		req.MessageType = models.MessageText
	}
	switch req.MessageType {
	case models.MessageOffer:
		if req.OfferAmount == nil || *req.OfferAmount <= 0 {
			return nil, invalidInput("an offer requires a positive offer_amount")
		}
	case models.MessagePickup:
		if strings.TrimSpace(req.PickupLocation) == "" {
			return nil, invalidInput("a pickup message requires a pickup_location")
		}
	}
	if receiverID == sender.ID {
		return nil, newError(KindInvalidOperation, "cannot message yourself")
	}

	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		return nil, fromRepo(err, "receiver")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, fromRepo(err, "product")
	}

	now := time.Now()
	msg := &models.Message{
		ID:          primitive.NewObjectID(),
		SenderID:    sender.ID,
		ReceiverID:  receiverID,
		ProductID:   productID,
		Content:     req.Content,
		MessageType: req.MessageType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch req.MessageType {
	case models.MessageOffer:
		msg.OfferAmount = req.OfferAmount
	case models.MessagePickup:
		msg.PickupLocation = req.PickupLocation
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, internal("error sending message", err)
	}

	if receiver.WantsEmail() {
		s.email.SendMessageNotification(receiver.Email, sender.Name, msg.Content)
	}
	return &models.MessageView{Message: *msg, Sender: sender.Summary(), Receiver: receiver.Summary()}, nil
}

// Conversations lists one summary per counterpart of self, most recent first
func (s *ConversationService) Conversations(ctx context.Context, self *models.User) ([]models.Conversation, error) {
	msgs, err := s.messages.ListInvolving(ctx, self.ID)
	if err != nil {
		return nil, internal("error loading messages", err)
	}
	conversations := deriveConversations(self.ID, msgs)

	ids := make([]primitive.ObjectID, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.Counterpart)
	}
	users, err := loadUsers(ctx, s.users, ids...)
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		conversations[i].User = users[conversations[i].Counterpart]
	}
	return conversations, nil
}

// deriveConversations groups the message log by counterpart. The last
// message is the latest by creation time; on equal times the one later in
// the log wins.
func deriveConversations(self primitive.ObjectID, msgs []models.Message) []models.Conversation {
	index := make(map[primitive.ObjectID]int)
	conversations := make([]models.Conversation, 0)
	for _, m := range msgs {
		if m.SenderID != self && m.ReceiverID != self {
			continue
		}
		other := m.Counterpart(self)
		i, ok := index[other]
		if !ok {
			i = len(conversations)
			index[other] = i
			conversations = append(conversations, models.Conversation{Counterpart: other, LastMessage: m})
		} else if !m.CreatedAt.Before(conversations[i].LastMessage.CreatedAt) {
			conversations[i].LastMessage = m
		}
		if m.ReceiverID == self && !m.IsRead {
			conversations[i].UnreadCount++
		}
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})
	return conversations
}

// Thread returns the product-scoped exchange with the counterpart, oldest
// first, and marks the counterpart's messages to self as read. UnreadCount
// reflects the state before the fetch.
func (s *ConversationService) Thread(ctx context.Context, self *models.User, productID, counterpartID string) (*models.Thread, error) {
	pid, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	other, err := parseID(counterpartID, "user")
	if err != nil {
		return nil, err
	}

	msgs, err := s.messages.Thread(ctx, pid, self.ID, other)
	if err != nil {
		return nil, internal("error loading thread", err)
	}
	users, err := loadUsers(ctx, s.users, self.ID, other)
	if err != nil {
		return nil, err
	}

	thread := &models.Thread{Messages: make([]models.MessageView, 0, len(msgs))}
	for _, m := range msgs {
		if m.ReceiverID == self.ID && !m.IsRead {
			thread.UnreadCount++
		}
		thread.Messages = append(thread.Messages, models.MessageView{
			Message:  m,
			Sender:   users[m.SenderID],
			Receiver: users[m.ReceiverID],
		})
	}

	if thread.UnreadCount > 0 {
		if _, err := s.messages.MarkThreadRead(ctx, pid, other, self.ID); err != nil {
			return nil, internal("error marking messages read", err)
		}
	}
	return thread, nil
}

// MarkRead marks a single message read; only its receiver may do so
func (s *ConversationService) MarkRead(ctx context.Context, self *models.User, messageID string) (*models.Message, error) {
	id, err := parseID(messageID, "message")
	if err != nil {
		return nil, err
	}
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "message")
	}
	if msg.ReceiverID != self.ID {
		return nil, forbidden("only the receiver can mark a message read")
	}
	if msg.IsRead {
		return msg, nil
	}
	updated, err := s.messages.MarkRead(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "message")
	}
	return updated, nil
}
