package services

import (
	"context"
	"testing"
	"time"

	"campus-connect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (f *fixture) message(t *testing.T, from, to *models.User, product *models.Product, content string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{
		ID:          primitive.NewObjectID(),
		SenderID:    from.ID,
		ReceiverID:  to.ID,
		ProductID:   product.ID,
		Content:     content,
		MessageType: models.MessageText,
		CreatedAt:   at,
	}
	require.NoError(t, f.store.Messages.Create(context.Background(), m))
	return m
}

func TestConversationsGroupByCounterpart(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")
	pb := f.product(t, b, "Lamp", "Misc", 100)
	pc := f.product(t, c, "Fan", "Misc", 300)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f.message(t, a, b, pb, "is the lamp available?", base)
	f.message(t, b, a, pb, "yes", base.Add(time.Minute))
	f.message(t, a, c, pc, "price for the fan?", base.Add(2*time.Minute))
	lastB := f.message(t, b, a, pb, "still want it?", base.Add(5*time.Minute))
	lastC := f.message(t, c, a, pc, "300", base.Add(3*time.Minute))

	conversations, err := f.svc.Conversations.Conversations(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	assert.Equal(t, b.ID, conversations[0].Counterpart)
	assert.Equal(t, lastB.ID, conversations[0].LastMessage.ID)
	assert.Equal(t, 2, conversations[0].UnreadCount)
	require.NotNil(t, conversations[0].User)
	assert.Equal(t, b.Name, conversations[0].User.Name)

	assert.Equal(t, c.ID, conversations[1].Counterpart)
	assert.Equal(t, lastC.ID, conversations[1].LastMessage.ID)
	assert.Equal(t, 1, conversations[1].UnreadCount)
}

func TestDeriveConversationsUsesTimestampNotLogOrder(t *testing.T) {
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()
	base := time.Now()
	newer := models.Message{ID: primitive.NewObjectID(), SenderID: other, ReceiverID: self, CreatedAt: base.Add(time.Hour)}
	older := models.Message{ID: primitive.NewObjectID(), SenderID: self, ReceiverID: other, CreatedAt: base, IsRead: true}

	conversations := deriveConversations(self, []models.Message{newer, older})
	require.Len(t, conversations, 1)
	assert.Equal(t, newer.ID, conversations[0].LastMessage.ID)
	assert.Equal(t, 1, conversations[0].UnreadCount)
}

func TestThreadMarksReadOnFetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a")
	b := f.user(t, "b")
	p := f.product(t, b, "Lamp", "Misc", 100)
	other := f.product(t, b, "Chair", "Misc", 200)

	base := time.Now()
	f.message(t, b, a, p, "first", base)
	f.message(t, a, b, p, "reply", base.Add(time.Second))
	f.message(t, b, a, p, "second", base.Add(2*time.Second))
	f.message(t, b, a, other, "different product", base.Add(3*time.Second))

	thread, err := f.svc.Conversations.Thread(ctx, a, p.ID.Hex(), b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, thread.UnreadCount)
	require.Len(t, thread.Messages, 3)
	assert.Equal(t, "first", thread.Messages[0].Content)
	assert.Equal(t, "second", thread.Messages[2].Content)
	require.NotNil(t, thread.Messages[0].Sender)
	assert.Equal(t, b.Name, thread.Messages[0].Sender.Name)

	again, err := f.svc.Conversations.Thread(ctx, a, p.ID.Hex(), b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 0, again.UnreadCount)

	// b has not read a's reply, and the other product's thread is untouched
	forB, err := f.svc.Conversations.Thread(ctx, b, p.ID.Hex(), a.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, forB.UnreadCount)
	otherThread, err := f.svc.Conversations.Thread(ctx, a, other.ID.Hex(), b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, otherThread.UnreadCount)
}

func TestThreadIsOldestFirst(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	p := f.product(t, b, "Lamp", "Misc", 100)

	now := time.Now()
	f.message(t, a, b, p, "later", now)
	f.message(t, b, a, p, "earlier", now.Add(-time.Minute))

	thread, err := f.svc.Conversations.Thread(context.Background(), a, p.ID.Hex(), b.ID.Hex())
	require.NoError(t, err)
	require.Len(t, thread.Messages, 2)
	assert.Equal(t, "earlier", thread.Messages[0].Content)
	assert.Equal(t, "later", thread.Messages[1].Content)
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a")
	b := f.user(t, "b")
	p := f.product(t, b, "Lamp", "Misc", 100)

	offer := 80.0
	view, err := f.svc.Conversations.Send(ctx, a, models.SendMessageRequest{
		ReceiverID:  b.ID.Hex(),
		ProductID:   p.ID.Hex(),
		Content:     "would you take 80?",
		MessageType: models.MessageOffer,
		OfferAmount: &offer,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageOffer, view.MessageType)
	require.NotNil(t, view.OfferAmount)
	assert.Equal(t, 80.0, *view.OfferAmount)
	assert.False(t, view.IsRead)

	f.email.Wait()
	sent := f.notifier.to(b.Email)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Body, "would you take 80?")
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a")
	b := f.user(t, "b")
	p := f.product(t, b, "Lamp", "Misc", 100)
	missing := primitive.NewObjectID().Hex()

	cases := []struct {
		name string
		req  models.SendMessageRequest
		kind Kind
	}{
		{"empty content", models.SendMessageRequest{ReceiverID: b.ID.Hex(), ProductID: p.ID.Hex(), Content: "  "}, KindInvalidInput},
		{"offer without amount", models.SendMessageRequest{ReceiverID: b.ID.Hex(), ProductID: p.ID.Hex(), Content: "hi", MessageType: models.MessageOffer}, KindInvalidInput},
		{"pickup without location", models.SendMessageRequest{ReceiverID: b.ID.Hex(), ProductID: p.ID.Hex(), Content: "hi", MessageType: models.MessagePickup}, KindInvalidInput},
		{"unknown type", models.SendMessageRequest{ReceiverID: b.ID.Hex(), ProductID: p.ID.Hex(), Content: "hi", MessageType: "sticker"}, KindInvalidInput},
		{"self", models.SendMessageRequest{ReceiverID: a.ID.Hex(), ProductID: p.ID.Hex(), Content: "hi"}, KindInvalidOperation},
		{"missing receiver", models.SendMessageRequest{ReceiverID: missing, ProductID: p.ID.Hex(), Content: "hi"}, KindNotFound},
		{"missing product", models.SendMessageRequest{ReceiverID: b.ID.Hex(), ProductID: missing, Content: "hi"}, KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Conversations.Send(ctx, a, tc.req)
			requireKind(t, err, tc.kind)
		})
	}
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a")
	b := f.user(t, "b")
	p := f.product(t, b, "Lamp", "Misc", 100)
	m := f.message(t, a, b, p, "hello", time.Now())

	_, err := f.svc.Conversations.MarkRead(ctx, a, m.ID.Hex())
	requireKind(t, err, KindForbidden)

	read, err := f.svc.Conversations.MarkRead(ctx, b, m.ID.Hex())
	require.NoError(t, err)
	assert.True(t, read.IsRead)
}
