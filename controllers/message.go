package controllers

import (
	"net/http"

	"campus-connect/models"
	"campus-connect/services"

	"github.com/gorilla/mux"
)

// MessageController handles chat requests
type MessageController struct {
	Conversations *services.ConversationService
}

// NewMessageController creates a new MessageController
func NewMessageController(conversations *services.ConversationService) *MessageController {
	return &MessageController{Conversations: conversations}
}

// SendMessage posts a message about a product
func (mc *MessageController) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := mc.Conversations.Send(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// GetConversations lists one summary per counterpart
func (mc *MessageController) GetConversations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	conversations, err := mc.Conversations.Conversations(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

// GetThread returns the messages with one user about one product and marks
// the incoming ones read
func (mc *MessageController) GetThread(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	thread, err := mc.Conversations.Thread(r.Context(), user, vars["productId"], vars["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// MarkRead marks one message read
func (mc *MessageController) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	msg, err := mc.Conversations.MarkRead(r.Context(), user, mux.Vars(r)["messageId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
