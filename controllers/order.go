package controllers

import (
	"net/http"

	"campus-connect/models"
	"campus-connect/services"

	"github.com/gorilla/mux"
)

// TransactionController handles purchase requests
type TransactionController struct {
	Transactions *services.TransactionService
}

// NewTransactionController creates a new TransactionController
func NewTransactionController(transactions *services.TransactionService) *TransactionController {
	return &TransactionController{Transactions: transactions}
}

// CreateTransaction buys a product for the authenticated user
func (tc *TransactionController) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	txn, err := tc.Transactions.Purchase(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

// GetMyTransactions lists the authenticated user's purchases and sales
func (tc *TransactionController) GetMyTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	txns, err := tc.Transactions.ListMine(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

// GetTransaction returns one transaction to its buyer or seller
func (tc *TransactionController) GetTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	txn, err := tc.Transactions.Get(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

type statusRequest struct {
	Status models.TransactionStatus `json:"status"`
}

// UpdateStatus moves a transaction along its lifecycle (seller only)
func (tc *TransactionController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	txn, err := tc.Transactions.UpdateStatus(r.Context(), user, mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// SubmitReview rates the seller of a completed transaction (buyer only)
func (tc *TransactionController) SubmitReview(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	txn, err := tc.Transactions.SubmitReview(r.Context(), user, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}
