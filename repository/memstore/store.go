// Package memstore keeps every collection in process memory. Each repository
// guards its collection with its own mutex so conditional writes are atomic.
package memstore

import (
	"campus-connect/repository"
)

// New returns an empty in-memory store
func New() repository.Store {
	return repository.Store{
		Users:        NewUserRepository(),
		Products:     NewProductRepository(),
		Transactions: NewTransactionRepository(),
		Messages:     NewMessageRepository(),
		Reports:      NewReportRepository(),
		Wishlist:     NewWishlistRepository(),
	}
}
