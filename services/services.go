// Package services holds the marketplace business rules. Services depend on
// the repository contracts only; HTTP concerns live in controllers.
package services

import (
	"context"

	"campus-connect/lock"
	"campus-connect/models"
	"campus-connect/repository"
	"campus-connect/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Services bundles every service built on one store
type Services struct {
	Identity      *IdentityService
	Catalog       *CatalogService
	Transactions  *TransactionService
	Conversations *ConversationService
	Moderation    *ModerationService
	Wishlist      *WishlistService
	Analytics     *AnalyticsService
}

// New wires the services together
func New(store repository.Store, tokens *utils.TokenIssuer, email *utils.EmailService, locker lock.Locker) *Services {
	identity := NewIdentityService(store.Users, store.Transactions, tokens, email, locker)
	catalog := NewCatalogService(store.Products, store.Users)
	return &Services{
		Identity:      identity,
		Catalog:       catalog,
		Transactions:  NewTransactionService(store.Transactions, store.Products, store.Users, identity, email),
		Conversations: NewConversationService(store.Messages, store.Users, store.Products, email),
		Moderation:    NewModerationService(store.Reports, store.Users, store.Products),
		Wishlist:      NewWishlistService(store.Wishlist, store.Products, catalog),
		Analytics:     NewAnalyticsService(store.Users, store.Products, store.Transactions),
	}
}

// requireAdmin reloads the actor so a revoked admin flag takes effect immediately
func requireAdmin(ctx context.Context, users repository.UserRepository, actor *models.User) error {
	u, err := users.FindByID(ctx, actor.ID)
	if err != nil {
		return fromRepo(err, "user")
	}
	if !u.IsAdmin {
		return forbidden("admin access required")
	}
	return nil
}

// loadUsers fetches the summaries for a set of user ids
func loadUsers(ctx context.Context, users repository.UserRepository, ids ...primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	found, err := users.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, internal("failed to load users", err)
	}
	summaries := make(map[primitive.ObjectID]*models.UserSummary, len(found))
	for id, u := range found {
		summaries[id] = u.Summary()
	}
	return summaries, nil
}

func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
