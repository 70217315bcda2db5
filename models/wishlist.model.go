package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem records that a user saved a product for later
type WishlistItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// WishlistView is a wishlist entry with the product attached
type WishlistView struct {
	WishlistItem
	Product *ProductView `json:"product,omitempty"`
}

// Analytics is the admin dashboard summary
type Analytics struct {
	TotalUsers        int64 `json:"total_users"`
	TotalListings     int64 `json:"total_listings"`
	TotalTransactions int64 `json:"total_transactions"`
	ActiveUsers       int64 `json:"active_users"`
}
