package controllers

import (
	"net/http"

	"campus-connect/services"

	"github.com/gorilla/mux"
)

// WishlistController handles saved-product requests
type WishlistController struct {
	Wishlist *services.WishlistService
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(wishlist *services.WishlistService) *WishlistController {
	return &WishlistController{Wishlist: wishlist}
}

type wishlistRequest struct {
	ProductID string `json:"product_id"`
}

// AddToWishlist saves a product for the authenticated user
func (wc *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req wishlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := wc.Wishlist.Add(r.Context(), user, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// GetWishlist lists the saved products
func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := wc.Wishlist.List(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// RemoveFromWishlist removes a saved product
func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := wc.Wishlist.Remove(r.Context(), user, mux.Vars(r)["productId"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Product removed from wishlist"})
}

// CheckWishlist reports whether a product is saved
func (wc *WishlistController) CheckWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	saved, err := wc.Wishlist.Check(r.Context(), user, mux.Vars(r)["productId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"in_wishlist": saved})
}
