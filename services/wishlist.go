package services

import (
	"context"
	"errors"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistService manages the products a user saved for later
type WishlistService struct {
	wishlist repository.WishlistRepository
	products repository.ProductRepository
	catalog  *CatalogService
}

// NewWishlistService creates a WishlistService
func NewWishlistService(wishlist repository.WishlistRepository, products repository.ProductRepository, catalog *CatalogService) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products, catalog: catalog}
}

func (s *WishlistService) Add(ctx context.Context, actor *models.User, productID string) (*models.WishlistItem, error) {
	id, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, fromRepo(err, "product")
	}
	item := &models.WishlistItem{
		ID:        primitive.NewObjectID(),
		UserID:    actor.ID,
		ProductID: id,
		CreatedAt: time.Now(),
	}
	if err := s.wishlist.Add(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("product is already in the wishlist")
		}
		return nil, internal("error adding to wishlist", err)
	}
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, actor *models.User, productID string) error {
	id, err := parseID(productID, "product")
	if err != nil {
		return err
	}
	return fromRepo(s.wishlist.Remove(ctx, actor.ID, id), "wishlist item")
}

// List returns the saved products, newest first. Entries whose product was
// deleted are dropped.
func (s *WishlistService) List(ctx context.Context, actor *models.User) ([]models.WishlistView, error) {
	items, err := s.wishlist.List(ctx, actor.ID)
	if err != nil {
		return nil, internal("error listing wishlist", err)
	}
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internal("failed to load products", err)
	}
	products := make([]models.Product, 0, len(found))
	for _, item := range items {
		if p, ok := found[item.ProductID]; ok {
			products = append(products, *p)
		}
	}
	withSellers, err := s.catalog.attachSellers(ctx, products)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.ProductView, len(withSellers))
	for i := range withSellers {
		byID[withSellers[i].ID] = &withSellers[i]
	}

	views := make([]models.WishlistView, 0, len(items))
	for _, item := range items {
		if p, ok := byID[item.ProductID]; ok {
			views = append(views, models.WishlistView{WishlistItem: item, Product: p})
		}
	}
	return views, nil
}

// Check reports whether the product is in the actor's wishlist
func (s *WishlistService) Check(ctx context.Context, actor *models.User, productID string) (bool, error) {
	id, err := parseID(productID, "product")
	if err != nil {
		return false, err
	}
	ok, err := s.wishlist.Exists(ctx, actor.ID, id)
	if err != nil {
		return false, internal("error checking wishlist", err)
	}
	return ok, nil
}
