package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductRepository is an in-memory repository.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]models.Product
}

// NewProductRepository creates an empty ProductRepository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[primitive.ObjectID]models.Product)}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = clone(*product)
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clone(p)
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make(map[primitive.ObjectID]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			p = clone(p)
			found[id] = &p
		}
	}
	return found, nil
}

func (r *ProductRepository) List(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	r.mu.RLock()
	matched := make([]models.Product, 0)
	for _, p := range r.products {
		if matches(&p, query) {
			matched = append(matched, clone(p))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch query.Sort {
		case models.SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case models.SortPriceLow:
			return a.Price < b.Price
		case models.SortPriceHigh:
			return a.Price > b.Price
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	total := int64(len(matched))
	skip := query.Skip()
	if skip < 0 || skip >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := len(matched)
	if query.Limit > 0 && skip+query.Limit < end {
		end = skip + query.Limit
	}
	return matched[skip:end], total, nil
}

func matches(p *models.Product, q models.ProductQuery) bool {
	if q.Status != nil && p.Status != *q.Status {
		return false
	}
	if q.SellerID != nil && p.SellerID != *q.SellerID {
		return false
	}
	if q.Category != "" && !containsFold(p.Category, q.Category) {
		return false
	}
	if !q.Price.Contains(p.Price) {
		return false
	}
	if q.Search != "" &&
		!containsFold(p.Title, q.Search) &&
		!containsFold(p.Description, q.Search) &&
		!containsFold(p.Category, q.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !p.IsAvailable() {
		return nil, repository.ErrConflict
	}
	update.Apply(&p)
	p.UpdatedAt = time.Now()
	r.products[id] = clone(p)
	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !p.IsAvailable() {
		return repository.ErrConflict
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) MarkSold(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.transition(id, models.ProductAvailable, models.ProductSold)
}

func (r *ProductRepository) Release(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.transition(id, models.ProductSold, models.ProductAvailable)
	return err
}

func (r *ProductRepository) transition(id primitive.ObjectID, from, to models.ProductStatus) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Status != from {
		return nil, repository.ErrConflict
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	r.products[id] = p
	p = clone(p)
	return &p, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *ProductRepository) PopularCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	r.mu.RLock()
	counts := make(map[string]int64)
	for _, p := range r.products {
		counts[p.Category]++
	}
	r.mu.RUnlock()

	result := make([]models.CategoryCount, 0, len(counts))
	for category, n := range counts {
		result = append(result, models.CategoryCount{Category: category, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

func clone(p models.Product) models.Product {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}
