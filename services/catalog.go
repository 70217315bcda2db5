package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"campus-connect/models"
	"campus-connect/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// ListParams is the raw listing query as supplied by a caller
type ListParams struct {
	Category   string
	Search     string
	Status     string
	PriceRange string
	MinPrice   *float64
	MaxPrice   *float64
	Sort       string
	Page       int
	Limit      int
}

// CatalogService manages listings and their availability
type CatalogService struct {
	products repository.ProductRepository
	users    repository.UserRepository
}

// NewCatalogService creates a CatalogService
func NewCatalogService(products repository.ProductRepository, users repository.UserRepository) *CatalogService {
	return &CatalogService{products: products, users: users}
}

// Create lists a new product owned by the actor
func (s *CatalogService) Create(ctx context.Context, actor *models.User, req models.ProductCreation) (*models.ProductView, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Images:      req.Images,
		SellerID:    actor.ID,
		Status:      models.ProductAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, internal("error creating product", err)
	}
	return &models.ProductView{Product: *product, Seller: actor.Summary()}, nil
}

// Get returns a product with its seller attached
func (s *CatalogService) Get(ctx context.Context, productID string) (*models.ProductView, error) {
	id, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	views, err := s.attachSellers(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List resolves the filters and returns one page of listings
func (s *CatalogService) List(ctx context.Context, params ListParams) (*models.ProductPage, error) {
	query, err := resolveQuery(params)
	if err != nil {
		return nil, err
	}
	products, total, err := s.products.List(ctx, query)
	if err != nil {
		return nil, internal("error listing products", err)
	}
	views, err := s.attachSellers(ctx, products)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	return &models.ProductPage{
		Products: views,
		Pagination: models.Pagination{
			CurrentPage:  query.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: query.Limit,
		},
	}, nil
}

// ListMine returns every product of the actor regardless of status, newest first
func (s *CatalogService) ListMine(ctx context.Context, actor *models.User) ([]models.Product, error) {
	sellerID := actor.ID
	products, _, err := s.products.List(ctx, models.ProductQuery{SellerID: &sellerID, Sort: models.SortNewest})
	if err != nil {
		return nil, internal("error listing products", err)
	}
	return products, nil
}

// Categories returns the distinct categories in use
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.products.Categories(ctx)
	if err != nil {
		return nil, internal("error listing categories", err)
	}
	return categories, nil
}

// Update edits an available product owned by the actor
func (s *CatalogService) Update(ctx context.Context, actor *models.User, productID string, update models.ProductUpdate) (*models.Product, error) {
	if err := validateInput(update); err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, invalidInput("no fields to update")
	}
	product, err := s.owned(ctx, actor, productID)
	if err != nil {
		return nil, err
	}
	updated, err := s.products.Update(ctx, product.ID, update)
	if err != nil {
		return nil, soldConflict(err)
	}
	return updated, nil
}

// Delete removes an available product owned by the actor
func (s *CatalogService) Delete(ctx context.Context, actor *models.User, productID string) error {
	product, err := s.owned(ctx, actor, productID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		return soldConflict(err)
	}
	return nil
}

// MarkSold lets the owner close a listing without a purchase
func (s *CatalogService) MarkSold(ctx context.Context, actor *models.User, productID string) (*models.Product, error) {
	product, err := s.owned(ctx, actor, productID)
	if err != nil {
		return nil, err
	}
	sold, err := s.products.MarkSold(ctx, product.ID)
	if err != nil {
		return nil, soldConflict(err)
	}
	return sold, nil
}

// owned loads a product and checks that the actor may still modify it
func (s *CatalogService) owned(ctx context.Context, actor *models.User, productID string) (*models.Product, error) {
	id, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	if product.SellerID != actor.ID {
		return nil, forbidden("only the seller can modify this product")
	}
	if !product.IsAvailable() {
		return nil, conflict("product is already sold")
	}
	return product, nil
}

func (s *CatalogService) attachSellers(ctx context.Context, products []models.Product) ([]models.ProductView, error) {
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.SellerID)
	}
	sellers, err := loadUsers(ctx, s.users, ids...)
	if err != nil {
		return nil, err
	}
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, models.ProductView{Product: p, Seller: sellers[p.SellerID]})
	}
	return views, nil
}

func soldConflict(err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return conflict("product is already sold")
	}
	return fromRepo(err, "product")
}

// resolveQuery validates the raw parameters and applies the defaults
func resolveQuery(params ListParams) (models.ProductQuery, error) {
	query := models.ProductQuery{
		Search: strings.TrimSpace(params.Search),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	category := strings.TrimSpace(params.Category)
	if !strings.EqualFold(category, "All Categories") && !strings.EqualFold(category, "all") {
		query.Category = category
	}

	switch strings.ToLower(strings.TrimSpace(params.Status)) {
	case "", string(models.ProductAvailable):
		status := models.ProductAvailable
		query.Status = &status
	case string(models.ProductSold):
		status := models.ProductSold
		query.Status = &status
	case "all":
	default:
		return query, invalidInput("unknown status filter " + params.Status)
	}

	bucket, ok := models.ParsePriceBucket(params.PriceRange)
	if !ok {
		return query, invalidInput("unknown price range " + params.PriceRange)
	}
	if bucket != "" {
		query.Price = bucket.Range()
	} else {
		if err := checkPriceBounds(params.MinPrice, params.MaxPrice); err != nil {
			return query, err
		}
		query.Price = models.PriceRange{Min: params.MinPrice, Max: params.MaxPrice}
	}

	switch sort := models.ProductSort(strings.ToLower(params.Sort)); sort {
	case "":
		query.Sort = models.SortNewest
	case models.SortNewest, models.SortOldest, models.SortPriceLow, models.SortPriceHigh:
		query.Sort = sort
	default:
		return query, invalidInput("unknown sort " + params.Sort)
	}

	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = defaultPageSize
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}
	if query.Page > math.MaxInt32/query.Limit {
		return query, invalidInput("page out of range")
	}
	return query, nil
}

func checkPriceBounds(lo, hi *float64) error {
	for _, bound := range []*float64{lo, hi} {
		if bound != nil && (math.IsNaN(*bound) || math.IsInf(*bound, 0)) {
			return invalidInput("price bounds must be finite numbers")
		}
	}
	if lo != nil && hi != nil && *lo > *hi {
		return invalidInput("min_price cannot exceed max_price")
	}
	return nil
}
