package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductStatus is the availability state of a listing
type ProductStatus string

const (
	ProductAvailable ProductStatus = "available"
	ProductSold      ProductStatus = "sold"
)

// Product represents a listing posted by a student
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Images      []string           `bson:"images" json:"images"`
	SellerID    primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	Status      ProductStatus      `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsAvailable reports whether the product can still be bought or edited
func (p *Product) IsAvailable() bool {
	return p.Status == ProductAvailable
}

// Summary returns the subset of the product embedded in transactions and wishlists
func (p *Product) Summary() *ProductSummary {
	if p == nil {
		return nil
	}
	return &ProductSummary{ID: p.ID, Title: p.Title, Price: p.Price, Images: p.Images, Status: p.Status}
}

// ProductSummary is the display subset of a product
type ProductSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Title  string             `json:"title"`
	Price  float64            `json:"price"`
	Images []string           `json:"images,omitempty"`
	Status ProductStatus      `json:"status"`
}

// ProductView is a product with its seller attached
type ProductView struct {
	Product
	Seller *UserSummary `json:"seller,omitempty"`
}

// ProductCreation is the input for a new listing
type ProductCreation struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required,max=100"`
	Images      []string `json:"images" validate:"max=5,dive,required"`
}

// ProductUpdate holds the editable listing fields; nil means unchanged
type ProductUpdate struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1,max=5000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Images      []string `json:"images,omitempty" validate:"omitempty,max=5,dive,required"`
}

// Empty reports whether the update changes nothing
func (u ProductUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil && u.Category == nil && u.Images == nil
}

// Apply copies the set fields onto p
func (u ProductUpdate) Apply(p *Product) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Images != nil {
		p.Images = u.Images
	}
}

// PriceBucket is one of the named price ranges offered by the listing filter
type PriceBucket string

const (
	PriceUnder100   PriceBucket = "under-100"
	Price100To500   PriceBucket = "100-500"
	Price500To1000  PriceBucket = "500-1000"
	Price1000To2000 PriceBucket = "1000-2000"
	PriceAbove2000  PriceBucket = "above-2000"
)

var priceBuckets = map[string]PriceBucket{
	"under100":  PriceUnder100,
	"100-500":   Price100To500,
	"500-1000":  Price500To1000,
	"1000-2000": Price1000To2000,
	"above2000": PriceAbove2000,
}

// ParsePriceBucket accepts the bucket identifiers as well as display labels such
// as "Under ₹100" or "₹100 - ₹500". "All Prices" and the empty string yield ok
// with an empty bucket.
func ParsePriceBucket(s string) (PriceBucket, bool) {
	key := strings.ToLower(s)
	key = strings.NewReplacer("₹", "", " ", "", "_", "").Replace(key)
	key = strings.ReplaceAll(key, "under-", "under")
	key = strings.ReplaceAll(key, "above-", "above")
	if key == "" || key == "allprices" || key == "all" {
		return "", true
	}
	b, ok := priceBuckets[key]
	return b, ok
}

// Range returns the bounds of the bucket. Exclusive bounds are reported through
// the flags so that "under 100" excludes 100 while "100-500" includes both ends.
func (b PriceBucket) Range() PriceRange {
	switch b {
	case PriceUnder100:
		return PriceRange{Max: ptr(100.0), MaxExclusive: true}
	case Price100To500:
		return PriceRange{Min: ptr(100.0), Max: ptr(500.0)}
	case Price500To1000:
		return PriceRange{Min: ptr(500.0), Max: ptr(1000.0)}
	case Price1000To2000:
		return PriceRange{Min: ptr(1000.0), Max: ptr(2000.0)}
	case PriceAbove2000:
		return PriceRange{Min: ptr(2000.0), MinExclusive: true}
	}
	return PriceRange{}
}

// PriceRange bounds a price filter; nil bounds are open
type PriceRange struct {
	Min          *float64
	Max          *float64
	MinExclusive bool
	MaxExclusive bool
}

// Contains reports whether price falls inside the range
func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil {
		if r.MinExclusive && price <= *r.Min {
			return false
		}
		if !r.MinExclusive && price < *r.Min {
			return false
		}
	}
	if r.Max != nil {
		if r.MaxExclusive && price >= *r.Max {
			return false
		}
		if !r.MaxExclusive && price > *r.Max {
			return false
		}
	}
	return true
}

// IsOpen reports whether the range applies no constraint
func (r PriceRange) IsOpen() bool {
	return r.Min == nil && r.Max == nil
}

// ProductSort orders listing results
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortOldest    ProductSort = "oldest"
	SortPriceLow  ProductSort = "price-low"
	SortPriceHigh ProductSort = "price-high"
)

// ProductQuery is a resolved listing query handed to the repository
type ProductQuery struct {
	Category string
	Search   string
	SellerID *primitive.ObjectID
	// Status nil means any status
	Status *ProductStatus
	Price  PriceRange
	Sort   ProductSort
	Page   int
	Limit  int
}

// Skip returns the number of documents before the requested page
func (q ProductQuery) Skip() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Pagination describes a page of listing results
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

// ProductPage is a page of listings with their sellers attached
type ProductPage struct {
	Products   []ProductView `json:"products"`
	Pagination Pagination    `json:"pagination"`
}

// CategoryCount is the number of listings in one category
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

func ptr[T any](v T) *T {
	return &v
}
