package services

import (
	"context"
	"math"
	"testing"

	"campus-connect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(page *models.ProductPage) []string {
	out := make([]string, 0, len(page.Products))
	for _, p := range page.Products {
		out = append(out, p.Title)
	}
	return out
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "s1")

	view, err := f.svc.Catalog.Create(context.Background(), seller, models.ProductCreation{
		Title:       " Desk lamp ",
		Description: "barely used",
		Price:       250,
		Category:    "Electronics",
	})
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", view.Title)
	assert.Equal(t, models.ProductAvailable, view.Status)
	assert.Equal(t, seller.ID, view.SellerID)
	require.NotNil(t, view.Seller)
	assert.Equal(t, seller.Name, view.Seller.Name)

	_, err = f.svc.Catalog.Create(context.Background(), seller, models.ProductCreation{Price: -1})
	requireKind(t, err, KindInvalidInput)
}

func TestListCategoryIsCaseInsensitiveSubstring(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "s1")
	f.product(t, seller, "cable", "electronics-accessories", 50)
	f.product(t, seller, "phone", "ELECTRONICS", 5000)
	f.product(t, seller, "novel", "Books", 150)

	page, err := f.svc.Catalog.List(context.Background(), ListParams{Category: "Electronics", Sort: "price-low"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cable", "phone"}, titles(page))

	page, err = f.svc.Catalog.List(context.Background(), ListParams{Category: "All Categories"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)
}

func TestListPriceBucketBoundaries(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "s1")
	f.product(t, seller, "p99", "Misc", 99)
	f.product(t, seller, "p100", "Misc", 100)
	f.product(t, seller, "p500", "Misc", 500)
	f.product(t, seller, "p501", "Misc", 501)

	page, err := f.svc.Catalog.List(context.Background(), ListParams{PriceRange: "Under ₹100", Sort: "price-low"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p99"}, titles(page))

	page, err = f.svc.Catalog.List(context.Background(), ListParams{PriceRange: "₹100 - ₹500", Sort: "price-low"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p100", "p500"}, titles(page))
}

func TestListBucketWinsOverExplicitRange(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "s1")
	f.product(t, seller, "cheap", "Misc", 50)
	f.product(t, seller, "pricey", "Misc", 3000)

	minPrice := 1000.0
	page, err := f.svc.Catalog.List(context.Background(), ListParams{PriceRange: "under-100", MinPrice: &minPrice})
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap"}, titles(page))

	page, err = f.svc.Catalog.List(context.Background(), ListParams{MinPrice: &minPrice})
	require.NoError(t, err)
	assert.Equal(t, []string{"pricey"}, titles(page))
}

func TestListRejectsUnknownFilters(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Catalog.List(context.Background(), ListParams{PriceRange: "cheap-ish"})
	requireKind(t, err, KindInvalidInput)

	_, err = f.svc.Catalog.List(context.Background(), ListParams{Status: "reserved"})
	requireKind(t, err, KindInvalidInput)
}

func TestListDefaultsToAvailableAndSearches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "s1")
	f.product(t, seller, "Blue Bicycle", "Sports", 1500)
	sold := f.product(t, seller, "Red Bicycle", "Sports", 1200)
	_, err := f.store.Products.MarkSold(ctx, sold.ID)
	require.NoError(t, err)

	page, err := f.svc.Catalog.List(ctx, ListParams{Search: "bicycle"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Bicycle"}, titles(page))

	page, err = f.svc.Catalog.List(ctx, ListParams{Search: "BICYCLE", Status: "all"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "s1")
	for i := 0; i < 5; i++ {
		f.product(t, seller, "item", "Misc", float64(10*(i+1)))
	}

	page, err := f.svc.Catalog.List(context.Background(), ListParams{Page: 3, Limit: 2, Sort: "price-high"})
	require.NoError(t, err)
	assert.Equal(t, models.Pagination{CurrentPage: 3, TotalPages: 3, TotalItems: 5, ItemsPerPage: 2}, page.Pagination)
	require.Len(t, page.Products, 1)
	assert.Equal(t, 10.0, page.Products[0].Price)

	page, err = f.svc.Catalog.List(context.Background(), ListParams{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, page.Pagination.ItemsPerPage)
}

func TestListRejectsHugePage(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "s1")
	f.product(t, seller, "item", "Misc", 10)

	assert.NotPanics(t, func() {
		_, err := f.svc.Catalog.List(context.Background(), ListParams{Page: math.MaxInt})
		requireKind(t, err, KindInvalidInput)
	})

	page, err := f.svc.Catalog.List(context.Background(), ListParams{Page: 1000})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}

func TestListRejectsBadPriceBounds(t *testing.T) {
	f := newFixture(t)
	nan, inf := math.NaN(), math.Inf(1)
	lo, hi := 500.0, 100.0

	for name, params := range map[string]ListParams{
		"nan min":  {MinPrice: &nan},
		"inf max":  {MaxPrice: &inf},
		"inverted": {MinPrice: &lo, MaxPrice: &hi},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Catalog.List(context.Background(), params)
			requireKind(t, err, KindInvalidInput)
		})
	}

	_, err := f.svc.Catalog.List(context.Background(), ListParams{PriceRange: "under-100", MinPrice: &nan})
	require.NoError(t, err)
}

func TestOnlyOwnerCanModify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "s1")
	intruder := f.user(t, "s2")
	p := f.product(t, owner, "Kettle", "Appliances", 400)

	title := "Stolen"
	_, err := f.svc.Catalog.Update(ctx, intruder, p.ID.Hex(), models.ProductUpdate{Title: &title})
	requireKind(t, err, KindForbidden)
	requireKind(t, f.svc.Catalog.Delete(ctx, intruder, p.ID.Hex()), KindForbidden)
	_, err = f.svc.Catalog.MarkSold(ctx, intruder, p.ID.Hex())
	requireKind(t, err, KindForbidden)

	stored, err := f.store.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kettle", stored.Title)
	assert.Equal(t, models.ProductAvailable, stored.Status)
}

func TestOwnerLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "s1")
	p := f.product(t, owner, "Kettle", "Appliances", 400)

	price := 350.0
	updated, err := f.svc.Catalog.Update(ctx, owner, p.ID.Hex(), models.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 350.0, updated.Price)

	_, err = f.svc.Catalog.Update(ctx, owner, p.ID.Hex(), models.ProductUpdate{})
	requireKind(t, err, KindInvalidInput)

	sold, err := f.svc.Catalog.MarkSold(ctx, owner, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.ProductSold, sold.Status)

	_, err = f.svc.Catalog.Update(ctx, owner, p.ID.Hex(), models.ProductUpdate{Price: &price})
	requireKind(t, err, KindConflict)
	requireKind(t, f.svc.Catalog.Delete(ctx, owner, p.ID.Hex()), KindConflict)

	mine, err := f.svc.Catalog.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "s1")
	p := f.product(t, owner, "Kettle", "Appliances", 400)

	require.NoError(t, f.svc.Catalog.Delete(ctx, owner, p.ID.Hex()))
	_, err := f.svc.Catalog.Get(ctx, p.ID.Hex())
	requireKind(t, err, KindNotFound)
}
