package services

import (
	"context"
	"testing"

	"campus-connect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "admin")
	seller := f.user(t, "s")
	buyer := f.user(t, "b")
	require.NoError(t, f.store.Users.SetVerified(ctx, seller.ID))

	f.product(t, seller, "a", "Books", 10)
	f.product(t, seller, "b", "Books", 20)
	f.product(t, seller, "c", "Music", 30)
	f.completedPurchase(t, buyer, seller, 40)

	_, err := f.svc.Analytics.Summary(ctx, seller)
	requireKind(t, err, KindForbidden)

	summary, err := f.svc.Analytics.Summary(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, models.Analytics{TotalUsers: 3, TotalListings: 4, TotalTransactions: 1, ActiveUsers: 1}, *summary)

	categories, err := f.svc.Analytics.PopularCategories(ctx, admin)
	require.NoError(t, err)
	require.NotEmpty(t, categories)
	assert.Equal(t, models.CategoryCount{Category: "Books", Count: 3}, categories[0])
}
