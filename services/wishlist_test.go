package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "u")
	seller := f.user(t, "s")
	p := f.product(t, seller, "Lamp", "Misc", 100)

	_, err := f.svc.Wishlist.Add(ctx, u, p.ID.Hex())
	require.NoError(t, err)
	_, err = f.svc.Wishlist.Add(ctx, u, p.ID.Hex())
	requireKind(t, err, KindConflict)

	ok, err := f.svc.Wishlist.Check(ctx, u, p.ID.Hex())
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := f.svc.Wishlist.List(ctx, u)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Lamp", items[0].Product.Title)
	require.NotNil(t, items[0].Product.Seller)
	assert.Equal(t, seller.Name, items[0].Product.Seller.Name)

	require.NoError(t, f.svc.Wishlist.Remove(ctx, u, p.ID.Hex()))
	requireKind(t, f.svc.Wishlist.Remove(ctx, u, p.ID.Hex()), KindNotFound)

	ok, err = f.svc.Wishlist.Check(ctx, u, p.ID.Hex())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWishlistUnknownProduct(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u")
	_, err := f.svc.Wishlist.Add(context.Background(), u, "507f1f77bcf86cd799439011")
	requireKind(t, err, KindNotFound)
}
