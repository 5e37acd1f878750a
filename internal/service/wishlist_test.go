package service

import (
	"context"
	"testing"

	"auction_system/internal/access"
	"auction_system/internal/domain"
	"auction_system/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewMemStore()
	svc := NewWishlistService(st)

	seller := st.SeedUser(domain.User{Name: "Seller", Email: "s@example.com", Role: domain.RoleSeller})
	buyer := st.SeedUser(domain.User{Name: "Buyer", Email: "b@example.com", Role: domain.RoleBuyer})
	cat := st.SeedCategory(domain.Category{UserID: seller.ID, Title: "Art"})
	p := st.SeedProduct(domain.Product{UserID: seller.ID, Title: "Sunset", CategoryID: cat.ID, Price: 10})

	_, err := svc.Add(ctx, access.Identity{}, p.ID)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
	_, err = svc.Add(ctx, identity(buyer), 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)

	item, err := svc.Add(ctx, identity(buyer), p.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, item.UserID)

	_, err = svc.Add(ctx, identity(buyer), p.ID)
	assert.ErrorIs(t, err, ErrAlreadyInWishlist)

	items, err := svc.List(ctx, identity(buyer))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Sunset", items[0].Product.Title)

	items, err = svc.List(ctx, identity(seller))
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, svc.Remove(ctx, identity(buyer), p.ID))
	assert.ErrorIs(t, svc.Remove(ctx, identity(buyer), p.ID), ErrWishlistNotFound)
}
