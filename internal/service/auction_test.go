package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction_system/internal/access"
	"auction_system/internal/domain"
	"auction_system/internal/lock"
	"auction_system/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(u domain.User) access.Identity {
	return access.Identity{UserID: u.ID, Role: u.Role, Email: u.Email, Name: u.Name}
}

type auctionFixture struct {
	store    *testutil.MemStore
	cache    *testutil.MapCache
	notifier *testutil.FakeNotifier
	svc      *AuctionService

	admin, seller, buyer1, buyer2 domain.User
	category                      domain.Category
	product                       domain.Product
}

func newAuctionFixture(t *testing.T) *auctionFixture {
	t.Helper()
	f := &auctionFixture{
		store:    testutil.NewMemStore(),
		cache:    testutil.NewMapCache(),
		notifier: &testutil.FakeNotifier{},
	}
	f.admin = f.store.SeedUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
	f.seller = f.store.SeedUser(domain.User{Name: "Seller", Email: "seller@example.com", Role: domain.RoleSeller})
	f.buyer1 = f.store.SeedUser(domain.User{Name: "Buyer One", Email: "b1@example.com", Role: domain.RoleBuyer})
	f.buyer2 = f.store.SeedUser(domain.User{Name: "Buyer Two", Email: "b2@example.com", Role: domain.RoleBuyer})
	f.category = f.store.SeedCategory(domain.Category{UserID: f.admin.ID, Title: "Paintings"})
	f.product = f.store.SeedProduct(domain.Product{
		UserID:     f.seller.ID,
		Title:      "Sunset",
		CategoryID: f.category.ID,
		Price:      100,
		Commission: 5,
		IsVerify:   true,
		Status:     domain.StatusActive,
	})
	f.svc = NewAuctionService(f.store, lock.NewLocal(), f.notifier, f.cache, AuctionOptions{LockWait: time.Second})
	return f
}

func TestPlaceBid_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(f *auctionFixture) (access.Identity, uint, float64)
		wantErr error
	}{
		{
			name: "below starting price",
			setup: func(f *auctionFixture) (access.Identity, uint, float64) {
				return identity(f.buyer1), f.product.ID, 99.99
			},
			wantErr: ErrBidBelowStartingPrice,
		},
		{
			name: "non-positive price",
			setup: func(f *auctionFixture) (access.Identity, uint, float64) {
				return identity(f.buyer1), f.product.ID, 0
			},
			wantErr: ErrInvalidPrice,
		},
		{
			name: "unknown product",
			setup: func(f *auctionFixture) (access.Identity, uint, float64) {
				return identity(f.buyer1), 9999, 150
			},
			wantErr: ErrProductNotFound,
		},
		{
			name: "unverified product",
			setup: func(f *auctionFixture) (access.Identity, uint, float64) {
				p := f.store.SeedProduct(domain.Product{UserID: f.seller.ID, CategoryID: f.category.ID, Price: 10})
				return identity(f.buyer1), p.ID, 50
			},
			wantErr: ErrProductNotVerified,
		},
		{
			name: "sold product",
			setup: func(f *auctionFixture) (access.Identity, uint, float64) {
				p := f.store.SeedProduct(domain.Product{
					UserID: f.seller.ID, CategoryID: f.category.ID, Price: 10,
					IsVerify: true, IsSoldout: true, Status: domain.StatusSold,
				})
				return identity(f.buyer1), p.ID, 50
			},
			wantErr: ErrBiddingClosed,
		},
		{
			name: "seller cannot bid",
			setup: func(f *auctionFixture) (access.Identity, uint, float64) {
				return identity(f.seller), f.product.ID, 150
			},
			wantErr: access.ErrForbidden,
		},
		{
			name: "anonymous",
			setup: func(f *auctionFixture) (access.Identity, uint, float64) {
				return access.Identity{}, f.product.ID, 150
			},
			wantErr: access.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuctionFixture(t)
			actor, productID, price := tt.setup(f)

			_, err := f.svc.PlaceBid(ctx, actor, productID, price)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.BidsFor(productID))
		})
	}
}

func TestPlaceBid_StartingPriceIsInclusive(t *testing.T) {
	f := newAuctionFixture(t)

	res, err := f.svc.PlaceBid(context.Background(), identity(f.buyer1), f.product.ID, 100)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, 100.0, res.Bid.Price)
	assert.NotZero(t, res.Bid.ID)
}

func TestPlaceBid_MustBeatHighest(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)

	_, err := f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 120)
	require.NoError(t, err)

	_, err = f.svc.PlaceBid(ctx, identity(f.buyer2), f.product.ID, 120)
	assert.ErrorIs(t, err, ErrBidNotAboveHighest)
	_, err = f.svc.PlaceBid(ctx, identity(f.buyer2), f.product.ID, 110)
	assert.ErrorIs(t, err, ErrBidNotAboveHighest)

	res, err := f.svc.PlaceBid(ctx, identity(f.buyer2), f.product.ID, 120.01)
	require.NoError(t, err)
	assert.Equal(t, f.buyer2.ID, res.Bid.UserID)
	assert.Len(t, f.store.BidsFor(f.product.ID), 2)
}

func TestPlaceBid_RepeatBidUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)

	first, err := f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 120)
	require.NoError(t, err)

	_, err = f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 120)
	assert.ErrorIs(t, err, ErrBidNotAboveOwn)

	second, err := f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 130)
	require.NoError(t, err)
	assert.True(t, second.Updated)
	assert.Equal(t, first.Bid.ID, second.Bid.ID)

	bids := f.store.BidsFor(f.product.ID)
	require.Len(t, bids, 1)
	assert.Equal(t, 130.0, bids[0].Price)
}

func TestPlaceBid_ConcurrentSameBaseline(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)

	const n = 8
	buyers := make([]domain.User, n)
	for i := range buyers {
		buyers[i] = f.store.SeedUser(domain.User{
			Name:  fmt.Sprintf("Racer %d", i),
			Email: fmt.Sprintf("racer%d@example.com", i),
			Role:  domain.RoleBuyer,
		})
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for _, b := range buyers {
		wg.Add(1)
		go func(actor access.Identity) {
			defer wg.Done()
			_, err := f.svc.PlaceBid(ctx, actor, f.product.ID, 150)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, ErrBidNotAboveHighest):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(identity(b))
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, n-1, rejected)
	assert.Len(t, f.store.BidsFor(f.product.ID), 1)
}

func TestPlaceBid_InvalidatesBidCount(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)

	n, err := f.svc.BidCount(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.True(t, f.cache.Has(bidCountKey(f.product.ID)))

	_, err = f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 100)
	require.NoError(t, err)
	assert.False(t, f.cache.Has(bidCountKey(f.product.ID)))

	n, err = f.svc.BidCount(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSettle_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)

	_, err := f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 120)
	require.NoError(t, err)
	_, err = f.svc.PlaceBid(ctx, identity(f.buyer2), f.product.ID, 150)
	require.NoError(t, err)

	got, err := f.svc.Settle(ctx, identity(f.seller), f.product.ID)
	require.NoError(t, err)

	assert.Equal(t, Settlement{
		ProductID:        f.product.ID,
		BuyerID:          f.buyer2.ID,
		BuyerName:        "Buyer Two",
		BuyerEmail:       "b2@example.com",
		WinningBid:       150,
		CommissionAmount: 7.5,
		FinalPrice:       142.5,
		Notified:         true,
	}, got)

	product := f.store.Product(f.product.ID)
	assert.True(t, product.IsSoldout)
	assert.Equal(t, domain.StatusSold, product.Status)
	assert.Equal(t, 142.5, product.SoldPrice)
	require.NotNil(t, product.BuyerID)
	assert.Equal(t, f.buyer2.ID, *product.BuyerID)

	assert.Equal(t, 7.5, f.store.User(f.admin.ID).CommissionBalance)
	assert.Equal(t, 142.5, f.store.User(f.seller.ID).Balance)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "b2@example.com", sent[0].Email)
	assert.Equal(t, "Sunset", sent[0].ProductTitle)
	assert.Equal(t, 150.0, sent[0].Price)

	_, err = f.svc.Settle(ctx, identity(f.seller), f.product.ID)
	assert.ErrorIs(t, err, ErrAlreadySold)
	assert.Equal(t, 142.5, f.store.User(f.seller.ID).Balance)

	_, err = f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 200)
	assert.ErrorIs(t, err, ErrBiddingClosed)

	won, err := f.svc.WinningBids(ctx, identity(f.buyer2))
	require.NoError(t, err)
	require.Len(t, won, 1)
	assert.Equal(t, f.product.ID, won[0].ID)

	won, err = f.svc.WinningBids(ctx, identity(f.buyer1))
	require.NoError(t, err)
	assert.Empty(t, won)

	sold, err := f.svc.SoldListings(ctx, identity(f.seller))
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, f.product.ID, sold[0].ID)
}

func TestSettle_CommissionMath(t *testing.T) {
	tests := []struct {
		price, commission  float64
		wantCut, wantFinal float64
	}{
		{price: 1000, commission: 10, wantCut: 100, wantFinal: 900},
		{price: 150, commission: 0, wantCut: 0, wantFinal: 150},
		{price: 333.33, commission: 12.5, wantCut: 41.67, wantFinal: 291.66},
		{price: 200, commission: 100, wantCut: 200, wantFinal: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v@%v%%", tt.price, tt.commission), func(t *testing.T) {
			ctx := context.Background()
			f := newAuctionFixture(t)
			p := f.store.SeedProduct(domain.Product{
				UserID: f.seller.ID, CategoryID: f.category.ID, Price: 1,
				Commission: tt.commission, IsVerify: true, Status: domain.StatusActive,
			})
			_, err := f.svc.PlaceBid(ctx, identity(f.buyer1), p.ID, tt.price)
			require.NoError(t, err)

			got, err := f.svc.Settle(ctx, identity(f.seller), p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCut, got.CommissionAmount)
			assert.Equal(t, tt.wantFinal, got.FinalPrice)
			assert.Equal(t, tt.wantCut, f.store.User(f.admin.ID).CommissionBalance)
			assert.Equal(t, tt.wantFinal, f.store.User(f.seller.ID).Balance)
		})
	}
}

func TestSettle_TieGoesToEarliestBid(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.store.SeedBid(domain.Bid{UserID: f.buyer2.ID, ProductID: f.product.ID, Price: 150, CreatedAt: base.Add(time.Second)})
	f.store.SeedBid(domain.Bid{UserID: f.buyer1.ID, ProductID: f.product.ID, Price: 150, CreatedAt: base})

	got, err := f.svc.Settle(ctx, identity(f.seller), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, f.buyer1.ID, got.BuyerID)
}

func TestSettle_TieGoesToFirstBidderAtPrice(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)

	_, err := f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 100)
	require.NoError(t, err)
	_, err = f.svc.PlaceBid(ctx, identity(f.buyer2), f.product.ID, 150)
	require.NoError(t, err)
	// buyer1 matches the leading price later; their older first bid does not count
	res, err := f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 150)
	require.NoError(t, err)
	require.True(t, res.Updated)

	got, err := f.svc.Settle(ctx, identity(f.seller), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, f.buyer2.ID, got.BuyerID)
	assert.Equal(t, 150.0, got.WinningBid)

	history, err := f.svc.History(ctx, f.product.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, f.buyer2.ID, history[0].UserID)
}

// assertUnsold checks that a failed settlement left every balance untouched.
func assertUnsold(t *testing.T, f *auctionFixture) {
	t.Helper()
	product := f.store.Product(f.product.ID)
	assert.False(t, product.IsSoldout)
	assert.Nil(t, product.BuyerID)
	assert.Zero(t, product.SoldPrice)
	assert.Zero(t, f.store.User(f.seller.ID).Balance)
	assert.Zero(t, f.store.User(f.admin.ID).CommissionBalance)
	assert.Empty(t, f.notifier.Sent())
}

func TestSettle_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(f *auctionFixture) access.Identity
		wantErr error
	}{
		{
			name:    "no bids",
			setup:   func(f *auctionFixture) access.Identity { return identity(f.seller) },
			wantErr: ErrNoWinningBid,
		},
		{
			name: "not the owner",
			setup: func(f *auctionFixture) access.Identity {
				f.store.SeedBid(domain.Bid{UserID: f.buyer1.ID, ProductID: f.product.ID, Price: 150})
				other := f.store.SeedUser(domain.User{Name: "Other", Email: "other@example.com", Role: domain.RoleSeller})
				return identity(other)
			},
			wantErr: ErrNotProductOwner,
		},
		{
			name: "buyer role",
			setup: func(f *auctionFixture) access.Identity {
				f.store.SeedBid(domain.Bid{UserID: f.buyer1.ID, ProductID: f.product.ID, Price: 150})
				return identity(f.buyer1)
			},
			wantErr: access.ErrForbidden,
		},
		{
			name: "no admin",
			setup: func(f *auctionFixture) access.Identity {
				f.store.SeedBid(domain.Bid{UserID: f.buyer1.ID, ProductID: f.product.ID, Price: 150})
				require.NoError(t, f.store.Users().Delete(ctx, f.admin.ID))
				return identity(f.seller)
			},
			wantErr: ErrNoPlatformAdmin,
		},
		{
			name: "two admins",
			setup: func(f *auctionFixture) access.Identity {
				f.store.SeedBid(domain.Bid{UserID: f.buyer1.ID, ProductID: f.product.ID, Price: 150})
				f.store.SeedUser(domain.User{Name: "Admin 2", Email: "admin2@example.com", Role: domain.RoleAdmin})
				return identity(f.seller)
			},
			wantErr: ErrMultipleAdmins,
		},
		{
			name: "winner without email",
			setup: func(f *auctionFixture) access.Identity {
				ghost := f.store.SeedUser(domain.User{Name: "Ghost", Role: domain.RoleBuyer})
				f.store.SeedBid(domain.Bid{UserID: ghost.ID, ProductID: f.product.ID, Price: 150})
				return identity(f.seller)
			},
			wantErr: ErrWinnerUnresolved,
		},
		{
			name: "winner deleted",
			setup: func(f *auctionFixture) access.Identity {
				f.store.SeedBid(domain.Bid{UserID: 4242, ProductID: f.product.ID, Price: 150})
				return identity(f.seller)
			},
			wantErr: ErrWinnerUnresolved,
		},
		{
			name: "seller credit fails",
			setup: func(f *auctionFixture) access.Identity {
				f.store.SeedBid(domain.Bid{UserID: f.buyer1.ID, ProductID: f.product.ID, Price: 150})
				f.store.Fail = func(op string) error {
					if op == "users.AddBalance" {
						return errBoom
					}
					return nil
				}
				return identity(f.seller)
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuctionFixture(t)
			actor := tt.setup(f)

			_, err := f.svc.Settle(ctx, actor, f.product.ID)
			assert.ErrorIs(t, err, tt.wantErr)
			assertUnsold(t, f)
		})
	}
}

var errBoom = errors.New("boom")

func TestSettle_NotificationFailureKeepsSale(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)
	f.notifier.Err = errBoom

	_, err := f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 150)
	require.NoError(t, err)

	got, err := f.svc.Settle(ctx, identity(f.seller), f.product.ID)
	require.NoError(t, err)
	assert.False(t, got.Notified)
	assert.True(t, f.store.Product(f.product.ID).IsSoldout)
	assert.Equal(t, 142.5, f.store.User(f.seller.ID).Balance)
	assert.Equal(t, 7.5, f.store.User(f.admin.ID).CommissionBalance)
}

func TestSettle_ConfiguredPlatformAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)
	second := f.store.SeedUser(domain.User{Name: "Admin 2", Email: "admin2@example.com", Role: domain.RoleAdmin})
	f.svc = NewAuctionService(f.store, lock.NewLocal(), f.notifier, f.cache, AuctionOptions{PlatformAdminID: second.ID})

	_, err := f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 200)
	require.NoError(t, err)
	_, err = f.svc.Settle(ctx, identity(f.seller), f.product.ID)
	require.NoError(t, err)

	assert.Equal(t, 10.0, f.store.User(second.ID).CommissionBalance)
	assert.Zero(t, f.store.User(f.admin.ID).CommissionBalance)
}

func TestSettle_ConfiguredAdminMustBeAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)
	f.svc = NewAuctionService(f.store, lock.NewLocal(), f.notifier, f.cache, AuctionOptions{PlatformAdminID: f.buyer2.ID})
	f.store.SeedBid(domain.Bid{UserID: f.buyer1.ID, ProductID: f.product.ID, Price: 150})

	_, err := f.svc.Settle(ctx, identity(f.seller), f.product.ID)
	assert.ErrorIs(t, err, ErrNoPlatformAdmin)
	assertUnsold(t, f)
}

func TestVerifyProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("sets commission and opens bidding", func(t *testing.T) {
		f := newAuctionFixture(t)
		p := f.store.SeedProduct(domain.Product{UserID: f.seller.ID, CategoryID: f.category.ID, Price: 10})

		got, err := f.svc.VerifyProduct(ctx, identity(f.admin), p.ID, 12.5)
		require.NoError(t, err)
		assert.True(t, got.IsVerify)
		assert.Equal(t, 12.5, got.Commission)

		stored := f.store.Product(p.ID)
		assert.True(t, stored.IsVerify)
		assert.Equal(t, domain.StatusActive, stored.Status)
		assert.Equal(t, 12.5, stored.Commission)
	})

	t.Run("second verification is rejected", func(t *testing.T) {
		f := newAuctionFixture(t)

		_, err := f.svc.VerifyProduct(ctx, identity(f.admin), f.product.ID, 50)
		assert.ErrorIs(t, err, ErrAlreadyVerified)
		assert.Equal(t, 5.0, f.store.Product(f.product.ID).Commission)
	})

	t.Run("commission range", func(t *testing.T) {
		f := newAuctionFixture(t)
		p := f.store.SeedProduct(domain.Product{UserID: f.seller.ID, CategoryID: f.category.ID, Price: 10})

		for _, c := range []float64{-1, 100.01} {
			_, err := f.svc.VerifyProduct(ctx, identity(f.admin), p.ID, c)
			assert.ErrorIs(t, err, ErrInvalidCommission)
		}
		assert.False(t, f.store.Product(p.ID).IsVerify)
	})

	t.Run("admin only", func(t *testing.T) {
		f := newAuctionFixture(t)
		p := f.store.SeedProduct(domain.Product{UserID: f.seller.ID, CategoryID: f.category.ID, Price: 10})

		_, err := f.svc.VerifyProduct(ctx, identity(f.seller), p.ID, 5)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newAuctionFixture(t)

		_, err := f.svc.VerifyProduct(ctx, identity(f.admin), 9999, 5)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t)

	_, err := f.svc.History(ctx, f.product.ID)
	assert.ErrorIs(t, err, ErrNoBiddingHistory)

	_, err = f.svc.PlaceBid(ctx, identity(f.buyer1), f.product.ID, 110)
	require.NoError(t, err)
	_, err = f.svc.PlaceBid(ctx, identity(f.buyer2), f.product.ID, 130)
	require.NoError(t, err)

	bids, err := f.svc.History(ctx, f.product.ID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, 130.0, bids[0].Price)
	require.NotNil(t, bids[0].User)
	assert.Equal(t, "Buyer Two", bids[0].User.Name)
}
