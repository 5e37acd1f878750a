package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"auction_system/internal/access"
	"auction_system/internal/domain"
	"auction_system/internal/lock"
	"auction_system/internal/metrics"
	"auction_system/internal/notify"
	"auction_system/internal/store"
	"auction_system/internal/utils"

	"github.com/sirupsen/logrus"
)

// DefaultLockWait bounds how long a request queues behind other bids on the same product.
const DefaultLockWait = 5 * time.Second

// AuctionService runs bidding, settlement and listing verification.
type AuctionService struct {
	store           store.Store
	locker          lock.Locker
	notifier        notify.Notifier
	cache           utils.Cache
	platformAdminID uint
	lockWait        time.Duration
}

// AuctionOptions carries the optional knobs of AuctionService.
type AuctionOptions struct {
	PlatformAdminID uint
	LockWait        time.Duration
}

func NewAuctionService(st store.Store, locker lock.Locker, notifier notify.Notifier, cache utils.Cache, opts AuctionOptions) *AuctionService {
	if opts.LockWait <= 0 {
		opts.LockWait = DefaultLockWait
	}
	return &AuctionService{
		store:           st,
		locker:          locker,
		notifier:        notifier,
		cache:           cache,
		platformAdminID: opts.PlatformAdminID,
		lockWait:        opts.LockWait,
	}
}

// BidResult is the stored bid and whether an earlier bid was raised in place.
type BidResult struct {
	Bid     domain.Bid `json:"bid"`
	Updated bool       `json:"updated"`
}

// Settlement describes a completed sale.
type Settlement struct {
	ProductID        uint    `json:"productId"`
	BuyerID          uint    `json:"buyerId"`
	BuyerName        string  `json:"buyerName"`
	BuyerEmail       string  `json:"buyerEmail"`
	WinningBid       float64 `json:"winningBid"`
	CommissionAmount float64 `json:"commissionAmount"`
	FinalPrice       float64 `json:"finalPrice"`
	Notified         bool    `json:"notified"`
}

func bidCountKey(productID uint) string {
	return "bidcount:product:" + strconv.FormatUint(uint64(productID), 10)
}

// lockProduct serializes bid placement and settlement on one product.
func (s *AuctionService) lockProduct(ctx context.Context, productID uint) (func(), error) {
	lctx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	return s.locker.Lock(lctx, "bid:product:"+strconv.FormatUint(uint64(productID), 10))
}

// PlaceBid records a bid or raises the bidder's existing one.
func (s *AuctionService) PlaceBid(ctx context.Context, actor access.Identity, productID uint, price float64) (BidResult, error) {
	if err := access.Require(actor, domain.RoleBuyer); err != nil {
		return BidResult{}, err
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return BidResult{}, ErrInvalidPrice
	}

	unlock, err := s.lockProduct(ctx, productID)
	if err != nil {
		return BidResult{}, err
	}
	defer unlock()

	var res BidResult
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		product, err := tx.Products().GetForUpdate(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load product: %w", err)
		}
		if !product.IsVerify {
			return ErrProductNotVerified
		}
		if product.IsSoldout {
			return ErrBiddingClosed
		}

		existing, err := tx.Bids().GetByUserAndProduct(ctx, actor.UserID, productID)
		switch {
		case err == nil:
			if price <= existing.Price {
				return ErrBidNotAboveOwn
			}
			if err := tx.Bids().UpdatePrice(ctx, existing.ID, price); err != nil {
				return fmt.Errorf("failed to update bid: %w", err)
			}
			existing.Price = price
			res = BidResult{Bid: existing, Updated: true}
			return nil
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("failed to load previous bid: %w", err)
		}

		highest, err := tx.Bids().Highest(ctx, productID)
		switch {
		case err == nil:
			if price <= highest.Price {
				return ErrBidNotAboveHighest
			}
		case errors.Is(err, store.ErrNotFound):
			if price < product.Price {
				return fmt.Errorf("%w (%v)", ErrBidBelowStartingPrice, product.Price)
			}
		default:
			return fmt.Errorf("failed to load highest bid: %w", err)
		}

		bid := domain.Bid{UserID: actor.UserID, ProductID: productID, Price: price}
		if err := tx.Bids().Create(ctx, &bid); err != nil {
			return fmt.Errorf("failed to create bid: %w", err)
		}
		res = BidResult{Bid: bid}
		return nil
	})
	if err != nil {
		metrics.RecordBid("rejected")
		return BidResult{}, err
	}

	if res.Updated {
		metrics.RecordBid("updated")
	} else {
		metrics.RecordBid("created")
		_ = s.cache.Delete(ctx, bidCountKey(productID))
	}
	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"user_id":    actor.UserID,
		"amount":     price,
		"updated":    res.Updated,
	}).Info("Bid placed")
	return res, nil
}

// Settle closes a listing to its highest bidder and moves the money. The
// product, admin and seller updates commit together; the winner is notified
// afterwards and a failed notification does not undo the sale.
func (s *AuctionService) Settle(ctx context.Context, actor access.Identity, productID uint) (Settlement, error) {
	if err := access.Require(actor, domain.RoleSeller); err != nil {
		return Settlement{}, err
	}

	unlock, err := s.lockProduct(ctx, productID)
	if err != nil {
		return Settlement{}, err
	}
	defer unlock()

	var (
		out     Settlement
		product domain.Product
	)
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		product, err = tx.Products().GetForUpdate(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load product: %w", err)
		}
		if access.RequireOwner(actor, product.UserID) != nil {
			return ErrNotProductOwner
		}
		if product.IsSoldout {
			return ErrAlreadySold
		}

		winning, err := tx.Bids().Highest(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoWinningBid
		}
		if err != nil {
			return fmt.Errorf("failed to load winning bid: %w", err)
		}

		winner, err := tx.Users().GetByID(ctx, winning.UserID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && winner.Email == "") {
			return ErrWinnerUnresolved
		}
		if err != nil {
			return fmt.Errorf("failed to load winning bidder: %w", err)
		}

		admin, err := platformAdmin(ctx, tx.Users(), s.platformAdminID)
		if err != nil {
			return err
		}
		if _, err := tx.Users().GetByID(ctx, product.UserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSellerNotFound
			}
			return fmt.Errorf("failed to load seller: %w", err)
		}

		commission, proceeds := SplitCommission(winning.Price, product.Commission)

		if err := tx.Products().MarkSold(ctx, product.ID, winner.ID, proceeds); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrAlreadySold
			}
			return fmt.Errorf("failed to mark product sold: %w", err)
		}
		if err := tx.Users().AddCommission(ctx, admin.ID, commission); err != nil {
			return fmt.Errorf("failed to credit commission: %w", err)
		}
		if err := tx.Users().AddBalance(ctx, product.UserID, proceeds); err != nil {
			return fmt.Errorf("failed to credit seller: %w", err)
		}

		out = Settlement{
			ProductID:        product.ID,
			BuyerID:          winner.ID,
			BuyerName:        winner.Name,
			BuyerEmail:       winner.Email,
			WinningBid:       winning.Price,
			CommissionAmount: commission,
			FinalPrice:       proceeds,
		}
		return nil
	})
	if err != nil {
		metrics.RecordSettlement(false, 0)
		return Settlement{}, err
	}
	metrics.RecordSettlement(true, out.CommissionAmount)
	_ = s.cache.Delete(ctx, productKey(productID))

	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"seller_id":  actor.UserID,
		"buyer_id":   out.BuyerID,
		"price":      out.WinningBid,
		"commission": out.CommissionAmount,
		"proceeds":   out.FinalPrice,
	}).Info("Product sold")

	notice := notify.WinnerNotice{
		Email:        out.BuyerEmail,
		Name:         out.BuyerName,
		ProductTitle: product.Title,
		Price:        out.WinningBid,
	}
	if err := s.notifier.NotifyWinner(ctx, notice); err != nil {
		logrus.WithFields(logrus.Fields{
			"product_id": productID,
			"buyer_id":   out.BuyerID,
			"error":      err.Error(),
		}).Error("Winner notification failed")
	} else {
		out.Notified = true
	}
	return out, nil
}

// VerifyProduct approves a listing for bidding and fixes its commission.
func (s *AuctionService) VerifyProduct(ctx context.Context, actor access.Identity, productID uint, commission float64) (domain.Product, error) {
	if err := access.Require(actor, domain.RoleAdmin); err != nil {
		return domain.Product{}, err
	}
	if commission < 0 || commission > 100 || math.IsNaN(commission) {
		return domain.Product{}, ErrInvalidCommission
	}

	products := s.store.Products()
	product, err := products.GetByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to load product: %w", err)
	}
	if product.IsVerify {
		return domain.Product{}, ErrAlreadyVerified
	}
	if err := products.MarkVerified(ctx, productID, commission); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Product{}, ErrAlreadyVerified
		}
		return domain.Product{}, fmt.Errorf("failed to verify product: %w", err)
	}
	_ = s.cache.Delete(ctx, productKey(productID))

	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"admin_id":   actor.UserID,
		"commission": commission,
	}).Info("Product verified")

	product.IsVerify = true
	product.Commission = commission
	product.Status = domain.StatusActive
	return product, nil
}

// History lists a product's bids, highest first.
func (s *AuctionService) History(ctx context.Context, productID uint) ([]domain.Bid, error) {
	bids, err := s.store.Bids().ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	if len(bids) == 0 {
		return nil, ErrNoBiddingHistory
	}
	return bids, nil
}

// BidCount returns the number of bidders on a product.
func (s *AuctionService) BidCount(ctx context.Context, productID uint) (int64, error) {
	key := bidCountKey(productID)
	var n int64
	if found, err := s.cache.Get(ctx, key, &n); err == nil && found {
		return n, nil
	}
	n, err := s.store.Bids().CountByProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to count bids: %w", err)
	}
	_ = s.cache.Set(ctx, key, n, utils.CacheTTL)
	return n, nil
}

// WinningBids lists the products the buyer has won.
func (s *AuctionService) WinningBids(ctx context.Context, actor access.Identity) ([]domain.Product, error) {
	if err := access.Require(actor, domain.RoleBuyer); err != nil {
		return nil, err
	}
	sold := true
	products, err := s.store.Products().List(ctx, domain.ProductFilter{BuyerID: &actor.UserID, IsSoldout: &sold})
	if err != nil {
		return nil, fmt.Errorf("failed to list won products: %w", err)
	}
	return products, nil
}

// SoldListings lists the seller's settled products.
func (s *AuctionService) SoldListings(ctx context.Context, actor access.Identity) ([]domain.Product, error) {
	if err := access.Require(actor, domain.RoleSeller); err != nil {
		return nil, err
	}
	sold := true
	products, err := s.store.Products().List(ctx, domain.ProductFilter{OwnerID: &actor.UserID, IsSoldout: &sold})
	if err != nil {
		return nil, fmt.Errorf("failed to list sold products: %w", err)
	}
	return products, nil
}
