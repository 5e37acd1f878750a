package repository

import (
	"context" // Request scoping

	"auction_system/internal/domain" // Domain models
	"auction_system/internal/store"  // Persistence contracts

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Association handling
)

var _ store.BidStore = (*BidRepository)(nil)

// BidRepository persists bids, one row per bidder and product
type BidRepository struct {
	db *gorm.DB
}

func (r *BidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(bid).Error)
}

// UpdatePrice raises a bid in place. updated_at moves with it and orders ties.
func (r *BidRepository) UpdatePrice(ctx context.Context, id uint, price float64) error {
	return translate(r.db.WithContext(ctx).Model(&domain.Bid{}).Where("id = ?", id).Update("price", price).Error)
}

func (r *BidRepository) GetByUserAndProduct(ctx context.Context, userID, productID uint) (domain.Bid, error) {
	var bid domain.Bid
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Take(&bid).Error
	return bid, translate(err)
}

func (r *BidRepository) Highest(ctx context.Context, productID uint) (domain.Bid, error) {
	var bid domain.Bid
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("price desc").
		Order("updated_at asc"). // First to reach the price wins a tie
		Order("id asc").
		Take(&bid).Error
	return bid, translate(err)
}

func (r *BidRepository) ListByProduct(ctx context.Context, productID uint) ([]domain.Bid, error) {
	var bids []domain.Bid
	err := r.db.WithContext(ctx).
		Preload("User"). // Bidder names for the history view
		Where("product_id = ?", productID).
		Order("price desc").
		Order("updated_at asc").
		Order("id asc").
		Find(&bids).Error
	return bids, translate(err)
}

func (r *BidRepository) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Bid{}).Where("product_id = ?", productID).Count(&n).Error
	return n, translate(err)
}
