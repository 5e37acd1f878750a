package repository

import (
	"context" // Request scoping

	"auction_system/internal/domain" // Domain models
	"auction_system/internal/store"  // Persistence contracts

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Association handling
)

var _ store.WishlistStore = (*WishlistRepository)(nil)

// WishlistRepository persists saved products per user
type WishlistRepository struct {
	db *gorm.DB
}

func (r *WishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error) // Unique (user, product) surfaces as ErrDuplicate
}

func (r *WishlistRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	return n > 0, translate(err)
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID uint) error {
	return deleted(r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.WishlistItem{}))
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID uint) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product"). // Listing details for the wishlist view
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	return items, translate(err)
}

// DeleteByProduct removes a listing from every wishlist before it is deleted
func (r *WishlistRepository) DeleteByProduct(ctx context.Context, productID uint) error {
	return translate(r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.WishlistItem{}).Error)
}

func (r *WishlistRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return translate(r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.WishlistItem{}).Error)
}
