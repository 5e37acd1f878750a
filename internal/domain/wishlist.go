package domain

import "time" // Timestamps

// WishlistItem Model
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"userId"`
	ProductID uint      `gorm:"uniqueIndex:idx_wishlist_user_product;index;not null" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
