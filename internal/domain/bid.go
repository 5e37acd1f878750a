package domain

import "time" // Timestamps

// Bid Model. One row per (user, product); a repeat bid raises Price in place.
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                             // Primary key
	UserID    uint      `gorm:"uniqueIndex:idx_bid_user_product;not null" json:"userId"`          // Bidder
	ProductID uint      `gorm:"uniqueIndex:idx_bid_user_product;index;not null" json:"productId"` // Listing
	Price     float64   `gorm:"not null;index" json:"price"`                                      // Current bid amount
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`                          // Bidder, when preloaded
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`                    // Listing, when preloaded
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
