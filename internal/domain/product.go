package domain

import "time" // Timestamps

// ProductStatus mirrors the verification and sold flags as a single filterable value
type ProductStatus string

const (
	StatusPending ProductStatus = "pending" // Waiting for admin verification
	StatusActive  ProductStatus = "active"  // Verified and open for bidding
	StatusSold    ProductStatus = "sold"    // Settled to a buyer
)

// Product Model
type Product struct {
	ID          uint          `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID      uint          `gorm:"index;not null" json:"userId"`                         // Seller who listed it
	Title       string        `gorm:"size:255;not null" json:"title"`                       // Listing title
	Description string        `gorm:"type:text;not null" json:"description"`                // Listing description
	Image       string        `gorm:"size:255;default:''" json:"image"`                     // Relative URL of the image
	CategoryID  uint          `gorm:"index;not null" json:"categoryId"`                     // Category reference
	Commission  float64       `gorm:"not null;default:0" json:"commission"`                 // Percentage set by the admin at verification
	Price       float64       `gorm:"not null" json:"price"`                                // Starting bid floor
	Height      *float64      `json:"height,omitempty"`                                     // Optional physical attributes
	Length      *float64      `json:"lengthPic,omitempty"`
	Width       *float64      `json:"width,omitempty"`
	Medium      string        `gorm:"size:120" json:"mediumused,omitempty"`
	Weight      *float64      `json:"weight,omitempty"`
	IsVerify    bool          `gorm:"index;not null;default:false" json:"isVerify"`         // Must be true before bidding
	IsSoldout   bool          `gorm:"index;not null;default:false" json:"isSoldout"`        // Set once at settlement
	SoldPrice   float64       `gorm:"not null;default:0" json:"soldPrice"`                  // Seller proceeds after commission
	BuyerID     *uint         `gorm:"index" json:"buyerId,omitempty"`                       // Winning bidder, set at settlement
	Status      ProductStatus `gorm:"type:varchar(16);index;not null;default:pending" json:"status"`
	Owner       *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Buyer       *User         `gorm:"foreignKey:BuyerID" json:"userTo,omitempty"`
	Category    *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
