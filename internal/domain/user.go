package domain

import "time" // Timestamps

// User Model
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`                        // Primary key
	Name              string    `gorm:"size:120;not null" json:"name"`               // Display name
	Email             string    `gorm:"size:191;uniqueIndex;not null" json:"email"`  // Unique login email
	Password          string    `gorm:"not null" json:"-"`                           // Bcrypt hash, never serialized
	Photo             string    `gorm:"size:255;default:''" json:"photo"`            // Relative URL of the profile picture
	Role              Role      `gorm:"type:varchar(16);index;not null" json:"role"` // admin, seller or buyer
	Balance           float64   `gorm:"not null;default:0" json:"balance"`           // Seller earnings
	CommissionBalance float64   `gorm:"not null;default:0" json:"commissionBalance"` // Commission accrued by the platform admin
	CreatedAt         time.Time `json:"createdAt"`                                   // Creation timestamp
	UpdatedAt         time.Time `json:"updatedAt"`                                   // Last update timestamp
}
