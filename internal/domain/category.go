package domain

import "time" // Timestamps

// Category Model
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	UserID    uint      `gorm:"index;not null" json:"userId"`               // Owner (the admin who created it)
	Title     string    `gorm:"size:191;uniqueIndex;not null" json:"title"` // Unique title
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`    // Owner, when preloaded
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
