package models

import "time"

// WebCommerce is a commerce's public storefront page. At most one storefront
// exists per commerce CIF. Scoring and TotalReviews are derived from the
// review rows; RatingSum is the running accumulator that lets review inserts
// update the aggregate with a single atomic expression instead of a
// read-modify-write over the whole review set.
type WebCommerce struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CommerceCIF  string     `gorm:"type:varchar(9);uniqueIndex;not null" json:"commerceCIF"`
	City         string     `gorm:"type:varchar(100);not null;index" json:"city"`
	Activity     string     `gorm:"type:varchar(100);not null;index" json:"activity"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	Summary      string     `gorm:"type:text;not null" json:"summary"`
	Text         StringList `gorm:"type:text;not null" json:"text"`
	Images       StringList `gorm:"type:text" json:"images"`
	Scoring      float64    `gorm:"default:0" json:"scoring"`
	TotalReviews int        `gorm:"default:0" json:"totalReviews"`
	RatingSum    float64    `gorm:"default:0" json:"-"`
	IsArchived   bool       `gorm:"default:false" json:"isArchived"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Reviews []Review `gorm:"foreignKey:WebCommerceID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// Review is an append-only user review of a storefront. Reviews are never
// edited or removed.
type Review struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	WebCommerceID uint      `gorm:"not null;index" json:"-"`
	Body          string    `gorm:"type:text;not null" json:"review"`
	Rating        float64   `gorm:"not null" json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
}
