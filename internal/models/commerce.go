package models

import "time"

// Commerce is a registered merchant. The CIF is its natural key and is
// immutable after creation; Token holds the last commerce-scoped bearer
// credential issued by an admin lookup.
type Commerce struct {
	CIF       string    `gorm:"type:varchar(9);primaryKey" json:"cif"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255);not null" json:"address"`
	Email     string    `gorm:"type:varchar(100);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	PageID    int       `gorm:"not null" json:"pageId"`
	Token     string    `gorm:"type:text" json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
