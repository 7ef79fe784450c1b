package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Email        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Age          int        `gorm:"not null" json:"age"`
	City         string     `gorm:"type:varchar(100);not null" json:"city"`
	Interest     StringList `gorm:"type:text;not null" json:"interest"`
	AllowOffers  bool       `gorm:"default:false" json:"allowOffers"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
