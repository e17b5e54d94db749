package entities

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleEditor UserRole = "editor"
	UserRoleViewer UserRole = "viewer"
)

// User is an account that can own lexicon entries. Email identifies the
// principal of an authenticated request.
type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:255" json:"username" validate:"max=255"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email" validate:"required,email,max=254"`
	PasswordHash string   `gorm:"size:255" json:"-"`
	Role         UserRole `gorm:"size:20;default:'editor'" json:"role"`

	TokenHash      string     `gorm:"index;size:64" json:"-"` // SHA-256 of the API token
	TokenCreatedAt *time.Time `json:"-"`

	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
