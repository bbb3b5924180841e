package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account holder.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email       string    `gorm:"uniqueIndex;not null"`
	Password    string    `gorm:"not null"` // bcrypt hash
	FirstName   string
	LastName    string
	DisplayName string
	IsActive    bool `gorm:"default:true"`

	TwoFactorEnabled bool `gorm:"default:false"`
	TwoFactorSecret  string

	EmailConfirmedAt *time.Time
	LastSignInAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Relationships
	Sites    []Site    `gorm:"foreignKey:UserID"`
	Payments []Payment `gorm:"foreignKey:UserID"`
}

// BeforeCreate hook to set UUID if not provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Name returns the best available human-readable name for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Email
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
