package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment lifecycle states, mirroring the gateway's transaction states.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusAbandoned = "abandoned"
)

// Payment represents one checkout attempt against the payment gateway.
// The Reference is generated fresh per attempt and is the idempotency key
// for verification and webhooks.
type Payment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	Reference string `gorm:"uniqueIndex;not null"`
	PlanType  string `gorm:"not null"`
	Amount    int64  `gorm:"not null"` // gateway subunits
	Currency  string `gorm:"not null;default:'KES'"`
	Status    string `gorm:"default:'pending';index"`

	AuthorizationURL string
	PaidAt           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// BeforeCreate hook to set UUID if not provided
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Completed reports whether the gateway confirmed this payment.
func (p *Payment) Completed() bool {
	return p.Status == PaymentStatusSuccess
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}
