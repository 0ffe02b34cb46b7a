package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyPending is the response code of a key whose request is still running
const IdempotencyPending = 0

// IdempotencyKey stores processed requests to prevent duplicates
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_scope;size:255;not null"` // The idempotency key from client
	Scope        string    `gorm:"uniqueIndex:idx_idempotency_scope;size:255;not null"` // User ID, or client IP for guests
	Endpoint     string    `gorm:"size:255;not null"`                                   // e.g. "POST /api/v1/orders"
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending reports whether the request holding the key has not finished yet
func (i *IdempotencyKey) IsPending() bool {
	return i.ResponseCode == IdempotencyPending
}
