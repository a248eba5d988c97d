package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry is a pre-launch signup
type WaitlistEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RefreshToken is a persisted session refresh token
type RefreshToken struct {
	Token      string    `db:"token"`
	AccountID  uuid.UUID `db:"account_id"`
	ExpiryDate time.Time `db:"expiry_date"`
	IsRevoked  bool      `db:"is_revoked"`
	CreatedAt  time.Time `db:"created_at"`
}
