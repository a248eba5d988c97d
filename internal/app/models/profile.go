package models

import (
	"time"

	"github.com/google/uuid"
)

// Socials holds optional social links of a business
type Socials struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
	Facebook string `json:"facebook,omitempty"`
}

// Profile is the public business profile of an account, stored in 'profiles'
type Profile struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Name           string    `json:"name" db:"name"`
	BusinessName   string    `json:"businessName" db:"business_name"`
	Industry       string    `json:"industry" db:"industry"`
	Phone          string    `json:"phone" db:"phone"`
	Description    string    `json:"description" db:"description"`
	Socials        Socials   `json:"socials" db:"socials"`
	Chapter        string    `json:"chapter,omitempty" db:"chapter"`
	MembershipType Tier      `json:"membershipType" db:"membership_type"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// AccountMetadata is the free-form part of an account edited by its owner
type AccountMetadata struct {
	Name         string `json:"name,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	Industry     string `json:"industry,omitempty"`
}

// Account is an authentication identity, stored in 'accounts'
type Account struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Email        string          `json:"email" db:"email"`
	PasswordHash string          `json:"-" db:"password_hash"`
	Metadata     AccountMetadata `json:"metadata" db:"metadata"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	LastLoginAt  *time.Time      `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// DefaultProfile builds the profile shown for an account whose profile row is missing
func DefaultProfile(acc *Account) *Profile {
	return &Profile{
		ID:             acc.ID,
		Email:          acc.Email,
		Name:           acc.Metadata.Name,
		BusinessName:   acc.Metadata.BusinessName,
		Industry:       acc.Metadata.Industry,
		MembershipType: TierFree,
		CreatedAt:      acc.CreatedAt,
		UpdatedAt:      acc.CreatedAt,
	}
}

// Industries is the fixed list offered by the directory filter
var Industries = []string{
	"Legal Services",
	"Marketing & Advertising",
	"Construction",
	"Accounting & Finance",
	"Technology",
	"Healthcare",
	"Real Estate",
	"Consulting",
	"Retail",
	"Food & Beverage",
}
