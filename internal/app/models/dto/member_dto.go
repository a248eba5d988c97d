package dto

import "github.com/bizlink/alliance/internal/app/models"

// UpgradeRequest switches the caller's own membership tier
type UpgradeRequest struct {
	MembershipType models.Tier `json:"membershipType" binding:"required,oneof=free premium"`
}

// MembershipResponse reports the caller's tier after a change
type MembershipResponse struct {
	MembershipType models.Tier `json:"membershipType"`
	Label          string      `json:"label"`
}

// UpdateProfileRequest represents the editable part of a business profile
type UpdateProfileRequest struct {
	Name         string         `json:"name" binding:"required,max=100"`
	BusinessName string         `json:"businessName" binding:"required,max=150"`
	Industry     string         `json:"industry" binding:"max=100"`
	Phone        string         `json:"phone" binding:"omitempty,phone"`
	Description  string         `json:"description" binding:"max=5000"`
	Chapter      string         `json:"chapter" binding:"max=100"`
	Socials      models.Socials `json:"socials"`
}

// WaitlistRequest represents a waitlist signup
type WaitlistRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// WaitlistResponse tells whether the email was newly added
type WaitlistResponse struct {
	Email         string `json:"email"`
	AlreadyListed bool   `json:"alreadyListed"`
}

// RegistrationResponse tells the client where to go after a free registration
type RegistrationResponse struct {
	Redirect string `json:"redirect" example:"/thank-you?chapter=Sacramento"`
}

// IntegrationStatus reports how an embedded integration would render
type IntegrationStatus struct {
	Name string `json:"name"`
	Mode string `json:"mode" example:"embed"`
	URL  string `json:"url,omitempty"`
}
