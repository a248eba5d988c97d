package dto

import "github.com/bizlink/alliance/internal/app/models"

// DirectoryQuery filters and pages the member directory
type DirectoryQuery struct {
	Search   string `form:"search" binding:"max=100"`
	Industry string `form:"industry" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// DirectoryEntry is a business as one viewer may see it. Contact fields are
// left empty when ContactHidden is set.
type DirectoryEntry struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	BusinessName    string          `json:"businessName"`
	Industry        string          `json:"industry"`
	Description     string          `json:"description"`
	Chapter         string          `json:"chapter,omitempty"`
	MembershipType  models.Tier     `json:"membershipType"`
	MembershipLabel string          `json:"membershipLabel"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	Socials         *models.Socials `json:"socials,omitempty"`
	ContactHidden   bool            `json:"contactHidden"`
	CanConnect      bool            `json:"canConnect"`
}
