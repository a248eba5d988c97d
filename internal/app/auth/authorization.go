// Package auth holds the membership gate: which viewer may see or do what,
// based on membership tier and record ownership.
package auth

import (
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/google/uuid"
)

// Viewer is the authenticated member making a request. A nil *Viewer is an
// anonymous visitor.
type Viewer struct {
	AccountID    uuid.UUID
	Email        string
	Name         string
	BusinessName string
	Tier         models.Tier
}

// DisplayName is the name shown on posts and messages
func (v *Viewer) DisplayName() string {
	if v == nil {
		return ""
	}
	if v.Name != "" {
		return v.Name
	}
	return v.Email
}

// ID returns the account id as a string, or "" for anonymous viewers
func (v *Viewer) ID() string {
	if v == nil {
		return ""
	}
	return v.AccountID.String()
}

func (v *Viewer) tier() (models.Tier, bool) {
	if v == nil {
		return "", false
	}
	t, err := models.ParseTier(string(v.Tier))
	if err != nil {
		return "", false
	}
	return t, true
}

// IsBoard reports whether the viewer is a board member
func (v *Viewer) IsBoard() bool {
	t, ok := v.tier()
	return ok && t == models.TierBoard
}

// CanViewContactInfo reports whether viewer may see phone, email and socials
// of a member on the given tier. Only free viewers looking at premium members
// are restricted; anonymous visitors see no contact details at all.
func CanViewContactInfo(viewer *Viewer, target models.Tier) bool {
	t, ok := viewer.tier()
	if !ok {
		return false
	}
	return !(t == models.TierFree && target == models.TierPremium)
}

// CanConnect reports whether viewer may open a conversation with a member on
// the given tier
func CanConnect(viewer *Viewer, target models.Tier) bool {
	return CanViewContactInfo(viewer, target)
}

// CanManageEvents reports whether viewer may create and edit events
func CanManageEvents(viewer *Viewer) bool {
	t, ok := viewer.tier()
	return ok && t.AtLeast(models.TierPremium)
}

// CanPostCommunity reports whether viewer may post on the community board
func CanPostCommunity(viewer *Viewer) bool {
	_, ok := viewer.tier()
	return ok
}

// CanAccessAdmin reports whether viewer may use the admin console
func CanAccessAdmin(viewer *Viewer) bool {
	return viewer.IsBoard()
}

// CanEditEvent reports whether viewer may change an event written by authorID
func CanEditEvent(viewer *Viewer, authorID uuid.UUID) bool {
	if viewer.IsBoard() {
		return true
	}
	return CanManageEvents(viewer) && viewer.AccountID == authorID
}

// CanDeleteEvent reports whether viewer may remove an event written by
// authorID. Authors may always remove their own events.
func CanDeleteEvent(viewer *Viewer, authorID uuid.UUID) bool {
	if viewer.IsBoard() {
		return true
	}
	_, ok := viewer.tier()
	return ok && viewer.AccountID == authorID
}

// Errors returned by the Require helpers
const (
	msgLoginRequired   = "Please log in to continue."
	msgUpgradeEvents   = "You need a premium membership to create events."
	msgUpgradeConnect  = "Upgrade to premium membership to connect with premium businesses."
	msgAdminOnly       = "You do not have access to this page."
	msgNotEventOwner   = "You can only change events you created."
	msgCommunityMember = "Please log in to post on the community board."
)

// RequireViewer fails for anonymous visitors
func RequireViewer(viewer *Viewer) error {
	if _, ok := viewer.tier(); !ok {
		return apperrors.NewCustomError(apperrors.ErrUnauthenticated, msgLoginRequired)
	}
	return nil
}

// RequireManageEvents fails with an upgrade prompt for free members
func RequireManageEvents(viewer *Viewer) error {
	if err := RequireViewer(viewer); err != nil {
		return err
	}
	if !CanManageEvents(viewer) {
		return apperrors.NewUpgradeRequiredError(msgUpgradeEvents)
	}
	return nil
}

// RequireConnect fails with an upgrade prompt when viewer may not contact target
func RequireConnect(viewer *Viewer, target models.Tier) error {
	if err := RequireViewer(viewer); err != nil {
		return err
	}
	if !CanConnect(viewer, target) {
		return apperrors.NewUpgradeRequiredError(msgUpgradeConnect)
	}
	return nil
}

// RequirePostCommunity fails for visitors without a valid membership
func RequirePostCommunity(viewer *Viewer) error {
	if !CanPostCommunity(viewer) {
		return apperrors.NewCustomError(apperrors.ErrUnauthenticated, msgCommunityMember)
	}
	return nil
}

// RequireAdmin fails for anyone but board members
func RequireAdmin(viewer *Viewer) error {
	if err := RequireViewer(viewer); err != nil {
		return err
	}
	if !CanAccessAdmin(viewer) {
		return apperrors.NewForbiddenError(msgAdminOnly)
	}
	return nil
}

// RequireEditEvent fails unless viewer may change the event
func RequireEditEvent(viewer *Viewer, authorID uuid.UUID) error {
	if err := RequireManageEvents(viewer); err != nil {
		return err
	}
	if !CanEditEvent(viewer, authorID) {
		return apperrors.NewForbiddenError(msgNotEventOwner)
	}
	return nil
}

// RequireDeleteEvent fails unless viewer may remove the event
func RequireDeleteEvent(viewer *Viewer, authorID uuid.UUID) error {
	if err := RequireViewer(viewer); err != nil {
		return err
	}
	if !CanDeleteEvent(viewer, authorID) {
		return apperrors.NewForbiddenError(msgNotEventOwner)
	}
	return nil
}
