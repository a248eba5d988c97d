package models

import (
	"fmt"
	"strings"

	"github.com/bizlink/alliance/internal/pkg/apperrors"
)

// Tier is a membership level. Tiers are ordered free < premium < board.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierBoard   Tier = "board"
)

// AllTiers lists the tiers in ascending order
var AllTiers = []Tier{TierFree, TierPremium, TierBoard}

// ParseTier validates a stored or submitted tier string. Matching ignores case
// and surrounding spaces; anything else is rejected.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierFree:
		return TierFree, nil
	case TierPremium:
		return TierPremium, nil
	case TierBoard:
		return TierBoard, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidTier, s)
}

// Valid reports whether t is one of the known tiers
func (t Tier) Valid() bool {
	_, err := ParseTier(string(t))
	return err == nil
}

// Rank returns the position of t in the tier order, or -1 when t is unknown
func (t Tier) Rank() int {
	for i, known := range AllTiers {
		if t == known {
			return i
		}
	}
	return -1
}

// AtLeast reports whether t ranks at or above min
func (t Tier) AtLeast(min Tier) bool {
	r := t.Rank()
	return r >= 0 && r >= min.Rank()
}

// Label is the display name used in activity messages
func (t Tier) Label() string {
	switch t {
	case TierPremium:
		return "Premium"
	case TierBoard:
		return "Board"
	default:
		return "Free"
	}
}
