package policy

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("you do not have permission to perform this action")
)

// Tier is the minimum privilege a caller must hold for an action.
type Tier int

const (
	TierPublic Tier = iota
	TierAuthenticated
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierAuthenticated:
		return "authenticated"
	case TierAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Principal is an authenticated caller. A nil *Principal is anonymous.
type Principal struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

func (p *Principal) Tier() Tier {
	switch {
	case p == nil:
		return TierPublic
	case p.IsAdmin:
		return TierAdmin
	default:
		return TierAuthenticated
	}
}

// Check authenticates first and only then compares tiers, so an anonymous
// caller always gets ErrAuthenticationRequired.
func Check(p *Principal, required Tier) error {
	if required == TierPublic {
		return nil
	}
	if p == nil {
		return ErrAuthenticationRequired
	}
	if p.Tier() < required {
		return ErrAuthorizationDenied
	}
	return nil
}
