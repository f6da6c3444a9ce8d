package domain

import (
	"errors"
	"strings"
	"time"
)

// TrustedClaims is the identity asserted by a session token whose signature
// and expiry have been verified. It is the only identity data access may rely on.
type TrustedClaims struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin reports whether the verified role is admin.
func (c TrustedClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// RoutingHint is the unverified role copied into the user-role cookie. It may
// only pick a redirect target and must never authorize data access.
type RoutingHint struct {
	role string
}

var ErrUnknownRoutingHint = errors.New("unknown routing hint")

// ParseRoutingHint reads a raw cookie value. An empty value yields the zero
// hint and no error; an unrecognised value is an error.
func ParseRoutingHint(raw string) (RoutingHint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RoutingHint{}, nil
	}
	if !ValidRole(raw) {
		return RoutingHint{}, ErrUnknownRoutingHint
	}
	return RoutingHint{role: raw}, nil
}

// Present reports whether a marker was sent at all.
func (h RoutingHint) Present() bool { return h.role != "" }

// Role returns the hinted role, or "" when absent.
func (h RoutingHint) Role() string { return h.role }
