package auth

import (
	"strings"
	"time"
)

// Identity is the caller as described by a verified token. It is rebuilt
// from the token on every request and never stored.
type Identity struct {
	UserID    uint64
	FullName  string
	Email     string
	Phone     string
	Roles     []string
	ClubID    *uint64 // managed club, only set for club-scoped role holders
	TokenID   string
	ExpiresAt time.Time
}

// CurrentUserID returns the subject of the token.
func (i Identity) CurrentUserID() uint64 {
	return i.UserID
}

// ManagedClubID returns the club the identity manages, if any.
func (i Identity) ManagedClubID() (uint64, bool) {
	if i.ClubID == nil {
		return 0, false
	}

	return *i.ClubID, true
}

// dedupeRoles trims role names and drops blanks and repeats, keeping order.
func dedupeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))

	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}

		if _, ok := seen[role]; ok {
			continue
		}

		seen[role] = struct{}{}
		out = append(out, role)
	}

	return out
}
