package auth

import (
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

// Reason explains a denial.
type Reason string

// Deny reasons.
const (
	ReasonNoBasePermission      Reason = "no-base-permission"
	ReasonOutOfScopeClub        Reason = "out-of-scope-club"
	ReasonNotResourceOwner      Reason = "not-resource-owner"
	ReasonNoApplicableScopeRule Reason = "no-applicable-scope-rule"
	ReasonResourceChainBroken   Reason = "resource-chain-broken"
)

// Decision is the verdict for one (identity, section, action, facts) tuple.
type Decision struct {
	Granted bool   `json:"granted"`
	Reason  Reason `json:"reason,omitempty"`
}

// Grant returns a granting decision.
func Grant() Decision {
	return Decision{Granted: true}
}

// Deny returns a denying decision with reason.
func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

func (d Decision) String() string {
	if d.Granted {
		return "grant"
	}

	return "deny(" + string(d.Reason) + ")"
}

// OwnerFacts describe where a resource sits: its club and its owning user.
// For creation they describe the proposed resource.
type OwnerFacts struct {
	ClubID      *uint64
	OwnerUserID *uint64

	// ChainBroken is set when a parent on the way to the club is missing.
	ChainBroken bool
}

// ClubFacts builds facts for a resource owned by a club only.
func ClubFacts(clubID uint64) *OwnerFacts {
	return &OwnerFacts{ClubID: &clubID}
}

// OwnedFacts builds facts for a resource owned by a user inside a club.
func OwnedFacts(clubID, ownerUserID uint64) *OwnerFacts {
	return &OwnerFacts{ClubID: &clubID, OwnerUserID: &ownerUserID}
}

// Evaluate decides whether roles allow identity to perform action on section
// given facts. It is pure and safe for concurrent use.
//
// Only roles whose matrix grants (section, action) take part in the scope
// checks. A global candidate wins over narrower ones. A club candidate grants
// when the facts name the identity's managed club, a self candidate when they
// name the identity as owner. Missing facts never grant a scoped candidate.
func Evaluate(
	roles []models.Role,
	id Identity,
	section string,
	action permission.Action,
	facts *OwnerFacts,
) Decision {
	candidates := make([]models.Role, 0, len(roles))

	for _, role := range roles {
		if role.Permissions.Allows(section, action) {
			candidates = append(candidates, role)
		}
	}

	if len(candidates) == 0 {
		return Deny(ReasonNoBasePermission)
	}

	if facts != nil && facts.ChainBroken {
		return Deny(ReasonResourceChainBroken)
	}

	for _, role := range candidates {
		if role.Scope == models.ScopeGlobal {
			return Grant()
		}
	}

	var clubMiss, selfMiss bool

	for _, role := range candidates {
		switch role.Scope {
		case models.ScopeClub:
			if facts == nil {
				continue
			}

			if sameClub(id, facts) {
				return Grant()
			}

			clubMiss = true
		case models.ScopeSelf:
			if facts == nil {
				continue
			}

			if facts.OwnerUserID != nil && *facts.OwnerUserID == id.CurrentUserID() {
				return Grant()
			}

			selfMiss = true
		}
	}

	switch {
	case clubMiss:
		return Deny(ReasonOutOfScopeClub)
	case selfMiss:
		return Deny(ReasonNotResourceOwner)
	default:
		return Deny(ReasonNoApplicableScopeRule)
	}
}

func sameClub(id Identity, facts *OwnerFacts) bool {
	managed, ok := id.ManagedClubID()

	return ok && facts.ClubID != nil && *facts.ClubID == managed
}

// widestScope returns the widest recognized scope among roles granting
// (section, action).
func widestScope(roles []models.Role, section string, action permission.Action) (models.Scope, bool) {
	rank := map[models.Scope]int{models.ScopeSelf: 1, models.ScopeClub: 2, models.ScopeGlobal: 3}

	var (
		best     models.Scope
		bestRank int
	)

	for _, role := range roles {
		if !role.Permissions.Allows(section, action) {
			continue
		}

		if r := rank[role.Scope]; r > bestRank {
			best, bestRank = role.Scope, r
		}
	}

	return best, bestRank > 0
}
