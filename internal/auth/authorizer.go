package auth

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

var decisionsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Namespace: "clubdesk",
		Subsystem: "authz",
		Name:      "decisions_total",
		Help:      "Authorization decisions by section, action, result and deny reason.",
	},
	[]string{"section", "action", "result", "reason"},
)

// RoleLookup resolves role names carried in a token to stored roles.
type RoleLookup interface {
	RolesByName(ctx context.Context, names []string) ([]models.Role, error)
}

// Authorizer combines the identity's current role matrices with resource
// owner facts.
type Authorizer struct {
	roles RoleLookup
}

// NewAuthorizer creates a new authorizer.
func NewAuthorizer(roles RoleLookup) *Authorizer {
	return &Authorizer{roles: roles}
}

// Decide loads the identity's roles and evaluates the request. Deny is a
// normal result. A returned error means the store could not be read and
// callers must treat it as a denial.
func (a *Authorizer) Decide(
	ctx context.Context,
	id Identity,
	section string,
	action permission.Action,
	facts *OwnerFacts,
) (Decision, error) {
	roles, err := a.load(ctx, id)
	if err != nil {
		decisionsTotal.WithLabelValues(section, action.String(), "error", "").Inc()

		return Deny(""), err
	}

	d := Evaluate(roles, id, section, action, facts)

	if d.Granted {
		decisionsTotal.WithLabelValues(section, action.String(), "grant", "").Inc()
	} else {
		decisionsTotal.WithLabelValues(section, action.String(), "deny", string(d.Reason)).Inc()
		log.Debug().
			Uint64("user_id", id.CurrentUserID()).
			Str("section", section).
			Str("action", action.String()).
			Str("reason", string(d.Reason)).
			Msg("authorization denied")
	}

	return d, nil
}

// HasPermission reports whether any held role grants (section, action),
// ignoring scope.
func (a *Authorizer) HasPermission(
	ctx context.Context,
	id Identity,
	section string,
	action permission.Action,
) (bool, error) {
	roles, err := a.load(ctx, id)
	if err != nil {
		return false, err
	}

	for _, role := range roles {
		if role.Permissions.Allows(section, action) {
			return true, nil
		}
	}

	return false, nil
}

// ListScope returns the widest scope under which the identity may perform
// action on section. Collection handlers use it to filter rows. ok is false
// when no held role with a recognized scope grants the action.
func (a *Authorizer) ListScope(
	ctx context.Context,
	id Identity,
	section string,
	action permission.Action,
) (scope models.Scope, ok bool, err error) {
	roles, err := a.load(ctx, id)
	if err != nil {
		return "", false, err
	}

	scope, ok = widestScope(roles, section, action)

	return scope, ok, nil
}

// EffectiveMatrix returns the union of the matrices of all held roles.
func (a *Authorizer) EffectiveMatrix(ctx context.Context, id Identity) (permission.Matrix, error) {
	roles, err := a.load(ctx, id)
	if err != nil {
		return nil, err
	}

	matrices := make([]permission.Matrix, 0, len(roles))
	for _, role := range roles {
		matrices = append(matrices, role.Permissions)
	}

	return permission.Union(matrices...), nil
}

func (a *Authorizer) load(ctx context.Context, id Identity) ([]models.Role, error) {
	if len(id.Roles) == 0 {
		return nil, nil
	}

	roles, err := a.roles.RolesByName(ctx, id.Roles)
	if err != nil {
		return nil, fmt.Errorf("authorization store unavailable: %w", err)
	}

	return roles, nil
}
