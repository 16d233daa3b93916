package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clubdesk/clubdesk/internal/config"
	"github.com/clubdesk/clubdesk/internal/db/models"
)

// ClaimsVersion is the claim schema version written into every token.
const ClaimsVersion = 1

// Claims is the versioned claim schema of an identity token.
type Claims struct {
	Version int      `json:"ver"`
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	ClubID  *uint64  `json:"club_id,omitempty"`
	Roles   []string `json:"roles"`
	jwt.RegisteredClaims
}

type options struct {
	now func() time.Time
}

// Option customizes a TokenIssuer or ScopeResolver.
type Option func(*options)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func signingKey(cfg config.Token) ([]byte, error) {
	key := strings.TrimSpace(cfg.SigningKey)
	if key == "" {
		return nil, ErrMissingSigningKey
	}

	return []byte(key), nil
}

// RoleSource lists the roles currently assigned to a user.
type RoleSource interface {
	GetRolesForUser(ctx context.Context, userID uint64) ([]models.Role, error)
}

// TokenIssuer signs identity tokens with HS256.
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	validity time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates an issuer. A missing signing key is a configuration
// error and is returned as ErrMissingSigningKey.
func NewTokenIssuer(cfg config.Token, opts ...Option) (*TokenIssuer, error) {
	key, err := signingKey(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ValidityDays <= 0 {
		return nil, config.ErrTokenValidityDays
	}

	o := buildOptions(opts)

	return &TokenIssuer{
		key:      key,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		validity: time.Duration(cfg.ValidityDays) * 24 * time.Hour,
		now:      o.now,
	}, nil
}

// Issue signs a token for user carrying roleNames and, when given, the
// managed club id. It has no side effects.
func (t *TokenIssuer) Issue(user *models.User, roleNames []string, managedClubID *uint64) (string, time.Time, error) {
	if t == nil || len(t.key) == 0 {
		return "", time.Time{}, ErrMissingSigningKey
	}

	if user == nil || user.ID == 0 {
		return "", time.Time{}, ErrInvalidUser
	}

	now := t.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(t.validity)

	claims := Claims{
		Version: ClaimsVersion,
		Name:    user.FullName,
		Email:   user.Email,
		Phone:   user.Phone,
		Roles:   dedupeRoles(roleNames),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatUint(user.ID, 10),
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	if claims.Roles == nil {
		claims.Roles = []string{}
	}

	if managedClubID != nil {
		club := *managedClubID
		claims.ClubID = &club
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// IssueForUser reads the user's current roles and issues a token for them.
// The managed club id is embedded only when one of the roles is club-scoped.
func (t *TokenIssuer) IssueForUser(ctx context.Context, src RoleSource, user *models.User) (string, time.Time, error) {
	if user == nil || user.ID == 0 {
		return "", time.Time{}, ErrInvalidUser
	}

	roles, err := src.GetRolesForUser(ctx, user.ID)
	if err != nil {
		return "", time.Time{}, err //nolint:wrapcheck
	}

	var (
		names  = make([]string, 0, len(roles))
		clubID *uint64
	)

	for _, role := range roles {
		names = append(names, role.Name)

		if role.Scope == models.ScopeClub && user.ManagedClubID != nil {
			clubID = user.ManagedClubID
		}
	}

	return t.Issue(user, names, clubID)
}
