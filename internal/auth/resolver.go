package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clubdesk/clubdesk/internal/config"
)

// ScopeResolver verifies identity tokens and turns them into an Identity.
type ScopeResolver struct {
	key    []byte
	parser *jwt.Parser
}

// NewScopeResolver creates a resolver sharing the issuer's configuration.
func NewScopeResolver(cfg config.Token, opts ...Option) (*ScopeResolver, error) {
	key, err := signingKey(cfg)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)

	return &ScopeResolver{
		key: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(5*time.Second),
			jwt.WithTimeFunc(o.now),
		),
	}, nil
}

// ResolveIdentity validates signature, expiry and claim schema of raw.
// Every failure wraps ErrInvalidToken.
func (r *ScopeResolver) ResolveIdentity(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims := &Claims{}

	token, err := r.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return r.key, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return Identity{}, fmt.Errorf("%w: token not valid", ErrInvalidToken)
	}

	if claims.Version != ClaimsVersion {
		return Identity{}, fmt.Errorf("%w: unsupported claim version %d", ErrInvalidToken, claims.Version)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return Identity{}, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}

	id := Identity{
		UserID:   userID,
		FullName: claims.Name,
		Email:    claims.Email,
		Phone:    claims.Phone,
		Roles:    dedupeRoles(claims.Roles),
		ClubID:   claims.ClubID,
		TokenID:  claims.ID,
	}

	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}

	return id, nil
}
