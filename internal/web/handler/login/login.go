package login

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/web/handler"
	"github.com/clubdesk/clubdesk/internal/web/middleware/ratelimit"
)

const (
	// Path is the path of the login endpoint.
	Path = handler.APIPath + "/login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Request is the login payload.
type Request struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
}

// Response carries the issued token.
type Response struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	limiter := ratelimit.New(ratelimit.Config{
		PerSecond: deps.Cfg.Webserver.LoginRateLimit,
		Burst:     deps.Cfg.Webserver.LoginBurst,
	})

	app.Post(Path, limiter, s.Post)

	return nil
}

// Post checks the credentials and issues a token carrying the user's current roles.
func (s *Service) Post(c fiber.Ctx) error {
	in := new(Request)
	if ok, err := handler.BindAndValidate(c, in); !ok {
		return err
	}

	user, err := s.deps.Local.Authenticate(c.Context(), in.Email, in.Password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Info().Str("email", in.Email).Str("ip", c.IP()).Msg("failed login")

		return c.Status(fiber.StatusUnauthorized).JSON(auth.ErrorBody{Error: ErrInvalidCredentials.Error()})
	case errors.Is(err, auth.ErrUserAccountDisabled):
		log.Info().Str("email", in.Email).Msg("login of disabled account")

		return c.Status(fiber.StatusForbidden).JSON(auth.ErrorBody{Error: ErrAccountDisabled.Error()})
	case err != nil:
		return handler.InternalError(c, err, "failed to authenticate user")
	}

	token, expiresAt, err := s.deps.Issuer.IssueForUser(c.Context(), s.deps.Roles, user)
	if err != nil {
		return handler.InternalError(c, err, "failed to issue token")
	}

	log.Info().Uint64("user_id", user.ID).Msg("user logged in")

	return c.JSON(Response{Token: token, ExpiresAt: expiresAt})
}
