package handler

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/auth"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

// ValidationBody is the JSON body of a 400 caused by payload validation.
type ValidationBody struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// BindAndValidate decodes the JSON body into out and validates it. On failure
// it writes a 400 and returns ok=false.
func BindAndValidate(c fiber.Ctx, out any) (ok bool, err error) {
	if err = c.Bind().JSON(out); err != nil {
		return false, BadRequest(c, "invalid json body")
	}

	if err = validate.Struct(out); err != nil {
		body := ValidationBody{Error: "validation failed"}

		if verrs, isValidation := err.(validator.ValidationErrors); isValidation { //nolint:errorlint // ok here
			for _, fe := range verrs {
				body.Fields = append(body.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
			}
		}

		return false, c.Status(fiber.StatusBadRequest).JSON(body)
	}

	return true, nil
}

// ParseID reads the numeric id route parameter. On failure it writes a 400.
func ParseID(c fiber.Ctx) (id uint64, ok bool, err error) {
	id, err = strconv.ParseUint(c.Params(IDParam), 10, 64)
	if err != nil || id == 0 {
		return 0, false, BadRequest(c, "invalid id")
	}

	return id, true, nil
}

// ParseUintID reads the id route parameter for stores keyed by uint. Ids that
// do not fit the platform uint are rejected with a 400.
func ParseUintID(c fiber.Ctx) (id uint, ok bool, err error) {
	parsed, err := strconv.ParseUint(c.Params(IDParam), 10, strconv.IntSize)
	if err != nil || parsed == 0 {
		return 0, false, BadRequest(c, "invalid id")
	}

	return uint(parsed), true, nil
}

// CurrentIdentity returns the caller or writes a 401.
func CurrentIdentity(c fiber.Ctx) (auth.Identity, bool, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, false, auth.Unauthorized(c)
	}

	return id, true, nil
}

// BadRequest writes a 400 with msg.
func BadRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(auth.ErrorBody{Error: msg})
}

// NotFound writes a 404.
func NotFound(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(auth.ErrorBody{Error: "not found"})
}

// Conflict writes a 409 with msg.
func Conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(auth.ErrorBody{Error: msg})
}

// InternalError logs err and writes a 500.
func InternalError(c fiber.Ctx, err error, msg string) error {
	log.Error().Err(err).Str("path", c.Path()).Msg(msg)

	return c.Status(fiber.StatusInternalServerError).JSON(auth.ErrorBody{Error: "internal server error"})
}
