// Package booking serves seat bookings. Every route runs the authorization
// decision against the booking's owner facts.
package booking

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/auth"
	bookingctrl "github.com/clubdesk/clubdesk/internal/db/controller/booking"
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
	"github.com/clubdesk/clubdesk/internal/web/handler"
)

const (
	// Path is the root path of the booking routes.
	Path = handler.APIPath + "/bookings"
)

// Service is the booking handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// CreateRequest is the payload of POST /api/bookings. UserID defaults to the caller.
type CreateRequest struct {
	SeatID   uint64    `json:"seat_id"   validate:"required"`
	UserID   uint64    `json:"user_id"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at"   validate:"required,gtfield=StartsAt"`
}

// Init initializes the booking handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router := app.Group(Path)
	// the base permission gates the list, ListScope picks the rows
	router.Get(handler.RouterRootPath,
		auth.RequirePermission(deps.Authz, auth.SectionBookings, permission.Read),
		s.List,
	)
	router.Post(handler.RouterRootPath, s.Create)
	router.Get("/:"+handler.IDParam, s.Get)
	router.Delete("/:"+handler.IDParam, s.Delete)

	return nil
}

// List returns the bookings visible under the caller's widest read scope.
func (s *Service) List(c fiber.Ctx) error {
	id, scope, ok, err := handler.ListScope(c, s.deps.Authz, auth.SectionBookings)
	if !ok {
		return err
	}

	var filter bookingctrl.Filter

	switch scope {
	case models.ScopeGlobal:
	case models.ScopeClub:
		club, managed := id.ManagedClubID()
		if !managed {
			return c.JSON([]models.Booking{})
		}

		filter.ClubID = &club
	default:
		me := id.CurrentUserID()
		filter.UserID = &me
	}

	bookings, err := bookingctrl.List(s.deps.DB.WithContext(c.Context()), filter)
	if err != nil {
		return handler.InternalError(c, err, "failed to list bookings")
	}

	return c.JSON(bookings)
}

// Get returns one booking.
func (s *Service) Get(c fiber.Ctx) error {
	bookingID, ok, err := handler.ParseID(c)
	if !ok {
		return err
	}

	facts, err := s.deps.Guards.Bookings.OwnerFacts(c.Context(), bookingID)
	if ok, err = handler.CheckFacts(c, err); !ok {
		return err
	}

	if _, ok, err = handler.Authorize(c, s.deps.Authz, auth.SectionBookings, permission.Read, facts); !ok {
		return err
	}

	booking, err := bookingctrl.Get(s.deps.DB.WithContext(c.Context()), bookingID)
	if errors.Is(err, bookingctrl.ErrBookingNotFound) {
		return handler.NotFound(c)
	}

	if err != nil {
		return handler.InternalError(c, err, "failed to load booking")
	}

	return c.JSON(booking)
}

// Create books a seat. The decision runs on the proposed booking.
func (s *Service) Create(c fiber.Ctx) error {
	caller, ok, err := handler.CurrentIdentity(c)
	if !ok {
		return err
	}

	in := new(CreateRequest)
	if ok, err = handler.BindAndValidate(c, in); !ok {
		return err
	}

	owner := in.UserID
	if owner == 0 {
		owner = caller.CurrentUserID()
	}

	facts, err := s.deps.Guards.Bookings.ProposedFacts(c.Context(), in.SeatID, owner)
	if ok, err = handler.CheckFacts(c, err); !ok {
		return err
	}

	if _, ok, err = handler.Authorize(c, s.deps.Authz, auth.SectionBookings, permission.Create, facts); !ok {
		return err
	}

	booking, err := bookingctrl.Create(s.deps.DB.WithContext(c.Context()), in.SeatID, owner, in.StartsAt, in.EndsAt)

	switch {
	case errors.Is(err, bookingctrl.ErrSeatTaken):
		return handler.Conflict(c, err.Error())
	case errors.Is(err, bookingctrl.ErrSeatNotFound):
		return handler.NotFound(c)
	case errors.Is(err, bookingctrl.ErrInvalidRange):
		return handler.BadRequest(c, err.Error())
	case err != nil:
		return handler.InternalError(c, err, "failed to create booking")
	}

	log.Info().
		Uint64("user_id", caller.CurrentUserID()).
		Uint64("booking_id", booking.ID).
		Uint64("owner_id", owner).
		Msg("booking created")

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// Delete cancels a booking.
func (s *Service) Delete(c fiber.Ctx) error {
	bookingID, ok, err := handler.ParseID(c)
	if !ok {
		return err
	}

	facts, err := s.deps.Guards.Bookings.OwnerFacts(c.Context(), bookingID)
	if ok, err = handler.CheckFacts(c, err); !ok {
		return err
	}

	caller, ok, err := handler.Authorize(c, s.deps.Authz, auth.SectionBookings, permission.Delete, facts)
	if !ok {
		return err
	}

	err = bookingctrl.Delete(s.deps.DB.WithContext(c.Context()), bookingID)
	if errors.Is(err, bookingctrl.ErrBookingNotFound) {
		return handler.NotFound(c)
	}

	if err != nil {
		return handler.InternalError(c, err, "failed to delete booking")
	}

	log.Info().Uint64("user_id", caller.CurrentUserID()).Uint64("booking_id", bookingID).Msg("booking deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
