// Package hall serves the halls of clubs.
package hall

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/auth"
	hallctrl "github.com/clubdesk/clubdesk/internal/db/controller/hall"
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
	"github.com/clubdesk/clubdesk/internal/web/handler"
)

const (
	// Path is the root path of the hall routes.
	Path = handler.APIPath + "/halls"
)

// Service is the hall handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// CreateRequest is the payload of POST /api/halls.
type CreateRequest struct {
	ClubID uint64 `json:"club_id" validate:"required"`
	Name   string `json:"name"    validate:"required,max=200"`
}

// UpdateRequest is the payload of PUT /api/halls/:id.
type UpdateRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// Init initializes the hall handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router := app.Group(Path)
	// the base permission gates the list, ListScope picks the rows
	router.Get(handler.RouterRootPath,
		auth.RequirePermission(deps.Authz, auth.SectionHalls, permission.Read),
		s.List,
	)
	router.Post(handler.RouterRootPath, s.Create)
	router.Get("/:"+handler.IDParam, s.Get)
	router.Put("/:"+handler.IDParam, s.Update)
	router.Delete("/:"+handler.IDParam, s.Delete)

	return nil
}

// List returns the halls visible under the caller's widest read scope.
// Halls have no owning user, so a self scope sees none.
func (s *Service) List(c fiber.Ctx) error {
	id, scope, ok, err := handler.ListScope(c, s.deps.Authz, auth.SectionHalls)
	if !ok {
		return err
	}

	var clubID *uint64

	switch scope {
	case models.ScopeGlobal:
	case models.ScopeClub:
		club, managed := id.ManagedClubID()
		if !managed {
			return c.JSON([]models.Hall{})
		}

		clubID = &club
	default:
		return c.JSON([]models.Hall{})
	}

	halls, err := hallctrl.List(s.deps.DB.WithContext(c.Context()), clubID)
	if err != nil {
		return handler.InternalError(c, err, "failed to list halls")
	}

	return c.JSON(halls)
}

// Get returns one hall.
func (s *Service) Get(c fiber.Ctx) error {
	hallID, ok, err := s.authorizeHall(c, permission.Read)
	if !ok {
		return err
	}

	hall, err := hallctrl.Get(s.deps.DB.WithContext(c.Context()), hallID)
	if errors.Is(err, hallctrl.ErrHallNotFound) {
		return handler.NotFound(c)
	}

	if err != nil {
		return handler.InternalError(c, err, "failed to load hall")
	}

	return c.JSON(hall)
}

// Create adds a hall to a club. The decision runs on the proposed club.
func (s *Service) Create(c fiber.Ctx) error {
	if _, ok, err := handler.CurrentIdentity(c); !ok {
		return err
	}

	in := new(CreateRequest)
	if ok, err := handler.BindAndValidate(c, in); !ok {
		return err
	}

	facts, err := s.deps.Guards.Halls.ProposedFacts(c.Context(), in.ClubID)
	if ok, err := handler.CheckFacts(c, err); !ok {
		return err
	}

	caller, ok, err := handler.Authorize(c, s.deps.Authz, auth.SectionHalls, permission.Create, facts)
	if !ok {
		return err
	}

	hall, err := hallctrl.Create(s.deps.DB.WithContext(c.Context()), in.ClubID, in.Name)
	if errors.Is(err, hallctrl.ErrHallNameEmpty) {
		return handler.BadRequest(c, err.Error())
	}

	if err != nil {
		return handler.InternalError(c, err, "failed to create hall")
	}

	log.Info().Uint64("user_id", caller.CurrentUserID()).Uint64("hall_id", hall.ID).Msg("hall created")

	return c.Status(fiber.StatusCreated).JSON(hall)
}

// Update renames a hall.
func (s *Service) Update(c fiber.Ctx) error {
	hallID, ok, err := s.authorizeHall(c, permission.Update)
	if !ok {
		return err
	}

	in := new(UpdateRequest)
	if ok, err = handler.BindAndValidate(c, in); !ok {
		return err
	}

	hall, err := hallctrl.Rename(s.deps.DB.WithContext(c.Context()), hallID, in.Name)

	switch {
	case errors.Is(err, hallctrl.ErrHallNotFound):
		return handler.NotFound(c)
	case errors.Is(err, hallctrl.ErrHallNameEmpty):
		return handler.BadRequest(c, err.Error())
	case err != nil:
		return handler.InternalError(c, err, "failed to update hall")
	}

	return c.JSON(hall)
}

// Delete removes a hall. Halls that still have seats are refused with 409.
func (s *Service) Delete(c fiber.Ctx) error {
	hallID, ok, err := s.authorizeHall(c, permission.Delete)
	if !ok {
		return err
	}

	err = hallctrl.Delete(s.deps.DB.WithContext(c.Context()), hallID)

	switch {
	case errors.Is(err, hallctrl.ErrHallNotFound):
		return handler.NotFound(c)
	case errors.Is(err, hallctrl.ErrHallHasSeats):
		return handler.Conflict(c, err.Error())
	case err != nil:
		return handler.InternalError(c, err, "failed to delete hall")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// authorizeHall parses the hall id and decides action against its club.
func (s *Service) authorizeHall(c fiber.Ctx, action permission.Action) (uint64, bool, error) {
	hallID, ok, err := handler.ParseID(c)
	if !ok {
		return 0, false, err
	}

	facts, err := s.deps.Guards.Halls.OwnerFacts(c.Context(), hallID)
	if ok, err = handler.CheckFacts(c, err); !ok {
		return 0, false, err
	}

	if _, ok, err = handler.Authorize(c, s.deps.Authz, auth.SectionHalls, action, facts); !ok {
		return 0, false, err
	}

	return hallID, true, nil
}
