// Package guard supplies resource owner facts for the authorization decision.
//
// Each guard walks one entity type up to its club: booking to seat to hall to
// club, seat to hall to club, hall to club. Guards only look rows up, they
// never decide.
package guard

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/db/models"
)

// ErrNotFound is returned when the target resource itself does not exist.
var ErrNotFound = errors.New("resource not found")

// Guards bundles one guard per protected entity type.
type Guards struct {
	Bookings *Booking
	Seats    *Seat
	Halls    *Hall
	Clubs    *Club
}

// New creates all guards over db.
func New(db *gorm.DB) *Guards {
	return &Guards{
		Bookings: &Booking{db: db},
		Seats:    &Seat{db: db},
		Halls:    &Hall{db: db},
		Clubs:    &Club{db: db},
	}
}

// Booking resolves owner facts of bookings.
type Booking struct {
	db *gorm.DB
}

// OwnerFacts returns the booking's owner and the club of its seat's hall.
func (g *Booking) OwnerFacts(ctx context.Context, bookingID uint64) (*auth.OwnerFacts, error) {
	var booking models.Booking
	if err := first(ctx, g.db, &booking, bookingID); err != nil {
		return nil, err
	}

	facts, err := seatClub(ctx, g.db, booking.SeatID)
	if err != nil {
		return nil, err
	}

	owner := booking.UserID
	facts.OwnerUserID = &owner

	return facts, nil
}

// ProposedFacts describes a booking about to be created for ownerUserID on seatID.
func (g *Booking) ProposedFacts(ctx context.Context, seatID, ownerUserID uint64) (*auth.OwnerFacts, error) {
	facts, err := seatClub(ctx, g.db, seatID)
	if err != nil {
		return nil, err
	}

	facts.OwnerUserID = &ownerUserID

	return facts, nil
}

// Seat resolves owner facts of seats.
type Seat struct {
	db *gorm.DB
}

// OwnerFacts returns the club of the seat's hall.
func (g *Seat) OwnerFacts(ctx context.Context, seatID uint64) (*auth.OwnerFacts, error) {
	var seat models.Seat
	if err := first(ctx, g.db, &seat, seatID); err != nil {
		return nil, err
	}

	return hallClub(ctx, g.db, seat.HallID)
}

// ProposedFacts describes a seat about to be created in hallID.
func (g *Seat) ProposedFacts(ctx context.Context, hallID uint64) (*auth.OwnerFacts, error) {
	return hallClub(ctx, g.db, hallID)
}

// Hall resolves owner facts of halls.
type Hall struct {
	db *gorm.DB
}

// OwnerFacts returns the hall's club.
func (g *Hall) OwnerFacts(ctx context.Context, hallID uint64) (*auth.OwnerFacts, error) {
	var hall models.Hall
	if err := first(ctx, g.db, &hall, hallID); err != nil {
		return nil, err
	}

	return clubFacts(ctx, g.db, hall.ClubID)
}

// ProposedFacts describes a hall about to be created in clubID.
func (g *Hall) ProposedFacts(ctx context.Context, clubID uint64) (*auth.OwnerFacts, error) {
	return clubFacts(ctx, g.db, clubID)
}

// Club resolves owner facts of clubs.
type Club struct {
	db *gorm.DB
}

// OwnerFacts returns facts naming the club itself.
func (g *Club) OwnerFacts(ctx context.Context, clubID uint64) (*auth.OwnerFacts, error) {
	var club models.Club
	if err := first(ctx, g.db, &club, clubID); err != nil {
		return nil, err
	}

	return auth.ClubFacts(club.ID), nil
}

// seatClub walks seat to hall to club. A missing link yields ChainBroken.
func seatClub(ctx context.Context, db *gorm.DB, seatID uint64) (*auth.OwnerFacts, error) {
	var seat models.Seat

	err := first(ctx, db, &seat, seatID)
	if errors.Is(err, ErrNotFound) {
		return &auth.OwnerFacts{ChainBroken: true}, nil
	}

	if err != nil {
		return nil, err
	}

	return hallClub(ctx, db, seat.HallID)
}

func hallClub(ctx context.Context, db *gorm.DB, hallID uint64) (*auth.OwnerFacts, error) {
	var hall models.Hall

	err := first(ctx, db, &hall, hallID)
	if errors.Is(err, ErrNotFound) {
		return &auth.OwnerFacts{ChainBroken: true}, nil
	}

	if err != nil {
		return nil, err
	}

	return clubFacts(ctx, db, hall.ClubID)
}

func clubFacts(ctx context.Context, db *gorm.DB, clubID uint64) (*auth.OwnerFacts, error) {
	var club models.Club

	err := first(ctx, db, &club, clubID)
	if errors.Is(err, ErrNotFound) {
		return &auth.OwnerFacts{ChainBroken: true}, nil
	}

	if err != nil {
		return nil, err
	}

	return auth.ClubFacts(club.ID), nil
}

func first(ctx context.Context, db *gorm.DB, dest any, id uint64) error {
	err := db.WithContext(ctx).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to load %T %d: %w", dest, id, err)
	}

	return nil
}
