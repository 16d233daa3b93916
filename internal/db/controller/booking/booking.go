// Package booking provides CRUD operations for seat bookings.
package booking

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubdesk/clubdesk/internal/db/models"
)

var (
	// ErrBookingNotFound is returned when a booking is not found.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrInvalidRange is returned when a booking does not end after it starts.
	ErrInvalidRange = errors.New("booking must end after it starts")
	// ErrSeatTaken is returned when the seat is already booked for an overlapping range.
	ErrSeatTaken = errors.New("seat is already booked for this time")
	// ErrSeatNotFound is returned when booking a seat that does not exist.
	ErrSeatNotFound = errors.New("seat not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List. Nil fields do not filter.
type Filter struct {
	ClubID *uint64
	UserID *uint64
}

// Get retrieves a booking by its ID.
func Get(db *gorm.DB, id uint64) (*models.Booking, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var booking models.Booking
	result := db.First(&booking, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, result.Error
	}

	return &booking, nil
}

// List returns bookings matching f ordered by start time.
func List(db *gorm.DB, f Filter) ([]models.Booking, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Model(&models.Booking{})

	if f.ClubID != nil {
		q = q.Joins("JOIN seats ON seats.id = bookings.seat_id").
			Joins("JOIN halls ON halls.id = seats.hall_id").
			Where("halls.club_id = ?", *f.ClubID)
	}

	if f.UserID != nil {
		q = q.Where("bookings.user_id = ?", *f.UserID)
	}

	bookings := []models.Booking{}
	result := q.Select("bookings.*").Order("bookings.starts_at, bookings.id").Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

// Create stores a new booking. Overlapping bookings of the same seat are
// rejected. The seat row is locked for the check, so concurrent bookings of
// one seat are serialized.
func Create(db *gorm.DB, seatID, userID uint64, startsAt, endsAt time.Time) (*models.Booking, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidRange
	}

	booking := &models.Booking{
		SeatID:   seatID,
		UserID:   userID,
		StartsAt: startsAt.UTC(),
		EndsAt:   endsAt.UTC(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var seat models.Seat
		result := forUpdate(tx).First(&seat, seatID)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrSeatNotFound
		}
		if result.Error != nil {
			return result.Error
		}

		var overlapping int64
		result = tx.Model(&models.Booking{}).
			Where("seat_id = ? AND starts_at < ? AND ends_at > ?", seatID, booking.EndsAt, booking.StartsAt).
			Count(&overlapping)
		if result.Error != nil {
			return result.Error
		}
		if overlapping > 0 {
			return ErrSeatTaken
		}

		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return booking, nil
}

// Delete deletes a booking by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Booking{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// forUpdate holds the row lock of the next query where the dialect has one.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
