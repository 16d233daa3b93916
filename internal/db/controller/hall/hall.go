// Package hall provides CRUD operations for the halls of a club.
package hall

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubdesk/clubdesk/internal/db/models"
)

var (
	// ErrHallNotFound is returned when a hall is not found.
	ErrHallNotFound = errors.New("hall not found")
	// ErrHallNameEmpty is returned when attempting to create/update a hall with an empty name.
	ErrHallNameEmpty = errors.New("hall name cannot be empty")
	// ErrHallHasSeats is returned when deleting a hall that still has seats.
	ErrHallHasSeats = errors.New("hall still has seats")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a hall by its ID.
func Get(db *gorm.DB, id uint64) (*models.Hall, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var hall models.Hall
	result := db.First(&hall, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, result.Error
	}

	return &hall, nil
}

// List returns halls ordered by name. A nil clubID lists the halls of all clubs.
func List(db *gorm.DB, clubID *uint64) ([]models.Hall, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Model(&models.Hall{})
	if clubID != nil {
		q = q.Where("club_id = ?", *clubID)
	}

	halls := []models.Hall{}
	result := q.Order("name, id").Find(&halls)
	if result.Error != nil {
		return nil, result.Error
	}

	return halls, nil
}

// Create creates a new hall in a club.
func Create(db *gorm.DB, clubID uint64, name string) (*models.Hall, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrHallNameEmpty
	}

	hall := &models.Hall{ClubID: clubID, Name: name}

	result := db.Create(hall)
	if result.Error != nil {
		return nil, result.Error
	}

	return hall, nil
}

// Rename updates the name of an existing hall.
func Rename(db *gorm.DB, id uint64, name string) (*models.Hall, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrHallNameEmpty
	}

	hall, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	hall.Name = name
	result := db.Save(hall)
	if result.Error != nil {
		return nil, result.Error
	}

	return hall, nil
}

// Delete deletes a hall by ID. A hall that still has seats is refused with
// ErrHallHasSeats.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error { //nolint:wrapcheck
		var hall models.Hall
		result := forUpdate(tx).First(&hall, id)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrHallNotFound
		}
		if result.Error != nil {
			return result.Error
		}

		var seats int64
		result = tx.Model(&models.Seat{}).Where("hall_id = ?", id).Count(&seats)
		if result.Error != nil {
			return result.Error
		}
		if seats > 0 {
			return ErrHallHasSeats
		}

		return tx.Delete(&models.Hall{}, id).Error
	})
}

// forUpdate holds the row lock of the next query where the dialect has one.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
