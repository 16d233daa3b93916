package models

import "time"

// Club is the organizational unit halls belong to.
type Club struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the Club model.
func (Club) TableName() string {
	return "clubs"
}

// Hall is a room of a club.
type Hall struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	ClubID uint64 `gorm:"not null;index" json:"club_id"`
	Name   string `gorm:"size:200;not null" json:"name"`
}

// TableName specifies the database table name for the Hall model.
func (Hall) TableName() string {
	return "halls"
}

// Seat is a bookable place inside a hall.
type Seat struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	HallID uint64 `gorm:"not null;index" json:"hall_id"`
	Label  string `gorm:"size:50" json:"label"`
}

// TableName specifies the database table name for the Seat model.
func (Seat) TableName() string {
	return "seats"
}

// Booking reserves a seat for a user over a time range.
type Booking struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	SeatID    uint64    `gorm:"not null;index" json:"seat_id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the Booking model.
func (Booking) TableName() string {
	return "bookings"
}
