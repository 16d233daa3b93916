package auth

// Section names used in permission matrices. They are matched exactly.
const (
	// SectionBookings covers seat bookings.
	SectionBookings = "Bookings"
	// SectionHalls covers halls of a club.
	SectionHalls = "Halls"
	// SectionSeats covers seats inside halls.
	SectionSeats = "Seats"
	// SectionClubs covers the clubs themselves.
	SectionClubs = "Clubs"
	// SectionPayments covers booking payments.
	SectionPayments = "Payments"
	// SectionRoles covers roles and their permission matrices.
	SectionRoles = "Roles"
	// SectionUsers covers user accounts.
	SectionUsers = "Users"
)

// Sections returns every known section.
func Sections() []string {
	return []string{
		SectionBookings,
		SectionHalls,
		SectionSeats,
		SectionClubs,
		SectionPayments,
		SectionRoles,
		SectionUsers,
	}
}
