package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        int64     // ID is the system-assigned identifier, never reused
	Name      string    // Name is the full name of the user
	Email     string    // Email is the unique email address of the user
	Phone     *string   // Phone is optional
	Address   *string   // Address is optional
	CreatedAt time.Time // CreatedAt is set once on creation
	UpdatedAt time.Time // UpdatedAt is refreshed on every update
}

// SearchCriteria holds the optional filters of a multi-criteria search.
// A nil field is not applied; supplied fields are combined with AND.
type SearchCriteria struct {
	Name  *string
	Email *string
	Phone *string
}

// Empty reports whether no criterion is supplied.
func (c SearchCriteria) Empty() bool {
	return c.Name == nil && c.Email == nil && c.Phone == nil
}
