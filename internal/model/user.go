package model

import "time"

// Signup field constraints
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt input limit
	MaxNameLength     = 100
)

// User represents a user account
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Hash      string    `json:"-"` // Never expose password hash
	Image     string    `json:"image"`
	Places    []string  `json:"places"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// OwnsPlace reports whether placeID is in the user's place references
func (u *User) OwnsPlace(placeID string) bool {
	for _, id := range u.Places {
		if SameID(TablePlace, id, placeID) {
			return true
		}
	}
	return false
}
