package model

import "time"

// Place field constraints
const (
	MaxTitleLength       = 200
	MinDescriptionLength = 5
	MaxDescriptionLength = 2000
	MaxAddressLength     = 500
)

// Location is a geocoded coordinate pair
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place represents a user-created, geocoded place
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Location    Location  `json:"location"`
	Image       string    `json:"image"`
	Creator     string    `json:"creator"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// IsCreatedBy reports whether userID is the place's creator.
// Both sides are compared in canonical form.
func (p *Place) IsCreatedBy(userID string) bool {
	return SameID(TableUser, p.Creator, userID)
}
