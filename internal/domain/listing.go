package domain

import (
	"fmt"
	"strings"
)

// Contact holds the listing owner's contact details. Email is optional and
// may be empty.
type Contact struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// Listing is a single rental-housing record as stored in the listing store.
// The query path treats listings as read-only; all mutation happens through
// the store's own write path.
type Listing struct {
	ID                  string   `bson:"-" json:"id"`
	Name                string   `bson:"name" json:"name"`
	Location            string   `bson:"location" json:"location"`
	Description         string   `bson:"description" json:"description"`
	Facilities          []string `bson:"facilities" json:"facilities"`
	RoomTypes           []string `bson:"room_types" json:"room_types"`
	MonthlyRent         int      `bson:"monthly_rent" json:"monthly_rent"`
	Ratings             *float64 `bson:"ratings,omitempty" json:"ratings,omitempty"`
	Reviews             int      `bson:"reviews,omitempty" json:"reviews,omitempty"`
	Gender              string   `bson:"gender,omitempty" json:"gender,omitempty"`
	DistanceFromCollege float64  `bson:"distance_from_college,omitempty" json:"distance_from_college,omitempty"`
	Contact             Contact  `bson:"contact" json:"contact"`
}

// Rating returns the listing's rating, with unrated listings counting as 0.
func (l Listing) Rating() float64 {
	if l.Ratings == nil {
		return 0
	}
	return *l.Ratings
}

// CanonicalText builds the deterministic text representation a listing is
// embedded under at index-build time. Query text is embedded raw and never
// passes through this.
func (l Listing) CanonicalText() string {
	return fmt.Sprintf("%s in %s. %s Facilities: %s. Room Types: %s. Rent: %d INR. Gender: %s.",
		l.Name,
		l.Location,
		l.Description,
		strings.Join(l.Facilities, ", "),
		strings.Join(l.RoomTypes, ", "),
		l.MonthlyRent,
		l.Gender,
	)
}
