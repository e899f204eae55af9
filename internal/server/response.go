package server

import "hostelhaven/internal/domain"

// unratedSentinel is what the ratings field carries when a listing has
// never been rated, instead of a number.
const unratedSentinel = "unrated"

// listingResponse is the caller-facing listing shape.
type listingResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	Facilities  []string        `json:"facilities"`
	RoomTypes   []string        `json:"room_types"`
	MonthlyRent int             `json:"monthly_rent"`
	Ratings     any             `json:"ratings"`
	Contact     contactResponse `json:"contact"`
}

type contactResponse struct {
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

func toListingResponse(l domain.Listing) listingResponse {
	var ratings any = unratedSentinel
	if l.Ratings != nil {
		ratings = *l.Ratings
	}
	facilities := l.Facilities
	if facilities == nil {
		facilities = []string{}
	}
	roomTypes := l.RoomTypes
	if roomTypes == nil {
		roomTypes = []string{}
	}
	return listingResponse{
		ID:          l.ID,
		Name:        l.Name,
		Location:    l.Location,
		Description: l.Description,
		Facilities:  facilities,
		RoomTypes:   roomTypes,
		MonthlyRent: l.MonthlyRent,
		Ratings:     ratings,
		Contact:     contactResponse{Phone: l.Contact.Phone, Email: l.Contact.Email},
	}
}

func toListingResponses(listings []domain.Listing) []listingResponse {
	out := make([]listingResponse, len(listings))
	for i, l := range listings {
		out[i] = toListingResponse(l)
	}
	return out
}
