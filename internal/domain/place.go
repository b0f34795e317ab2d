package domain

// Place is a normalized place of interest (attraction or restaurant).
type Place struct {
	ID               string   `json:"place_id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Lat              *float64 `json:"lat"`
	Lon              *float64 `json:"lon"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int64   `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`
	PhotoRefs        []string `json:"photo_refs"`

	// Sentiment is only ever attached by clients that enrich a plan after the fact;
	// itinerary output always drops it.
	Sentiment *SentimentReport `json:"sentiment,omitempty"`
}

// RatingOrZero treats a missing rating as 0.
func (p Place) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func (p Place) RatingsTotalOrZero() int64 {
	if p.UserRatingsTotal == nil {
		return 0
	}
	return *p.UserRatingsTotal
}

type DayPlan struct {
	Day         int     `json:"day"`
	Attractions []Place `json:"attractions"`
	Restaurants []Place `json:"restaurants"`
}

// PlaceQuery carries the trip constraints used to build searches and filters.
type PlaceQuery struct {
	Destination   string
	KidFriendly   bool
	Budget        int
	TravelType    string
	ActivityTheme string
}

type PlaceSet struct {
	Attractions []Place
	Restaurants []Place
}

type ItineraryRequest struct {
	Destination   string `json:"destination"`
	Days          int    `json:"days"`
	Budget        int    `json:"budget"`
	KidFriendly   bool   `json:"kid_friendly"`
	TravelType    string `json:"travel_type,omitempty"`
	ActivityTheme string `json:"activity_theme,omitempty"`
}

type Itinerary struct {
	Destination       string    `json:"destination"`
	Days              int       `json:"days"`
	Budget            int       `json:"budget"`
	BudgetLabel       string    `json:"budget_label"`
	BudgetDescription string    `json:"budget_description"`
	KidFriendly       bool      `json:"kid_friendly"`
	ItineraryText     string    `json:"itinerary_text"`
	PlanStruct        []DayPlan `json:"plan_struct"`
}
