package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttravel/internal/app"
	"smarttravel/internal/domain"
)

func itineraryFixture(q domain.PlaceQuery) *fakePlaces {
	return &fakePlaces{search: map[string][]map[string]any{
		app.AttractionQuery(q): {
			raw("a1", "Old Town", 4.5, 100, nil, "tourist_attraction"),
			raw("a2", "Castle", 4.9, 50, 2.0, "museum"),
			raw("a3", "Gold Spa", 4.8, 50, 4.0, "spa"),
		},
		app.RestaurantQuery(q): {
			raw("r1", "Pierogi Bar", 4.4, 800, 1.0, "restaurant"),
		},
	}}
}

func TestItinerary_Generate(t *testing.T) {
	req := domain.ItineraryRequest{Destination: " Krakow ", Days: 2, Budget: 2, TravelType: "Family"}
	q := domain.PlaceQuery{Destination: "Krakow", Budget: 2, TravelType: "family"}
	gen := &fakeGen{text: "Day 1 Morning..."}
	svc := app.NewItineraryService(app.NewPlaceFetcher(itineraryFixture(q), 20, 0), gen)

	out, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Krakow", out.Destination)
	assert.Equal(t, 2, out.Days)
	assert.Equal(t, "Moderate", out.BudgetLabel)
	assert.True(t, strings.HasPrefix(out.BudgetDescription, "moderately priced"))
	assert.Equal(t, "Day 1 Morning...", out.ItineraryText)

	require.Len(t, out.PlanStruct, 2)
	day1 := out.PlanStruct[0]
	require.Len(t, day1.Attractions, 2)
	assert.Equal(t, "Castle", day1.Attractions[0].Name)
	assert.Equal(t, "Old Town", day1.Attractions[1].Name)
	assert.Equal(t, "Pierogi Bar", day1.Restaurants[0].Name)
	assert.Empty(t, out.PlanStruct[1].Attractions)

	require.Len(t, gen.prompts, 1)
	p := gen.prompts[0]
	assert.Contains(t, p, "2-day itinerary for Krakow")
	assert.Contains(t, p, "Morning / Afternoon / Evening")
	assert.Contains(t, p, `"name": "Castle"`)
	assert.NotContains(t, p, "Gold Spa")
	assert.NotContains(t, p, "a2") // ids never reach the model
}

func TestItinerary_DaysClamped(t *testing.T) {
	q := domain.PlaceQuery{Destination: "Krakow", Budget: 2}
	svc := app.NewItineraryService(app.NewPlaceFetcher(itineraryFixture(q), 20, 0), &fakeGen{text: "x"})

	out, err := svc.Generate(context.Background(), domain.ItineraryRequest{Destination: "Krakow", Days: 99, Budget: 2})
	require.NoError(t, err)
	assert.Equal(t, app.MaxDays, out.Days)
	assert.Len(t, out.PlanStruct, app.MaxDays)

	out, err = svc.Generate(context.Background(), domain.ItineraryRequest{Destination: "Krakow", Days: -3, Budget: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Days)
	assert.Empty(t, out.PlanStruct)
}

func TestItinerary_OutOfRangeBudget(t *testing.T) {
	q := domain.PlaceQuery{Destination: "Krakow", Budget: 9}
	gen := &fakeGen{text: "x"}
	svc := app.NewItineraryService(app.NewPlaceFetcher(itineraryFixture(q), 20, 0), gen)

	out, err := svc.Generate(context.Background(), domain.ItineraryRequest{Destination: "Krakow", Days: 1, Budget: 9})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", out.BudgetLabel)
	assert.Equal(t, "Moderately priced options", out.BudgetDescription)
	assert.Len(t, out.PlanStruct[0].Attractions, 3)
	assert.Contains(t, gen.prompts[0], "moderately priced options.")
}

func TestItinerary_FailuresAbort(t *testing.T) {
	q := domain.PlaceQuery{Destination: "Krakow", Budget: 2}

	svc := app.NewItineraryService(app.NewPlaceFetcher(&fakePlaces{searchErr: domain.ErrUpstream}, 20, 0), &fakeGen{})
	_, err := svc.Generate(context.Background(), domain.ItineraryRequest{Destination: "Krakow", Days: 1})
	assert.ErrorIs(t, err, domain.ErrUpstream)

	svc = app.NewItineraryService(app.NewPlaceFetcher(itineraryFixture(q), 20, 0), &fakeGen{err: errors.New("model down")})
	_, err = svc.Generate(context.Background(), domain.ItineraryRequest{Destination: "Krakow", Days: 1, Budget: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model down")
}
