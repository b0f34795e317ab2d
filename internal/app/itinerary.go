package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"smarttravel/internal/domain"
)

const MaxDays = 30

type ItineraryService struct {
	fetcher *PlaceFetcher
	gen     domain.TextGenerator
}

func NewItineraryService(f *PlaceFetcher, g domain.TextGenerator) *ItineraryService {
	return &ItineraryService{fetcher: f, gen: g}
}

// Generate fetches and ranks places, buckets them into days and asks the model to
// narrate the plan. Any failure aborts the whole request.
func (s *ItineraryService) Generate(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
	req = normalizeRequest(req)

	set, err := s.fetcher.Fetch(ctx, domain.PlaceQuery{
		Destination:   req.Destination,
		KidFriendly:   req.KidFriendly,
		Budget:        req.Budget,
		TravelType:    req.TravelType,
		ActivityTheme: req.ActivityTheme,
	})
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("fetch places: %w", err)
	}

	plan := PartitionDays(RankPlaces(set.Attractions), RankPlaces(set.Restaurants), req.Days)

	prompt, err := itineraryPrompt(req, plan)
	if err != nil {
		return domain.Itinerary{}, err
	}
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("generate itinerary text: %w", err)
	}

	log.Info().
		Str("destination", req.Destination).
		Int("days", req.Days).
		Int("attractions", len(set.Attractions)).
		Int("restaurants", len(set.Restaurants)).
		Msg("itinerary generated")

	label, desc := BudgetInfo(req.Budget)
	return domain.Itinerary{
		Destination:       req.Destination,
		Days:              req.Days,
		Budget:            req.Budget,
		BudgetLabel:       label,
		BudgetDescription: desc,
		KidFriendly:       req.KidFriendly,
		ItineraryText:     text,
		PlanStruct:        plan,
	}, nil
}

func normalizeRequest(req domain.ItineraryRequest) domain.ItineraryRequest {
	req.Destination = strings.TrimSpace(req.Destination)
	req.TravelType = strings.ToLower(strings.TrimSpace(req.TravelType))
	req.ActivityTheme = strings.TrimSpace(req.ActivityTheme)
	if req.Days < 0 {
		req.Days = 0
	}
	if req.Days > MaxDays {
		req.Days = MaxDays
	}
	return req
}
