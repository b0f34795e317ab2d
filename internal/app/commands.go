package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smarttravel/internal/domain"
)

const warmReviewPlaces = 3

// placeForgetter is implemented by caching providers that can drop a place's
// cached lookups.
type placeForgetter interface {
	Forget(ctx context.Context, placeID string)
}

// WarmService pre-populates the provider cache for a destination so the first
// itinerary request for it does not pay the full lookup cost.
type WarmService struct {
	fetcher  *PlaceFetcher
	places   domain.PlacesProvider
	insights domain.InsightRepository
}

func NewWarmService(f *PlaceFetcher, p domain.PlacesProvider, insights domain.InsightRepository) *WarmService {
	return &WarmService{fetcher: f, places: p, insights: insights}
}

// WarmDestination runs the default search pair with the widest budget, then
// reloads reviews for the best-ranked attractions, dropping whatever the cache
// held for them first. Not-found and auth failures are logged
// as misses and stop gracefully; anything else bubbles up.
func (s *WarmService) WarmDestination(ctx context.Context, destination string) error {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil
	}

	set, err := s.fetcher.Fetch(ctx, domain.PlaceQuery{Destination: destination, Budget: 4})
	if err != nil {
		if reason, miss := missReason(err); miss {
			s.logMiss(ctx, destination, reason)
			return nil
		}
		return fmt.Errorf("warm %s: %w", destination, err)
	}

	ranked := RankPlaces(set.Attractions)
	for i, p := range ranked {
		if i == warmReviewPlaces {
			break
		}
		if f, ok := s.places.(placeForgetter); ok {
			f.Forget(ctx, p.ID)
		}
		if _, rerr := s.places.PlaceReviews(ctx, p.ID); rerr != nil {
			if reason, miss := missReason(rerr); miss {
				s.logMiss(ctx, p.ID, "reviews:"+reason)
				continue
			}
			return fmt.Errorf("warm reviews for %s: %w", p.ID, rerr)
		}
	}
	return nil
}

func missReason(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found", true
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return "denied", true
	}
	return "", false
}

func (s *WarmService) logMiss(ctx context.Context, key, reason string) {
	if s.insights != nil {
		_ = s.insights.LogMiss(ctx, key, reason)
	}
}
