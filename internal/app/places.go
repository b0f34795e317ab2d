package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"smarttravel/internal/domain"
)

const (
	DefaultMaxResults = 20
	MaxPhotoRefs      = 5
	MinRating         = 3.5
)

var travelTypePhrases = map[string]string{
	"solo":    "solo traveler spots",
	"couple":  "romantic places",
	"family":  "family friendly",
	"friends": "fun group activities",
}

// PlaceFetcher searches the places provider and turns raw results into filtered
// attraction and restaurant lists.
type PlaceFetcher struct {
	places     domain.PlacesProvider
	maxResults int
	throttle   *rate.Limiter
	onDegrade  DegradeHook
}

// NewPlaceFetcher builds a fetcher. photoDelay is the minimum spacing between photo
// detail lookups; zero disables the throttle.
func NewPlaceFetcher(p domain.PlacesProvider, maxResults int, photoDelay time.Duration) *PlaceFetcher {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if photoDelay > 0 {
		lim = rate.NewLimiter(rate.Every(photoDelay), 1)
	}
	return &PlaceFetcher{places: p, maxResults: maxResults, throttle: lim}
}

func (f *PlaceFetcher) WithDegradeHook(h DegradeHook) *PlaceFetcher {
	f.onDegrade = h
	return f
}

func AttractionQuery(q domain.PlaceQuery) string {
	parts := []string{"top tourist attractions in " + q.Destination}
	if q.ActivityTheme != "" {
		parts = append(parts, q.ActivityTheme)
	}
	if phrase, ok := travelTypePhrases[q.TravelType]; ok {
		parts = append(parts, phrase)
	}
	return strings.Join(parts, " ")
}

func RestaurantQuery(q domain.PlaceQuery) string {
	return "best restaurants in " + q.Destination
}

// Fetch runs both searches, enriches photos and applies the kid-friendly, budget and
// rating filters. Ranking is left to the caller.
func (f *PlaceFetcher) Fetch(ctx context.Context, q domain.PlaceQuery) (domain.PlaceSet, error) {
	var atts, rests []domain.Place

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := f.places.TextSearch(gctx, AttractionQuery(q))
		if err != nil {
			return fmt.Errorf("search attractions: %w", err)
		}
		atts = f.normalize(gctx, raw, true)
		return nil
	})
	g.Go(func() error {
		raw, err := f.places.TextSearch(gctx, RestaurantQuery(q))
		if err != nil {
			return fmt.Errorf("search restaurants: %w", err)
		}
		rests = f.normalize(gctx, raw, true)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.PlaceSet{}, err
	}

	if q.KidFriendly {
		atts = FilterKidFriendly(atts)
	}
	atts = FilterRating(FilterBudget(atts, q.Budget), MinRating)
	rests = FilterRating(FilterBudget(rests, q.Budget), MinRating)

	return domain.PlaceSet{Attractions: atts, Restaurants: rests}, nil
}

// Search resolves a free-text query to normalized places without photo enrichment.
func (f *PlaceFetcher) Search(ctx context.Context, query string) ([]domain.Place, error) {
	raw, err := f.places.TextSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	return f.normalize(ctx, raw, false), nil
}

func (f *PlaceFetcher) normalize(ctx context.Context, raw []map[string]any, enrich bool) []domain.Place {
	if len(raw) > f.maxResults {
		raw = raw[:f.maxResults]
	}
	out := make([]domain.Place, 0, len(raw))
	for _, r := range raw {
		p := mapPlace(r)
		if enrich && p.ID != "" {
			extra := f.photos(ctx, p.ID)
			if extra.Degraded {
				f.onDegrade.note("photos")
				log.Warn().Err(extra.Cause).Str("place_id", p.ID).Msg("photo enrichment skipped")
			}
			p.PhotoRefs = mergePhotoRefs(p.PhotoRefs, extra.Value, MaxPhotoRefs)
		}
		out = append(out, p)
	}
	return out
}

func (f *PlaceFetcher) photos(ctx context.Context, placeID string) domain.BestEffort[[]string] {
	if err := f.throttle.Wait(ctx); err != nil {
		return domain.Fallback([]string{}, err)
	}
	refs, err := f.places.PlacePhotos(ctx, placeID)
	if err != nil {
		return domain.Fallback([]string{}, err)
	}
	if len(refs) > MaxPhotoRefs {
		refs = refs[:MaxPhotoRefs]
	}
	return domain.Present(refs)
}

/********** filters **********/

// FilterKidFriendly keeps places tagged as a park or museum (substring match over
// the joined tags, so "amusement_park" qualifies).
func FilterKidFriendly(ps []domain.Place) []domain.Place {
	out := make([]domain.Place, 0, len(ps))
	for _, p := range ps {
		tags := strings.Join(p.Types, ",")
		if strings.Contains(tags, "park") || strings.Contains(tags, "museum") {
			out = append(out, p)
		}
	}
	return out
}

// FilterBudget keeps places with no price level or one within budget.
func FilterBudget(ps []domain.Place, budget int) []domain.Place {
	out := make([]domain.Place, 0, len(ps))
	for _, p := range ps {
		if p.PriceLevel == nil || *p.PriceLevel <= budget {
			out = append(out, p)
		}
	}
	return out
}

// FilterRating keeps places rated at least threshold. Unrated places count as 0.
func FilterRating(ps []domain.Place, threshold float64) []domain.Place {
	out := make([]domain.Place, 0, len(ps))
	for _, p := range ps {
		if p.RatingOrZero() >= threshold {
			out = append(out, p)
		}
	}
	return out
}
