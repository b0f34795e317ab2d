package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"smarttravel/internal/domain"
)

// CachedPlaces is a cache-aside PlacesProvider. Errors are never cached; a zero
// TTL disables caching entirely.
type CachedPlaces struct {
	next     domain.PlacesProvider
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCachedPlaces(next domain.PlacesProvider, c domain.Cache, ttl time.Duration) domain.PlacesProvider {
	if c == nil || ttl <= 0 {
		return next
	}
	return &CachedPlaces{next: next, cache: c, cacheTTL: ttl}
}

func (s *CachedPlaces) TextSearch(ctx context.Context, query string) ([]map[string]any, error) {
	key := "places:search:" + queryKey(query)
	var out []map[string]any
	if s.cached(ctx, key, &out) {
		return out, nil
	}
	rs, err := s.next.TextSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	// optional size guard
	if b, _ := json.Marshal(rs); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, rs, int(s.cacheTTL.Seconds()))
	}
	return rs, nil
}

func (s *CachedPlaces) PlacePhotos(ctx context.Context, placeID string) ([]string, error) {
	return s.strings(ctx, "places:photos:"+placeID, func() ([]string, error) {
		return s.next.PlacePhotos(ctx, placeID)
	})
}

func (s *CachedPlaces) PlaceReviews(ctx context.Context, placeID string) ([]string, error) {
	return s.strings(ctx, "places:reviews:"+placeID, func() ([]string, error) {
		return s.next.PlaceReviews(ctx, placeID)
	})
}

func (s *CachedPlaces) strings(ctx context.Context, key string, load func() ([]string, error)) ([]string, error) {
	var out []string
	if s.cached(ctx, key, &out) {
		return out, nil
	}
	vs, err := load()
	if err != nil {
		return nil, err
	}
	// copy to avoid aliasing the provider's backing array
	cp := append([]string{}, vs...)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

// Forget drops cached lookups for a place (photos and reviews).
func (s *CachedPlaces) Forget(ctx context.Context, placeID string) {
	_ = s.cache.Del(ctx, "places:photos:"+placeID)
	_ = s.cache.Del(ctx, "places:reviews:"+placeID)
}

// cached is a hit only when the entry decoded cleanly; anything else goes back to
// the provider and the bad entry is dropped.
func (s *CachedPlaces) cached(ctx context.Context, key string, dst any) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed, loading from provider")
		_ = s.cache.Del(ctx, key)
		return false
	}
	return ok
}

func queryKey(q string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(q))))
	return hex.EncodeToString(sum[:])
}
