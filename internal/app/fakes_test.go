package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"smarttravel/internal/domain"
)

// ---- fakes ----

type fakePlaces struct {
	mu        sync.Mutex
	search    map[string][]map[string]any
	searchErr error
	photos    map[string][]string
	photoErr  error
	reviews   map[string][]string
	reviewErr map[string]error

	searchCalls int
	reviewCalls []string
}

func (f *fakePlaces) TextSearch(_ context.Context, q string) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.search[q], nil
}

func (f *fakePlaces) PlacePhotos(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.photoErr != nil {
		return nil, f.photoErr
	}
	return f.photos[id], nil
}

func (f *fakePlaces) PlaceReviews(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewCalls = append(f.reviewCalls, id)
	if err := f.reviewErr[id]; err != nil {
		return nil, err
	}
	return f.reviews[id], nil
}

type fakeGen struct {
	text    string
	err     error
	prompts []string
}

func (g *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

// fakeClassifier labels text containing "bad" as negative; "explode" fails.
type fakeClassifier struct {
	score float64
	seen  []string
}

func (c *fakeClassifier) Classify(_ context.Context, text string) (domain.SentimentLabel, float64, error) {
	c.seen = append(c.seen, text)
	switch {
	case strings.Contains(text, "explode"):
		return "", 0, errors.New("model unavailable")
	case strings.Contains(text, "bad"):
		return domain.Negative, c.score, nil
	}
	return domain.Positive, c.score, nil
}

type failingKeywords struct{}

func (failingKeywords) Extract([]string, int) ([]string, error) {
	return nil, errors.New("vectorizer failed")
}

type fakeInsights struct {
	misses    []string
	snapshots []domain.SentimentReport
	err       error
}

func (f *fakeInsights) LogMiss(_ context.Context, q, reason string) error {
	f.misses = append(f.misses, q+"|"+reason)
	return f.err
}

func (f *fakeInsights) UpsertSentiment(_ context.Context, r domain.SentimentReport) error {
	f.snapshots = append(f.snapshots, r)
	return f.err
}

// fakeCache stores JSON like the real adapters do.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- helpers ----

func raw(id, name string, rating float64, count int, price any, types ...string) map[string]any {
	ts := make([]any, 0, len(types))
	for _, t := range types {
		ts = append(ts, t)
	}
	m := map[string]any{
		"place_id":           id,
		"name":               name,
		"rating":             rating,
		"user_ratings_total": float64(count),
		"types":              ts,
	}
	if price != nil {
		m["price_level"] = price
	}
	return m
}

func ptr[T any](v T) *T { return &v }
