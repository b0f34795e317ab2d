package domain

import "context"

// PlacesProvider is the external places directory. Raw results are provider
// payloads; normalization happens in the app layer.
type PlacesProvider interface {
	TextSearch(ctx context.Context, query string) ([]map[string]any, error)
	PlacePhotos(ctx context.Context, placeID string) ([]string, error)
	PlaceReviews(ctx context.Context, placeID string) ([]string, error)
}

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (SentimentLabel, float64, error)
}

type KeywordExtractor interface {
	Extract(texts []string, limit int) ([]string, error)
}

// Cache stores JSON-compatible values. Get reports ok only when dst was filled;
// an entry that cannot be decoded is a miss with a non-nil error.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// InsightRepository is a write-only log of lookup outcomes.
type InsightRepository interface {
	LogMiss(ctx context.Context, query, reason string) error
	UpsertSentiment(ctx context.Context, r SentimentReport) error
}
