package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"smarttravel/internal/domain"
)

// query column is VARCHAR(512), counted in characters
const maxQueryLen = 512

// Repo is the write-only insight log. Nothing on the request path reads it back.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects and pings; callers treat a failure as "insights disabled".
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

func (r *Repo) LogMiss(ctx context.Context, query, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, clip(strings.TrimSpace(query), maxQueryLen), reason)
	return err
}

func (r *Repo) UpsertSentiment(ctx context.Context, s domain.SentimentReport) error {
	kw := s.Keywords
	if kw == nil {
		kw = []string{}
	}
	samples := s.Samples
	if samples == nil {
		samples = []domain.Review{}
	}
	kwJSON, err := json.Marshal(kw)
	if err != nil {
		return err
	}
	samplesJSON, err := json.Marshal(samples)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertSentimentSQL,
		s.PlaceID,
		s.NumReviews,
		s.AvgScore,
		s.PositiveRatio,
		s.Summary,
		s.HumanSummary,
		string(kwJSON),
		string(samplesJSON),
	)
	return err
}

// clip keeps at most n runes so multi-byte characters are never split.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
