package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"smarttravel/internal/domain"
)

const (
	MaxReviewChars   = 512
	MaxReviews       = 5
	MaxSamples       = 3
	MaxCandidates    = 5
	noReviewsSummary = "No reviews available."
	defaultPlaceName = "this place"
)

// SentimentAnalyzer classifies a place's reviews and aggregates them into a report.
type SentimentAnalyzer struct {
	places    domain.PlacesProvider
	clf       domain.SentimentClassifier
	keywords  domain.KeywordExtractor
	gen       domain.TextGenerator
	onDegrade DegradeHook
}

func NewSentimentAnalyzer(p domain.PlacesProvider, c domain.SentimentClassifier, k domain.KeywordExtractor, g domain.TextGenerator) *SentimentAnalyzer {
	return &SentimentAnalyzer{places: p, clf: c, keywords: k, gen: g}
}

func (a *SentimentAnalyzer) WithDegradeHook(h DegradeHook) *SentimentAnalyzer {
	a.onDegrade = h
	return a
}

// Analyze fetches reviews for placeID and analyzes them. A failed review fetch is
// returned to the caller.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, placeID, placeName string) (domain.SentimentReport, error) {
	texts, err := a.places.PlaceReviews(ctx, placeID)
	if err != nil {
		return domain.SentimentReport{}, fmt.Errorf("fetch reviews: %w", err)
	}
	return a.AnalyzeTexts(ctx, placeID, placeName, texts), nil
}

// AnalyzeTexts never fails: classification, keyword and paraphrase errors degrade.
func (a *SentimentAnalyzer) AnalyzeTexts(ctx context.Context, placeID, placeName string, texts []string) domain.SentimentReport {
	if len(texts) > MaxReviews {
		texts = texts[:MaxReviews]
	}

	reviews := make([]domain.Review, 0, len(texts))
	for _, t := range texts {
		r := a.classify(ctx, t)
		if r.Degraded {
			a.onDegrade.note("classify")
			log.Warn().Err(r.Cause).Str("place_id", placeID).Msg("review classification skipped")
			continue
		}
		reviews = append(reviews, r.Value)
	}

	kw := a.extractKeywords(texts)
	if kw.Degraded {
		a.onDegrade.note("keywords")
		log.Warn().Err(kw.Cause).Str("place_id", placeID).Msg("keyword extraction skipped")
	}
	summary := Summarize(reviews, kw.Value)

	human := a.paraphrase(ctx, orDefault(placeName, defaultPlaceName), summary, reviews)
	if human.Degraded {
		a.onDegrade.note("paraphrase")
		log.Warn().Err(human.Cause).Str("place_id", placeID).Msg("sentiment paraphrase fell back")
	}

	samples := reviews
	if len(samples) > MaxSamples {
		samples = samples[:MaxSamples]
	}
	return domain.SentimentReport{
		PlaceID:       placeID,
		NumReviews:    len(texts),
		Summary:       summary.Summary,
		AvgScore:      summary.AvgScore,
		PositiveRatio: summary.PositiveRatio,
		Keywords:      summary.Keywords,
		HumanSummary:  human.Value,
		Samples:       append([]domain.Review{}, samples...),
	}
}

func (a *SentimentAnalyzer) classify(ctx context.Context, text string) domain.BestEffort[domain.Review] {
	label, score, err := a.clf.Classify(ctx, truncateRunes(text, MaxReviewChars))
	if err != nil {
		return domain.Fallback(domain.Review{}, err)
	}
	if label != domain.Positive && label != domain.Negative {
		return domain.Fallback(domain.Review{}, fmt.Errorf("unexpected label %q", label))
	}
	return domain.Present(domain.Review{Text: text, Label: label, Score: round(score, 3)})
}

func (a *SentimentAnalyzer) extractKeywords(texts []string) domain.BestEffort[[]string] {
	if len(texts) == 0 {
		return domain.Present([]string{})
	}
	kw, err := a.keywords.Extract(texts, DefaultKeywordLimit)
	if err != nil {
		return domain.Fallback([]string{}, err)
	}
	if kw == nil {
		kw = []string{}
	}
	return domain.Present(kw)
}

func (a *SentimentAnalyzer) paraphrase(ctx context.Context, placeName string, s domain.SentimentSummary, reviews []domain.Review) domain.BestEffort[string] {
	text, err := a.gen.Generate(ctx, sentimentPrompt(placeName, s, reviews))
	if err != nil {
		return domain.Fallback(fallbackHumanSummary, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Fallback(fallbackHumanSummary, fmt.Errorf("empty paraphrase"))
	}
	return domain.Present(text)
}

// Summarize aggregates classified reviews. Negative scores count negated in the
// average; the summary line is formatted from unrounded values.
func Summarize(reviews []domain.Review, keywords []string) domain.SentimentSummary {
	if keywords == nil {
		keywords = []string{}
	}
	if len(reviews) == 0 {
		return domain.SentimentSummary{Keywords: []string{}, Summary: noReviewsSummary}
	}

	var sum float64
	pos := 0
	for _, r := range reviews {
		if r.Label == domain.Positive {
			pos++
			sum += r.Score
		} else {
			sum -= r.Score
		}
	}
	avg := sum / float64(len(reviews))
	ratio := float64(pos) / float64(len(reviews)) * 100

	return domain.SentimentSummary{
		AvgScore:      round(avg, 2),
		PositiveRatio: round(ratio, 1),
		Keywords:      keywords,
		Summary:       fmt.Sprintf("%.1f%% of reviews are positive with an average score of %+.2f.", ratio, avg),
	}
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

/********** orchestrator **********/

// SentimentService resolves queries or identifiers to a place and analyzes it.
// insights is optional.
type SentimentService struct {
	fetcher  *PlaceFetcher
	places   domain.PlacesProvider
	analyzer *SentimentAnalyzer
	insights domain.InsightRepository
}

func NewSentimentService(f *PlaceFetcher, p domain.PlacesProvider, a *SentimentAnalyzer, insights domain.InsightRepository) *SentimentService {
	return &SentimentService{fetcher: f, places: p, analyzer: a, insights: insights}
}

// AnalyzeByQuery analyzes the first of the top candidates that has reviews. Zero
// search results yield domain.ErrNoMatch; candidates without reviews yield a
// disambiguation lookup, not an error.
func (s *SentimentService) AnalyzeByQuery(ctx context.Context, query string) (domain.SentimentLookup, error) {
	query = strings.TrimSpace(query)
	candidates, err := s.fetcher.Search(ctx, query)
	if err != nil {
		return domain.SentimentLookup{}, fmt.Errorf("search places: %w", err)
	}
	if len(candidates) == 0 {
		s.logMiss(ctx, query, "no_results")
		return domain.SentimentLookup{}, fmt.Errorf("no places match %q: %w", query, domain.ErrNoMatch)
	}
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	for _, c := range candidates {
		if c.ID == "" {
			continue
		}
		texts, err := s.places.PlaceReviews(ctx, c.ID)
		if err != nil {
			log.Debug().Err(err).Str("place_id", c.ID).Msg("reviews unavailable, trying next candidate")
			continue
		}
		if len(texts) == 0 {
			continue
		}
		report := s.analyzer.AnalyzeTexts(ctx, c.ID, c.Name, texts)
		s.recordSnapshot(ctx, report)
		ref := placeRef(c, true)
		return domain.SentimentLookup{Place: &ref, Sentiment: &report}, nil
	}

	s.logMiss(ctx, query, "no_reviews")
	matches := make([]domain.PlaceRef, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, placeRef(c, false))
	}
	return domain.SentimentLookup{
		Message:         fmt.Sprintf("No public reviews found for '%s'.", query),
		Suggestion:      "Try a more specific place name (e.g., 'Space Needle Seattle').",
		PossibleMatches: matches,
	}, nil
}

// AnalyzeByID analyzes a known place. Fetch failures propagate.
func (s *SentimentService) AnalyzeByID(ctx context.Context, placeID string) (domain.SentimentReport, error) {
	report, err := s.analyzer.Analyze(ctx, strings.TrimSpace(placeID), "")
	if err != nil {
		return domain.SentimentReport{}, err
	}
	s.recordSnapshot(ctx, report)
	return report, nil
}

func (s *SentimentService) logMiss(ctx context.Context, query, reason string) {
	if s.insights == nil {
		return
	}
	if err := s.insights.LogMiss(ctx, query, reason); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("insight log miss failed")
	}
}

func (s *SentimentService) recordSnapshot(ctx context.Context, r domain.SentimentReport) {
	if s.insights == nil {
		return
	}
	if err := s.insights.UpsertSentiment(ctx, r); err != nil {
		log.Warn().Err(err).Str("place_id", r.PlaceID).Msg("insight snapshot failed")
	}
}
