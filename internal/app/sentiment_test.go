package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttravel/internal/app"
	"smarttravel/internal/domain"
)

func TestSummarize(t *testing.T) {
	s := app.Summarize([]domain.Review{
		{Label: domain.Positive, Score: 0.9},
		{Label: domain.Positive, Score: 0.8},
		{Label: domain.Negative, Score: 0.6},
	}, []string{"view"})
	assert.Equal(t, 66.7, s.PositiveRatio)
	assert.Equal(t, 0.37, s.AvgScore)
	assert.Equal(t, []string{"view"}, s.Keywords)
	assert.Equal(t, "66.7% of reviews are positive with an average score of +0.37.", s.Summary)
}

func TestSummarize_Empty(t *testing.T) {
	s := app.Summarize(nil, nil)
	assert.Equal(t, 0.0, s.AvgScore)
	assert.Equal(t, 0.0, s.PositiveRatio)
	assert.NotNil(t, s.Keywords)
	assert.Empty(t, s.Keywords)
	assert.Equal(t, "No reviews available.", s.Summary)
}

func TestSummarize_AllNegative(t *testing.T) {
	s := app.Summarize([]domain.Review{{Label: domain.Negative, Score: 0.75}}, nil)
	assert.Equal(t, 0.0, s.PositiveRatio)
	assert.Equal(t, -0.75, s.AvgScore)
	assert.Equal(t, "0.0% of reviews are positive with an average score of -0.75.", s.Summary)
}

func newAnalyzer(fp *fakePlaces, clf *fakeClassifier, gen *fakeGen) *app.SentimentAnalyzer {
	return app.NewSentimentAnalyzer(fp, clf, app.NewTermFrequencyExtractor(), gen)
}

func TestAnalyze_Report(t *testing.T) {
	fp := &fakePlaces{reviews: map[string][]string{"p1": {
		"Lovely gardens", "bad parking", "Lovely staff", "Lovely view", "Lovely food", "sixth is ignored",
	}}}
	clf := &fakeClassifier{score: 0.91234}
	gen := &fakeGen{text: "  Visitors loved it.  "}

	r, err := newAnalyzer(fp, clf, gen).Analyze(context.Background(), "p1", "Kew")
	require.NoError(t, err)

	assert.Equal(t, "p1", r.PlaceID)
	assert.Equal(t, 5, r.NumReviews)
	assert.Equal(t, 80.0, r.PositiveRatio)
	assert.Equal(t, 0.55, r.AvgScore)
	assert.Equal(t, "lovely", r.Keywords[0])
	assert.Equal(t, "Visitors loved it.", r.HumanSummary)
	require.Len(t, r.Samples, 3)
	assert.Equal(t, 0.912, r.Samples[0].Score)
	assert.Equal(t, domain.Negative, r.Samples[1].Label)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Kew")
	assert.NotContains(t, gen.prompts[0], "sixth is ignored")
}

func TestAnalyze_DegradesInsteadOfFailing(t *testing.T) {
	long := strings.Repeat("é", 600)
	fp := &fakePlaces{reviews: map[string][]string{"p1": {"fine", "explode", long}}}
	clf := &fakeClassifier{score: 0.5}
	gen := &fakeGen{err: errors.New("quota")}
	a := app.NewSentimentAnalyzer(fp, clf, failingKeywords{}, gen)
	var steps []string
	a.WithDegradeHook(func(s string) { steps = append(steps, s) })

	r, err := a.Analyze(context.Background(), "p1", "")
	require.NoError(t, err)

	assert.Equal(t, 3, r.NumReviews)
	assert.Len(t, r.Samples, 2)
	assert.Equal(t, long, r.Samples[1].Text)
	assert.Equal(t, 512, utf8.RuneCountInString(clf.seen[2]))
	assert.Empty(t, r.Keywords)
	assert.NotNil(t, r.Keywords)
	assert.Equal(t, "Visitors generally had mixed experiences.", r.HumanSummary)
	assert.Equal(t, []string{"classify", "keywords", "paraphrase"}, steps)
	assert.Contains(t, gen.prompts[0], "this place")
}

func TestAnalyze_NoReviews(t *testing.T) {
	gen := &fakeGen{text: "Nothing to say."}
	r, err := newAnalyzer(&fakePlaces{}, &fakeClassifier{}, gen).Analyze(context.Background(), "p1", "X")
	require.NoError(t, err)
	assert.Equal(t, 0, r.NumReviews)
	assert.Equal(t, "No reviews available.", r.Summary)
	assert.NotNil(t, r.Samples)
	assert.Contains(t, gen.prompts[0], "No reviews found.")
}

func TestAnalyze_FetchErrorPropagates(t *testing.T) {
	fp := &fakePlaces{reviewErr: map[string]error{"p1": domain.ErrForbidden}}
	_, err := newAnalyzer(fp, &fakeClassifier{}, &fakeGen{}).Analyze(context.Background(), "p1", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

/********** orchestrator **********/

func candidates(n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, raw(fmt.Sprintf("c%d", i), fmt.Sprintf("Cand %d", i), 4.0, i*10, nil))
	}
	return out
}

func newService(fp *fakePlaces, ins *fakeInsights) *app.SentimentService {
	f := app.NewPlaceFetcher(fp, 20, 0)
	a := newAnalyzer(fp, &fakeClassifier{score: 0.9}, &fakeGen{text: "ok"})
	if ins == nil {
		return app.NewSentimentService(f, fp, a, nil)
	}
	return app.NewSentimentService(f, fp, a, ins)
}

func TestAnalyzeByQuery_FirstCandidateWithReviews(t *testing.T) {
	fp := &fakePlaces{
		search:    map[string][]map[string]any{"tower": candidates(4)},
		reviews:   map[string][]string{"c3": {"Great"}, "c4": {"Also great"}},
		reviewErr: map[string]error{"c1": errors.New("details down")},
	}
	ins := &fakeInsights{}

	out, err := newService(fp, ins).AnalyzeByQuery(context.Background(), " tower ")
	require.NoError(t, err)
	require.NotNil(t, out.Sentiment)
	assert.Equal(t, "c3", out.Place.PlaceID)
	assert.Equal(t, int64(30), *out.Place.UserRatingsTotal)
	assert.Equal(t, 1, out.Sentiment.NumReviews)
	assert.Empty(t, out.PossibleMatches)
	// reviews fetched once per candidate, and not again for the analysis
	assert.Equal(t, []string{"c1", "c2", "c3"}, fp.reviewCalls)
	require.Len(t, ins.snapshots, 1)
	assert.Equal(t, "c3", ins.snapshots[0].PlaceID)
}

func TestAnalyzeByQuery_Disambiguation(t *testing.T) {
	fp := &fakePlaces{search: map[string][]map[string]any{"main street": candidates(7)}}
	ins := &fakeInsights{err: errors.New("db down")}

	out, err := newService(fp, ins).AnalyzeByQuery(context.Background(), "main street")
	require.NoError(t, err)
	assert.Nil(t, out.Sentiment)
	assert.Nil(t, out.Place)
	assert.Equal(t, "No public reviews found for 'main street'.", out.Message)
	assert.Equal(t, "Try a more specific place name (e.g., 'Space Needle Seattle').", out.Suggestion)
	require.Len(t, out.PossibleMatches, 5)
	assert.Equal(t, "c1", out.PossibleMatches[0].PlaceID)
	assert.Nil(t, out.PossibleMatches[0].UserRatingsTotal)
	assert.Len(t, fp.reviewCalls, 5)
	assert.Equal(t, []string{"main street|no_reviews"}, ins.misses)
}

func TestAnalyzeByQuery_NotFound(t *testing.T) {
	ins := &fakeInsights{}
	_, err := newService(&fakePlaces{}, ins).AnalyzeByQuery(context.Background(), "atlantis")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"atlantis|no_results"}, ins.misses)
}

func TestAnalyzeByQuery_SearchErrorPropagates(t *testing.T) {
	_, err := newService(&fakePlaces{searchErr: domain.ErrRateLimited}, nil).AnalyzeByQuery(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestAnalyzeByID(t *testing.T) {
	fp := &fakePlaces{reviews: map[string][]string{"p9": {"Great", "bad"}}}
	r, err := newService(fp, nil).AnalyzeByID(context.Background(), "p9")
	require.NoError(t, err)
	assert.Equal(t, 2, r.NumReviews)
	assert.Equal(t, 50.0, r.PositiveRatio)

	fp.reviewErr = map[string]error{"p9": domain.ErrUpstream}
	_, err = newService(fp, nil).AnalyzeByID(context.Background(), "p9")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
