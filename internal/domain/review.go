package domain

type SentimentLabel string

const (
	Positive SentimentLabel = "POSITIVE"
	Negative SentimentLabel = "NEGATIVE"
)

// Review is one classified review.
type Review struct {
	Text  string         `json:"text"`
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

type SentimentSummary struct {
	AvgScore      float64  `json:"avg_score"`
	PositiveRatio float64  `json:"positive_ratio"`
	Keywords      []string `json:"keywords"`
	Summary       string   `json:"summary"`
}

// SentimentReport is the full per-place analysis returned to callers.
type SentimentReport struct {
	PlaceID       string   `json:"place_id"`
	NumReviews    int      `json:"num_reviews"`
	Summary       string   `json:"summary"`
	AvgScore      float64  `json:"avg_score"`
	PositiveRatio float64  `json:"positive_ratio"`
	Keywords      []string `json:"keywords"`
	HumanSummary  string   `json:"human_summary"`
	Samples       []Review `json:"samples"`
}

type PlaceRef struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int64   `json:"user_ratings_total,omitempty"`
	PlaceID          string   `json:"place_id"`
}

// SentimentLookup is the answer to a free-text sentiment query: either a matched
// place with its report, or a disambiguation list.
type SentimentLookup struct {
	Place     *PlaceRef        `json:"place,omitempty"`
	Sentiment *SentimentReport `json:"sentiment,omitempty"`

	Message         string     `json:"message,omitempty"`
	Suggestion      string     `json:"suggestion,omitempty"`
	PossibleMatches []PlaceRef `json:"possible_matches,omitempty"`
}
