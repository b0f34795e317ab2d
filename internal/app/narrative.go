package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"smarttravel/internal/domain"
)

const (
	fallbackHumanSummary = "Visitors generally had mixed experiences."
	noReviewsText        = "No reviews found."
	maxPromptReviews     = 5
)

// promptPlace is the only place data the model gets to see.
type promptPlace struct {
	Name       string   `json:"name"`
	Rating     *float64 `json:"rating,omitempty"`
	PriceLevel *int     `json:"price_level,omitempty"`
}

type promptDay struct {
	Day         int           `json:"day"`
	Attractions []promptPlace `json:"attractions"`
	Restaurants []promptPlace `json:"restaurants"`
}

func toPromptPlaces(ps []domain.Place) []promptPlace {
	out := make([]promptPlace, 0, len(ps))
	for _, p := range ps {
		out = append(out, promptPlace{Name: p.Name, Rating: p.Rating, PriceLevel: p.PriceLevel})
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func itineraryPrompt(req domain.ItineraryRequest, plan []domain.DayPlan) (string, error) {
	days := make([]promptDay, 0, len(plan))
	for _, d := range plan {
		days = append(days, promptDay{
			Day:         d.Day,
			Attractions: toPromptPlaces(d.Attractions),
			Restaurants: toPromptPlaces(d.Restaurants),
		})
	}
	data, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}

	budgetText, ok := budgetDescriptions[req.Budget]
	if !ok {
		budgetText = promptBudgetFallback
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional travel planner. Create a %d-day itinerary for %s.\n\n", req.Days, req.Destination)
	b.WriteString("Constraints:\n")
	fmt.Fprintf(&b, "- Budget level: %d → %s.\n", req.Budget, budgetText)
	fmt.Fprintf(&b, "- Kid friendly: %t.\n", req.KidFriendly)
	fmt.Fprintf(&b, "- Travel type: %s.\n", orDefault(req.TravelType, "unspecified"))
	fmt.Fprintf(&b, "- Activity theme: %s.\n", orDefault(req.ActivityTheme, "general interest"))
	b.WriteString("- Organize each day into Morning / Afternoon / Evening and visit that day's attractions.\n")
	b.WriteString("- Mention prices appropriately (affordable, luxury, free entry).\n")
	b.WriteString("- Include exactly one restaurant recommendation per day, chosen from that day's restaurants.\n")
	b.WriteString("- Keep descriptions natural, concise, and engaging.\n")
	b.WriteString("- Use ONLY the provided JSON data; do not invent extra places.\n\n")
	b.WriteString("POI Data (JSON):\n")
	b.Write(data)
	b.WriteString("\n")
	return b.String(), nil
}

func sentimentPrompt(placeName string, s domain.SentimentSummary, reviews []domain.Review) string {
	texts := make([]string, 0, maxPromptReviews)
	for i, r := range reviews {
		if i == maxPromptReviews {
			break
		}
		texts = append(texts, r.Text)
	}
	reviewsText := strings.Join(texts, "\n")
	if reviewsText == "" {
		reviewsText = noReviewsText
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI travel assistant. Based on the following Google reviews for %s,\n", placeName)
	b.WriteString("write ONE short, human-like summary (max 2 sentences) describing the general sentiment.\n\n")
	b.WriteString("Sentiment Statistics:\n")
	fmt.Fprintf(&b, "- %s\n", s.Summary)
	fmt.Fprintf(&b, "- Positive ratio: %v%%\n", s.PositiveRatio)
	fmt.Fprintf(&b, "- Keywords: %s\n\n", strings.Join(s.Keywords, ", "))
	b.WriteString("Reviews:\n")
	b.WriteString(reviewsText)
	b.WriteString("\n\nExample response format:\n")
	b.WriteString("\"Most travelers enjoyed the skyline views but mentioned long wait times.\"\n\n")
	b.WriteString("Now write your summary:\n")
	return b.String()
}
