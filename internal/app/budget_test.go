package app_test

import (
	"testing"

	"smarttravel/internal/app"
)

func TestBudgetInfo(t *testing.T) {
	cases := []struct {
		budget    int
		label     string
		descStart string
	}{
		{0, "Free", "free or extremely low cost"},
		{2, "Moderate", "moderately priced options such as"},
		{4, "Luxury", "luxury options"},
		{7, "Unknown", "Moderately priced options"},
		{-1, "Unknown", "Moderately priced options"},
	}
	for _, tc := range cases {
		label, desc := app.BudgetInfo(tc.budget)
		if label != tc.label {
			t.Fatalf("budget %d: label %q, want %q", tc.budget, label, tc.label)
		}
		if len(desc) < len(tc.descStart) || desc[:len(tc.descStart)] != tc.descStart {
			t.Fatalf("budget %d: description %q", tc.budget, desc)
		}
	}
}
