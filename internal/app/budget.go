package app

const (
	unknownBudgetLabel       = "Unknown"
	defaultBudgetDescription = "Moderately priced options"
	promptBudgetFallback     = "moderately priced options"
)

var budgetLabels = map[int]string{
	0: "Free",
	1: "Inexpensive",
	2: "Moderate",
	3: "Expensive",
	4: "Luxury",
}

var budgetDescriptions = map[int]string{
	0: "free or extremely low cost options only (parks, free museums, scenic walks)",
	1: "inexpensive options such as casual dining, cheap attractions, public transport",
	2: "moderately priced options such as mid-range restaurants and affordable activities",
	3: "expensive options including fine dining, premium attractions, private tours",
	4: "luxury options including Michelin-starred restaurants, exclusive experiences, and luxury transport",
}

// BudgetInfo resolves a 0-4 budget level to its label and description.
func BudgetInfo(budget int) (label, description string) {
	label, ok := budgetLabels[budget]
	if !ok {
		label = unknownBudgetLabel
	}
	description, ok = budgetDescriptions[budget]
	if !ok {
		description = defaultBudgetDescription
	}
	return label, description
}
