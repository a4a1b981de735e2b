package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-outfit-planner-be/pkg/planner/contextfile"
)

// Reusability floors stated in the prompt contract. Longer trips are
// pushed harder toward repeating items.
const (
	LongTripReuseTarget   = 60
	ShortTripReuseTarget  = 40
	LongTripThresholdDays = 3
)

// ReuseTarget returns the reuse percentage the prompt demands for the
// given trip duration.
func ReuseTarget(duration int) int {
	if duration > LongTripThresholdDays {
		return LongTripReuseTarget
	}
	return ShortTripReuseTarget
}

// Builder composes the outfit-generation prompt from the accumulated
// context, the catalog text, and the trip duration.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders the full prompt. Section order is fixed; the response
// contract at the end is the parser's counterpart and must stay in sync
// with it.
func (b *Builder) Build(summary *contextfile.Summary, catalogText string, duration int) string {
	if duration < 1 {
		duration = 1
	}

	var sb strings.Builder
	sb.WriteString("You are a professional stylist. Create a day-by-day outfit plan for the trip described below, using only items from the provided clothing dataset.\n\n")

	sb.WriteString("EVENT CONTEXT:\n")
	summaryJson, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		summaryJson = []byte("{}")
	}
	sb.Write(summaryJson)
	sb.WriteString("\n\n")

	sb.WriteString("WEATHER:\n")
	if w := summary.Weather; w != nil {
		fmt.Fprintf(&sb, "Temperature: %s. Conditions: %s. Precipitation probability: %.0f%%.\n", w.TemperatureRange, w.WeatherData.Conditions, w.PrecipitationProbability)
		fmt.Fprintf(&sb, "Layering: %s. Protection: %s.\n", w.LayeringNeeds, w.WeatherProtection)
	} else {
		sb.WriteString("No weather data is available. Choose versatile items that work across mild conditions and include one adaptable outer layer.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("BUDGET:\n")
	if summary.Budget != nil {
		fmt.Fprintf(&sb, "Keep the total cost of all selected items at or under %.2f.\n", *summary.Budget)
	} else {
		sb.WriteString("No budget limit was specified. Prefer reasonable mid-range items.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("DRESS CODE:\n")
	dressCode := summary.DressCode
	if dressCode == "" {
		dressCode = summary.Occasion
	}
	if dressCode == "" {
		dressCode = "smart-casual"
	}
	fmt.Fprintf(&sb, "All outfits must comply with: %s.\n\n", dressCode)

	sb.WriteString("REUSABILITY:\n")
	fmt.Fprintf(&sb, "Reuse items across days. At least %d%% of distinct items must appear on more than one day for this %d-day trip.\n\n", ReuseTarget(duration), duration)

	sb.WriteString("CLOTHING DATASET (CSV format):\n")
	sb.WriteString(catalogText)
	sb.WriteString("\n\n")

	b.writeResponseContract(&sb, duration)
	return sb.String()
}

func (b *Builder) writeResponseContract(sb *strings.Builder, duration int) {
	sb.WriteString("RESPONSE FORMAT:\n")
	fmt.Fprintf(sb, "Respond with a single JSON object and nothing else. Top-level keys: tripId, sessionId, generatedAt, tripDetails, dailyOutfits, reusabilityAnalysis, constraints. dailyOutfits must contain exactly %d entries, one per day.\n", duration)
	sb.WriteString(`Each daily outfit: {"day": <1-based number>, "date": "<ISO date>", "occasion": "<string>", "outfit": {"topwear": <item>, "bottomwear": <item>, "outerwear": <item or null>, "footwear": <item>, "accessories": [<item>...]}, "styling": {"rationale": "<string>", "weatherConsiderations": "<string>", "dresscodeCompliance": "<string>"}}.
Each item: {"sku": "<string>", "name": "<string>", "category": "<string>", "price": <number>, "colors": "<string>", "weatherSuitability": "<string>", "formality": "<string>", "notes": "<string>"}.
STRICT RULES:
- Never invent SKUs. Every sku must appear verbatim in the CLOTHING DATASET above.
- topwear, bottomwear and footwear are required for every day; outerwear may be null.
- price must be the numeric catalog price.
- Do not wrap the JSON in markdown fences or add commentary.
`)
}
