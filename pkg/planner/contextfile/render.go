package contextfile

import (
	"fmt"
	"strings"

	"ai-outfit-planner-be/internal/dto"
)

// Summary is the condensed event context handed to the prompt builder
// and echoed back in generation results.
type Summary struct {
	Occasion            string              `json:"occasion,omitempty"`
	Location            string              `json:"location,omitempty"`
	StartDate           string              `json:"startDate,omitempty"`
	Duration            int                 `json:"duration"`
	DressCode           string              `json:"dressCode,omitempty"`
	Budget              *float64            `json:"budget,omitempty"`
	SpecialRequirements []string            `json:"specialRequirements,omitempty"`
	Weather             *dto.WeatherContext `json:"weather,omitempty"`
	Confidence          float64             `json:"confidence"`
	Completeness        float64             `json:"completeness"`
}

// GenerateSummary condenses the context file. Confirmed details win
// over extracted ones.
func GenerateSummary(cf *ContextFile) *Summary {
	s := &Summary{
		Duration:     1,
		Weather:      cf.EnvironmentalContext.Weather,
		Confidence:   cf.Metadata.Confidence,
		Completeness: cf.Metadata.Completeness,
		DressCode:    cf.Constraints.DressCode,
		Budget:       cf.Constraints.Budget,
	}
	if len(cf.Constraints.SpecialRequirements) > 0 {
		s.SpecialRequirements = cf.Constraints.SpecialRequirements
	}

	details := cf.UserInput.ConfirmedDetails
	if details == nil {
		details = cf.UserInput.ExtractedDetails
	}
	if details != nil {
		s.Occasion = details.Occasion
		s.Location = details.Location
		s.StartDate = details.StartDate
		if details.Duration > 0 {
			s.Duration = details.Duration
		}
		if s.DressCode == "" {
			s.DressCode = details.DressCode
		}
	}
	if s.Location == "" {
		s.Location = cf.EnvironmentalContext.Location
	}
	return s
}

// FormatForAI renders the context file as deterministic plain text with
// fixed section headers. Absent values render as "Not specified" so the
// model sees a stable shape regardless of how much context exists.
func FormatForAI(cf *ContextFile) string {
	s := GenerateSummary(cf)

	var sb strings.Builder
	sb.WriteString("OUTFIT PLANNING CONTEXT:\n\n")

	sb.WriteString("EVENT DETAILS:\n")
	writeLine(&sb, "Occasion", s.Occasion)
	writeLine(&sb, "Location", s.Location)
	writeLine(&sb, "Start Date", s.StartDate)
	writeLine(&sb, "Duration", fmt.Sprintf("%d day(s)", s.Duration))
	sb.WriteString("\n")

	sb.WriteString("STYLE REQUIREMENTS:\n")
	writeLine(&sb, "Dress Code", s.DressCode)
	budget := ""
	if s.Budget != nil {
		budget = fmt.Sprintf("%.2f", *s.Budget)
	}
	writeLine(&sb, "Budget", budget)
	writeLine(&sb, "Special Requirements", strings.Join(s.SpecialRequirements, "; "))
	sb.WriteString("\n")

	sb.WriteString("WEATHER CONDITIONS:\n")
	if w := s.Weather; w != nil {
		writeLine(&sb, "Temperature Range", w.TemperatureRange)
		writeLine(&sb, "Conditions", w.WeatherData.Conditions)
		writeLine(&sb, "Precipitation Probability", fmt.Sprintf("%.0f%%", w.PrecipitationProbability))
	} else {
		writeLine(&sb, "Temperature Range", "")
		writeLine(&sb, "Conditions", "")
		writeLine(&sb, "Precipitation Probability", "")
	}
	sb.WriteString("\n")

	sb.WriteString("WEATHER-BASED CLOTHING NEEDS:\n")
	if wc := cf.Constraints.WeatherConstraints; wc != nil {
		writeLine(&sb, "Layering", wc.LayeringNeeds)
		writeLine(&sb, "Protection", wc.WeatherProtection)
		writeLine(&sb, "Comfort", wc.ComfortFactors)
	} else {
		writeLine(&sb, "Layering", "")
		writeLine(&sb, "Protection", "")
		writeLine(&sb, "Comfort", "")
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("CONTEXT CONFIDENCE: %.2f\n", cf.Metadata.Confidence))
	sb.WriteString(fmt.Sprintf("CONTEXT COMPLETENESS: %.2f\n", cf.Metadata.Completeness))
	return sb.String()
}

func writeLine(sb *strings.Builder, label, value string) {
	if value == "" {
		value = "Not specified"
	}
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}
