package contextfile

import (
	"time"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
)

// Processing stages a context file moves through. Advancement is
// monotonic: a later merge never moves the stage backwards.
const (
	StageInitialized      = constant.ProcessingInitialized
	StageDetailsExtracted = constant.ProcessingDetailsExtracted
	StageDetailsConfirmed = constant.ProcessingDetailsConfirmed
	StageWeatherGathered  = constant.ProcessingWeatherGathered
)

var stageOrder = map[string]int{
	StageInitialized:      0,
	StageDetailsExtracted: 1,
	StageDetailsConfirmed: 2,
	StageWeatherGathered:  3,
}

// ContextFile is the per-session accumulated record consumed by the
// prompt builder. Four regions: what the user said, what the world
// looks like, what constrains the outfits, and bookkeeping.
type ContextFile struct {
	SessionId            string               `json:"sessionId"`
	UserInput            UserInput            `json:"userInput"`
	EnvironmentalContext EnvironmentalContext `json:"environmentalContext"`
	Constraints          Constraints          `json:"constraints"`
	Metadata             Metadata             `json:"metadata"`
}

type UserInput struct {
	OriginalMessage  string            `json:"originalMessage"`
	ExtractedDetails *dto.EventDetails `json:"extractedDetails,omitempty"`
	ConfirmedDetails *dto.EventDetails `json:"confirmedDetails,omitempty"`
	Clarifications   []string          `json:"clarifications,omitempty"`
}

type EnvironmentalContext struct {
	Weather         *dto.WeatherContext `json:"weather,omitempty"`
	Location        string              `json:"location,omitempty"`
	SeasonalFactors string              `json:"seasonalFactors,omitempty"`
}

type Constraints struct {
	DressCode           string               `json:"dressCode,omitempty"`
	Budget              *float64             `json:"budget,omitempty"`
	SpecialRequirements []string             `json:"specialRequirements,omitempty"`
	OccasionConstraints *OccasionConstraints `json:"occasionConstraints,omitempty"`
	WeatherConstraints  *WeatherConstraints  `json:"weatherConstraints,omitempty"`
}

type OccasionConstraints struct {
	Occasion  string `json:"occasion"`
	Duration  int    `json:"duration"`
	StartDate string `json:"startDate,omitempty"`
	Location  string `json:"location,omitempty"`
}

type WeatherConstraints struct {
	TemperatureRange         string  `json:"temperatureRange"`
	PrecipitationProbability float64 `json:"precipitationProbability"`
	WeatherConditions        string  `json:"weatherConditions"`
	LayeringNeeds            string  `json:"layeringNeeds"`
	WeatherProtection        string  `json:"weatherProtection"`
	ComfortFactors           string  `json:"comfortFactors"`
}

type Metadata struct {
	Confidence      float64   `json:"confidence"`
	Completeness    float64   `json:"completeness"`
	DataSource      string    `json:"dataSource"`
	ProcessingStage string    `json:"processingStage"`
	Errors          []string  `json:"errors,omitempty"`
	Warnings        []string  `json:"warnings,omitempty"`
	FallbackUsed    bool      `json:"fallbackUsed,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// New builds a fresh context file in the initialized stage.
func New(sessionId, originalMessage string) *ContextFile {
	now := time.Now().UTC()
	cf := &ContextFile{
		SessionId: sessionId,
		UserInput: UserInput{OriginalMessage: originalMessage},
		Metadata: Metadata{
			DataSource:      "user_input",
			ProcessingStage: StageInitialized,
			CreatedAt:       now,
			LastUpdated:     now,
		},
	}
	cf.Metadata.Completeness = Completeness(cf)
	return cf
}

// advanceStage moves the processing stage forward, never back.
func (cf *ContextFile) advanceStage(stage string) {
	if stageOrder[stage] > stageOrder[cf.Metadata.ProcessingStage] {
		cf.Metadata.ProcessingStage = stage
	}
}

// touch refreshes lastUpdated and recomputes completeness. Every merge
// ends with a touch.
func (cf *ContextFile) touch() {
	cf.Metadata.LastUpdated = time.Now().UTC()
	cf.Metadata.Completeness = Completeness(cf)
}

// Completeness scores how much of the record is filled in, on [0,1].
// The score is a pure function of the record, so merges can recompute
// it cheaply, and it is non-decreasing across monotonic merges.
func Completeness(cf *ContextFile) float64 {
	score := 0.0

	if cf.UserInput.ConfirmedDetails != nil {
		score += 0.30
	} else if cf.UserInput.ExtractedDetails != nil {
		score += 0.15
	}

	if cf.EnvironmentalContext.Weather != nil {
		score += 0.25
	}

	if cf.Constraints.DressCode != "" {
		score += 0.10
	}
	if cf.Constraints.OccasionConstraints != nil {
		score += 0.10
	}
	if cf.Constraints.WeatherConstraints != nil {
		score += 0.05
	}

	switch {
	case cf.Metadata.Confidence >= 0.5:
		score += 0.20
	case cf.Metadata.Confidence >= 0.3:
		score += 0.10
	}

	if score > 1 {
		score = 1
	}
	return score
}

// mergeDetails folds event details into the user-input region and
// refreshes the derived constraint regions.
func (cf *ContextFile) mergeDetails(details *dto.EventDetails, confirmed bool) {
	if confirmed {
		cf.UserInput.ConfirmedDetails = details
		cf.advanceStage(StageDetailsConfirmed)
		cf.Metadata.Confidence = 0.9
	} else {
		cf.UserInput.ExtractedDetails = details
		cf.advanceStage(StageDetailsExtracted)
		if cf.Metadata.Confidence < 0.5 {
			cf.Metadata.Confidence = 0.5
		}
	}

	if details.Location != "" {
		cf.EnvironmentalContext.Location = details.Location
	}
	if details.DressCode != "" {
		cf.Constraints.DressCode = details.DressCode
	}
	if details.Budget != nil {
		cf.Constraints.Budget = details.Budget
	}
	if len(details.SpecialRequirements) > 0 {
		cf.Constraints.SpecialRequirements = details.SpecialRequirements
	}
	if details.Occasion != "" {
		cf.Constraints.OccasionConstraints = &OccasionConstraints{
			Occasion:  details.Occasion,
			Duration:  details.Duration,
			StartDate: details.StartDate,
			Location:  details.Location,
		}
	}
	cf.touch()
}

// mergeWeather folds a weather context into the environmental region
// and derives the weather constraint block.
func (cf *ContextFile) mergeWeather(wc *dto.WeatherContext, fallbackUsed bool) {
	cf.EnvironmentalContext.Weather = wc
	if wc.Location != "" {
		cf.EnvironmentalContext.Location = wc.Location
	}
	cf.Constraints.WeatherConstraints = &WeatherConstraints{
		TemperatureRange:         wc.TemperatureRange,
		PrecipitationProbability: wc.PrecipitationProbability,
		WeatherConditions:        wc.WeatherData.Conditions,
		LayeringNeeds:            wc.LayeringNeeds,
		WeatherProtection:        wc.WeatherProtection,
		ComfortFactors:           wc.ComfortFactors,
	}
	cf.Metadata.FallbackUsed = fallbackUsed
	if fallbackUsed {
		cf.Metadata.Warnings = append(cf.Metadata.Warnings, "weather fallback estimate used")
	}
	cf.advanceStage(StageWeatherGathered)
	cf.touch()
}
