package contextfile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/pkg/store"
)

func newAccumulator(t *testing.T) *Accumulator {
	t.Helper()
	return NewAccumulator(store.NewMemoryStore(), time.Minute, nil)
}

func confirmedDetails() *dto.EventDetails {
	budget := 500.0
	return &dto.EventDetails{
		Occasion:  "business conference",
		Location:  "Chicago",
		StartDate: "2024-01-15",
		Duration:  3,
		DressCode: "business",
		Budget:    &budget,
	}
}

func sampleWeather() *dto.WeatherContext {
	return &dto.WeatherContext{
		WeatherData: dto.WeatherData{
			Temperature: dto.Temperature{Min: -5, Max: 2, Unit: "celsius"},
			Conditions:  "snow",
		},
		Location:                 "Chicago",
		TemperatureRange:         "-5-2°C (very cold)",
		PrecipitationProbability: 40,
		LayeringNeeds:            "heavy layering with insulated outerwear",
		WeatherProtection:        "insulated waterproof footwear recommended",
		ComfortFactors:           "prioritize insulation and wind resistance",
		WeatherDataConfidence:    0.9,
	}
}

func TestCompletenessGrowsMonotonically(t *testing.T) {
	a := newAccumulator(t)
	ctx := context.Background()

	cf, err := a.Initialize(ctx, "s1", "3-day business conference in Chicago")
	require.NoError(t, err)
	prev := cf.Metadata.Completeness

	cf, err = a.AddExtractedDetails(ctx, "s1", confirmedDetails())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cf.Metadata.Completeness, prev)
	assert.Equal(t, StageDetailsExtracted, cf.Metadata.ProcessingStage)
	prev = cf.Metadata.Completeness

	cf, err = a.AddConfirmedDetails(ctx, "s1", confirmedDetails())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cf.Metadata.Completeness, prev)
	assert.Equal(t, StageDetailsConfirmed, cf.Metadata.ProcessingStage)
	prev = cf.Metadata.Completeness

	cf, err = a.AddWeatherContext(ctx, "s1", sampleWeather(), false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cf.Metadata.Completeness, prev)
	assert.Equal(t, StageWeatherGathered, cf.Metadata.ProcessingStage)

	// Full record: confirmed + weather + all constraint blocks + high
	// confidence lands at 1.0.
	assert.InDelta(t, 1.0, cf.Metadata.Completeness, 0.001)
}

func TestProcessingStageNeverMovesBackwards(t *testing.T) {
	a := newAccumulator(t)
	ctx := context.Background()

	_, err := a.Initialize(ctx, "s1", "trip")
	require.NoError(t, err)
	_, err = a.AddConfirmedDetails(ctx, "s1", confirmedDetails())
	require.NoError(t, err)

	// A late extraction merge must not regress the stage.
	cf, err := a.AddExtractedDetails(ctx, "s1", confirmedDetails())
	require.NoError(t, err)
	assert.Equal(t, StageDetailsConfirmed, cf.Metadata.ProcessingStage)
}

func TestGetMissingAndExpired(t *testing.T) {
	kv := store.NewMemoryStore()
	a := NewAccumulator(kv, 20*time.Millisecond, nil)
	ctx := context.Background()

	_, err := a.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = a.Initialize(ctx, "s1", "trip")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	_, err = a.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound, "idle-expired context file should be purged on read")
}

func TestWeatherFallbackRecordsWarning(t *testing.T) {
	a := newAccumulator(t)
	ctx := context.Background()

	_, err := a.Initialize(ctx, "s1", "trip")
	require.NoError(t, err)
	cf, err := a.AddWeatherContext(ctx, "s1", sampleWeather(), true)
	require.NoError(t, err)

	assert.True(t, cf.Metadata.FallbackUsed)
	require.NotEmpty(t, cf.Metadata.Warnings)
	assert.Contains(t, cf.Metadata.Warnings[0], "fallback")
}

func TestWeatherConstraintsMirrorWeatherContext(t *testing.T) {
	a := newAccumulator(t)
	ctx := context.Background()

	_, err := a.Initialize(ctx, "s1", "trip")
	require.NoError(t, err)
	wc := sampleWeather()
	cf, err := a.AddWeatherContext(ctx, "s1", wc, false)
	require.NoError(t, err)

	require.NotNil(t, cf.Constraints.WeatherConstraints)
	c := cf.Constraints.WeatherConstraints
	assert.Equal(t, wc.TemperatureRange, c.TemperatureRange)
	assert.Equal(t, wc.PrecipitationProbability, c.PrecipitationProbability)
	assert.Equal(t, wc.WeatherData.Conditions, c.WeatherConditions)
	assert.Equal(t, wc.LayeringNeeds, c.LayeringNeeds)
	assert.Equal(t, wc.WeatherProtection, c.WeatherProtection)
	assert.Equal(t, wc.ComfortFactors, c.ComfortFactors)
}

func TestFormatForAIHasFixedSections(t *testing.T) {
	cf := New("s1", "conference trip")
	cf.mergeDetails(confirmedDetails(), true)
	cf.mergeWeather(sampleWeather(), false)

	text := FormatForAI(cf)
	for _, header := range []string{
		"OUTFIT PLANNING CONTEXT:",
		"EVENT DETAILS:",
		"STYLE REQUIREMENTS:",
		"WEATHER CONDITIONS:",
		"WEATHER-BASED CLOTHING NEEDS:",
		"CONTEXT CONFIDENCE:",
		"CONTEXT COMPLETENESS:",
	} {
		assert.Contains(t, text, header)
	}
	assert.Contains(t, text, "Occasion: business conference")
	assert.Contains(t, text, "Duration: 3 day(s)")
	assert.NotContains(t, strings.SplitN(text, "WEATHER CONDITIONS:", 2)[1], "Not specified")
}

func TestFormatForAIRendersAbsentValues(t *testing.T) {
	cf := New("s1", "vague trip")
	text := FormatForAI(cf)
	assert.Contains(t, text, "Occasion: Not specified")
	assert.Contains(t, text, "Temperature Range: Not specified")
}

func TestGenerateSummaryPrefersConfirmedDetails(t *testing.T) {
	cf := New("s1", "trip")
	extracted := confirmedDetails()
	extracted.Occasion = "guessed occasion"
	cf.mergeDetails(extracted, false)
	cf.mergeDetails(confirmedDetails(), true)

	s := GenerateSummary(cf)
	assert.Equal(t, "business conference", s.Occasion)
	assert.Equal(t, 3, s.Duration)
	require.NotNil(t, s.Budget)
	assert.Equal(t, 500.0, *s.Budget)
}
