package weather

import (
	"fmt"
	"math"
	"time"

	"ai-outfit-planner-be/internal/dto"
)

// Normalize collapses a per-day forecast into the single weather context
// the planner feeds into prompts.
func Normalize(location string, daily *DailyForecast) *dto.WeatherContext {
	minTemp := daily.TempMin[0]
	maxTemp := daily.TempMax[0]
	for _, v := range daily.TempMin {
		minTemp = math.Min(minTemp, v)
	}
	for _, v := range daily.TempMax {
		maxTemp = math.Max(maxTemp, v)
	}

	var precip float64
	if len(daily.Precipitation) > 0 {
		for _, v := range daily.Precipitation {
			precip += v
		}
		precip = math.Round(precip / float64(len(daily.Precipitation)))
	}

	conditions := "variable"
	if len(daily.WeatherCode) > 0 {
		worst := 0
		for _, code := range daily.WeatherCode {
			if code > worst {
				worst = code
			}
		}
		conditions = describeWeatherCode(worst)
	}

	wc := &dto.WeatherContext{
		WeatherData: dto.WeatherData{
			Temperature:   dto.Temperature{Min: minTemp, Max: maxTemp, Unit: "celsius"},
			Conditions:    conditions,
			Precipitation: precip,
		},
		Location:                 location,
		TemperatureRange:         TemperatureBand(minTemp, maxTemp),
		PrecipitationProbability: precip,
		LayeringNeeds:            LayeringNeeds(minTemp, maxTemp),
		WeatherProtection:        Protection(precip, conditions),
		ComfortFactors:           ComfortFactors(minTemp, maxTemp, precip),
		WeatherDataConfidence:    0.9,
	}
	return wc
}

// Fallback builds a seasonal estimate when live weather is unavailable.
// The caller gets a usable context either way; Success and FallbackUsed
// tell the pipeline which one it got.
func Fallback(query dto.WeatherQuery) *dto.WeatherResult {
	minTemp, maxTemp, conditions := seasonalEstimate(query.StartDate)
	precip := 30.0
	wc := &dto.WeatherContext{
		WeatherData: dto.WeatherData{
			Temperature:   dto.Temperature{Min: minTemp, Max: maxTemp, Unit: "celsius"},
			Conditions:    conditions,
			Precipitation: precip,
		},
		Location:                 query.Location,
		TemperatureRange:         TemperatureBand(minTemp, maxTemp),
		PrecipitationProbability: precip,
		LayeringNeeds:            LayeringNeeds(minTemp, maxTemp),
		WeatherProtection:        Protection(precip, conditions),
		ComfortFactors:           ComfortFactors(minTemp, maxTemp, precip),
		WeatherDataConfidence:    0.3,
	}
	return &dto.WeatherResult{
		Success:        false,
		FallbackUsed:   true,
		WeatherContext: wc,
		Error:          "live weather unavailable, seasonal estimate applied",
	}
}

// seasonalEstimate is a coarse northern-hemisphere monthly baseline.
func seasonalEstimate(startDate string) (minTemp, maxTemp float64, conditions string) {
	month := time.Now().Month()
	if t, err := time.Parse("2006-01-02", startDate); err == nil {
		month = t.Month()
	}
	switch month {
	case time.December, time.January, time.February:
		return 0, 8, "cold, chance of rain or snow"
	case time.March, time.April, time.May:
		return 8, 18, "mild, occasional showers"
	case time.June, time.July, time.August:
		return 16, 28, "warm, mostly clear"
	default:
		return 8, 17, "cool, variable"
	}
}

// TemperatureBand renders a human band like "8-15°C (cold)".
func TemperatureBand(minTemp, maxTemp float64) string {
	avg := (minTemp + maxTemp) / 2
	var band string
	switch {
	case avg < 5:
		band = "very cold"
	case avg < 12:
		band = "cold"
	case avg < 18:
		band = "mild"
	case avg < 25:
		band = "warm"
	default:
		band = "hot"
	}
	return fmt.Sprintf("%.0f-%.0f°C (%s)", minTemp, maxTemp, band)
}

func LayeringNeeds(minTemp, maxTemp float64) string {
	spread := maxTemp - minTemp
	switch {
	case minTemp < 5:
		return "heavy layering with insulated outerwear"
	case minTemp < 12 || spread >= 10:
		return "light layering, removable outer layer for temperature swings"
	case maxTemp >= 25:
		return "single breathable layers"
	default:
		return "minimal layering needed"
	}
}

func Protection(precip float64, conditions string) string {
	if precip >= 60 {
		return "waterproof outerwear and footwear recommended"
	}
	if precip >= 35 {
		return "packable rain layer or umbrella advisable"
	}
	if conditions == "snow" {
		return "insulated waterproof footwear recommended"
	}
	return "no special protection needed"
}

func ComfortFactors(minTemp, maxTemp, precip float64) string {
	switch {
	case maxTemp >= 28:
		return "prioritize breathable fabrics and light colors"
	case minTemp < 3:
		return "prioritize insulation and wind resistance"
	case precip >= 50:
		return "prioritize quick-drying fabrics"
	default:
		return "standard comfort range, fabric choice flexible"
	}
}

func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorms"
	}
}
