package dto

// WeatherQuery is the request shape consumed by the weather context provider.
type WeatherQuery struct {
	Location  string `json:"location"`
	StartDate string `json:"startDate,omitempty"`
	Duration  int    `json:"duration"`
}

type Temperature struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

type WeatherData struct {
	Temperature   Temperature `json:"temperature"`
	Conditions    string      `json:"conditions"`
	Precipitation float64     `json:"precipitation"`
}

// WeatherContext is the normalized weather summary merged into the
// session's context file.
type WeatherContext struct {
	WeatherData              WeatherData `json:"weatherData"`
	Location                 string      `json:"location"`
	TemperatureRange         string      `json:"temperatureRange"`
	PrecipitationProbability float64     `json:"precipitationProbability"`
	LayeringNeeds            string      `json:"layeringNeeds"`
	WeatherProtection        string      `json:"weatherProtection,omitempty"`
	ComfortFactors           string      `json:"comfortFactors,omitempty"`
	WeatherDataConfidence    float64     `json:"weatherDataConfidence"`
}

// WeatherResult wraps a provider response. Fallback results carry an
// estimated context and are flagged in session metadata; they never fail
// the pipeline.
type WeatherResult struct {
	Success        bool            `json:"success"`
	FallbackUsed   bool            `json:"fallbackUsed,omitempty"`
	WeatherContext *WeatherContext `json:"weatherContext,omitempty"`
	Error          string          `json:"error,omitempty"`
}
