package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/pkg/logger"
)

// Provider supplies normalized weather context for a location and date
// range. Implementations must never fail the caller: an unreachable
// upstream yields a fallback result instead of an error.
type Provider interface {
	Fetch(ctx context.Context, query dto.WeatherQuery) *dto.WeatherResult
}

// Client resolves weather through the Open-Meteo geocoding + forecast
// APIs. Responses are cached per query for a short window.
type Client struct {
	geocodeURL  string
	forecastURL string
	client      *http.Client
	cache       sync.Map
	log         logger.ILogger
}

type cachedItem struct {
	result    *dto.WeatherResult
	expiresAt time.Time
}

const cacheTTL = 30 * time.Minute

func NewClient(geocodeURL, forecastURL string, log logger.ILogger) *Client {
	if geocodeURL == "" {
		geocodeURL = "https://geocoding-api.open-meteo.com/v1/search"
	}
	if forecastURL == "" {
		forecastURL = "https://api.open-meteo.com/v1/forecast"
	}
	return &Client{
		geocodeURL:  geocodeURL,
		forecastURL: forecastURL,
		client:      &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

func (c *Client) Fetch(ctx context.Context, query dto.WeatherQuery) *dto.WeatherResult {
	cacheKey := fmt.Sprintf("%s:%s:%d", query.Location, query.StartDate, query.Duration)
	if val, ok := c.cache.Load(cacheKey); ok {
		item := val.(cachedItem)
		if time.Now().Before(item.expiresAt) {
			return item.result
		}
		c.cache.Delete(cacheKey)
	}

	result := c.fetch(ctx, query)
	c.cache.Store(cacheKey, cachedItem{result: result, expiresAt: time.Now().Add(cacheTTL)})
	return result
}

func (c *Client) fetch(ctx context.Context, query dto.WeatherQuery) *dto.WeatherResult {
	lat, lon, err := c.geocode(ctx, query.Location)
	if err != nil {
		c.warn("Geocoding failed, using seasonal fallback", query.Location, err)
		return Fallback(query)
	}

	daily, err := c.forecast(ctx, lat, lon, query)
	if err != nil {
		c.warn("Forecast failed, using seasonal fallback", query.Location, err)
		return Fallback(query)
	}

	wc := Normalize(query.Location, daily)
	return &dto.WeatherResult{Success: true, WeatherContext: wc}
}

func (c *Client) warn(msg, location string, err error) {
	if c.log != nil {
		c.log.Warn("WeatherClient", msg, map[string]interface{}{
			"location": location, "error": err.Error(),
		})
	}
}

func (c *Client) geocode(ctx context.Context, location string) (float64, float64, error) {
	params := url.Values{}
	params.Add("name", location)
	params.Add("count", "1")

	var result struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodeURL+"?"+params.Encode(), &result); err != nil {
		return 0, 0, err
	}
	if len(result.Results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding match for %q", location)
	}
	return result.Results[0].Latitude, result.Results[0].Longitude, nil
}

// DailyForecast is the raw per-day forecast slice used by Normalize.
type DailyForecast struct {
	TempMin       []float64 `json:"temperature_2m_min"`
	TempMax       []float64 `json:"temperature_2m_max"`
	Precipitation []float64 `json:"precipitation_probability_mean"`
	WeatherCode   []int     `json:"weathercode"`
}

func (c *Client) forecast(ctx context.Context, lat, lon float64, query dto.WeatherQuery) (*DailyForecast, error) {
	params := url.Values{}
	params.Add("latitude", fmt.Sprintf("%.4f", lat))
	params.Add("longitude", fmt.Sprintf("%.4f", lon))
	params.Add("daily", "temperature_2m_min,temperature_2m_max,precipitation_probability_mean,weathercode")
	params.Add("timezone", "auto")
	if query.StartDate != "" {
		end := query.StartDate
		if start, err := time.Parse("2006-01-02", query.StartDate); err == nil {
			days := query.Duration
			if days < 1 {
				days = 1
			}
			end = start.AddDate(0, 0, days-1).Format("2006-01-02")
		}
		params.Add("start_date", query.StartDate)
		params.Add("end_date", end)
	}

	var result struct {
		Daily DailyForecast `json:"daily"`
	}
	if err := c.getJSON(ctx, c.forecastURL+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	if len(result.Daily.TempMin) == 0 || len(result.Daily.TempMax) == 0 {
		return nil, fmt.Errorf("forecast returned no daily data")
	}
	return &result.Daily, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 120))
	}
	return json.Unmarshal(body, dest)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
