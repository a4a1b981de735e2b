package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveClosetItemRequest struct {
	Sku                string   `json:"sku" validate:"required"`
	Name               string   `json:"name" validate:"required"`
	Category           string   `json:"category" validate:"required"`
	Price              float64  `json:"price" validate:"min=0"`
	Colors             string   `json:"colors,omitempty"`
	WeatherSuitability string   `json:"weather_suitability,omitempty"`
	Formality          string   `json:"formality,omitempty"`
	Layering           string   `json:"layering,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	Image              string   `json:"image,omitempty"`
	ProductUrl         string   `json:"product_url,omitempty"`
}

type ClosetItemResponse struct {
	Id                 uuid.UUID `json:"id"`
	Sku                string    `json:"sku"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	Price              float64   `json:"price"`
	Colors             string    `json:"colors,omitempty"`
	WeatherSuitability string    `json:"weather_suitability,omitempty"`
	Formality          string    `json:"formality,omitempty"`
	Layering           string    `json:"layering,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	Image              string    `json:"image,omitempty"`
	ProductUrl         string    `json:"product_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type TripPlanSummaryResponse struct {
	Id                    uuid.UUID `json:"id"`
	SessionId             string    `json:"session_id"`
	Occasion              string    `json:"occasion"`
	Duration              int       `json:"duration"`
	ReusabilityPercentage int       `json:"reusability_percentage"`
	IsDemo                bool      `json:"is_demo"`
	Fallback              bool      `json:"fallback"`
	CreatedAt             time.Time `json:"created_at"`
}

type TripPlanDetailResponse struct {
	TripPlanSummaryResponse
	Plan *GenerationData `json:"plan"`
}
