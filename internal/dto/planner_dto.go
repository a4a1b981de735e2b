package dto

import (
	"fmt"
	"time"
)

// PipelineError is the typed error carried on a pipeline state and inside
// response envelopes. It never crosses the controller boundary as a panic.
type PipelineError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewPipelineError(code, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

// ContextData is the environmental slice mirrored onto the pipeline state
// for quick client access.
type ContextData struct {
	Weather       *WeatherContext `json:"weather,omitempty"`
	WeatherFailed bool            `json:"weatherFailed,omitempty"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// PipelineState is the per-session state machine record. Every mutation
// refreshes LastActivity; records idle beyond the state TTL are lazily
// purged on next access.
type PipelineState struct {
	SessionId             string          `json:"sessionId"`
	Stage                 string          `json:"stage"`
	EventDetails          *EventDetails   `json:"eventDetails,omitempty"`
	ContextData           *ContextData    `json:"contextData,omitempty"`
	OutfitRecommendations *GenerationData `json:"outfitRecommendations,omitempty"`
	Error                 *PipelineError  `json:"error,omitempty"`
	Fallback              bool            `json:"fallback,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	LastActivity          time.Time       `json:"lastActivity"`
}

// GenerationData is the payload produced by a successful generation run.
type GenerationData struct {
	Outfits             map[int]DailyOutfit  `json:"outfits"`
	ReusabilityAnalysis *ReusabilityAnalysis `json:"reusabilityAnalysis"`
	ContextSummary      string               `json:"contextSummary,omitempty"`
	RawAiData           string               `json:"rawAiData,omitempty"`
	GeneratedAt         time.Time            `json:"generatedAt"`
	IsDemoMode          bool                 `json:"isDemoMode,omitempty"`
	Fallback            bool                 `json:"fallback,omitempty"`
	FallbackError       *PipelineError       `json:"fallbackError,omitempty"`
	Warnings            []string             `json:"warnings,omitempty"`
	Recovered           bool                 `json:"recovered,omitempty"`
}

// GenerateEnvelope is the response envelope emitted by generateOutfits.
type GenerateEnvelope struct {
	Success bool            `json:"success"`
	Data    *GenerationData `json:"data,omitempty"`
	Error   *PipelineError  `json:"error,omitempty"`
}

// --- Request DTOs ---

type InitSessionRequest struct {
	SessionId string `json:"session_id,omitempty" validate:"omitempty,uuid4"`
}

type ProcessInputRequest struct {
	SessionId        string        `json:"session_id" validate:"required,uuid4"`
	Message          string        `json:"message" validate:"required"`
	ExtractedDetails *EventDetails `json:"extracted_details,omitempty"`
}

type ConfirmDetailsRequest struct {
	SessionId    string       `json:"session_id" validate:"required,uuid4"`
	EventDetails EventDetails `json:"event_details" validate:"required"`
}

type SessionRequest struct {
	SessionId string `json:"session_id" validate:"required,uuid4"`
}

type GenerateOutfitsRequest struct {
	SessionId        string        `json:"session_id" validate:"required,uuid4"`
	ConfirmedDetails *EventDetails `json:"confirmed_details,omitempty"`
	UseCloset        bool          `json:"use_closet,omitempty"`
	AllowFallback    bool          `json:"allow_fallback,omitempty"`
}

// --- Response DTOs ---

type ProcessInputResponse struct {
	State *PipelineState `json:"state"`
}

type ConfirmDetailsResponse struct {
	State         *PipelineState `json:"state"`
	WeatherResult *WeatherResult `json:"weather_result,omitempty"`
}

// StageView is the user-facing description of the current stage.
type StageView struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
