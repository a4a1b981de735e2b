package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "STAGE_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation backing the planner events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Planner event type codes.
const (
	TypeStageChanged  = "STAGE_CHANGED"
	TypePlanCompleted = "PLAN_COMPLETED"
)

// NewStageChanged records a pipeline stage transition for a session.
func NewStageChanged(sessionId, fromStage, toStage string) Event {
	return BaseEvent{
		Type: TypeStageChanged,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"from_stage": fromStage,
			"to_stage":   toStage,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewPlanCompleted records a finished generation run.
func NewPlanCompleted(sessionId, tripId string, isDemoMode, fallback bool, reusabilityPercentage int) Event {
	return BaseEvent{
		Type: TypePlanCompleted,
		Data: map[string]interface{}{
			"session_id":             sessionId,
			"trip_id":                tripId,
			"is_demo_mode":           isDemoMode,
			"fallback":               fallback,
			"reusability_percentage": reusabilityPercentage,
		},
		OccurredAt: time.Now().UTC(),
	}
}
