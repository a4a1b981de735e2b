package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-outfit-planner-be/internal/dto"
)

// TripPlan archives one completed generation run so plans outlive the
// session TTL.
type TripPlan struct {
	Id                    uuid.UUID
	SessionId             string
	TripId                string
	Occasion              string
	Location              string
	StartDate             string
	Duration              int
	IsDemoMode            bool
	Fallback              bool
	ReusabilityPercentage int
	Plan                  *dto.GenerationData
	CreatedAt             time.Time
}
