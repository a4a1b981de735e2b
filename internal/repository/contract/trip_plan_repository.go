package contract

import (
	"context"

	"ai-outfit-planner-be/internal/entity"

	"github.com/google/uuid"
)

type TripPlanRepository interface {
	Create(ctx context.Context, plan *entity.TripPlan) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.TripPlan, error)
	FindAllBySessionId(ctx context.Context, sessionId string) ([]*entity.TripPlan, error)
}
