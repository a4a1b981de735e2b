package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/entity"
	"ai-outfit-planner-be/internal/pkg/logger"
	"ai-outfit-planner-be/internal/repository/contract"
)

// ITripPlanService is the read/write surface over the plan archive.
// Completed plans are archived by the consumer service so they outlive
// the session TTL.
type ITripPlanService interface {
	ArchivePlan(ctx context.Context, sessionId string, details *dto.EventDetails, data *dto.GenerationData) (*entity.TripPlan, error)
	GetPlans(ctx context.Context, sessionId string) ([]dto.TripPlanSummaryResponse, error)
	GetPlanById(ctx context.Context, id uuid.UUID) (*dto.TripPlanDetailResponse, error)
}

type tripPlanService struct {
	repo contract.TripPlanRepository
	log  logger.ILogger
}

func NewTripPlanService(repo contract.TripPlanRepository, log logger.ILogger) ITripPlanService {
	return &tripPlanService{repo: repo, log: log}
}

func (s *tripPlanService) ArchivePlan(ctx context.Context, sessionId string, details *dto.EventDetails, data *dto.GenerationData) (*entity.TripPlan, error) {
	if data == nil {
		return nil, fmt.Errorf("nothing to archive")
	}

	plan := &entity.TripPlan{
		SessionId:  sessionId,
		TripId:     uuid.NewString(),
		IsDemoMode: data.IsDemoMode,
		Fallback:   data.Fallback,
		Plan:       data,
	}
	if data.ReusabilityAnalysis != nil {
		plan.ReusabilityPercentage = data.ReusabilityAnalysis.ReusabilityPercentage
	}
	if details != nil {
		plan.Occasion = details.Occasion
		plan.Location = details.Location
		plan.StartDate = details.StartDate
		plan.Duration = details.Duration
	}
	if plan.Duration == 0 {
		plan.Duration = len(data.Outfits)
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		if s.log != nil {
			s.log.Error("TripPlanService", "Failed to archive plan", map[string]interface{}{
				"session_id": sessionId, "error": err.Error(),
			})
		}
		return nil, err
	}
	return plan, nil
}

func (s *tripPlanService) GetPlans(ctx context.Context, sessionId string) ([]dto.TripPlanSummaryResponse, error) {
	plans, err := s.repo.FindAllBySessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.TripPlanSummaryResponse, 0, len(plans))
	for _, plan := range plans {
		summaries = append(summaries, tripPlanToSummary(plan))
	}
	return summaries, nil
}

func (s *tripPlanService) GetPlanById(ctx context.Context, id uuid.UUID) (*dto.TripPlanDetailResponse, error) {
	plan, err := s.repo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	return &dto.TripPlanDetailResponse{
		TripPlanSummaryResponse: tripPlanToSummary(plan),
		Plan:                    plan.Plan,
	}, nil
}

func tripPlanToSummary(plan *entity.TripPlan) dto.TripPlanSummaryResponse {
	return dto.TripPlanSummaryResponse{
		Id:                    plan.Id,
		SessionId:             plan.SessionId,
		Occasion:              plan.Occasion,
		Duration:              plan.Duration,
		ReusabilityPercentage: plan.ReusabilityPercentage,
		IsDemo:                plan.IsDemoMode,
		Fallback:              plan.Fallback,
		CreatedAt:             plan.CreatedAt,
	}
}
