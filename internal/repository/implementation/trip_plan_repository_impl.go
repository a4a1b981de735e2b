package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/entity"
	"ai-outfit-planner-be/internal/model"
	"ai-outfit-planner-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TripPlanRepositoryImpl struct {
	db *gorm.DB
}

func NewTripPlanRepository(db *gorm.DB) contract.TripPlanRepository {
	return &TripPlanRepositoryImpl{db: db}
}

func (r *TripPlanRepositoryImpl) Create(ctx context.Context, plan *entity.TripPlan) error {
	m, err := tripPlanToModel(plan)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	e, err := tripPlanToEntity(m)
	if err != nil {
		return err
	}
	*plan = *e
	return nil
}

func (r *TripPlanRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.TripPlan, error) {
	var m model.TripPlan
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tripPlanToEntity(&m)
}

func (r *TripPlanRepositoryImpl) FindAllBySessionId(ctx context.Context, sessionId string) ([]*entity.TripPlan, error) {
	var models []*model.TripPlan
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	plans := make([]*entity.TripPlan, 0, len(models))
	for _, m := range models {
		e, err := tripPlanToEntity(m)
		if err != nil {
			return nil, err
		}
		plans = append(plans, e)
	}
	return plans, nil
}

func tripPlanToModel(e *entity.TripPlan) (*model.TripPlan, error) {
	planJson, err := json.Marshal(e.Plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan payload: %w", err)
	}
	return &model.TripPlan{
		Id:                    e.Id,
		SessionId:             e.SessionId,
		TripId:                e.TripId,
		Occasion:              e.Occasion,
		Location:              e.Location,
		StartDate:             e.StartDate,
		Duration:              e.Duration,
		IsDemoMode:            e.IsDemoMode,
		Fallback:              e.Fallback,
		ReusabilityPercentage: e.ReusabilityPercentage,
		Plan:                  planJson,
		CreatedAt:             e.CreatedAt,
	}, nil
}

func tripPlanToEntity(m *model.TripPlan) (*entity.TripPlan, error) {
	var plan dto.GenerationData
	if err := json.Unmarshal(m.Plan, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan payload: %w", err)
	}
	return &entity.TripPlan{
		Id:                    m.Id,
		SessionId:             m.SessionId,
		TripId:                m.TripId,
		Occasion:              m.Occasion,
		Location:              m.Location,
		StartDate:             m.StartDate,
		Duration:              m.Duration,
		IsDemoMode:            m.IsDemoMode,
		Fallback:              m.Fallback,
		ReusabilityPercentage: m.ReusabilityPercentage,
		Plan:                  &plan,
		CreatedAt:             m.CreatedAt,
	}, nil
}
