package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/entity"
	"ai-outfit-planner-be/internal/pkg/logger"
	"ai-outfit-planner-be/internal/repository/contract"
	"ai-outfit-planner-be/pkg/catalog"
)

// IClosetService manages the per-session closet: items the user already
// owns. Closet items are merged ahead of the shop catalog at generation
// time and win SKU collisions.
type IClosetService interface {
	SaveItem(ctx context.Context, sessionId string, req *dto.SaveClosetItemRequest) (*dto.ClosetItemResponse, error)
	GetItems(ctx context.Context, sessionId string) ([]dto.ClosetItemResponse, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ClearCloset(ctx context.Context, sessionId string) error
}

type closetService struct {
	repo     contract.ClosetRepository
	validate *validator.Validate
	log      logger.ILogger
}

func NewClosetService(repo contract.ClosetRepository, log logger.ILogger) IClosetService {
	return &closetService{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

func (s *closetService) SaveItem(ctx context.Context, sessionId string, req *dto.SaveClosetItemRequest) (*dto.ClosetItemResponse, error) {
	if sessionId == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	item := &entity.ClosetItem{
		SessionId:          sessionId,
		Sku:                req.Sku,
		Name:               req.Name,
		Category:           catalog.NormalizeCategory(req.Category),
		Price:              req.Price,
		Colors:             req.Colors,
		WeatherSuitability: req.WeatherSuitability,
		Formality:          req.Formality,
		Layering:           req.Layering,
		Tags:               req.Tags,
		Notes:              req.Notes,
		Image:              req.Image,
		ProductUrl:         req.ProductUrl,
	}
	if err := s.repo.Save(ctx, item); err != nil {
		if s.log != nil {
			s.log.Error("ClosetService", "Failed to save closet item", map[string]interface{}{
				"session_id": sessionId, "sku": req.Sku, "error": err.Error(),
			})
		}
		return nil, err
	}

	response := closetItemToResponse(item)
	return &response, nil
}

func (s *closetService) GetItems(ctx context.Context, sessionId string) ([]dto.ClosetItemResponse, error) {
	items, err := s.repo.FindAllBySessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ClosetItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, closetItemToResponse(item))
	}
	return responses, nil
}

func (s *closetService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *closetService) ClearCloset(ctx context.Context, sessionId string) error {
	return s.repo.DeleteAllBySessionId(ctx, sessionId)
}

func closetItemToResponse(item *entity.ClosetItem) dto.ClosetItemResponse {
	return dto.ClosetItemResponse{
		Id:                 item.Id,
		Sku:                item.Sku,
		Name:               item.Name,
		Category:           item.Category,
		Price:              item.Price,
		Colors:             item.Colors,
		WeatherSuitability: item.WeatherSuitability,
		Formality:          item.Formality,
		Layering:           item.Layering,
		Tags:               item.Tags,
		Notes:              item.Notes,
		Image:              item.Image,
		ProductUrl:         item.ProductUrl,
		CreatedAt:          item.CreatedAt,
	}
}
