package implementation

import (
	"context"
	"encoding/json"

	"ai-outfit-planner-be/internal/entity"
	"ai-outfit-planner-be/internal/model"
	"ai-outfit-planner-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClosetRepositoryImpl struct {
	db *gorm.DB
}

func NewClosetRepository(db *gorm.DB) contract.ClosetRepository {
	return &ClosetRepositoryImpl{db: db}
}

func (r *ClosetRepositoryImpl) Save(ctx context.Context, item *entity.ClosetItem) error {
	m := closetToModel(item)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "sku"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*item = *closetToEntity(m)
	return nil
}

func (r *ClosetRepositoryImpl) FindAllBySessionId(ctx context.Context, sessionId string) ([]*entity.ClosetItem, error) {
	var models []*model.ClosetItem
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entity.ClosetItem, 0, len(models))
	for _, m := range models {
		items = append(items, closetToEntity(m))
	}
	return items, nil
}

func (r *ClosetRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ClosetItem{}, id).Error
}

func (r *ClosetRepositoryImpl) DeleteAllBySessionId(ctx context.Context, sessionId string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.ClosetItem{}).Error
}

func closetToModel(e *entity.ClosetItem) *model.ClosetItem {
	tags, _ := json.Marshal(e.Tags)
	return &model.ClosetItem{
		Id:                 e.Id,
		SessionId:          e.SessionId,
		Sku:                e.Sku,
		Name:               e.Name,
		Category:           e.Category,
		Price:              e.Price,
		Colors:             e.Colors,
		WeatherSuitability: e.WeatherSuitability,
		Formality:          e.Formality,
		Layering:           e.Layering,
		Tags:               tags,
		Notes:              e.Notes,
		Image:              e.Image,
		ProductUrl:         e.ProductUrl,
		CreatedAt:          e.CreatedAt,
	}
}

func closetToEntity(m *model.ClosetItem) *entity.ClosetItem {
	var tags []string
	_ = json.Unmarshal(m.Tags, &tags)
	return &entity.ClosetItem{
		Id:                 m.Id,
		SessionId:          m.SessionId,
		Sku:                m.Sku,
		Name:               m.Name,
		Category:           m.Category,
		Price:              m.Price,
		Colors:             m.Colors,
		WeatherSuitability: m.WeatherSuitability,
		Formality:          m.Formality,
		Layering:           m.Layering,
		Tags:               tags,
		Notes:              m.Notes,
		Image:              m.Image,
		ProductUrl:         m.ProductUrl,
		CreatedAt:          m.CreatedAt,
	}
}
