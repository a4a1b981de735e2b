package contract

import (
	"context"

	"ai-outfit-planner-be/internal/entity"

	"github.com/google/uuid"
)

type ClosetRepository interface {
	Save(ctx context.Context, item *entity.ClosetItem) error
	FindAllBySessionId(ctx context.Context, sessionId string) ([]*entity.ClosetItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllBySessionId(ctx context.Context, sessionId string) error
}
