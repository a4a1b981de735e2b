package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/entity"
)

type memClosetRepo struct {
	items map[uuid.UUID]*entity.ClosetItem
}

func newMemClosetRepo() *memClosetRepo {
	return &memClosetRepo{items: map[uuid.UUID]*entity.ClosetItem{}}
}

func (r *memClosetRepo) Save(ctx context.Context, item *entity.ClosetItem) error {
	for _, existing := range r.items {
		if existing.SessionId == item.SessionId && existing.Sku == item.Sku {
			item.Id = existing.Id
			item.CreatedAt = existing.CreatedAt
			r.items[existing.Id] = item
			return nil
		}
	}
	item.Id = uuid.New()
	item.CreatedAt = time.Now().UTC()
	r.items[item.Id] = item
	return nil
}

func (r *memClosetRepo) FindAllBySessionId(ctx context.Context, sessionId string) ([]*entity.ClosetItem, error) {
	var out []*entity.ClosetItem
	for _, item := range r.items {
		if item.SessionId == sessionId {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memClosetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memClosetRepo) DeleteAllBySessionId(ctx context.Context, sessionId string) error {
	for id, item := range r.items {
		if item.SessionId == sessionId {
			delete(r.items, id)
		}
	}
	return nil
}

func TestSaveItemNormalizesCategory(t *testing.T) {
	svc := NewClosetService(newMemClosetRepo(), nil)
	ctx := context.Background()

	saved, err := svc.SaveItem(ctx, "sess-1", &dto.SaveClosetItemRequest{
		Sku: "C001", Name: "Favorite Tee", Category: "tops", Price: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "topwear", saved.Category)
	assert.NotEqual(t, uuid.Nil, saved.Id)
}

func TestSaveItemBucketsUnknownCategoryAsAccessory(t *testing.T) {
	svc := NewClosetService(newMemClosetRepo(), nil)
	saved, err := svc.SaveItem(context.Background(), "sess-1", &dto.SaveClosetItemRequest{
		Sku: "C001", Name: "Mystery", Category: "gadgets", Price: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "accessories", saved.Category)
}

func TestSaveItemRejectsMissingFields(t *testing.T) {
	svc := NewClosetService(newMemClosetRepo(), nil)
	_, err := svc.SaveItem(context.Background(), "sess-1", &dto.SaveClosetItemRequest{
		Sku: "C001", Category: "topwear",
	})
	assert.Error(t, err, "name is required")
}

func TestSaveItemUpsertsOnSkuCollision(t *testing.T) {
	repo := newMemClosetRepo()
	svc := NewClosetService(repo, nil)
	ctx := context.Background()

	first, err := svc.SaveItem(ctx, "sess-1", &dto.SaveClosetItemRequest{
		Sku: "C001", Name: "Favorite Tee", Category: "topwear", Price: 20,
	})
	require.NoError(t, err)
	second, err := svc.SaveItem(ctx, "sess-1", &dto.SaveClosetItemRequest{
		Sku: "C001", Name: "Favorite Tee (washed)", Category: "topwear", Price: 18,
	})
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	items, err := svc.GetItems(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Favorite Tee (washed)", items[0].Name)
}

func TestClearClosetOnlyTouchesOwnSession(t *testing.T) {
	repo := newMemClosetRepo()
	svc := NewClosetService(repo, nil)
	ctx := context.Background()

	_, err := svc.SaveItem(ctx, "sess-1", &dto.SaveClosetItemRequest{Sku: "A", Name: "Tee", Category: "topwear", Price: 5})
	require.NoError(t, err)
	_, err = svc.SaveItem(ctx, "sess-2", &dto.SaveClosetItemRequest{Sku: "B", Name: "Jeans", Category: "bottomwear", Price: 30})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCloset(ctx, "sess-1"))

	gone, err := svc.GetItems(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, gone)
	kept, err := svc.GetItems(ctx, "sess-2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
