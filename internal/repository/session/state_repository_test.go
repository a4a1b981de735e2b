package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/pkg/store"
)

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := NewStateRepository(store.NewMemoryStore(), time.Minute)
	ctx := context.Background()

	state := &dto.PipelineState{
		SessionId: "sess-1",
		Stage:     constant.StageInputProcessing,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(ctx, state))
	assert.False(t, state.LastActivity.IsZero(), "Save must refresh lastActivity")

	loaded, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, constant.StageInputProcessing, loaded.Stage)
	assert.Equal(t, "sess-1", loaded.SessionId)
}

func TestGetMissing(t *testing.T) {
	repo := NewStateRepository(store.NewMemoryStore(), time.Minute)
	_, err := repo.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIdleStateExpires(t *testing.T) {
	repo := NewStateRepository(store.NewMemoryStore(), 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &dto.PipelineState{
		SessionId: "sess-1",
		Stage:     constant.StageComplete,
	}))

	time.Sleep(40 * time.Millisecond)
	_, err := repo.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := NewStateRepository(store.NewMemoryStore(), time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &dto.PipelineState{SessionId: "sess-1", Stage: constant.StageGenerating}))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	_, err := repo.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
