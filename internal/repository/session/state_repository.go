package session

import (
	"context"
	"fmt"
	"time"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/pkg/store"
)

// DefaultTTL is the pipeline-state idle expiry.
const DefaultTTL = 30 * time.Minute

// ErrNotFound is returned when a session has no live pipeline state.
var ErrNotFound = fmt.Errorf("pipeline state not found")

// StateRepository persists pipeline states in the keyed store, one
// entry per session id. Expired entries are lazily purged on read.
type StateRepository struct {
	store store.KeyedStore
	ttl   time.Duration
}

func NewStateRepository(kv store.KeyedStore, ttl time.Duration) *StateRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StateRepository{store: kv, ttl: ttl}
}

func (r *StateRepository) key(sessionId string) string {
	return store.Key(constant.StoreKeyPipelineState, sessionId)
}

// Get returns the live state for the session, or ErrNotFound.
func (r *StateRepository) Get(ctx context.Context, sessionId string) (*dto.PipelineState, error) {
	var state dto.PipelineState
	found, err := r.store.Get(ctx, r.key(sessionId), &state)
	if err != nil {
		return nil, fmt.Errorf("read pipeline state: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	if time.Since(state.LastActivity) > r.ttl {
		_ = r.store.Delete(ctx, r.key(sessionId))
		return nil, ErrNotFound
	}
	return &state, nil
}

// Save persists the state and refreshes its activity timestamp.
func (r *StateRepository) Save(ctx context.Context, state *dto.PipelineState) error {
	state.LastActivity = time.Now().UTC()
	if err := r.store.Set(ctx, r.key(state.SessionId), state, r.ttl); err != nil {
		return fmt.Errorf("persist pipeline state: %w", err)
	}
	return nil
}

// Delete removes the session's state.
func (r *StateRepository) Delete(ctx context.Context, sessionId string) error {
	return r.store.Delete(ctx, r.key(sessionId))
}
