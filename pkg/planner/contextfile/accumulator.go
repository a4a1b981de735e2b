package contextfile

import (
	"context"
	"fmt"
	"time"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/pkg/logger"
	"ai-outfit-planner-be/pkg/store"
)

// DefaultTTL is the context-file idle expiry.
const DefaultTTL = 60 * time.Minute

// ErrNotFound is returned when a session has no live context file.
var ErrNotFound = fmt.Errorf("context file not found")

// Accumulator owns context-file persistence. One entry per session id;
// entries past the idle TTL are treated as missing on next access.
type Accumulator struct {
	store store.KeyedStore
	ttl   time.Duration
	log   logger.ILogger
}

func NewAccumulator(kv store.KeyedStore, ttl time.Duration, log logger.ILogger) *Accumulator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Accumulator{store: kv, ttl: ttl, log: log}
}

func (a *Accumulator) key(sessionId string) string {
	return store.Key(constant.StoreKeyContextFiles, sessionId)
}

// Initialize creates a fresh context file for the session, replacing
// any prior one.
func (a *Accumulator) Initialize(ctx context.Context, sessionId, originalMessage string) (*ContextFile, error) {
	cf := New(sessionId, originalMessage)
	if err := a.save(ctx, cf); err != nil {
		return nil, err
	}
	if a.log != nil {
		a.log.Debug("ContextAccumulator", "Initialized context file", map[string]interface{}{
			"session_id": sessionId,
		})
	}
	return cf, nil
}

// Get returns the live context file for the session, or ErrNotFound.
func (a *Accumulator) Get(ctx context.Context, sessionId string) (*ContextFile, error) {
	var cf ContextFile
	found, err := a.store.Get(ctx, a.key(sessionId), &cf)
	if err != nil {
		return nil, fmt.Errorf("read context file: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	// Lazy expiry: the store TTL is refreshed on write, so a stale
	// lastUpdated means the session idled out.
	if time.Since(cf.Metadata.LastUpdated) > a.ttl {
		_ = a.store.Delete(ctx, a.key(sessionId))
		return nil, ErrNotFound
	}
	return &cf, nil
}

// AddExtractedDetails merges LLM-extracted event details.
func (a *Accumulator) AddExtractedDetails(ctx context.Context, sessionId string, details *dto.EventDetails) (*ContextFile, error) {
	return a.mutate(ctx, sessionId, func(cf *ContextFile) {
		cf.mergeDetails(details, false)
	})
}

// AddConfirmedDetails merges user-confirmed event details.
func (a *Accumulator) AddConfirmedDetails(ctx context.Context, sessionId string, details *dto.EventDetails) (*ContextFile, error) {
	return a.mutate(ctx, sessionId, func(cf *ContextFile) {
		cf.mergeDetails(details, true)
	})
}

// AddWeatherContext merges a weather result.
func (a *Accumulator) AddWeatherContext(ctx context.Context, sessionId string, wc *dto.WeatherContext, fallbackUsed bool) (*ContextFile, error) {
	return a.mutate(ctx, sessionId, func(cf *ContextFile) {
		cf.mergeWeather(wc, fallbackUsed)
	})
}

// AddAdditionalContext appends a clarification from the user.
func (a *Accumulator) AddAdditionalContext(ctx context.Context, sessionId, clarification string) (*ContextFile, error) {
	return a.mutate(ctx, sessionId, func(cf *ContextFile) {
		cf.UserInput.Clarifications = append(cf.UserInput.Clarifications, clarification)
		cf.touch()
	})
}

// AddWarning records a non-fatal finding in metadata.
func (a *Accumulator) AddWarning(ctx context.Context, sessionId, warning string) (*ContextFile, error) {
	return a.mutate(ctx, sessionId, func(cf *ContextFile) {
		cf.Metadata.Warnings = append(cf.Metadata.Warnings, warning)
		cf.touch()
	})
}

// Delete removes the session's context file.
func (a *Accumulator) Delete(ctx context.Context, sessionId string) error {
	return a.store.Delete(ctx, a.key(sessionId))
}

func (a *Accumulator) mutate(ctx context.Context, sessionId string, fn func(*ContextFile)) (*ContextFile, error) {
	cf, err := a.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	fn(cf)
	if err := a.save(ctx, cf); err != nil {
		return nil, err
	}
	return cf, nil
}

func (a *Accumulator) save(ctx context.Context, cf *ContextFile) error {
	if err := a.store.Set(ctx, a.key(cf.SessionId), cf, a.ttl); err != nil {
		return fmt.Errorf("persist context file: %w", err)
	}
	return nil
}
