package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	SessionId   string // Correlates agent invocations with a planning session
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithSessionId(sessionId string) Option {
	return func(o *Options) {
		o.SessionId = sessionId
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// AgentInvoker is the contract for managed-agent backends that stream
// their completion in chunks. The assembled text is returned once the
// stream finishes; failures come back as *AgentError.
type AgentInvoker interface {
	LLMProvider
	InvokeAgent(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Agent failure kinds. The planner maps these onto user-facing error
// envelopes, so classification here must stay stable.
const (
	ErrKindResourceNotFound = "resource_not_found"
	ErrKindAccessDenied     = "access_denied"
	ErrKindThrottled        = "throttled"
	ErrKindNetwork          = "network"
	ErrKindOther            = "other"
)

// AgentError classifies an agent invocation failure.
type AgentError struct {
	Kind    string
	Message string
	Err     error
}

func (e *AgentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agent %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("agent %s: %s", e.Kind, e.Message)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// ErrKind extracts the failure kind from err, or ErrKindOther when err
// is not an AgentError.
func ErrKind(err error) string {
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		return agentErr.Kind
	}
	return ErrKindOther
}
