package factory

import (
	"fmt"

	"ai-outfit-planner-be/pkg/llm"
	"ai-outfit-planner-be/pkg/llm/agent"
	"ai-outfit-planner-be/pkg/llm/ollama"
)

// Config carries the provider selection and backend coordinates.
type Config struct {
	Provider  string // "agent" or "ollama"
	BaseURL   string
	ModelName string
	AgentId   string
	AliasId   string
}

// NewAgentInvoker builds the configured LLM backend. Both backends
// satisfy the agent contract, so callers never branch on provider type.
func NewAgentInvoker(cfg Config) (llm.AgentInvoker, error) {
	switch cfg.Provider {
	case "agent":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("agent provider requires a base URL")
		}
		if cfg.AgentId == "" {
			return nil, fmt.Errorf("agent provider requires an agent id")
		}
		return agent.NewAgentProvider(cfg.BaseURL, cfg.AgentId, cfg.AliasId, cfg.ModelName), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.ModelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
