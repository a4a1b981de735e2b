package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-outfit-planner-be/pkg/llm"
)

// AgentProvider talks to a managed planning agent over HTTP. The agent
// streams its completion as newline-delimited JSON chunks; InvokeAgent
// assembles them into the full text.
type AgentProvider struct {
	BaseURL   string
	AgentId   string
	AliasId   string
	ModelName string
	Client    *http.Client
}

var _ llm.AgentInvoker = &AgentProvider{}

func NewAgentProvider(baseURL, agentId, aliasId, modelName string) *AgentProvider {
	return &AgentProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		AgentId:   agentId,
		AliasId:   aliasId,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
}

type invokeRequest struct {
	AgentId   string `json:"agentId"`
	AliasId   string `json:"aliasId,omitempty"`
	SessionId string `json:"sessionId,omitempty"`
	Model     string `json:"model,omitempty"`
	InputText string `json:"inputText"`
}

// Each stream line carries either a text chunk or a terminal error.
type streamChunk struct {
	Chunk string `json:"chunk,omitempty"`
	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`
}

func (p *AgentProvider) InvokeAgent(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := &llm.Options{Model: p.ModelName}
	for _, opt := range opts {
		opt(options)
	}

	payload, err := json.Marshal(invokeRequest{
		AgentId:   p.AgentId,
		AliasId:   p.AliasId,
		SessionId: options.SessionId,
		Model:     options.Model,
		InputText: prompt,
	})
	if err != nil {
		return "", &llm.AgentError{Kind: llm.ErrKindOther, Message: "marshal invoke request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/invoke-agent", bytes.NewReader(payload))
	if err != nil {
		return "", &llm.AgentError{Kind: llm.ErrKindOther, Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", &llm.AgentError{Kind: llm.ErrKindNetwork, Message: "agent unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk streamChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", &llm.AgentError{Kind: llm.ErrKindOther, Message: "malformed stream chunk", Err: err}
		}
		if chunk.Error != "" {
			return "", &llm.AgentError{Kind: llm.ErrKindOther, Message: chunk.Error}
		}
		sb.WriteString(chunk.Chunk)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", &llm.AgentError{Kind: llm.ErrKindNetwork, Message: "stream interrupted", Err: err}
	}

	text := sb.String()
	if text == "" {
		return "", &llm.AgentError{Kind: llm.ErrKindOther, Message: "agent returned an empty completion"}
	}
	return text, nil
}

func classifyStatus(status int) *llm.AgentError {
	switch status {
	case http.StatusNotFound:
		return &llm.AgentError{Kind: llm.ErrKindResourceNotFound, Message: "agent or alias not found"}
	case http.StatusForbidden, http.StatusUnauthorized:
		return &llm.AgentError{Kind: llm.ErrKindAccessDenied, Message: "access to the agent was denied"}
	case http.StatusTooManyRequests:
		return &llm.AgentError{Kind: llm.ErrKindThrottled, Message: "agent is throttling requests"}
	default:
		return &llm.AgentError{Kind: llm.ErrKindOther, Message: fmt.Sprintf("agent returned status %d", status)}
	}
}

// Chat flattens the history into a single transcript; the agent keeps
// its own conversational state server-side.
func (p *AgentProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return p.InvokeAgent(ctx, sb.String(), opts...)
}

func (p *AgentProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.InvokeAgent(ctx, prompt, opts...)
}
