// Package openai provides an LLM service adapter for OpenAI-compatible chat APIs.
//
// The same adapter serves OpenAI and Groq; only the base URL differs.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-3.5-turbo"
	DefaultLLMTimeout = 120 * time.Second
)

// sectionToolName is the function the model is forced to call when
// normalising a report section title.
const sectionToolName = "collect_section_data"

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Set to https://api.groq.com/openai/v1 for Groq.
	BaseURL string

	// Model is the LLM model to use (default: gpt-3.5-turbo).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Name labels errors, e.g. "openai" or "groq".
	Name string
}

// LLMService provides LLM operations using an OpenAI-compatible API.
type LLMService struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	name        string
	promptStore driven.PromptStore
}

type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature *float64            `json:"temperature,omitempty"`
	Tools       []tool              `json:"tools,omitempty"`
	ToolChoice  *toolChoice         `json:"tool_choice,omitempty"`
}

type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type toolCall struct {
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new OpenAI-compatible LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.Name)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		name:    cfg.Name,
	}, nil
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	reqBody := s.newRequest(messages, opts)

	chatResp, err := s.complete(ctx, reqBody)
	if err != nil {
		return "", err
	}
	return chatResp.Choices[0].Message.Content, nil
}

// Summarise creates a brief summary of content.
func (s *LLMService) Summarise(ctx context.Context, content string) (string, error) {
	messages := []driven.ChatMessage{
		{Role: "system", Content: driven.LoadPrompt(s.promptStore, driven.PromptSummarise)},
		{Role: "user", Content: content},
	}

	result, err := s.Chat(ctx, messages, driven.ChatOptions{Temperature: 0.2})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return strings.TrimSpace(result), nil
}

// NormaliseSection forces a single call to the collect_section_data tool
// and returns its section argument.
func (s *LLMService) NormaliseSection(ctx context.Context, section string) (string, error) {
	template := driven.LoadPrompt(s.promptStore, driven.PromptSectionTool)
	messages := []driven.ChatMessage{
		{Role: "user", Content: driven.SectionPrompt(template, section)},
	}

	reqBody := s.newRequest(messages, driven.ChatOptions{})
	zero := 0.0
	reqBody.Temperature = &zero
	reqBody.Tools = []tool{{
		Type: "function",
		Function: toolFunction{
			Name:        sectionToolName,
			Description: "Record the title of a report section.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"section": map[string]any{"type": "string"},
				},
				"required": []string{"section"},
			},
		},
	}}
	choice := &toolChoice{Type: "function"}
	choice.Function.Name = sectionToolName
	reqBody.ToolChoice = choice

	chatResp, err := s.complete(ctx, reqBody)
	if err != nil {
		return "", fmt.Errorf("normalise section: %w", err)
	}

	calls := chatResp.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		return "", fmt.Errorf("normalise section: no tool call: %w", domain.ErrEmptyResponse)
	}

	var args struct {
		Section string `json:"section"`
	}
	if err := json.Unmarshal([]byte(calls[0].Function.Arguments), &args); err != nil {
		return "", fmt.Errorf("normalise section: decode arguments: %w", domain.ErrEmptyResponse)
	}
	title := strings.TrimSpace(args.Section)
	if title == "" {
		return "", fmt.Errorf("normalise section: %w", domain.ErrEmptyResponse)
	}
	return title, nil
}

func (s *LLMService) newRequest(messages []driven.ChatMessage, opts driven.ChatOptions) chatCompletionRequest {
	chatMessages := make([]chatCompletionMsg, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatCompletionMsg{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	reqBody := chatCompletionRequest{
		Model:    s.model,
		Messages: chatMessages,
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		t := opts.Temperature
		reqBody.Temperature = &t
	}
	return reqBody
}

// complete posts to /chat/completions and guarantees at least one choice.
func (s *LLMService) complete(ctx context.Context, reqBody chatCompletionRequest) (*chatCompletionResponse, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("%s error (status %d): decode response: %w", s.name, resp.StatusCode, err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("%s error: %s", s.name, chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s error (status %d): %s", s.name, resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%s: no response choices returned: %w", s.name, domain.ErrEmptyResponse)
	}

	return &chatResp, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping validates the service is reachable by checking the /models endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create ping request: %w", s.name, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: ping failed: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%s: API returned status %d (failed to read body: %w)", s.name, resp.StatusCode, err)
		}
		return fmt.Errorf("%s: API returned status %d: %s", s.name, resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
