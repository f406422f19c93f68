// Package ollama provides an LLM service adapter using Ollama.
package ollama

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
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

const sectionToolName = "collect_section_data"

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using Ollama.
type LLMService struct {
	client      *http.Client
	baseURL     string
	model       string
	promptStore driven.PromptStore
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
	Tools    []tool        `json:"tools,omitempty"`
}

type chatMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type tool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description,omitempty"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

type toolCall struct {
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
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
		model:   cfg.Model,
	}
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	msg, err := s.chat(ctx, s.newRequest(messages, opts))
	if err != nil {
		return "", err
	}
	return msg.Content, nil
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

// NormaliseSection offers the model a single collect_section_data tool and
// returns the section it supplies.
func (s *LLMService) NormaliseSection(ctx context.Context, section string) (string, error) {
	template := driven.LoadPrompt(s.promptStore, driven.PromptSectionTool)
	reqBody := s.newRequest([]driven.ChatMessage{
		{Role: "user", Content: driven.SectionPrompt(template, section)},
	}, driven.ChatOptions{})

	zero := 0.0
	reqBody.Options = &options{Temperature: &zero}

	var t tool
	t.Type = "function"
	t.Function.Name = sectionToolName
	t.Function.Description = "Record the title of a report section."
	t.Function.Parameters = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"section": map[string]any{"type": "string"},
		},
		"required": []string{"section"},
	}
	reqBody.Tools = []tool{t}

	msg, err := s.chat(ctx, reqBody)
	if err != nil {
		return "", fmt.Errorf("normalise section: %w", err)
	}
	if len(msg.ToolCalls) == 0 {
		return "", fmt.Errorf("normalise section: no tool call: %w", domain.ErrEmptyResponse)
	}

	var args struct {
		Section string `json:"section"`
	}
	if err := json.Unmarshal(msg.ToolCalls[0].Function.Arguments, &args); err != nil {
		return "", fmt.Errorf("normalise section: decode arguments: %w", domain.ErrEmptyResponse)
	}
	title := strings.TrimSpace(args.Section)
	if title == "" {
		return "", fmt.Errorf("normalise section: %w", domain.ErrEmptyResponse)
	}
	return title, nil
}

func (s *LLMService) newRequest(messages []driven.ChatMessage, opts driven.ChatOptions) chatRequest {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	reqBody := chatRequest{
		Model:    s.model,
		Messages: chatMessages,
		Stream:   false,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		reqBody.Options = &options{NumPredict: opts.MaxTokens}
		if opts.Temperature > 0 {
			t := opts.Temperature
			reqBody.Options.Temperature = &t
		}
	}
	return reqBody
}

func (s *LLMService) chat(ctx context.Context, reqBody chatRequest) (*chatMessage, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &chatResp.Message, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
