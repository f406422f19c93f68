package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// answerTemperature keeps answers near-deterministic.
const answerTemperature = 0.1

// ChatConfig holds retrieval limits for answering.
type ChatConfig struct {
	TopK       int
	MaxHistory int
	// MaxContextTokens caps the context sent to the model. Zero disables it.
	MaxContextTokens int
}

// ChatService answers questions from retrieved chunks and session history.
type ChatService struct {
	vectorIndex driven.VectorIndex
	history     driven.HistoryStore
	llmService  driven.LLMService
	prompts     driven.PromptStore
	tokens      driven.TokenCounter
	cfg         ChatConfig
	sessions    *keyedMutex
	newID       func() string
}

// NewChatService creates a new chat service.
// The llmService parameter is optional; without it answers are the top chunk.
func NewChatService(
	vectorIndex driven.VectorIndex,
	history driven.HistoryStore,
	llmService driven.LLMService,
	cfg ChatConfig,
) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = domain.DefaultMaxHistory
	}
	return &ChatService{
		vectorIndex: vectorIndex,
		history:     history,
		llmService:  llmService,
		cfg:         cfg,
		sessions:    newKeyedMutex(),
		newID:       uuid.NewString,
	}
}

// SetPromptStore sets the store for the answer system prompt.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetTokenCounter sets the counter used to enforce MaxContextTokens.
func (s *ChatService) SetTokenCounter(counter driven.TokenCounter) {
	s.tokens = counter
}

// Answer runs retrieval-augmented answering for one question.
// Retrieval and generation failures degrade to domain.NotAvailableAnswer.
func (s *ChatService) Answer(ctx context.Context, sessionID, question string) (*domain.ChatAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}
	if sessionID == "" {
		sessionID = s.newID()
	}

	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	logger.Section("Answer")
	logger.Debug("Session %s: %q", sessionID, question)

	if err := s.history.Append(ctx, sessionID, domain.RoleUser, question); err != nil {
		return nil, fmt.Errorf("record question: %w", err)
	}

	results, err := s.vectorIndex.Query(ctx, question, s.cfg.TopK)
	if err != nil {
		logger.Warn("retrieval failed: %v", err)
		results = domain.QueryResult{}
	}

	turns, err := s.history.Recent(ctx, sessionID, s.cfg.MaxHistory)
	if err != nil {
		logger.Warn("history unavailable: %v", err)
		turns = nil
	}

	answer := s.compose(ctx, question, results, RenderHistory(turns))

	if err := s.history.Append(ctx, sessionID, domain.RoleAssistant, answer); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}

	return &domain.ChatAnswer{
		SessionID: sessionID,
		Answer:    answer,
		Citations: Citations(results),
	}, nil
}

// compose picks the answer text. It never fails.
func (s *ChatService) compose(ctx context.Context, question string, results domain.QueryResult, history string) string {
	if results.Empty() {
		logger.Debug("No chunks retrieved")
		return domain.NotAvailableAnswer
	}
	if s.llmService == nil {
		logger.Debug("No LLM configured, returning top chunk")
		return results.Documents[0]
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: driven.LoadPrompt(s.prompts, driven.PromptAnswerSystem)},
		{Role: "user", Content: userPrompt(question, s.buildContext(results.Documents), history)},
	}
	reply, err := s.llmService.Chat(ctx, messages, driven.ChatOptions{Temperature: answerTemperature})
	if err != nil {
		logger.Warn("generation failed: %v", err)
		return domain.NotAvailableAnswer
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return domain.NotAvailableAnswer
	}
	return reply
}

// buildContext joins chunks in rank order, stopping before the token budget
// would be exceeded. The top chunk is always kept.
func (s *ChatService) buildContext(chunks []string) string {
	if s.cfg.MaxContextTokens <= 0 || s.tokens == nil {
		return strings.Join(chunks, "\n\n")
	}
	kept := make([]string, 0, len(chunks))
	used := 0
	for i, chunk := range chunks {
		n := s.tokens.Count(chunk)
		if i > 0 && used+n > s.cfg.MaxContextTokens {
			logger.Debug("Context budget reached after %d of %d chunks", i, len(chunks))
			break
		}
		kept = append(kept, chunk)
		used += n
	}
	return strings.Join(kept, "\n\n")
}

func userPrompt(question, contextText, history string) string {
	var b strings.Builder
	if history != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(history)
		b.WriteString("\n\n")
	}
	b.WriteString("Context:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// RenderHistory formats turns as "role: content" lines.
func RenderHistory(turns []domain.ChatTurn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, string(t.Role)+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

// Citations builds one citation per retrieved chunk, in rank order.
func Citations(results domain.QueryResult) []domain.Citation {
	citations := make([]domain.Citation, 0, len(results.Metadatas))
	for _, meta := range results.Metadatas {
		citations = append(citations, domain.Citation{
			DocName:    meta.DocName,
			ChunkID:    meta.ChunkID,
			SourceLink: meta.SourceLink,
		})
	}
	return citations
}

// Search retrieves the best matching chunks without generating an answer.
func (s *ChatService) Search(ctx context.Context, query string, topK int) (domain.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return domain.QueryResult{}, nil
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	results, err := s.vectorIndex.Query(ctx, query, topK)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("search: %w", err)
	}
	return results, nil
}

// ClearHistory removes the session's turns, or all turns when sessionID is empty.
func (s *ChatService) ClearHistory(ctx context.Context, sessionID string) (int, error) {
	if sessionID != "" {
		unlock := s.sessions.Lock(sessionID)
		defer unlock()
	}
	n, err := s.history.Clear(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return n, nil
}
