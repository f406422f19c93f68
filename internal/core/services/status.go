package services

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// StatusService reports how the AI backends were resolved at startup.
type StatusService struct {
	status driving.Status
}

// NewStatusService captures the resolved backends.
// The llmService and embeddingService parameters are optional.
func NewStatusService(
	llmService driven.LLMService,
	llmProvider domain.AIProvider,
	embeddingService driven.EmbeddingService,
	embeddingMode domain.BackendMode,
	vectorBackend domain.VectorBackend,
) *StatusService {
	status := driving.Status{
		EmbeddingMode: string(embeddingMode),
		VectorBackend: string(vectorBackend),
	}
	if llmService != nil {
		status.LLMEnabled = true
		status.LLMProvider = string(llmProvider)
		status.LLMModel = llmService.ModelName()
	}
	if embeddingService != nil {
		status.EmbeddingModel = embeddingService.ModelName()
	}
	return &StatusService{status: status}
}

// Status returns the captured status.
func (s *StatusService) Status() driving.Status {
	return s.status
}
