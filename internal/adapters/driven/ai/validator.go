package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Check pings every resolved backend and returns one error per backend
// that could not be reached. An unavailable LLM is reported as
// domain.ErrLLMUnavailable.
func Check(ctx context.Context, result *InitResult) []error {
	var errs []error

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if result.EmbeddingService != nil {
		if err := result.EmbeddingService.Ping(pingCtx); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s (%s): %w",
				domain.ErrEmbeddingUnavailable, result.EmbeddingService.ModelName(), result.EmbeddingMode, err))
		}
	}

	if result.LLMService == nil {
		errs = append(errs, fmt.Errorf("%w: provider %q has no credentials", domain.ErrLLMUnavailable, result.LLMProvider))
		return errs
	}
	if err := result.LLMService.Ping(pingCtx); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %w", domain.ErrLLMUnavailable, result.LLMService.ModelName(), err))
	}
	return errs
}
