package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ReportService assembles multi-section reports from uploaded documents.
type ReportService interface {
	// Build assembles, renders and stores a report, returning its id.
	Build(ctx context.Context, req domain.ReportRequest) (string, error)

	// Blocks assembles the ordered report blocks without rendering.
	Blocks(ctx context.Context, req domain.ReportRequest) ([]domain.ReportBlock, error)

	// Path returns the location of a rendered report, or domain.ErrNotFound.
	Path(ctx context.Context, id string) (string, error)
}
