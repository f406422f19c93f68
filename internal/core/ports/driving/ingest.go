package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// IngestService turns raw files into stored documents and indexed chunks.
type IngestService interface {
	// Ingest saves and parses one file, persists its record and returns its chunks.
	// It does not touch the vector index.
	Ingest(ctx context.Context, data []byte, filename string, source domain.DocumentSource, sourceLink string) (*domain.IngestResult, error)

	// Index writes the chunks of an ingested document to the vector index.
	Index(ctx context.Context, result *domain.IngestResult, sourceLink string) error

	// IngestFiles ingests and indexes each file, continuing past per-file failures.
	IngestFiles(ctx context.Context, files []UploadedFile) ([]domain.IngestResult, error)

	// IngestDrive fetches the configured remote folder and ingests every file.
	IngestDrive(ctx context.Context) ([]domain.IngestResult, error)
}

// UploadedFile is one file submitted for ingestion.
type UploadedFile struct {
	Name       string
	Data       []byte
	Source     domain.DocumentSource
	SourceLink string
}
