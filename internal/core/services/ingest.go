package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// defaultFileName replaces names that sanitise to nothing.
const defaultFileName = "file"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitiseFilename keeps alphanumerics, dot, underscore and hyphen and
// replaces every other run of characters with an underscore. Only an
// empty name falls back to "file".
func SanitiseFilename(name string) string {
	safe := unsafeNameChars.ReplaceAllString(name, "_")
	if safe == "" {
		return defaultFileName
	}
	return safe
}

// BuildChunkPayload pairs each chunk with its metadata and an id of the form
// "{docID}_{ordinal}".
func BuildChunkPayload(docID, docName, sourceLink string, chunks []string) domain.ChunkPayload {
	payload := domain.ChunkPayload{
		Texts:     make([]string, 0, len(chunks)),
		Metadatas: make([]domain.ChunkMetadata, 0, len(chunks)),
		IDs:       make([]string, 0, len(chunks)),
	}
	for i, chunk := range chunks {
		chunkID := fmt.Sprintf("%s_%d", docID, i)
		payload.Texts = append(payload.Texts, chunk)
		payload.IDs = append(payload.IDs, chunkID)
		payload.Metadatas = append(payload.Metadatas, domain.ChunkMetadata{
			DocID:      docID,
			DocName:    docName,
			ChunkID:    chunkID,
			SourceLink: sourceLink,
		})
	}
	return payload
}

// IngestService saves, parses and chunks files and hands chunks to the index.
type IngestService struct {
	files       driven.FileStore
	parser      driven.Parser
	chunker     driven.Chunker
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex

	fetcher    driven.FolderFetcher
	stagingDir string

	newID func() string
	now   func() time.Time
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	files driven.FileStore,
	parser driven.Parser,
	chunker driven.Chunker,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
) *IngestService {
	return &IngestService{
		files:       files,
		parser:      parser,
		chunker:     chunker,
		docStore:    docStore,
		vectorIndex: vectorIndex,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// SetFolderFetcher enables IngestDrive. Fetched files are staged in a
// temporary directory under stagingDir and removed once ingested.
func (s *IngestService) SetFolderFetcher(fetcher driven.FolderFetcher, stagingDir string) {
	s.fetcher = fetcher
	s.stagingDir = stagingDir
}

// Ingest saves and parses one file, persists its record and returns its chunks.
func (s *IngestService) Ingest(
	ctx context.Context, data []byte, filename string, source domain.DocumentSource, sourceLink string,
) (*domain.IngestResult, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("source %q: %w", source, domain.ErrInvalidInput)
	}

	safe := SanitiseFilename(filename)
	docID := s.newID()

	path, err := s.files.Save(ctx, docID+"_"+safe, data)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", filename, err)
	}

	parsed, err := s.parser.Parse(ctx, path, strings.ToLower(filepath.Ext(safe)))
	if err != nil {
		logger.Warn("could not extract text from %s: %v", filename, err)
		parsed = driven.ParseResult{}
	}

	chunks := s.chunker.Chunk(parsed.Text)
	var tables []string
	for _, table := range parsed.Tables {
		if strings.TrimSpace(table) == "" {
			continue
		}
		tables = append(tables, table)
		chunks = append(chunks, table)
	}

	doc := &domain.Document{
		ID:         docID,
		Name:       filename,
		Path:       path,
		Source:     source,
		SourceLink: sourceLink,
		ChunkCount: len(chunks),
		Tables:     tables,
		CreatedAt:  s.now(),
	}
	if err := s.docStore.Add(ctx, doc); err != nil {
		if rmErr := s.files.Remove(ctx, path); rmErr != nil {
			logger.Warn("could not remove %s: %v", path, rmErr)
		}
		return nil, fmt.Errorf("store document %s: %w", filename, err)
	}

	logger.Debug("Ingested %s as %s: %d chunks, %d tables", filename, docID, len(chunks), len(tables))

	return &domain.IngestResult{
		ID:         docID,
		Name:       filename,
		ChunkCount: len(chunks),
		Chunks:     chunks,
	}, nil
}

// Index writes the chunks of an ingested document to the vector index.
func (s *IngestService) Index(ctx context.Context, result *domain.IngestResult, sourceLink string) error {
	if result == nil || len(result.Chunks) == 0 {
		return nil
	}
	payload := BuildChunkPayload(result.ID, result.Name, sourceLink, result.Chunks)
	if err := s.vectorIndex.AddChunks(ctx, payload); err != nil {
		return fmt.Errorf("index %s: %w", result.Name, err)
	}
	return nil
}

// IngestFiles ingests and indexes each file. A failing file is reported in
// its result and does not stop the batch.
func (s *IngestService) IngestFiles(ctx context.Context, files []driving.UploadedFile) ([]domain.IngestResult, error) {
	results := make([]domain.IngestResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		source := f.Source
		if source == "" {
			source = domain.SourceUpload
		}

		result, err := s.Ingest(ctx, f.Data, f.Name, source, f.SourceLink)
		if err != nil {
			logger.Warn("ingest %s failed: %v", f.Name, err)
			results = append(results, domain.IngestResult{Name: f.Name, Error: err.Error()})
			continue
		}
		if err := s.Index(ctx, result, f.SourceLink); err != nil {
			logger.Warn("index %s failed: %v", f.Name, err)
			result.Error = err.Error()
		}
		results = append(results, *result)
	}
	return results, nil
}

// IngestDrive fetches the configured remote folder and ingests every file.
func (s *IngestService) IngestDrive(ctx context.Context) ([]domain.IngestResult, error) {
	if s.fetcher == nil {
		return nil, domain.ErrDriveNotConfigured
	}

	if s.stagingDir != "" {
		if err := os.MkdirAll(s.stagingDir, 0o755); err != nil {
			return nil, fmt.Errorf("create staging dir: %w", err)
		}
	}
	staging, err := os.MkdirTemp(s.stagingDir, "drive-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	fetched, err := s.fetcher.Fetch(ctx, staging)
	if err != nil {
		return nil, fmt.Errorf("fetch drive folder: %w", err)
	}

	uploads := make([]driving.UploadedFile, 0, len(fetched))
	for _, f := range fetched {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			logger.Warn("read fetched file %s: %v", f.Name, err)
			continue
		}
		uploads = append(uploads, driving.UploadedFile{
			Name:       f.Name,
			Data:       data,
			Source:     domain.SourceDrive,
			SourceLink: f.SourceLink,
		})
	}

	logger.Info("Fetched %d files from drive", len(uploads))
	return s.IngestFiles(ctx, uploads)
}

// isNotFound reports whether err is a not-found error.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
