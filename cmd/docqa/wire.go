package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/parser"
	"github.com/custodia-labs/docqa/internal/adapters/driven/renderer/pdf"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/disk"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/connectors/google/drive"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// textExtensions are watched in addition to the dedicated parsers; any
// other file still parses as plain text when uploaded explicitly.
var textExtensions = []string{".txt", ".md", ".csv", ".json"}

func newSettingsService(dataDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(dataDir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, os.Getenv), nil
}

// stores groups the persistence backends chosen by settings.
type stores struct {
	docs    driven.DocumentStore
	history driven.HistoryStore
	vectors driven.VectorIndex
	closers []func() error
}

func (s *stores) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// openStores opens the document, history and vector stores. Documents and
// history stay in SQLite unless everything is in memory.
func openStores(ctx context.Context, settings *domain.AppSettings, embedder driven.EmbeddingService) (*stores, error) {
	st := &stores{}

	if settings.Storage.VectorBackend == domain.VectorBackendMemory {
		st.docs = memory.NewDocumentStore()
		st.history = memory.NewHistoryStore()
		st.vectors = memory.NewVectorIndex(embedder)
		return st, nil
	}

	db, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	st.closers = append(st.closers, db.Close)
	st.docs = db.DocumentStore()
	st.history = db.HistoryStore()

	if settings.Storage.VectorBackend != domain.VectorBackendPGVector {
		st.vectors = db.VectorIndex(settings.Storage.Collection, embedder)
		st.closers = append(st.closers, st.vectors.Close)
		return st, nil
	}

	idx, err := pgvector.New(ctx, settings.Storage.DatabaseURL, settings.Storage.Collection, embedder)
	if err != nil {
		_ = st.close()
		return nil, fmt.Errorf("open pgvector: %w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	st.vectors = idx
	st.closers = append(st.closers, idx.Close)
	return st, nil
}

func newRuntime(ctx context.Context, settings *domain.AppSettings) (*cli.Runtime, error) {
	settings.Normalise()

	if err := os.MkdirAll(settings.Storage.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	prompts, err := file.NewPromptStore(settings.Storage.PromptDir())
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	backends := ai.Resolve(*settings, prompts)
	for _, w := range backends.Warnings {
		logger.Warn("%s", w)
	}

	st, err := openStores(ctx, settings, backends.EmbeddingService)
	if err != nil {
		backends.Close()
		return nil, err
	}
	fail := func(err error) (*cli.Runtime, error) {
		_ = st.close()
		backends.Close()
		return nil, err
	}

	files, err := disk.NewFileStore(settings.Storage.UploadDir())
	if err != nil {
		return fail(err)
	}
	renderer := pdf.New()
	reports, err := disk.NewReportStore(settings.Storage.ReportDir(), renderer.Extension())
	if err != nil {
		return fail(err)
	}

	registry := parser.NewRegistry()
	chunks := chunker.New(
		chunker.WithChunkSize(settings.Retrieval.ChunkSize),
		chunker.WithOverlap(settings.Retrieval.ChunkOverlap),
	)

	ingest := services.NewIngestService(files, registry, chunks, st.docs, st.vectors)
	fetcher, err := drive.New(ctx, settings.Drive)
	switch {
	case errors.Is(err, domain.ErrDriveNotConfigured):
		logger.Debug("drive folder not configured")
	case err != nil:
		logger.Warn("drive fetcher disabled: %v", err)
	default:
		logger.Debug("drive folder %s via %v", fetcher.FolderID(), fetcher.Methods())
		ingest.SetFolderFetcher(fetcher, filepath.Join(settings.Storage.DataDir, "staging"))
	}

	chat := services.NewChatService(st.vectors, st.history, backends.LLMService, services.ChatConfig{
		TopK:             settings.Retrieval.TopK,
		MaxHistory:       settings.Retrieval.MaxHistory,
		MaxContextTokens: settings.Retrieval.MaxContextTokens,
	})
	chat.SetPromptStore(prompts)
	chat.SetTokenCounter(tokenizer.NewCounter(settings.LLM.Model))

	return &cli.Runtime{
		Ingest:    ingest,
		Documents: services.NewDocumentService(st.docs, files, st.vectors),
		Chat:      chat,
		Reports: services.NewReportService(
			st.vectors, st.docs, backends.LLMService, renderer, reports, settings.Retrieval.TopK),
		Status: services.NewStatusService(
			backends.LLMService, backends.LLMProvider,
			backends.EmbeddingService, backends.EmbeddingMode,
			settings.Storage.VectorBackend),
		PromptDir:       prompts.Dir(),
		ReloadPrompts:   prompts.Reload,
		WatchExtensions: append(registry.SupportedExtensions(), textExtensions...),
		Check: func(ctx context.Context) []error {
			return ai.Check(ctx, backends)
		},
		Close: func() error {
			backends.Close()
			return st.close()
		},
	}, nil
}
