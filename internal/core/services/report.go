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

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportTitle is the document title passed to the renderer.
const ReportTitle = "Document Report"

// ReportService assembles reports from uploaded documents only.
type ReportService struct {
	vectorIndex driven.VectorIndex
	docStore    driven.DocumentStore
	llmService  driven.LLMService
	renderer    driven.ReportRenderer
	reports     driven.ReportStore
	topK        int
	newID       func() string
}

// NewReportService creates a new report service.
// The llmService parameter is optional; without it section titles are used
// as given and no summary is produced.
func NewReportService(
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
	llmService driven.LLMService,
	renderer driven.ReportRenderer,
	reports driven.ReportStore,
	topK int,
) *ReportService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &ReportService{
		vectorIndex: vectorIndex,
		docStore:    docStore,
		llmService:  llmService,
		renderer:    renderer,
		reports:     reports,
		topK:        topK,
		newID:       uuid.NewString,
	}
}

// Build assembles, renders and stores a report, returning its id.
func (s *ReportService) Build(ctx context.Context, req domain.ReportRequest) (string, error) {
	blocks, err := s.Blocks(ctx, req)
	if err != nil {
		return "", err
	}

	data, err := s.renderer.Render(ReportTitle, blocks)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	id := s.newID()
	if err := s.reports.Put(ctx, id, data); err != nil {
		return "", fmt.Errorf("store report: %w", err)
	}

	logger.Info("Report %s: %d sections, %d blocks", id, len(req.Sections), len(blocks))
	return id, nil
}

// Blocks assembles the ordered report blocks without rendering.
func (s *ReportService) Blocks(ctx context.Context, req domain.ReportRequest) ([]domain.ReportBlock, error) {
	var blocks []domain.ReportBlock
	var collected []string
	docs := make(map[string]*domain.Document)

	for _, section := range req.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		title := s.sectionTitle(ctx, section)
		blocks = append(blocks, domain.ReportBlock{Kind: domain.BlockHeading, Text: title})

		results, err := s.vectorIndex.Query(ctx, title, s.topK)
		if err != nil {
			logger.Warn("retrieval for section %q failed: %v", title, err)
			continue
		}

		tablesAdded := make(map[string]bool)
		for i, text := range results.Documents {
			docID := results.Metadatas[i].DocID
			doc := s.uploadedDoc(ctx, docs, docID)
			if doc == nil {
				continue
			}

			blocks = append(blocks, domain.ReportBlock{Kind: domain.BlockParagraph, Text: text})
			collected = append(collected, text)

			if len(doc.Tables) == 0 || tablesAdded[docID] {
				continue
			}
			for _, table := range doc.Tables {
				blocks = append(blocks, domain.ReportBlock{Kind: domain.BlockTable, Text: table})
				collected = append(collected, table)
			}
			tablesAdded[docID] = true
		}
	}

	if req.IncludeSummary && s.llmService != nil {
		if summary := s.summary(ctx, collected); summary != "" {
			blocks = append(blocks,
				domain.ReportBlock{Kind: domain.BlockHeading, Text: domain.SummaryHeading},
				domain.ReportBlock{Kind: domain.BlockParagraph, Text: summary},
			)
		}
	}

	return blocks, nil
}

// Path returns the location of a rendered report.
func (s *ReportService) Path(ctx context.Context, id string) (string, error) {
	return s.reports.Path(ctx, id)
}

// sectionTitle asks the model to restate a section title, falling back to
// the original on any failure or blank result.
func (s *ReportService) sectionTitle(ctx context.Context, section string) string {
	if s.llmService == nil {
		return section
	}
	title, err := s.llmService.NormaliseSection(ctx, section)
	if err != nil {
		logger.Debug("Section %q kept as given: %v", section, err)
		return section
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return section
	}
	return title
}

// uploadedDoc returns the owning document when it was uploaded, caching
// lookups for the duration of one report.
func (s *ReportService) uploadedDoc(ctx context.Context, cache map[string]*domain.Document, docID string) *domain.Document {
	if docID == "" {
		return nil
	}
	doc, ok := cache[docID]
	if !ok {
		var err error
		doc, err = s.docStore.Get(ctx, docID)
		if err != nil {
			if !isNotFound(err) {
				logger.Warn("lookup document %s: %v", docID, err)
			}
			doc = nil
		}
		cache[docID] = doc
	}
	if doc == nil || doc.Source != domain.SourceUpload {
		return nil
	}
	return doc
}

func (s *ReportService) summary(ctx context.Context, collected []string) string {
	summary, err := s.llmService.Summarise(ctx, strings.Join(collected, "\n"))
	if err != nil {
		logger.Warn("summary failed: %v", err)
		return ""
	}
	return strings.TrimSpace(summary)
}
