package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Mock services shared by the command tests.

type mockDocumentService struct {
	docs      []domain.Document
	err       error
	cleared   bool
	deletedID string
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Delete(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.deletedID = id
	return doc, nil
}

func (m *mockDocumentService) Clear(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.cleared = true
	return len(m.docs), nil
}

type mockIngestService struct {
	files      []driving.UploadedFile
	driveCalls int
	err        error
}

func (m *mockIngestService) Ingest(_ context.Context, _ []byte, filename string, _ domain.DocumentSource, _ string) (*domain.IngestResult, error) {
	return &domain.IngestResult{ID: "doc-new", Name: filename, ChunkCount: 1}, m.err
}

func (m *mockIngestService) Index(_ context.Context, _ *domain.IngestResult, _ string) error {
	return m.err
}

func (m *mockIngestService) IngestFiles(_ context.Context, files []driving.UploadedFile) ([]domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.files = append(m.files, files...)
	results := make([]domain.IngestResult, len(files))
	for i, f := range files {
		results[i] = domain.IngestResult{ID: "doc-" + f.Name, Name: f.Name, ChunkCount: 2}
	}
	return results, nil
}

func (m *mockIngestService) IngestDrive(_ context.Context) ([]domain.IngestResult, error) {
	m.driveCalls++
	if m.err != nil {
		return nil, m.err
	}
	return []domain.IngestResult{
		{ID: "doc-d1", Name: "remote.pdf", ChunkCount: 3},
		{Name: "broken.bin", Error: "unsupported file type"},
	}, nil
}

type mockChatService struct {
	questions []string
	sessions  []string
	search    domain.QueryResult
	err       error
	cleared   string
}

func (m *mockChatService) Answer(_ context.Context, sessionID, question string) (*domain.ChatAnswer, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.questions = append(m.questions, question)
	m.sessions = append(m.sessions, sessionID)
	if sessionID == "" {
		sessionID = "sess-1"
	}
	return &domain.ChatAnswer{
		SessionID: sessionID,
		Answer:    "Take 500mg twice daily.",
		Citations: []domain.Citation{{DocName: "leaflet.pdf", ChunkID: "doc-1_0"}},
	}, nil
}

func (m *mockChatService) Search(_ context.Context, _ string, _ int) (domain.QueryResult, error) {
	return m.search, m.err
}

func (m *mockChatService) ClearHistory(_ context.Context, sessionID string) (int, error) {
	m.cleared = sessionID
	return 2, m.err
}

type mockReportService struct {
	req  domain.ReportRequest
	path string
	err  error
}

func (m *mockReportService) Build(_ context.Context, req domain.ReportRequest) (string, error) {
	m.req = req
	return "rep-1", m.err
}

func (m *mockReportService) Blocks(_ context.Context, _ domain.ReportRequest) ([]domain.ReportBlock, error) {
	return nil, m.err
}

func (m *mockReportService) Path(_ context.Context, _ string) (string, error) {
	return m.path, m.err
}

type mockSettingsService struct {
	settings domain.AppSettings
	set      map[string]string
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = map[string]string{}
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"llm.provider", "retrieval.top_k"}
}

type mockStatusService struct {
	status driving.Status
}

func (m *mockStatusService) Status() driving.Status {
	return m.status
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	documents *mockDocumentService
	ingest    *mockIngestService
	chat      *mockChatService
	reports   *mockReportService
	settings  *mockSettingsService
	status    *mockStatusService
}

func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		documents: &mockDocumentService{docs: []domain.Document{
			{
				ID:         "doc-1",
				Name:       "leaflet.pdf",
				Path:       "data/uploads/doc-1_leaflet.pdf",
				Source:     domain.SourceUpload,
				ChunkCount: 4,
				Tables:     []string{"Dose | Age\n500mg | adult"},
				CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			},
			{
				ID:         "doc-2",
				Name:       "notes.docx",
				Source:     domain.SourceDrive,
				SourceLink: "https://drive.google.com/file/d/abc/view",
				ChunkCount: 2,
			},
		}},
		ingest:  &mockIngestService{},
		chat:    &mockChatService{},
		reports: &mockReportService{},
		settings: &mockSettingsService{settings: func() domain.AppSettings {
			s := domain.DefaultAppSettings()
			s.LLM.APIKey = "sk-abcdefghijklmnop"
			return s
		}()},
		status: &mockStatusService{status: driving.Status{
			LLMEnabled:     true,
			LLMProvider:    "openai",
			LLMModel:       "gpt-3.5-turbo",
			EmbeddingMode:  string(domain.BackendRemote),
			EmbeddingModel: "text-embedding-3-small",
			VectorBackend:  string(domain.VectorBackendSQLite),
		}},
	}

	settingsService = ts.settings
	useRuntime(&Runtime{
		Ingest:    ts.ingest,
		Documents: ts.documents,
		Chat:      ts.chat,
		Reports:   ts.reports,
		Status:    ts.status,
	})

	return ts, func() {
		settingsService = nil
		ingestService = nil
		documentService = nil
		chatService = nil
		reportService = nil
		statusService = nil
		runtime = nil
	}
}

// execute runs the root command with args and returns its combined output.
// Flags are reset afterwards since cobra keeps parsed values between runs.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

var errBoom = errors.New("boom")
