package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// --- Mock implementations ---

var errUpstream = errors.New("upstream failed")

// mockFileStore implements driven.FileStore for testing.
type mockFileStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	removed []string
	saveErr error
	rmErr   error
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{saved: make(map[string][]byte)}
}

func (m *mockFileStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "/uploads/" + name
	m.saved[path] = data
	return path, nil
}

func (m *mockFileStore) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, path)
	return m.rmErr
}

// mockParser implements driven.Parser for testing. It returns the saved
// bytes as text unless result or err is set.
type mockParser struct {
	files  *mockFileStore
	result *driven.ParseResult
	err    error
	exts   []string
}

func (m *mockParser) Parse(_ context.Context, path, ext string) (driven.ParseResult, error) {
	m.exts = append(m.exts, ext)
	if m.err != nil {
		return driven.ParseResult{}, m.err
	}
	if m.result != nil {
		return *m.result, nil
	}
	return driven.ParseResult{Text: string(m.files.saved[path])}, nil
}

func (m *mockParser) SupportedExtensions() []string {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	result     domain.QueryResult
	results    map[string]domain.QueryResult
	queryErr   error
	addErr     error
	deleteErr  error
	resetErr   error
	added      []domain.ChunkPayload
	deleted    []string
	resets     int
	queries    []string
	queryLimit []int
}

func (m *mockVectorIndex) AddChunks(_ context.Context, payload domain.ChunkPayload) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, payload)
	return nil
}

func (m *mockVectorIndex) DeleteByDoc(_ context.Context, docID string) error {
	m.deleted = append(m.deleted, docID)
	return m.deleteErr
}

func (m *mockVectorIndex) Reset(_ context.Context) error {
	m.resets++
	return m.resetErr
}

func (m *mockVectorIndex) Query(_ context.Context, text string, topK int) (domain.QueryResult, error) {
	m.queries = append(m.queries, text)
	m.queryLimit = append(m.queryLimit, topK)
	if m.queryErr != nil {
		return domain.QueryResult{}, m.queryErr
	}
	if r, ok := m.results[text]; ok {
		return r, nil
	}
	return m.result, nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	return 0, nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply        string
	chatErr      error
	summary      string
	summaryErr   error
	sections     map[string]string
	sectionErr   error
	messages     [][]driven.ChatMessage
	opts         []driven.ChatOptions
	summarised   []string
	sectionCalls int
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = append(m.messages, messages)
	m.opts = append(m.opts, opts)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLMService) Summarise(_ context.Context, content string) (string, error) {
	m.summarised = append(m.summarised, content)
	if m.summaryErr != nil {
		return "", m.summaryErr
	}
	return m.summary, nil
}

func (m *mockLLMService) NormaliseSection(_ context.Context, section string) (string, error) {
	m.sectionCalls++
	if m.sectionErr != nil {
		return "", m.sectionErr
	}
	if title, ok := m.sections[section]; ok {
		return title, nil
	}
	return section, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockHistoryStore wraps errors around the memory history store.
type mockHistoryStore struct {
	driven.HistoryStore
	appendErr error
	recentErr error
}

func (m *mockHistoryStore) Append(ctx context.Context, sessionID string, role domain.Role, content string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	return m.HistoryStore.Append(ctx, sessionID, role, content)
}

func (m *mockHistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]domain.ChatTurn, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.HistoryStore.Recent(ctx, sessionID, limit)
}

// mockRenderer implements driven.ReportRenderer for testing.
type mockRenderer struct {
	blocks    []domain.ReportBlock
	title     string
	renderErr error
}

func (m *mockRenderer) Render(title string, blocks []domain.ReportBlock) ([]byte, error) {
	m.title = title
	m.blocks = blocks
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockRenderer) Extension() string {
	return ".pdf"
}

// mockReportStore implements driven.ReportStore for testing.
type mockReportStore struct {
	reports map[string][]byte
	putErr  error
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{reports: make(map[string][]byte)}
}

func (m *mockReportStore) Put(_ context.Context, id string, data []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.reports[id] = data
	return nil
}

func (m *mockReportStore) Path(_ context.Context, id string) (string, error) {
	if _, ok := m.reports[id]; !ok {
		return "", domain.ErrReportNotFound
	}
	return "/reports/report_" + id + ".pdf", nil
}

// mockFetcher implements driven.FolderFetcher for testing.
type mockFetcher struct {
	files    []fetchedFixture
	fetchErr error
	destDir  string
}

type fetchedFixture struct {
	name    string
	content string
	link    string
}

func (m *mockFetcher) Fetch(_ context.Context, destDir string) ([]driven.FetchedFile, error) {
	m.destDir = destDir
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]driven.FetchedFile, 0, len(m.files))
	for _, f := range m.files {
		path := filepath.Join(destDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o600); err != nil {
			return nil, err
		}
		out = append(out, driven.FetchedFile{Path: path, Name: f.name, SourceLink: f.link})
	}
	return out, nil
}

// mockTokenCounter counts whitespace-separated words.
type mockTokenCounter struct{}

func (mockTokenCounter) Count(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\n' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}
