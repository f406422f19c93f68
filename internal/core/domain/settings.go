package domain

import "path/filepath"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is Groq's OpenAI-compatible API.
	AIProviderGroq AIProvider = "groq"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderLocal is the in-process hashing embedder.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGroq, AIProviderOllama, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderLocal:
		return "Hashing embedder (in-process)"
	default:
		return unknownDescription
	}
}

// BackendMode is how a capability was resolved at startup.
type BackendMode string

// Backend modes.
const (
	// BackendRemote uses a configured remote provider exclusively.
	BackendRemote BackendMode = "remote"

	// BackendLocalFallback uses the lazily initialised in-process model.
	BackendLocalFallback BackendMode = "local_fallback"

	// BackendUnavailable disables the capability.
	BackendUnavailable BackendMode = "unavailable"
)

// VectorBackend selects the vector index implementation.
type VectorBackend string

// Vector backends.
const (
	VectorBackendSQLite   VectorBackend = "sqlite"
	VectorBackendMemory   VectorBackend = "memory"
	VectorBackendPGVector VectorBackend = "pgvector"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendMemory, VectorBackendPGVector:
		return true
	default:
		return false
	}
}

// ProviderSettings configures one remote AI provider.
type ProviderSettings struct {
	Provider AIProvider `toml:"provider"`
	APIKey   string     `toml:"api_key"`
	Model    string     `toml:"model"`
	BaseURL  string     `toml:"base_url"`
}

// IsConfigured reports whether the provider has what it needs to be used.
func (s ProviderSettings) IsConfigured() bool {
	if s.Provider == "" {
		return false
	}
	if s.Provider.RequiresAPIKey() {
		return s.APIKey != ""
	}
	return true
}

// DriveSettings configures the remote folder fetcher.
type DriveSettings struct {
	FolderURL          string `toml:"folder_url"`
	FolderID           string `toml:"folder_id"`
	ServiceAccountJSON string `toml:"service_account_json"`
	APIKey             string `toml:"api_key"`
}

// RetrievalSettings configures chunking and retrieval.
type RetrievalSettings struct {
	ChunkSize        int `toml:"chunk_size"`
	ChunkOverlap     int `toml:"chunk_overlap"`
	TopK             int `toml:"top_k"`
	MaxHistory       int `toml:"max_history"`
	MaxContextTokens int `toml:"max_context_tokens"`
}

// StorageSettings configures persisted state.
type StorageSettings struct {
	DataDir       string        `toml:"data_dir"`
	VectorBackend VectorBackend `toml:"vector_backend"`
	DatabaseURL   string        `toml:"database_url"`
	Collection    string        `toml:"collection"`
}

// UploadDir is where raw uploaded and downloaded files are kept.
func (s StorageSettings) UploadDir() string {
	return filepath.Join(s.DataDir, "uploads")
}

// ReportDir is where rendered reports are kept.
func (s StorageSettings) ReportDir() string {
	return filepath.Join(s.DataDir, "reports")
}

// PromptDir is where user-editable prompts are kept.
func (s StorageSettings) PromptDir() string {
	return filepath.Join(s.DataDir, "prompts")
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM       ProviderSettings  `toml:"llm"`
	Embedding ProviderSettings  `toml:"embedding"`
	Drive     DriveSettings     `toml:"drive"`
	Retrieval RetrievalSettings `toml:"retrieval"`
	Storage   StorageSettings   `toml:"storage"`
	HTTPAddr  string            `toml:"http_addr"`
}

// Defaults for AppSettings.
const (
	DefaultChunkSize     = 900
	DefaultChunkOverlap  = 150
	DefaultTopK          = 4
	DefaultMaxHistory    = 6
	DefaultCollection    = "medical_docs"
	DefaultHTTPAddr      = ":8000"
	DefaultDataDir       = "data"
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultOllamaBaseURL = "http://localhost:11434"
)

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left without credentials, so answers degrade until keys are set.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: ProviderSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Embedding: ProviderSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		Retrieval: RetrievalSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			TopK:         DefaultTopK,
			MaxHistory:   DefaultMaxHistory,
		},
		Storage: StorageSettings{
			DataDir:       DefaultDataDir,
			VectorBackend: VectorBackendSQLite,
			Collection:    DefaultCollection,
		},
		HTTPAddr: DefaultHTTPAddr,
	}
}

// Normalise fills zero values with defaults and clamps chunking parameters
// so the chunker always advances.
func (s *AppSettings) Normalise() {
	d := DefaultAppSettings()
	if s.Retrieval.ChunkSize <= 0 {
		s.Retrieval.ChunkSize = d.Retrieval.ChunkSize
	}
	if s.Retrieval.ChunkOverlap < 0 {
		s.Retrieval.ChunkOverlap = 0
	}
	if s.Retrieval.ChunkOverlap >= s.Retrieval.ChunkSize {
		s.Retrieval.ChunkOverlap = s.Retrieval.ChunkSize / 4
	}
	if s.Retrieval.TopK <= 0 {
		s.Retrieval.TopK = d.Retrieval.TopK
	}
	if s.Retrieval.MaxHistory <= 0 {
		s.Retrieval.MaxHistory = d.Retrieval.MaxHistory
	}
	if s.Storage.DataDir == "" {
		s.Storage.DataDir = d.Storage.DataDir
	}
	if !s.Storage.VectorBackend.IsValid() {
		s.Storage.VectorBackend = d.Storage.VectorBackend
	}
	if s.Storage.Collection == "" {
		s.Storage.Collection = d.Storage.Collection
	}
	if s.HTTPAddr == "" {
		s.HTTPAddr = d.HTTPAddr
	}
	if s.LLM.Provider == "" {
		s.LLM.Provider = d.LLM.Provider
	}
	if s.LLM.Model == "" {
		s.LLM.Model = DefaultLLMModels()[s.LLM.Provider]
	}
	if s.Embedding.Model == "" {
		s.Embedding.Model = DefaultEmbeddingModels()[s.Embedding.Provider]
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderOllama: "nomic-embed-text",
		AIProviderLocal:  "hashing-384",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: "gpt-3.5-turbo",
		AIProviderGroq:   "llama-3.1-8b-instant",
		AIProviderOllama: "llama3.2",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"hashing-384":            384,
	}
}
