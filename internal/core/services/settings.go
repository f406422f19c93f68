package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyDriveFolderURL   = "drive.folder_url"
	keyDriveFolderID    = "drive.folder_id"
	keyDriveServiceAcct = "drive.service_account_json"
	keyDriveAPIKey      = "drive.api_key"
	keyChunkSize        = "retrieval.chunk_size"
	keyChunkOverlap     = "retrieval.chunk_overlap"
	keyTopK             = "retrieval.top_k"
	keyMaxHistory       = "retrieval.max_history"
	keyMaxContextTokens = "retrieval.max_context_tokens"
	keyDataDir          = "storage.data_dir"
	keyVectorBackend    = "storage.vector_backend"
	keyDatabaseURL      = "storage.database_url"
	keyCollection       = "storage.collection"
	keyHTTPAddr         = "http_addr"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindLLMProvider
	kindEmbedProvider
	kindBackend
)

var settingKeys = map[string]keyKind{
	keyLLMProvider:      kindLLMProvider,
	keyLLMModel:         kindString,
	keyLLMBaseURL:       kindString,
	keyLLMAPIKey:        kindString,
	keyEmbedProvider:    kindEmbedProvider,
	keyEmbedModel:       kindString,
	keyEmbedBaseURL:     kindString,
	keyEmbedAPIKey:      kindString,
	keyDriveFolderURL:   kindString,
	keyDriveFolderID:    kindString,
	keyDriveServiceAcct: kindString,
	keyDriveAPIKey:      kindString,
	keyChunkSize:        kindInt,
	keyChunkOverlap:     kindInt,
	keyTopK:             kindInt,
	keyMaxHistory:       kindInt,
	keyMaxContextTokens: kindInt,
	keyDataDir:          kindString,
	keyVectorBackend:    kindBackend,
	keyDatabaseURL:      kindString,
	keyCollection:       kindString,
	keyHTTPAddr:         kindString,
}

// SettingsService resolves settings from the config store, then the
// environment.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service. getenv is usually
// os.Getenv; nil disables environment overrides.
func NewSettingsService(configStore driven.ConfigStore, getenv func(string) string) *SettingsService {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &SettingsService{
		configStore: configStore,
		getenv:      getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.ProviderSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider, false),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Embedding: domain.ProviderSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider, true),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		Drive: domain.DriveSettings{
			FolderURL:          s.configStore.GetString(keyDriveFolderURL),
			FolderID:           s.configStore.GetString(keyDriveFolderID),
			ServiceAccountJSON: s.configStore.GetString(keyDriveServiceAcct),
			APIKey:             s.configStore.GetString(keyDriveAPIKey),
		},
		Retrieval: domain.RetrievalSettings{
			ChunkSize:        s.getInt(keyChunkSize, defaults.Retrieval.ChunkSize),
			ChunkOverlap:     s.getInt(keyChunkOverlap, defaults.Retrieval.ChunkOverlap),
			TopK:             s.getInt(keyTopK, defaults.Retrieval.TopK),
			MaxHistory:       s.getInt(keyMaxHistory, defaults.Retrieval.MaxHistory),
			MaxContextTokens: s.getInt(keyMaxContextTokens, 0),
		},
		Storage: domain.StorageSettings{
			DataDir:       s.getString(keyDataDir, defaults.Storage.DataDir),
			VectorBackend: domain.VectorBackend(s.getString(keyVectorBackend, string(defaults.Storage.VectorBackend))),
			DatabaseURL:   s.configStore.GetString(keyDatabaseURL),
			Collection:    s.getString(keyCollection, defaults.Storage.Collection),
		},
		HTTPAddr: s.getString(keyHTTPAddr, defaults.HTTPAddr),
	}

	s.applyEnv(settings)
	settings.Normalise()

	return settings, nil
}

// Set validates a value against its key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q: %w", key, domain.ErrInvalidInput)
	}
	value = strings.TrimSpace(value)

	var stored any = value
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
		}
		stored = n
	case kindLLMProvider:
		p := domain.AIProvider(value)
		if !p.IsValid() || p == domain.AIProviderLocal {
			return fmt.Errorf("%s must be openai, groq or ollama: %w", key, domain.ErrInvalidInput)
		}
	case kindEmbedProvider:
		p := domain.AIProvider(value)
		if !p.IsValid() || p == domain.AIProviderGroq {
			return fmt.Errorf("%s must be openai, ollama or local: %w", key, domain.ErrInvalidInput)
		}
	case kindBackend:
		if !domain.VectorBackend(value).IsValid() {
			return fmt.Errorf("%s must be sqlite, memory or pgvector: %w", key, domain.ErrInvalidInput)
		}
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return s.configStore.Save()
}

// Keys lists recognised config keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// applyEnv overlays environment variables. Provider specific variables only
// apply to the provider that is selected.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if p := domain.AIProvider(strings.ToLower(s.env("LLM_PROVIDER"))); p != "" {
		if p.IsValid() && p != domain.AIProviderLocal {
			if p != settings.LLM.Provider {
				settings.LLM = domain.ProviderSettings{Provider: p}
			}
		}
	}
	s.overlayLLM(&settings.LLM)
	// Groq without a key falls back to OpenAI when an OpenAI key is set.
	if settings.LLM.Provider == domain.AIProviderGroq && settings.LLM.APIKey == "" && s.env("OPENAI_API_KEY") != "" {
		settings.LLM = domain.ProviderSettings{Provider: domain.AIProviderOpenAI}
		s.overlayLLM(&settings.LLM)
	}

	if p := domain.AIProvider(strings.ToLower(s.env("EMBEDDING_PROVIDER"))); p != "" {
		if p.IsValid() && p != domain.AIProviderGroq && p != settings.Embedding.Provider {
			settings.Embedding = domain.ProviderSettings{Provider: p}
		}
	}
	switch settings.Embedding.Provider {
	case domain.AIProviderOpenAI:
		overlay(&settings.Embedding.APIKey, s.env("OPENAI_API_KEY"))
		overlay(&settings.Embedding.Model, s.env("EMBEDDING_MODEL"))
		overlay(&settings.Embedding.BaseURL, s.env("OPENAI_BASE_URL"))
	case domain.AIProviderOllama:
		overlay(&settings.Embedding.Model, s.env("OLLAMA_EMBEDDING_MODEL"))
		overlay(&settings.Embedding.BaseURL, s.env("OLLAMA_BASE_URL"))
	}

	overlay(&settings.Drive.FolderURL, s.env("GOOGLE_DRIVE_FOLDER_URL"))
	overlay(&settings.Drive.FolderID, s.env("GOOGLE_DRIVE_FOLDER_ID"))
	overlay(&settings.Drive.ServiceAccountJSON, s.env("GOOGLE_DRIVE_SERVICE_ACCOUNT_JSON"))
	overlay(&settings.Drive.APIKey, s.env("GOOGLE_API_KEY"))

	s.overlayInt(&settings.Retrieval.ChunkSize, "CHUNK_SIZE")
	s.overlayInt(&settings.Retrieval.ChunkOverlap, "CHUNK_OVERLAP")
	s.overlayInt(&settings.Retrieval.TopK, "TOP_K")
	s.overlayInt(&settings.Retrieval.MaxHistory, "MAX_HISTORY")
	s.overlayInt(&settings.Retrieval.MaxContextTokens, "MAX_CONTEXT_TOKENS")

	overlay(&settings.Storage.DataDir, s.env("DATA_DIR"))
	if b := domain.VectorBackend(strings.ToLower(s.env("VECTOR_BACKEND"))); b.IsValid() {
		settings.Storage.VectorBackend = b
	}
	overlay(&settings.Storage.DatabaseURL, s.env("DATABASE_URL"))
	overlay(&settings.HTTPAddr, s.env("HTTP_ADDR"))
}

func (s *SettingsService) overlayLLM(llm *domain.ProviderSettings) {
	switch llm.Provider {
	case domain.AIProviderOpenAI:
		overlay(&llm.APIKey, s.env("OPENAI_API_KEY"))
		overlay(&llm.Model, s.env("OPENAI_MODEL"))
		overlay(&llm.BaseURL, s.env("OPENAI_BASE_URL"))
	case domain.AIProviderGroq:
		overlay(&llm.APIKey, s.env("GROQ_API_KEY"))
		overlay(&llm.Model, s.env("GROQ_MODEL"))
		overlay(&llm.BaseURL, s.env("GROQ_BASE_URL"))
	case domain.AIProviderOllama:
		overlay(&llm.Model, s.env("OLLAMA_MODEL"))
		overlay(&llm.BaseURL, s.env("OLLAMA_BASE_URL"))
	}
}

func (s *SettingsService) env(name string) string {
	return strings.TrimSpace(s.getenv(name))
}

func (s *SettingsService) overlayInt(dst *int, name string) {
	raw := s.env(name)
	if raw == "" {
		return
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*dst = n
	}
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// getString retrieves a string with fallback to default.
func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt retrieves an int with fallback to default.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

// getProvider retrieves an AI provider with validation and fallback.
func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider, embedding bool) domain.AIProvider {
	p := domain.AIProvider(s.configStore.GetString(key))
	if !p.IsValid() {
		return defaultVal
	}
	if embedding && p == domain.AIProviderGroq {
		return defaultVal
	}
	if !embedding && p == domain.AIProviderLocal {
		return defaultVal
	}
	return p
}
