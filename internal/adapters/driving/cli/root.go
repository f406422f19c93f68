// Package cli implements the docqa command line with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// annotationSettingsOnly marks commands that only need the settings service.
const annotationSettingsOnly = "docqa/settings-only"

// Runtime holds the services built for one invocation.
type Runtime struct {
	Ingest    driving.IngestService
	Documents driving.DocumentService
	Chat      driving.ChatService
	Reports   driving.ReportService
	Status    driving.StatusService

	// PromptDir holds user-editable prompts; ReloadPrompts drops cached copies.
	PromptDir     string
	ReloadPrompts func()

	// WatchExtensions are the file types ingested from a watched folder.
	WatchExtensions []string

	// Check pings the AI backends.
	Check func(ctx context.Context) []error

	// Close releases stores and backends.
	Close func() error
}

// Hooks build services. They are set by main so this package stays free of
// driven adapters.
type Hooks struct {
	Settings func(dataDir string) (driving.SettingsService, error)
	Services func(ctx context.Context, settings *domain.AppSettings) (*Runtime, error)
}

var (
	version = "dev"
	hooks   Hooks

	dataDir string
	verbose bool

	settingsService driving.SettingsService
	ingestService   driving.IngestService
	documentService driving.DocumentService
	chatService     driving.ChatService
	reportService   driving.ReportService
	statusService   driving.StatusService
	runtime         *Runtime
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa ingests PDFs, Word files, spreadsheets, images and text, indexes
them for semantic retrieval, and answers questions using only what the
documents say.

Run 'docqa serve' for the HTTP API, 'docqa chat' for an interactive session,
or 'docqa mcp serve' to expose the documents to AI assistants.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show info and debug logs")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default $DATA_DIR or ./data)")
}

// SetHooks sets the builders used before each command runs.
func SetHooks(h Hooks) {
	hooks = h
}

// SetVersion sets the version printed by 'docqa version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveDataDir returns the --data-dir flag, then $DATA_DIR, then the default.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if env := os.Getenv("DATA_DIR"); env != "" {
		return env
	}
	return domain.DefaultDataDir
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	if settingsService == nil && hooks.Settings != nil {
		svc, err := hooks.Settings(resolveDataDir())
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		settingsService = svc
	}

	if cmd.Annotations[annotationSettingsOnly] == "true" {
		return nil
	}
	if chatService != nil || hooks.Services == nil || settingsService == nil {
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	settings.Storage.DataDir = resolveDataDir()

	rt, err := hooks.Services(cmd.Context(), settings)
	if err != nil {
		return err
	}
	useRuntime(rt)
	return nil
}

func useRuntime(rt *Runtime) {
	runtime = rt
	ingestService = rt.Ingest
	documentService = rt.Documents
	chatService = rt.Chat
	reportService = rt.Reports
	statusService = rt.Status
}

func teardown(_ *cobra.Command, _ []string) error {
	if runtime == nil || runtime.Close == nil {
		return nil
	}
	err := runtime.Close()
	runtime = nil
	return err
}

// settingsOnly annotates cmd so services are not built for it.
func settingsOnly(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationSettingsOnly] = "true"
	return cmd
}
