package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docqa/internal/adapters/driving/api"
	"github.com/custodia-labs/docqa/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve exposes upload, chat, search, document and report endpoints over
HTTP. Prompt files in the data directory are reloaded when edited.

With --watch, files dropped into the folder are ingested automatically.

Examples:
  docqa serve
  docqa serve --addr :9000 --watch ./inbox --access-log`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from settings)")
	serveCmd.Flags().String("watch", "", "Ingest files added to this folder")
	serveCmd.Flags().Bool("access-log", false, "Log every request to stderr")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil || ingestService == nil {
		return errors.New("services not configured")
	}

	addr, err := serveAddr(cmd)
	if err != nil {
		return err
	}
	watchDir, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}
	accessLog, err := cmd.Flags().GetBool("access-log")
	if err != nil {
		return fmt.Errorf("getting access-log flag: %w", err)
	}

	cfg := api.Config{}
	if accessLog {
		cfg.AccessLog = os.Stderr
	}
	server := api.NewServer(api.Services{
		Documents: documentService,
		Ingest:    ingestService,
		Chat:      chatService,
		Reports:   reportService,
		Status:    statusService,
	}, cfg)

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		cmd.Printf("docqa listening on %s\n", addr)
		return server.Listen(addr)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down HTTP server")
		return server.Shutdown(shutdownCtx)
	})

	if runtime != nil && runtime.PromptDir != "" && runtime.ReloadPrompts != nil {
		w := promptWatcher(runtime.PromptDir, runtime.ReloadPrompts)
		g.Go(func() error { return quiet(w.Run(ctx)) })
	}

	if watchDir != "" {
		var exts []string
		if runtime != nil {
			exts = runtime.WatchExtensions
		}
		w := watcher.New(watchDir, ingestPath(ingestService), watcher.WithExtensions(exts...))
		cmd.Printf("Watching %s\n", watchDir)
		g.Go(func() error { return w.Run(ctx) })
	}

	return g.Wait()
}

func serveAddr(cmd *cobra.Command) (string, error) {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return "", fmt.Errorf("getting addr flag: %w", err)
	}
	if addr != "" {
		return addr, nil
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s.HTTPAddr != "" {
			return s.HTTPAddr, nil
		}
	}
	return domain.DefaultHTTPAddr, nil
}

// ingestPath returns a watcher handler that ingests one file as an upload.
func ingestPath(svc driving.IngestService) watcher.Handler {
	return func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		results, err := svc.IngestFiles(ctx, []driving.UploadedFile{{
			Name:   filepath.Base(path),
			Data:   data,
			Source: domain.SourceUpload,
		}})
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Error != "" {
				logger.Warn("ingest %s: %s", r.Name, r.Error)
				continue
			}
			logger.Info("ingested %s (%d chunks)", r.Name, r.ChunkCount)
		}
		return nil
	}
}

// promptWatcher drops cached prompts whenever a prompt file changes.
func promptWatcher(dir string, reload func()) *watcher.Watcher {
	return watcher.New(dir, func(_ context.Context, path string) error {
		logger.Info("prompt %s changed, reloading", filepath.Base(path))
		reload()
		return nil
	}, watcher.WithExtensions(".txt"))
}

// quiet keeps a missing prompt directory from stopping the server.
func quiet(err error) error {
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("prompt watcher stopped: %v", err)
	}
	return nil
}
