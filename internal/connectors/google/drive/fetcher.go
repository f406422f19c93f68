// Package drive downloads the files of a Google Drive folder.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/docqa/internal/connectors/google"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.FolderFetcher = (*Fetcher)(nil)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
	mimeTypeAppsPrefix   = "application/vnd.google-apps."
)

// export describes how a Workspace file is converted for download.
type export struct {
	mimeType  string
	extension string
}

// Workspace files have no binary content; they are exported to formats
// the parsers understand.
var exports = map[string]export{
	MimeTypeGoogleDoc:    {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
	MimeTypeGoogleSheet:  {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx"},
	MimeTypeGoogleSlides: {"text/plain", ".txt"},
}

// MaxDownloadSize caps a single file download (50MB).
const MaxDownloadSize = 50 * 1024 * 1024

const listFields = "nextPageToken, files(id, name, mimeType, webViewLink)"

// client is a Drive service and the method it authenticates with.
type client struct {
	svc    *drive.Service
	method google.AuthMethod
}

// Fetcher lists a folder and downloads every file in it. With both a
// service account and an API key configured, the API key client is used
// when the service account cannot list the folder or finds nothing.
type Fetcher struct {
	clients  []client
	folderID string
	limiter  *google.RateLimiter
	pageSize int64
}

// New creates a fetcher from settings. Returns domain.ErrDriveNotConfigured
// when no folder or no credentials are configured.
func New(ctx context.Context, settings domain.DriveSettings, opts ...option.ClientOption) (*Fetcher, error) {
	folderID := ResolveFolderID(settings.FolderID, settings.FolderURL)
	if folderID == "" {
		return nil, fmt.Errorf("%w: no folder id or folder url", domain.ErrDriveNotConfigured)
	}

	creds := google.Credentials{
		ServiceAccountJSON: settings.ServiceAccountJSON,
		APIKey:             settings.APIKey,
	}
	methods := creds.Methods()
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrDriveNotConfigured, google.ErrNoCredentials)
	}

	var clients []client
	var lastErr error
	for _, method := range methods {
		svc, err := google.NewDriveService(ctx, creds, method, opts...)
		if err != nil {
			logger.Warn("drive: %s client unavailable: %v", method, err)
			lastErr = err
			continue
		}
		clients = append(clients, client{svc: svc, method: method})
	}
	if len(clients) == 0 {
		return nil, lastErr
	}

	return &Fetcher{
		clients:  clients,
		folderID: folderID,
		limiter:  google.NewRateLimiter(google.DefaultDriveRateLimit),
		pageSize: 100,
	}, nil
}

// FolderID returns the folder being fetched.
func (f *Fetcher) FolderID() string {
	return f.folderID
}

// Methods returns the authentication methods tried by Fetch, in order.
func (f *Fetcher) Methods() []google.AuthMethod {
	methods := make([]google.AuthMethod, len(f.clients))
	for i, c := range f.clients {
		methods[i] = c.method
	}
	return methods
}

// Fetch downloads every non-folder file directly inside the folder into
// destDir. Each client is tried in order until one returns files; the
// last listing error is returned when none does. A file that fails to
// download is logged and skipped. Source links are only reported when
// authenticated as a service account.
func (f *Fetcher) Fetch(ctx context.Context, destDir string) ([]driven.FetchedFile, error) {
	if err := os.MkdirAll(destDir, 0700); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	var lastErr error
	for i, c := range f.clients {
		fetched, err := f.fetchWith(ctx, c, destDir)
		if ctx.Err() != nil {
			return fetched, ctx.Err()
		}
		if err == nil && len(fetched) > 0 {
			return fetched, nil
		}
		if err != nil {
			lastErr = err
		}
		if i+1 < len(f.clients) {
			logger.Warn("drive: no files via %s (err: %v), falling back to %s", c.method, err, f.clients[i+1].method)
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchWith(ctx context.Context, c client, destDir string) ([]driven.FetchedFile, error) {
	files, err := f.list(ctx, c.svc)
	if err != nil {
		return nil, err
	}

	fetched := make([]driven.FetchedFile, 0, len(files))
	for _, file := range files {
		if file.MimeType == MimeTypeFolder {
			continue
		}

		path, err := f.download(ctx, c.svc, file, destDir)
		if err != nil {
			if ctx.Err() != nil {
				return fetched, ctx.Err()
			}
			logger.Warn("drive: skip %q (%s): %v", file.Name, file.Id, err)
			continue
		}

		link := ""
		if c.method == google.AuthServiceAccount {
			link = file.WebViewLink
		}
		fetched = append(fetched, driven.FetchedFile{
			Path:       path,
			Name:       filepath.Base(path),
			SourceLink: link,
		})
	}

	logger.Info("drive: fetched %d of %d files from folder %s via %s", len(fetched), len(files), f.folderID, c.method)
	return fetched, nil
}

func (f *Fetcher) list(ctx context.Context, svc *drive.Service) ([]*drive.File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", f.folderID)

	var files []*drive.File
	pageToken := ""
	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := svc.Files.List().
			Q(query).
			Fields(listFields).
			PageSize(f.pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			f.observe(err)
			if google.IsNotFound(err) {
				return nil, fmt.Errorf("folder %s not found or not shared: %w", f.folderID, google.WrapError(err))
			}
			return nil, fmt.Errorf("list folder %s: %w", f.folderID, google.WrapError(err))
		}
		files = append(files, resp.Files...)

		if resp.NextPageToken == "" {
			return files, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (f *Fetcher) download(ctx context.Context, svc *drive.Service, file *drive.File, destDir string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	name := SafeName(file.Name)
	var body io.ReadCloser
	if exp, ok := exports[file.MimeType]; ok {
		resp, err := svc.Files.Export(file.Id, exp.mimeType).Context(ctx).Download()
		if err != nil {
			f.observe(err)
			return "", fmt.Errorf("export: %w", google.WrapError(err))
		}
		body = resp.Body
		if filepath.Ext(name) != exp.extension {
			name += exp.extension
		}
	} else if strings.HasPrefix(file.MimeType, mimeTypeAppsPrefix) {
		return "", fmt.Errorf("unsupported workspace type %s", file.MimeType)
	} else {
		resp, err := svc.Files.Get(file.Id).SupportsAllDrives(true).Context(ctx).Download()
		if err != nil {
			f.observe(err)
			return "", fmt.Errorf("download: %w", google.WrapError(err))
		}
		body = resp.Body
	}
	defer body.Close()

	path := filepath.Join(destDir, name)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	n, err := io.Copy(out, io.LimitReader(body, MaxDownloadSize+1))
	closeErr := out.Close()
	switch {
	case err != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, closeErr)
	case n > MaxDownloadSize:
		_ = os.Remove(path)
		return "", fmt.Errorf("file exceeds %d bytes", MaxDownloadSize)
	}
	return path, nil
}

// observe starts a backoff window when Google reports rate limiting.
func (f *Fetcher) observe(err error) {
	if !google.IsRateLimited(err) {
		return
	}
	var retryAfter time.Duration
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Header != nil {
		if secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After")); convErr == nil {
			retryAfter = time.Duration(secs) * time.Second
		}
	}
	f.limiter.RecordRateLimitError(retryAfter)
}
