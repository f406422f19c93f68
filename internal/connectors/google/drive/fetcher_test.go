package drive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/docqa/internal/connectors/google"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// fakeDrive serves the subset of the Drive v3 API the fetcher uses.
func fakeDrive(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "'folder123' in parents and trashed = false", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"nextPageToken":"p2","files":[
				{"id":"f1","name":"notes.txt","mimeType":"text/plain","webViewLink":"https://drive/f1"},
				{"id":"sub","name":"nested","mimeType":"application/vnd.google-apps.folder"}
			]}`))
			return
		}
		_, _ = w.Write([]byte(`{"files":[
			{"id":"f2","name":"../evil.txt","mimeType":"text/plain","webViewLink":"https://drive/f2"},
			{"id":"f3","name":"Plan","mimeType":"application/vnd.google-apps.presentation"},
			{"id":"f4","name":"gone.txt","mimeType":"text/plain"}
		]}`))
	})
	mux.HandleFunc("/files/f1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		_, _ = w.Write([]byte("first file"))
	})
	mux.HandleFunc("/files/f2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("second file"))
	})
	mux.HandleFunc("/files/f3/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.URL.Query().Get("mimeType"))
		_, _ = w.Write([]byte("slides text"))
	})
	mux.HandleFunc("/files/f4", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestNew_NotConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.DriveSettings
	}{
		{"no folder", domain.DriveSettings{APIKey: "k"}},
		{"url without folder segment", domain.DriveSettings{FolderURL: "https://drive.google.com/file/d/x", APIKey: "k"}},
		{"no credentials", domain.DriveSettings{FolderID: "folder123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.settings)
			assert.ErrorIs(t, err, domain.ErrDriveNotConfigured)
		})
	}
}

func TestFetch_PublicFolder(t *testing.T) {
	server := fakeDrive(t)
	fetcher, err := New(context.Background(),
		domain.DriveSettings{FolderURL: "https://drive.google.com/drive/folders/folder123?usp=sharing", APIKey: "k"},
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)
	assert.Equal(t, "folder123", fetcher.FolderID())
	assert.Equal(t, []google.AuthMethod{google.AuthAPIKey}, fetcher.Methods())

	dest := t.TempDir()
	files, err := fetcher.Fetch(context.Background(), dest)
	require.NoError(t, err)

	require.Len(t, files, 3)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
		assert.Empty(t, f.SourceLink, "api key access has no provenance links")
		assert.Equal(t, dest, filepath.Dir(f.Path))
	}
	assert.Equal(t, []string{"notes.txt", "evil.txt", "Plan.txt"}, names)

	data, err := os.ReadFile(filepath.Join(dest, "Plan.txt"))
	require.NoError(t, err)
	assert.Equal(t, "slides text", string(data))
}

func TestFetch_ListFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	}))
	defer server.Close()

	fetcher, err := New(context.Background(),
		domain.DriveSettings{FolderID: "folder123", APIKey: "k"},
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, google.ErrForbidden)
}

func TestFetch_FolderNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
	}))
	defer server.Close()

	fetcher, err := New(context.Background(),
		domain.DriveSettings{FolderID: "folder123", APIKey: "k"},
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, google.ErrNotFound)
	assert.Contains(t, err.Error(), "not found or not shared")
}

// listingServer answers folder listings with status and body and counts requests.
func listingServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/files/f1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("first file"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testClient(t *testing.T, server *httptest.Server, method google.AuthMethod) client {
	t.Helper()
	svc, err := drive.NewService(context.Background(),
		option.WithAPIKey("k"),
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)
	return client{svc: svc, method: method}
}

func testFetcher(clients ...client) *Fetcher {
	return &Fetcher{
		clients:  clients,
		folderID: "folder123",
		limiter:  google.NewRateLimiter(google.DefaultDriveRateLimit),
		pageSize: 100,
	}
}

const oneFile = `{"files":[{"id":"f1","name":"notes.txt","mimeType":"text/plain","webViewLink":"https://drive/f1"}]}`

func TestFetch_FallsBackToAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"service account forbidden", http.StatusForbidden, `{"error":{"code":403,"message":"forbidden"}}`},
		{"service account sees empty folder", http.StatusOK, `{"files":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var primaryHits, fallbackHits atomic.Int32
			primary := listingServer(t, tt.status, tt.body, &primaryHits)
			fallback := listingServer(t, http.StatusOK, oneFile, &fallbackHits)

			fetcher := testFetcher(
				testClient(t, primary, google.AuthServiceAccount),
				testClient(t, fallback, google.AuthAPIKey),
			)

			files, err := fetcher.Fetch(context.Background(), t.TempDir())
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Equal(t, "notes.txt", files[0].Name)
			assert.Empty(t, files[0].SourceLink)
			assert.Equal(t, int32(1), primaryHits.Load())
			assert.Equal(t, int32(1), fallbackHits.Load())
		})
	}
}

func TestFetch_ServiceAccountPreferred(t *testing.T) {
	var primaryHits, fallbackHits atomic.Int32
	primary := listingServer(t, http.StatusOK, oneFile, &primaryHits)
	fallback := listingServer(t, http.StatusOK, oneFile, &fallbackHits)

	fetcher := testFetcher(
		testClient(t, primary, google.AuthServiceAccount),
		testClient(t, fallback, google.AuthAPIKey),
	)
	assert.Equal(t, []google.AuthMethod{google.AuthServiceAccount, google.AuthAPIKey}, fetcher.Methods())

	files, err := fetcher.Fetch(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "https://drive/f1", files[0].SourceLink)
	assert.Equal(t, int32(0), fallbackHits.Load())
}

func TestFetch_AllMethodsFail(t *testing.T) {
	var primaryHits, fallbackHits atomic.Int32
	forbidden := `{"error":{"code":403,"message":"forbidden"}}`
	primary := listingServer(t, http.StatusForbidden, forbidden, &primaryHits)
	fallback := listingServer(t, http.StatusForbidden, forbidden, &fallbackHits)

	fetcher := testFetcher(
		testClient(t, primary, google.AuthServiceAccount),
		testClient(t, fallback, google.AuthAPIKey),
	)

	_, err := fetcher.Fetch(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, google.ErrForbidden)
	assert.Equal(t, int32(1), fallbackHits.Load())
}

func TestFetch_EmptyFolder(t *testing.T) {
	var hits atomic.Int32
	server := listingServer(t, http.StatusOK, `{"files":[]}`, &hits)

	files, err := testFetcher(testClient(t, server, google.AuthAPIKey)).Fetch(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestNew_BadServiceAccountKeepsAPIKey(t *testing.T) {
	server := fakeDrive(t)
	fetcher, err := New(context.Background(),
		domain.DriveSettings{FolderID: "folder123", ServiceAccountJSON: "/does/not/exist.json", APIKey: "k"},
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)
	assert.Equal(t, []google.AuthMethod{google.AuthAPIKey}, fetcher.Methods())
}

func TestNew_BadServiceAccountOnly(t *testing.T) {
	_, err := New(context.Background(),
		domain.DriveSettings{FolderID: "folder123", ServiceAccountJSON: "/does/not/exist.json"},
	)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDriveNotConfigured)
}

func TestFolderIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://drive.google.com/drive/folders/abc123", "abc123"},
		{"https://drive.google.com/drive/folders/abc123?usp=sharing", "abc123"},
		{"https://drive.google.com/drive/u/0/folders/abc123/", "abc123"},
		{"https://drive.google.com/file/d/xyz/view", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FolderIDFromURL(tt.url))
		})
	}
}

func TestResolveFolderID(t *testing.T) {
	assert.Equal(t, "explicit", ResolveFolderID(" explicit ", "https://drive.google.com/drive/folders/parsed"))
	assert.Equal(t, "parsed", ResolveFolderID("", "https://drive.google.com/drive/folders/parsed"))
}

func TestSafeName(t *testing.T) {
	for in, want := range map[string]string{
		"report.pdf":       "report.pdf",
		"../../etc/passwd": "passwd",
		`dir\file.txt`:     "file.txt",
		"..":               "file",
		"  ":               "file",
	} {
		assert.Equal(t, want, SafeName(in), strings.TrimSpace(in))
	}
}
