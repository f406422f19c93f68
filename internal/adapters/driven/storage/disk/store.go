// Package disk keeps raw uploads and rendered reports as files.
package disk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure stores implement the interfaces.
var (
	_ driven.FileStore   = (*FileStore)(nil)
	_ driven.ReportStore = (*ReportStore)(nil)
)

// FileStore writes files into a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes data to dir/name. name must already be filesystem-safe.
func (s *FileStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("save %q: %w", name, domain.ErrInvalidInput)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("save %q: %w", name, err)
	}
	return path, nil
}

// Remove deletes path. Missing files are ignored.
func (s *FileStore) Remove(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", path, err)
	}
	return nil
}

// ReportStore keeps reports as dir/report_{id}{ext}.
type ReportStore struct {
	dir string
	ext string
}

// NewReportStore creates dir if needed. ext is the rendered file extension.
func NewReportStore(dir, ext string) (*ReportStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &ReportStore{dir: dir, ext: ext}, nil
}

func (s *ReportStore) path(id string) (string, error) {
	if id == "" || filepath.Base(id) != id {
		return "", fmt.Errorf("report id %q: %w", id, domain.ErrInvalidInput)
	}
	return filepath.Join(s.dir, "report_"+id+s.ext), nil
}

// Put writes a rendered report.
func (s *ReportStore) Put(_ context.Context, id string, data []byte) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Path returns the report file path, or domain.ErrReportNotFound.
func (s *ReportStore) Path(_ context.Context, id string) (string, error) {
	path, err := s.path(id)
	if err != nil {
		return "", domain.ErrReportNotFound
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrReportNotFound
		}
		return "", fmt.Errorf("stat report: %w", err)
	}
	return path, nil
}
