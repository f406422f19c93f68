package driven

import "context"

// FileStore keeps raw uploaded files on durable storage.
type FileStore interface {
	// Save writes data under name and returns the stored path.
	Save(ctx context.Context, name string, data []byte) (string, error)

	// Remove deletes a stored file. Missing files are not an error.
	Remove(ctx context.Context, path string) error
}

// ReportStore keeps rendered report artifacts by id.
type ReportStore interface {
	// Put stores a rendered report.
	Put(ctx context.Context, id string, data []byte) error

	// Path returns the location of a stored report, or domain.ErrReportNotFound.
	Path(ctx context.Context, id string) (string, error)
}
