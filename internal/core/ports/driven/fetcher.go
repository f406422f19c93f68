package driven

import "context"

// FetchedFile is a remote file saved locally.
type FetchedFile struct {
	// Path is the local file path.
	Path string

	// Name is the remote file name.
	Name string

	// SourceLink is the provenance URL, empty if none.
	SourceLink string
}

// FolderFetcher downloads every file in a configured remote folder.
type FolderFetcher interface {
	// Fetch downloads files into destDir.
	Fetch(ctx context.Context, destDir string) ([]FetchedFile, error)
}
