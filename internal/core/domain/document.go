package domain

import "time"

// DocumentSource records where a document came from.
type DocumentSource string

// Known document sources.
const (
	// SourceUpload is a file posted by a user.
	SourceUpload DocumentSource = "upload"

	// SourceDrive is a file fetched from a remote Google Drive folder.
	SourceDrive DocumentSource = "drive"
)

// IsValid returns true if the source is recognised.
func (s DocumentSource) IsValid() bool {
	return s == SourceUpload || s == SourceDrive
}

// String returns the string representation.
func (s DocumentSource) String() string {
	return string(s)
}

// Document is the persisted record of one ingested file.
type Document struct {
	// ID is generated at ingestion and unique across the store.
	ID string `json:"id" yaml:"id"`

	// Name is the original, untrusted filename.
	Name string `json:"name" yaml:"name"`

	// Path is where the raw bytes were saved.
	Path string `json:"path" yaml:"path"`

	// Source is upload or drive.
	Source DocumentSource `json:"source" yaml:"source"`

	// SourceLink is an optional provenance URL, empty if none.
	SourceLink string `json:"source_link" yaml:"source_link"`

	// ChunkCount is the number of chunks produced at ingestion time.
	ChunkCount int `json:"chunks" yaml:"chunks"`

	// Tables holds extracted tabular text blocks in document order.
	Tables []string `json:"tables" yaml:"tables"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// DocumentUpdate is a partial update. Nil fields are left untouched.
type DocumentUpdate struct {
	Name       *string
	Path       *string
	Source     *DocumentSource
	SourceLink *string
	ChunkCount *int
	Tables     []string
}

// Apply merges the supplied fields into doc.
func (u DocumentUpdate) Apply(doc *Document) {
	if u.Name != nil {
		doc.Name = *u.Name
	}
	if u.Path != nil {
		doc.Path = *u.Path
	}
	if u.Source != nil {
		doc.Source = *u.Source
	}
	if u.SourceLink != nil {
		doc.SourceLink = *u.SourceLink
	}
	if u.ChunkCount != nil {
		doc.ChunkCount = *u.ChunkCount
	}
	if u.Tables != nil {
		doc.Tables = append([]string(nil), u.Tables...)
	}
}

// IngestResult summarises one ingested file.
type IngestResult struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	ChunkCount int      `json:"chunks" yaml:"chunks"`
	Chunks     []string `json:"-" yaml:"-"`

	// Error is set when this file failed in a batch; other fields may be empty.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
