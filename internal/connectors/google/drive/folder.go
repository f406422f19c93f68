package drive

import (
	"net/url"
	"strings"
)

// FolderIDFromURL extracts the folder id from a Drive folder link such as
// https://drive.google.com/drive/folders/<id>?usp=sharing. Returns "" when
// the link has no folders/ segment.
func FolderIDFromURL(link string) string {
	_, rest, found := strings.Cut(link, "folders/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(rest, "?")
	id, _, _ = strings.Cut(id, "/")
	id, _, _ = strings.Cut(id, "#")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	return id
}

// ResolveFolderID prefers an explicit id over one parsed from the link.
func ResolveFolderID(folderID, folderURL string) string {
	if id := strings.TrimSpace(folderID); id != "" {
		return id
	}
	return FolderIDFromURL(folderURL)
}

// SafeName reduces a remote file name to a single path element.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
