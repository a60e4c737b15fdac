package models

import (
	"path/filepath"
)

// UnknownFileType is reported for attachments without an extension.
const UnknownFileType = "unknown"

// Attachment references an uploaded file waiting in the upload directory.
type Attachment struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Ext returns the extension of the backing file, including the dot.
func (a Attachment) Ext() string {
	return filepath.Ext(a.Path)
}

// FileType returns the extension of the backing file or UnknownFileType.
func (a Attachment) FileType() string {
	if ext := a.Ext(); ext != "" {
		return ext
	}
	return UnknownFileType
}

// AttachmentResult is the outcome of ingesting one attachment.
type AttachmentResult struct {
	Name    string
	Text    string
	Err     error
	Tokens  int
	Omitted bool
	Skipped bool
}

// Included reports whether the document text made it into the bundle.
func (r AttachmentResult) Included() bool {
	return r.Err == nil && !r.Omitted && !r.Skipped
}
