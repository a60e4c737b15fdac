package dto

import (
	"path/filepath"

	"github.com/unifiedui/docchat-service/internal/domain/models"
)

// Incoming websocket frame types.
const (
	FrameMessage  = "message"
	FrameSettings = "settings"
	FrameEnd      = "end"
)

// IncomingFrame is a frame sent by the client over the websocket.
type IncomingFrame struct {
	Type        string          `json:"type"`
	Content     string          `json:"content,omitempty"`
	Attachments []AttachmentRef `json:"attachments,omitempty"`
	Model       string          `json:"model,omitempty"`
}

// AttachmentRef points at a previously uploaded file.
type AttachmentRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// ToAttachments converts the references to attachments. A reference
// without a path resolves to its ID inside the upload directory.
func ToAttachments(refs []AttachmentRef, uploadDir string) []models.Attachment {
	if len(refs) == 0 {
		return nil
	}

	attachments := make([]models.Attachment, 0, len(refs))
	for _, ref := range refs {
		path := ref.Path
		if path == "" && ref.ID != "" {
			path = filepath.Join(uploadDir, ref.ID)
		}
		attachments = append(attachments, models.Attachment{Name: ref.Name, Path: path})
	}
	return attachments
}
