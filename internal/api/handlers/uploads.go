package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unifiedui/docchat-service/internal/api/dto"
	"github.com/unifiedui/docchat-service/internal/api/middleware"
	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
)

// UploadsHandler stores attachments in the upload directory.
type UploadsHandler struct {
	dir      string
	maxBytes int64
}

// NewUploadsHandler creates a new UploadsHandler.
func NewUploadsHandler(dir string, maxBytes int64) *UploadsHandler {
	return &UploadsHandler{
		dir:      dir,
		maxBytes: maxBytes,
	}
}

// Upload handles POST /uploads.
// @Summary Upload an attachment
// @Description Stores a file for a later chat turn. The returned path is referenced in the message frame.
// @Tags Chat
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Attachment"
// @Success 201 {object} dto.UploadResponse "Stored attachment"
// @Failure 400 {object} dto.ErrorResponse "Missing file"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /api/v1/chat/uploads [post]
func (h *UploadsHandler) Upload(c *gin.Context) {
	logger := middleware.GetRequestLogger(c)

	if h.maxBytes > 0 {
		if c.Request.ContentLength > h.maxBytes {
			middleware.HandleError(c, domainerrors.NewPayloadTooLargeError(h.maxBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.HandleError(c, domainerrors.NewPayloadTooLargeError(h.maxBytes))
			return
		}
		middleware.HandleError(c, domainerrors.NewBadRequestError("file is required", err.Error()))
		return
	}

	name := filepath.Base(file.Filename)
	id := uuid.New().String() + filepath.Ext(name)
	path := filepath.Join(h.dir, id)

	if err := c.SaveUploadedFile(file, path); err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to store upload", err))
		return
	}

	logger.Info().Str("id", id).Str("name", name).Int64("size", file.Size).Msg("attachment uploaded")

	c.JSON(http.StatusCreated, dto.UploadResponse{
		ID:   id,
		Name: name,
		Path: path,
	})
}
