// Package ws provides the websocket transport for chat sessions.
package ws

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/unifiedui/docchat-service/internal/api/dto"
	"github.com/unifiedui/docchat-service/internal/config"
)

// FrameWriter is the write side of a websocket connection.
// *websocket.Conn satisfies it.
type FrameWriter interface {
	WriteJSON(v interface{}) error
}

// Writer writes JSON frames to a websocket connection. It implements
// session.Transport and streamer.Output.
//
// Writes are fire-and-forget: a failed write is logged and dropped, and
// the read side notices the broken connection.
type Writer struct {
	mu     sync.Mutex
	conn   FrameWriter
	logger zerolog.Logger
}

// NewWriter creates a new websocket writer.
func NewWriter(conn FrameWriter, logger zerolog.Logger) *Writer {
	return &Writer{
		conn:   conn,
		logger: logger,
	}
}

// WriteFrame writes a single frame.
func (w *Writer) WriteFrame(frame *dto.OutgoingFrame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(frame)
}

// WriteConnected announces the connection ID.
func (w *Writer) WriteConnected(sessionID string) error {
	return w.WriteFrame(&dto.OutgoingFrame{Type: dto.FrameConnected, SessionID: sessionID})
}

// WriteError sends an error frame.
func (w *Writer) WriteError(code, message string) {
	w.send(&dto.OutgoingFrame{Type: dto.FrameError, Code: code, Content: message})
}

// WriteSettings acknowledges a settings change.
func (w *Writer) WriteSettings(settings config.ModelSettings) {
	w.send(&dto.OutgoingFrame{Type: dto.FrameSettings, Settings: &settings})
}

// Notify sends a notice.
func (w *Writer) Notify(ctx context.Context, text string) {
	w.send(&dto.OutgoingFrame{Type: dto.FrameNotice, Content: text})
}

// StreamFragment sends one streamed fragment.
func (w *Writer) StreamFragment(ctx context.Context, text string) {
	w.send(&dto.OutgoingFrame{Type: dto.FrameToken, Content: text})
}

// CompleteStream marks the end of the reply with its full text.
func (w *Writer) CompleteStream(ctx context.Context, text string) {
	w.send(&dto.OutgoingFrame{Type: dto.FrameStreamEnd, Content: text})
}

// PresentOptions sends the welcome text followed by the model options.
func (w *Writer) PresentOptions(ctx context.Context, appName, welcome string, models []string, defaultModel string) {
	w.send(&dto.OutgoingFrame{Type: dto.FrameWelcome, AppName: appName, Content: welcome})
	w.send(&dto.OutgoingFrame{Type: dto.FrameOptions, Models: models, DefaultModel: defaultModel})
}

func (w *Writer) send(frame *dto.OutgoingFrame) {
	if err := w.WriteFrame(frame); err != nil {
		w.logger.Debug().Err(err).Str("frame", frame.Type).Msg("failed to write websocket frame")
	}
}
