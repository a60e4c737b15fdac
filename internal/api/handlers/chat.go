package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/docchat-service/internal/api/dto"
	"github.com/unifiedui/docchat-service/internal/api/ws"
	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
	"github.com/unifiedui/docchat-service/internal/services/session"
)

// DefaultMaxFrameBytes caps a single client frame when no limit is configured.
const DefaultMaxFrameBytes = 4 << 20

// ChatHandlerConfig holds chat handler configuration.
type ChatHandlerConfig struct {
	// UploadDir is the sandbox attachments are resolved against.
	UploadDir string
	// AllowOrigins lists accepted browser origins. Empty or "*" allows any.
	AllowOrigins []string
	// MaxFrameBytes is the largest client frame accepted. Larger frames
	// close the connection.
	MaxFrameBytes int64
}

// ChatHandler serves chat sessions over websocket. Each connection is
// one session.
type ChatHandler struct {
	orchestrator  *session.Orchestrator
	registry      *session.Registry
	uploadDir     string
	origins       map[string]bool
	maxFrameBytes int64
	upgrader      websocket.Upgrader
	logger        zerolog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(orchestrator *session.Orchestrator, registry *session.Registry, cfg *ChatHandlerConfig) *ChatHandler {
	if cfg == nil {
		cfg = &ChatHandlerConfig{}
	}

	h := &ChatHandler{
		orchestrator:  orchestrator,
		registry:      registry,
		uploadDir:     cfg.UploadDir,
		origins:       make(map[string]bool, len(cfg.AllowOrigins)),
		maxFrameBytes: cfg.MaxFrameBytes,
		logger:        log.Logger.With().Str("component", "chat").Logger(),
	}
	if h.maxFrameBytes <= 0 {
		h.maxFrameBytes = DefaultMaxFrameBytes
	}
	for _, o := range cfg.AllowOrigins {
		h.origins[o] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *ChatHandler) checkOrigin(r *http.Request) bool {
	if len(h.origins) == 0 || h.origins["*"] {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients.
		return true
	}
	return h.origins[origin]
}

// ServeWS handles GET /ws.
// @Summary Chat websocket
// @Description Upgrades to a websocket carrying one chat session. Client frames are {type: message|settings|end, content, attachments, model}.
// @Tags Chat
// @Success 101 "Switching protocols"
// @Failure 403 "Origin not allowed"
// @Router /api/v1/chat/ws [get]
func (h *ChatHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.maxFrameBytes)

	id := uuid.New().String()
	logger := h.logger.With().Str("session_id", id).Logger()

	s, err := h.registry.Open(id)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open session")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	defer func() {
		h.registry.Close(id)
		h.orchestrator.End(ctx, s)
		logger.Info().Msg("websocket disconnected")
	}()

	writer := ws.NewWriter(conn, logger)
	if err := writer.WriteConnected(id); err != nil {
		logger.Warn().Err(err).Msg("failed to send connected frame")
		return
	}
	if err := h.orchestrator.Start(ctx, s, writer); err != nil {
		logger.Error().Err(err).Msg("failed to start session")
		return
	}

	frames := readFrames(ctx, cancel, conn, writer, logger)
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok || !h.dispatch(ctx, s, writer, frame, logger) {
				return
			}
		}
	}
}

// readFrames reads client frames until the connection fails, then
// cancels ctx so a turn in flight stops.
func readFrames(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, writer *ws.Writer, logger zerolog.Logger) <-chan dto.IncomingFrame {
	frames := make(chan dto.IncomingFrame)

	go func() {
		defer close(frames)
		defer cancel()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				switch {
				case errors.Is(err, websocket.ErrReadLimit):
					logger.Warn().Msg("client frame exceeds read limit, closing")
				case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
					logger.Warn().Err(err).Msg("websocket closed unexpectedly")
				}
				return
			}

			var frame dto.IncomingFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				writer.WriteError(domainerrors.ErrCodeBadRequest, "invalid frame: send JSON with a type field")
				continue
			}

			select {
			case frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frames
}

// dispatch handles one frame and reports whether the session continues.
func (h *ChatHandler) dispatch(ctx context.Context, s *session.Session, writer *ws.Writer, frame dto.IncomingFrame, logger zerolog.Logger) bool {
	switch frame.Type {
	case dto.FrameMessage:
		err := h.orchestrator.HandleTurn(ctx, s, writer, session.Turn{
			Content:     frame.Content,
			Attachments: dto.ToAttachments(frame.Attachments, h.uploadDir),
		})
		reportTurnError(writer, err, logger)

	case dto.FrameSettings:
		settings, err := h.orchestrator.UpdateSettings(ctx, s, frame.Model)
		if err != nil {
			writeDomainError(writer, err, logger)
			return true
		}
		writer.WriteSettings(settings)

	case dto.FrameEnd:
		return false

	default:
		writer.WriteError(domainerrors.ErrCodeBadRequest, "unsupported frame type: "+frame.Type)
	}
	return true
}

func reportTurnError(writer *ws.Writer, err error, logger zerolog.Logger) {
	switch {
	case err == nil:
	case domainerrors.IsClientError(err):
		// The user already saw the notice.
		logger.Warn().Err(err).Msg("turn failed at the model backend")
	case errors.Is(err, context.Canceled):
		logger.Debug().Msg("turn cancelled by disconnect")
	default:
		writeDomainError(writer, err, logger)
	}
}

func writeDomainError(writer *ws.Writer, err error, logger zerolog.Logger) {
	if domainErr, ok := domainerrors.GetDomainError(err); ok {
		writer.WriteError(domainErr.Code, domainErr.Message)
		return
	}
	logger.Error().Err(err).Msg("unhandled chat error")
	writer.WriteError(domainerrors.ErrCodeInternal, "internal server error")
}
