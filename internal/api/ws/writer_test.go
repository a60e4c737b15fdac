package ws_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/api/dto"
	"github.com/unifiedui/docchat-service/internal/api/ws"
	"github.com/unifiedui/docchat-service/internal/config"
)

type recordingConn struct {
	mu     sync.Mutex
	frames []*dto.OutgoingFrame
	err    error
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, v.(*dto.OutgoingFrame))
	return nil
}

func TestWriter_Frames(t *testing.T) {
	conn := &recordingConn{}
	w := ws.NewWriter(conn, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, w.WriteConnected("s-1"))
	w.PresentOptions(ctx, "App", "Hello", []string{"a", "b"}, "a")
	w.Notify(ctx, "working")
	w.StreamFragment(ctx, "Hi")
	w.CompleteStream(ctx, "Hi")
	w.WriteSettings(config.ModelSettings{Model: "b"})
	w.WriteError("TURN_IN_FLIGHT", "busy")

	types := make([]string, 0, len(conn.frames))
	for _, f := range conn.frames {
		types = append(types, f.Type)
	}
	assert.Equal(t, []string{
		dto.FrameConnected,
		dto.FrameWelcome,
		dto.FrameOptions,
		dto.FrameNotice,
		dto.FrameToken,
		dto.FrameStreamEnd,
		dto.FrameSettings,
		dto.FrameError,
	}, types)

	assert.Equal(t, "s-1", conn.frames[0].SessionID)
	assert.Equal(t, "App", conn.frames[1].AppName)
	assert.Equal(t, []string{"a", "b"}, conn.frames[2].Models)
	assert.Equal(t, "a", conn.frames[2].DefaultModel)
	assert.Equal(t, "b", conn.frames[6].Settings.Model)
	assert.Equal(t, "TURN_IN_FLIGHT", conn.frames[7].Code)
}

func TestWriter_DropsFailedWrites(t *testing.T) {
	conn := &recordingConn{err: assert.AnError}
	w := ws.NewWriter(conn, zerolog.Nop())

	assert.NotPanics(t, func() { w.Notify(context.Background(), "lost") })
	assert.ErrorIs(t, w.WriteConnected("s-1"), assert.AnError)
}

func TestWriter_ConcurrentWrites(t *testing.T) {
	conn := &recordingConn{}
	w := ws.NewWriter(conn, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.StreamFragment(context.Background(), "x")
		}()
	}
	wg.Wait()

	assert.Len(t, conn.frames, 20)
}
