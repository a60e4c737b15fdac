package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/docchat-service/internal/config"
	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
	"github.com/unifiedui/docchat-service/internal/domain/models"
	"github.com/unifiedui/docchat-service/internal/domain/prompts"
	"github.com/unifiedui/docchat-service/internal/services/ingest"
	"github.com/unifiedui/docchat-service/internal/services/llm"
	"github.com/unifiedui/docchat-service/internal/services/session"
	"github.com/unifiedui/docchat-service/internal/services/streamer"
	"github.com/unifiedui/docchat-service/tests/mocks"
	"github.com/unifiedui/docchat-service/tests/testutils"
)

type harness struct {
	sandbox      string
	counter      *mocks.FixedCounter
	converter    *mocks.MockConverter
	client       *mocks.MockLLMClient
	sink         *mocks.MockSink
	transport    *mocks.MockTransport
	orchestrator *session.Orchestrator
	catalog      *config.ModelCatalog
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	chat := testutils.NewTestChatConfig(t)
	h := &harness{
		sandbox:   t.TempDir(),
		counter:   mocks.NewFixedCounter(),
		converter: &mocks.MockConverter{},
		client:    &mocks.MockLLMClient{},
		sink:      &mocks.MockSink{},
		transport: mocks.NewMockTransport(),
		catalog:   chat.Catalog(),
	}

	logger := zerolog.Nop()
	ingestor, err := ingest.NewIngestor(&ingest.Config{
		SandboxDir: h.sandbox,
		Whitelist:  chat.FileFormatWhitelist,
		Converter:  h.converter,
		Counter:    h.counter,
		Logger:     &logger,
	})
	require.NoError(t, err)

	s, err := streamer.NewStreamer(&streamer.Config{Client: h.client, Logger: &logger})
	require.NoError(t, err)

	h.orchestrator, err = session.NewOrchestrator(&session.Config{
		Catalog:  h.catalog,
		Texts:    chat.Chat,
		Ingestor: ingestor,
		Streamer: s,
		Counter:  h.counter,
		Sink:     h.sink,
		Logger:   &logger,
	})
	require.NoError(t, err)
	return h
}

func (h *harness) start(t *testing.T, id string) *session.Session {
	t.Helper()
	s := session.NewSession(id)
	require.NoError(t, h.orchestrator.Start(context.Background(), s, h.transport))
	return s
}

func TestNewOrchestrator_Validation(t *testing.T) {
	_, err := session.NewOrchestrator(nil)
	assert.EqualError(t, err, "config is required")

	_, err = session.NewOrchestrator(&session.Config{})
	assert.EqualError(t, err, "model catalog is required")
}

func TestStart_PresentsOptionsAndInitializes(t *testing.T) {
	h := newHarness(t)
	s := h.start(t, testutils.TestSessionID)

	assert.Equal(t, session.StateActive, s.State())
	assert.Equal(t, "small", s.Settings().Model)
	assert.Equal(t, 100, s.Settings().MaxInputTokens)
	require.NotNil(t, s.Tracker())

	msgs := s.History().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.NewSystemMessage("sys"), msgs[0])

	events := h.transport.Events()
	require.Len(t, events, 1)
	assert.Equal(t, mocks.EventOptions, events[0].Kind)
	assert.Equal(t, "Test Chat", events[0].AppName)
	assert.Equal(t, "Hi there", events[0].Text)
	assert.Equal(t, []string{"small", "large"}, events[0].Models)
	assert.Equal(t, "small", events[0].DefaultModel)

	err := h.orchestrator.Start(context.Background(), s, h.transport)
	assert.True(t, domainerrors.IsInvalidState(err))
}

func TestHandleTurn_DocumentEndToEnd(t *testing.T) {
	h := newHarness(t)
	s := h.start(t, testutils.TestSessionID)

	att := testutils.WriteAttachment(t, h.sandbox, "notes.txt", "Hello world")

	bundleText := prompts.DocumentItem("notes.txt", "Hello world")
	merged := prompts.DocumentProcessing("Summarize this", bundleText)
	h.counter.Set("Summarize this", 3).Set("Hello world", 2).Set(bundleText, 12).Set(merged, 40)

	h.client.On("StreamChat", mock.Anything, mock.MatchedBy(func(req *llm.ChatRequest) bool {
		last := req.Messages[len(req.Messages)-1]
		return len(req.Messages) == 2 &&
			last.Role == models.RoleUser &&
			last.Content == merged &&
			req.Model == "small" &&
			req.MaxOutputTokens == 64
	})).Return(mocks.NewMockStream("A ", "greeting."), nil).Once()

	err := h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{
		Content:     "Summarize this",
		Attachments: []models.Attachment{att},
	})
	require.NoError(t, err)
	h.client.AssertExpectations(t)

	msgs := s.History().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, merged, msgs[1].Content)
	assert.Equal(t, models.NewAssistantMessage("A greeting."), msgs[2])

	assert.Equal(t, []string{prompts.DocumentProcessingStatus, prompts.DocumentSuccess}, h.transport.Texts(mocks.EventNotice))
	assert.Equal(t, "A greeting.", h.transport.Streamed())
	assert.NoFileExists(t, att.Path)

	summary := s.Tracker().Summary()
	assert.Equal(t, 1, summary.UserMessageCount)
	assert.Equal(t, 3, summary.UserTotalTokens)
	assert.Equal(t, 1, summary.AttachedDocCount)
	assert.Equal(t, map[string]int{".txt": 1}, summary.AttachedDocTypes)
	assert.Equal(t, []int{12}, summary.AttachedDocTokenCounts)
}

func TestHandleTurn_ClientErrorKeepsUserMessage(t *testing.T) {
	h := newHarness(t)
	s := h.start(t, testutils.TestSessionID)
	cause := errors.New("backend down")

	h.client.On("StreamChat", mock.Anything, mock.Anything).Return(nil, cause).Once()
	err := h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "hi"})
	require.Error(t, err)
	assert.True(t, domainerrors.IsClientError(err))

	msgs := s.History().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.NewUserMessage("hi"), msgs[1])
	assert.Equal(t, []string{prompts.ModelError(cause)}, h.transport.Texts(mocks.EventNotice))

	// The session stays usable.
	h.client.On("StreamChat", mock.Anything, mock.Anything).Return(mocks.NewMockStream("ok"), nil).Once()
	require.NoError(t, h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "again"}))
	assert.Equal(t, 4, s.History().Len())
}

func TestHandleTurn_TrimNotifiesOnce(t *testing.T) {
	h := newHarness(t)
	s := h.start(t, testutils.TestSessionID)
	h.counter.Set("sys", 5).Set("first", 60).Set("r1", 30).Set("second", 50).Set("r2", 1)

	h.client.On("StreamChat", mock.Anything, mock.Anything).Return(mocks.NewMockStream("r1"), nil).Once()
	require.NoError(t, h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "first"}))
	assert.Empty(t, h.transport.Texts(mocks.EventNotice))

	h.client.On("StreamChat", mock.Anything, mock.MatchedBy(func(req *llm.ChatRequest) bool {
		return len(req.Messages) == 3 &&
			req.Messages[0].IsSystem() &&
			req.Messages[1].Content == "r1" &&
			req.Messages[2].Content == "second"
	})).Return(mocks.NewMockStream("r2"), nil).Once()
	require.NoError(t, h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "second"}))

	assert.Equal(t, []string{prompts.ContextTrimmed}, h.transport.Texts(mocks.EventNotice))
	h.client.AssertExpectations(t)
}

func TestHandleTurn_SingleFlight(t *testing.T) {
	h := newHarness(t)
	s := h.start(t, testutils.TestSessionID)

	started := make(chan struct{})
	release := make(chan struct{})
	stream := mocks.NewMockStream("slow")
	stream.OnNext = func(i int) {
		if i == 0 {
			close(started)
			<-release
		}
	}
	h.client.On("StreamChat", mock.Anything, mock.Anything).Return(stream, nil).Once()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "one"})
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first turn did not start streaming")
	}

	err := h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "two"})
	assert.True(t, domainerrors.IsTurnInFlight(err))

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	msgs := s.History().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[1].Content)
}

func TestHandleTurn_RequiresActiveSession(t *testing.T) {
	h := newHarness(t)

	err := h.orchestrator.HandleTurn(context.Background(), session.NewSession("new"), h.transport, session.Turn{Content: "hi"})
	assert.True(t, domainerrors.IsInvalidState(err))

	h.sink.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s := h.start(t, testutils.TestSessionID)
	h.orchestrator.End(context.Background(), s)

	err = h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "hi"})
	assert.True(t, domainerrors.IsInvalidState(err))
}

func TestUpdateSettings(t *testing.T) {
	h := newHarness(t)
	s := h.start(t, testutils.TestSessionID)
	h.client.On("StreamChat", mock.Anything, mock.Anything).Return(mocks.NewMockStream("r"), nil).Once()
	require.NoError(t, h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "q"}))
	before := s.History().Messages()

	settings, err := h.orchestrator.UpdateSettings(context.Background(), s, "large")
	require.NoError(t, err)
	assert.Equal(t, config.ModelSettings{Model: "large", MaxInputTokens: 10000, MaxOutputTokens: 512, Temperature: 0}, settings)
	assert.Equal(t, settings, s.Settings())
	assert.Equal(t, before, s.History().Messages())

	settings, err = h.orchestrator.UpdateSettings(context.Background(), s, "missing")
	require.NoError(t, err)
	assert.Equal(t, "small", settings.Model)

	_, err = h.orchestrator.UpdateSettings(context.Background(), session.NewSession("new"), "large")
	assert.True(t, domainerrors.IsInvalidState(err))
}

func TestEnd_RecordsAnalyticsOnce(t *testing.T) {
	h := newHarness(t)
	s := h.start(t, testutils.TestSessionID)
	h.counter.Set("ten", 10).Set("twenty", 20)

	h.client.On("StreamChat", mock.Anything, mock.Anything).Return(mocks.NewMockStream("r"), nil).Twice()
	require.NoError(t, h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "ten"}))
	require.NoError(t, h.orchestrator.HandleTurn(context.Background(), s, h.transport, session.Turn{Content: "twenty"}))

	h.sink.On("Record", mock.Anything, session.SessionAnalyticsEvent, mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["session_id"] == testutils.TestSessionID &&
			fields["user_message_count"] == 2 &&
			fields["user_total_tokens"] == 30 &&
			fields["user_avg_tokens"] == 15.0
	})).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.orchestrator.End(ctx, s)
	h.orchestrator.End(ctx, s)

	assert.Equal(t, session.StateEnded, s.State())
	h.sink.AssertExpectations(t)
	h.sink.AssertNumberOfCalls(t, "Record", 1)
}

func TestEnd_WithoutAnalyticsWarnsOnly(t *testing.T) {
	h := newHarness(t)
	s := session.NewSession("never-started")

	h.orchestrator.End(context.Background(), s)

	assert.Equal(t, session.StateEnded, s.State())
	h.sink.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnd_SinkFailureIsNotPropagated(t *testing.T) {
	h := newHarness(t)
	s := h.start(t, testutils.TestSessionID)
	h.sink.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()

	assert.NotPanics(t, func() { h.orchestrator.End(context.Background(), s) })
	h.sink.AssertExpectations(t)
}
