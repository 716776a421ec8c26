package api_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mykushyn/prismiq/internal/api"
	"github.com/mykushyn/prismiq/internal/conversation"
	"github.com/mykushyn/prismiq/internal/interfaces/mocks"
	"github.com/mykushyn/prismiq/internal/model"
	"github.com/mykushyn/prismiq/internal/service"
)

// wsEvent mirrors the outbound wire envelope for assertions.
type wsEvent struct {
	Type        string              `json:"type"`
	Sender      string              `json:"sender"`
	Message     string              `json:"message"`
	AudioBase64 string              `json:"audioBase64"`
	User        string              `json:"user"`
	Messages    []model.ChatMessage `json:"messages"`
	Error       string              `json:"error"`
}

type hubFixture struct {
	service *mocks.MockTutorService
	server  *httptest.Server
	conn    *websocket.Conn
}

// setupHub starts the full router around a mocked service and connects one
// WebSocket client to it.
func setupHub(t *testing.T) hubFixture {
	t.Helper()
	mockSvc := mocks.NewMockTutorService(t)
	hub := api.NewHub(mockSvc)
	router := api.NewRouter(hub, api.NewChatHandler(mockSvc))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	return hubFixture{service: mockSvc, server: server, conn: conn}
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func receive(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev wsEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestHub_SendMessageEchoesThenBroadcastsReplyAndAudio(t *testing.T) {
	fx := setupHub(t)

	fx.service.On("HandleUserMessage", mock.Anything, "alice", "What is a cell?", "biology").
		Return(model.Turn{Reply: "Let's explore that.", Audio: []byte("mp3")}).Once()
	// The cleanup close tears the session down, which removes the user.
	fx.service.On("EndSession", "alice").Maybe()

	send(t, fx.conn, `{"type":"sendMessage","user":"alice","message":"What is a cell?","bookName":"biology"}`)

	echo := receive(t, fx.conn)
	assert.Equal(t, "receiveMessage", echo.Type)
	assert.Equal(t, "alice", echo.Sender)
	assert.Equal(t, "What is a cell?", echo.Message)

	reply := receive(t, fx.conn)
	assert.Equal(t, "receiveMessage", reply.Type)
	assert.Equal(t, "AI", reply.Sender)
	assert.Equal(t, "Let's explore that.", reply.Message)

	audio := receive(t, fx.conn)
	assert.Equal(t, "receiveAudio", audio.Type)
	assert.Equal(t, "AI", audio.Sender)
	decoded, err := base64.StdEncoding.DecodeString(audio.AudioBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), decoded)
}

func TestHub_BroadcastReachesAllSessions(t *testing.T) {
	fx := setupHub(t)

	// A second observer connected to the same hub.
	wsURL := "ws" + strings.TrimPrefix(fx.server.URL, "http") + "/ws"
	observer, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer observer.Close()

	fx.service.On("HandleUserMessage", mock.Anything, "alice", "ping", "").
		Return(model.Turn{Reply: "pong"}).Once()
	// The cleanup close tears the session down, which removes the user.
	fx.service.On("EndSession", "alice").Maybe()

	send(t, fx.conn, `{"type":"sendMessage","user":"alice","message":"ping"}`)

	echo := receive(t, observer)
	assert.Equal(t, "ping", echo.Message)
	reply := receive(t, observer)
	assert.Equal(t, "pong", reply.Message)
}

func TestHub_GetConversationHistoryAnswersCallerOnly(t *testing.T) {
	fx := setupHub(t)

	history := []model.ChatMessage{
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi"},
	}
	fx.service.On("History", "alice").Return(history).Once()

	send(t, fx.conn, `{"type":"getConversationHistory","user":"alice"}`)

	ev := receive(t, fx.conn)
	assert.Equal(t, "conversationHistory", ev.Type)
	assert.Equal(t, "alice", ev.User)
	assert.Equal(t, history, ev.Messages)
}

func TestHub_SendAudioTranscribesThenRunsTurn(t *testing.T) {
	fx := setupHub(t)

	audio := base64.StdEncoding.EncodeToString([]byte("voice-note"))
	fx.service.On("TranscribeAudio", mock.Anything, []byte("voice-note")).
		Return("what produces energy").Once()
	fx.service.On("HandleUserMessage", mock.Anything, "alice", "what produces energy", "").
		Return(model.Turn{Reply: "Think about organelles."}).Once()
	// The cleanup close tears the session down, which removes the user.
	fx.service.On("EndSession", "alice").Maybe()

	send(t, fx.conn, `{"type":"sendAudio","user":"alice","audioBase64":"`+audio+`"}`)

	echo := receive(t, fx.conn)
	assert.Equal(t, "what produces energy", echo.Message)
	assert.Equal(t, "alice", echo.Sender)

	reply := receive(t, fx.conn)
	assert.Equal(t, "Think about organelles.", reply.Message)
}

func TestHub_StreamMessageRelaysDeltas(t *testing.T) {
	fx := setupHub(t)

	fx.service.On("HandleStreamingMessage", mock.Anything, "stream this", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			onText := args.Get(2).(func(string))
			onText("delta one")
			onText("delta two")
		}).
		Return(nil).Once()
	// The cleanup close tears the session down, which removes the user.
	fx.service.On("EndSession", "alice").Maybe()

	send(t, fx.conn, `{"type":"streamMessage","user":"alice","message":"stream this"}`)

	echo := receive(t, fx.conn)
	assert.Equal(t, "stream this", echo.Message)

	first := receive(t, fx.conn)
	assert.Equal(t, "delta one", first.Message)
	second := receive(t, fx.conn)
	assert.Equal(t, "delta two", second.Message)
}

func TestHub_InvalidEventsGetErrorWithoutClosingConnection(t *testing.T) {
	fx := setupHub(t)

	send(t, fx.conn, `not json at all`)
	ev := receive(t, fx.conn)
	assert.Equal(t, "error", ev.Type)

	send(t, fx.conn, `{"type":"sendMessage","user":"","message":""}`)
	ev = receive(t, fx.conn)
	assert.Equal(t, "error", ev.Type)
	assert.Contains(t, ev.Error, "validation")

	send(t, fx.conn, `{"type":"mystery"}`)
	ev = receive(t, fx.conn)
	assert.Equal(t, "error", ev.Type)
	assert.Contains(t, ev.Error, "unknown event type")
}

func TestHub_DisconnectRemovesTheBoundUsersConversation(t *testing.T) {
	fx := setupHub(t)

	fx.service.On("HandleUserMessage", mock.Anything, "alice", "hello", "").
		Return(model.Turn{Reply: "hi"}).Once()

	// Teardown may call EndSession twice when a turn worker observes the
	// drop; the channel asserts it happens at least once.
	removed := make(chan string, 2)
	fx.service.On("EndSession", "alice").Run(func(args mock.Arguments) {
		removed <- args.String(0)
	}).Maybe()

	send(t, fx.conn, `{"type":"sendMessage","user":"alice","message":"hello"}`)
	// Drain the echo and the reply so the turn is complete before closing.
	receive(t, fx.conn)
	receive(t, fx.conn)

	require.NoError(t, fx.conn.Close())

	select {
	case user := <-removed:
		assert.Equal(t, "alice", user)
	case <-time.After(3 * time.Second):
		t.Fatal("EndSession was never called after disconnect")
	}
}

// blockingCompleter parks the turn inside the provider call until released,
// so tests can disconnect the client mid-turn.
type blockingCompleter struct {
	entered chan struct{}
	release chan struct{}
}

func (c *blockingCompleter) Complete(ctx context.Context, _ []model.ChatMessage) (string, error) {
	close(c.entered)
	<-c.release
	return "late reply", nil
}

type emptyAssembler struct{}

func (emptyAssembler) AssembleContext(query, bookName string) string { return "" }

func TestHub_DisconnectDuringTurnLeavesNoConversationBehind(t *testing.T) {
	completer := &blockingCompleter{entered: make(chan struct{}), release: make(chan struct{})}
	store := conversation.NewMemoryStore()
	tutor := service.NewTutorService(service.TutorServiceDeps{
		Assembler:   emptyAssembler{},
		Store:       store,
		Completions: completer,
	}, 20, "")

	hub := api.NewHub(tutor)
	server := httptest.NewServer(api.NewRouter(hub, api.NewChatHandler(tutor)))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	send(t, conn, `{"type":"sendMessage","user":"alice","message":"hello"}`)

	// Disconnect while the provider call is still in flight; teardown clears
	// the conversation the turn opened.
	<-completer.entered
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return store.Len("alice") == 0 }, 3*time.Second, 10*time.Millisecond)

	// Releasing the provider lets the turn commit its messages. The late
	// append must not leave a conversation behind for a session that is gone.
	close(completer.release)
	hub.Wait()
	assert.Equal(t, 0, store.Len("alice"))
}
