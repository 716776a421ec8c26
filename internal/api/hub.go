package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"

	"github.com/mykushyn/prismiq/internal/interfaces"
)

// sendBuffer bounds the per-session outbound queue. A session that cannot
// drain fast enough gets events dropped rather than stalling the hub.
const sendBuffer = 32

// session is one connected WebSocket client. Writes go through the send
// channel so only the write pump touches the connection.
type session struct {
	id   string
	conn *websocket.Conn
	send chan outboundEvent

	// user is the identity bound to this session by its first sendMessage.
	// Guarded by the hub mutex.
	user string
}

// Hub tracks connected sessions and broadcasts assistant output to all of
// them, mirroring a hub-style transport where every client observes the
// whole classroom conversation.
type Hub struct {
	service  interfaces.TutorService
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session

	wg conc.WaitGroup
}

func NewHub(service interfaces.TutorService) *Hub {
	return &Hub{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*session),
	}
}

// HandleWS upgrades the request and runs the session until the client
// disconnects. On disconnect the session's bound user has their
// conversation state removed.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan outboundEvent, sendBuffer),
	}

	h.mu.Lock()
	h.sessions[sess.id] = sess
	h.mu.Unlock()
	slog.Info("Session connected", "session", sess.id)

	h.wg.Go(func() { h.writePump(sess) })
	h.readLoop(r.Context(), sess)
}

// Wait blocks until all session goroutines have finished. Used on shutdown.
func (h *Hub) Wait() {
	h.wg.Wait()
}

// readLoop dispatches inbound events until the connection drops, then tears
// the session down.
func (h *Hub) readLoop(ctx context.Context, sess *session) {
	defer h.drop(sess)

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Info("Session read ended", "session", sess.id, "error", err)
			}
			return
		}

		var ev inboundEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			h.sendTo(sess, outboundEvent{Type: eventError, Error: "invalid event payload"})
			continue
		}
		h.dispatch(ctx, sess, ev)
	}
}

func (h *Hub) dispatch(ctx context.Context, sess *session, ev inboundEvent) {
	switch ev.Type {
	case eventSendMessage:
		if err := validateRequest(messageRequest{User: ev.User, Message: ev.Message}); err != nil {
			h.sendTo(sess, outboundEvent{Type: eventError, Error: err.Error()})
			return
		}
		h.bindUser(sess, ev.User)

		// Echo the learner's message to everyone before the turn runs.
		h.broadcast(outboundEvent{Type: eventReceiveMessage, Sender: ev.User, Message: ev.Message})

		h.wg.Go(func() {
			turn := h.service.HandleUserMessage(ctx, ev.User, ev.Message, ev.BookName)
			h.broadcast(outboundEvent{Type: eventReceiveMessage, Sender: senderAI, Message: turn.Reply})
			if len(turn.Audio) > 0 {
				h.broadcast(outboundEvent{
					Type:        eventReceiveAudio,
					Sender:      senderAI,
					AudioBase64: base64.StdEncoding.EncodeToString(turn.Audio),
				})
			}
			h.reapIfDropped(sess)
		})

	case eventSendAudio:
		if err := validateRequest(audioRequest{User: ev.User, AudioBase64: ev.AudioBase64}); err != nil {
			h.sendTo(sess, outboundEvent{Type: eventError, Error: err.Error()})
			return
		}
		audio, err := base64.StdEncoding.DecodeString(ev.AudioBase64)
		if err != nil {
			h.sendTo(sess, outboundEvent{Type: eventError, Error: "invalid audio encoding"})
			return
		}
		h.bindUser(sess, ev.User)

		h.wg.Go(func() {
			text := h.service.TranscribeAudio(ctx, audio)
			if text == "" {
				h.sendTo(sess, outboundEvent{Type: eventError, Error: "could not transcribe audio"})
				return
			}
			h.broadcast(outboundEvent{Type: eventReceiveMessage, Sender: ev.User, Message: text})
			turn := h.service.HandleUserMessage(ctx, ev.User, text, ev.BookName)
			h.broadcast(outboundEvent{Type: eventReceiveMessage, Sender: senderAI, Message: turn.Reply})
			if len(turn.Audio) > 0 {
				h.broadcast(outboundEvent{
					Type:        eventReceiveAudio,
					Sender:      senderAI,
					AudioBase64: base64.StdEncoding.EncodeToString(turn.Audio),
				})
			}
			h.reapIfDropped(sess)
		})

	case eventStreamMessage:
		if err := validateRequest(messageRequest{User: ev.User, Message: ev.Message}); err != nil {
			h.sendTo(sess, outboundEvent{Type: eventError, Error: err.Error()})
			return
		}
		h.bindUser(sess, ev.User)
		h.broadcast(outboundEvent{Type: eventReceiveMessage, Sender: ev.User, Message: ev.Message})

		h.wg.Go(func() {
			err := h.service.HandleStreamingMessage(ctx, ev.Message,
				func(text string) {
					h.broadcast(outboundEvent{Type: eventReceiveMessage, Sender: senderAI, Message: text})
				},
				func(audio []byte) {
					h.broadcast(outboundEvent{
						Type:        eventReceiveAudio,
						Sender:      senderAI,
						AudioBase64: base64.StdEncoding.EncodeToString(audio),
					})
				},
			)
			if err != nil {
				slog.Error("Streaming turn failed", "session", sess.id, "error", err)
				h.sendTo(sess, outboundEvent{Type: eventError, Error: "streaming turn failed"})
			}
		})

	case eventGetHistory:
		if err := validateRequest(historyRequest{User: ev.User}); err != nil {
			h.sendTo(sess, outboundEvent{Type: eventError, Error: err.Error()})
			return
		}
		h.sendTo(sess, outboundEvent{
			Type:     eventHistory,
			User:     ev.User,
			Messages: h.service.History(ev.User),
		})

	default:
		h.sendTo(sess, outboundEvent{Type: eventError, Error: "unknown event type: " + ev.Type})
	}
}

// bindUser records the identity a session speaks for, so disconnect can
// clean up that user's conversation.
func (h *Hub) bindUser(sess *session, user string) {
	h.mu.Lock()
	sess.user = user
	h.mu.Unlock()
}

func (h *Hub) drop(sess *session) {
	h.mu.Lock()
	user := sess.user
	delete(h.sessions, sess.id)
	h.mu.Unlock()

	close(sess.send)
	sess.conn.Close()

	if user != "" {
		h.service.EndSession(user)
		slog.Info("Session closed, conversation removed", "session", sess.id, "user", user)
	} else {
		slog.Info("Session closed", "session", sess.id)
	}
}

// reapIfDropped removes the user's conversation when the session was torn
// down while a turn was still in flight. The turn's history append runs
// concurrently with drop and can re-create the entry after drop already
// removed it; checking the registry after the append closes that window.
// Either this or drop observes the other's work, so the entry cannot
// survive both.
func (h *Hub) reapIfDropped(sess *session) {
	h.mu.Lock()
	_, alive := h.sessions[sess.id]
	user := sess.user
	h.mu.Unlock()

	if !alive && user != "" {
		h.service.EndSession(user)
		slog.Info("Removed conversation left by a turn that outlived its session", "session", sess.id, "user", user)
	}
}

// broadcast queues an event for every connected session.
func (h *Hub) broadcast(ev outboundEvent) {
	h.mu.Lock()
	targets := make([]*session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		targets = append(targets, sess)
	}
	h.mu.Unlock()

	for _, sess := range targets {
		h.sendTo(sess, ev)
	}
}

// sendTo queues an event for one session, dropping it if the session is
// gone or its buffer is full. The registry check and the channel send happen
// under the hub lock so a send can never race the close in drop.
func (h *Hub) sendTo(sess *session, ev outboundEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[sess.id]; !ok {
		return
	}
	select {
	case sess.send <- ev:
	default:
		slog.Warn("Dropping event for slow session", "session", sess.id, "type", ev.Type)
	}
}

func (h *Hub) writePump(sess *session) {
	for ev := range sess.send {
		if err := sess.conn.WriteJSON(ev); err != nil {
			slog.Info("Session write failed", "session", sess.id, "error", err)
			return
		}
	}
}
