package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// StreamProvider defines the interface for the realtime streaming variant.
// Deltas are delivered through the callbacks in the order the provider sends
// them. Note that this path does not consult retrieved context or the
// conversation store; see DESIGN.md for why the gap is kept.
type StreamProvider interface {
	Stream(ctx context.Context, userMessage string, onText func(string), onAudio func([]byte)) error
}

// frame is one JSON envelope received from the realtime connection,
// discriminated by Type.
type frame struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

// inputTextEvent is the single outbound event opening a streaming turn.
type inputTextEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type realtimeProvider struct {
	url    string
	model  string
	apiKey string
	dialer *websocket.Dialer
}

// NewRealtimeProvider builds a streaming client for the provider's realtime
// WebSocket endpoint.
func NewRealtimeProvider(url, model, apiKey string) StreamProvider {
	return &realtimeProvider{
		url:    url,
		model:  model,
		apiKey: apiKey,
		dialer: websocket.DefaultDialer,
	}
}

// Stream opens the realtime connection, sends the user's message as one
// input_text event and relays deltas until the provider closes the
// connection or ctx is cancelled. Malformed or unknown frames are dropped
// silently; they occur transiently and must not end the stream.
func (p *realtimeProvider) Stream(ctx context.Context, userMessage string, onText func(string), onAudio func([]byte)) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	endpoint := p.url
	if p.model != "" {
		endpoint = fmt.Sprintf("%s?model=%s", p.url, p.model)
	}

	conn, resp, err := p.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return fmt.Errorf("could not open realtime connection: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Cancellation closes the socket, which unblocks ReadMessage and stops
	// further delta callbacks.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	if err := conn.WriteJSON(inputTextEvent{Type: "input_text", Text: userMessage}); err != nil {
		return fmt.Errorf("could not send initial event: %w", err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("realtime connection dropped: %w", err)
		}

		f, ok := parseFrame(data)
		if !ok {
			continue
		}
		switch f.Type {
		case "output_text.delta":
			onText(f.Text)
		case "output_audio.delta":
			audio, err := base64.StdEncoding.DecodeString(f.Audio)
			if err != nil {
				continue
			}
			onAudio(audio)
		}
	}
}

// parseFrame decodes one received envelope. The boolean result makes the
// drop-on-parse-failure policy explicit: a false return is a no-op
// continuation signal, not an error.
func parseFrame(data []byte) (frame, bool) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return frame{}, false
	}
	return f, true
}
