package api

import "github.com/mykushyn/prismiq/internal/model"

// Wire contract for the WebSocket transport. Event names and payload shapes
// are fixed; clients dispatch on the type discriminator.

const (
	// Inbound event types.
	eventSendMessage   = "sendMessage"
	eventSendAudio     = "sendAudio"
	eventStreamMessage = "streamMessage"
	eventGetHistory    = "getConversationHistory"

	// Outbound event types.
	eventReceiveMessage = "receiveMessage"
	eventReceiveAudio   = "receiveAudio"
	eventHistory        = "conversationHistory"
	eventError          = "error"
)

// senderAI labels every assistant-originated outbound event.
const senderAI = "AI"

// inboundEvent is the envelope for every client-to-server event.
type inboundEvent struct {
	Type        string `json:"type"`
	User        string `json:"user"`
	Message     string `json:"message"`
	BookName    string `json:"bookName,omitempty"`
	AudioBase64 string `json:"audioBase64,omitempty"`
}

// audioRequest carries the validation rules for sendAudio events.
type audioRequest struct {
	User        string `validate:"required,min=1,max=128"`
	AudioBase64 string `validate:"required"`
}

// messageRequest carries the validation rules for sendMessage and
// streamMessage events.
type messageRequest struct {
	User    string `validate:"required,min=1,max=128"`
	Message string `validate:"required,min=1"`
}

// historyRequest carries the validation rules for getConversationHistory.
type historyRequest struct {
	User string `validate:"required,min=1,max=128"`
}

// outboundEvent is the envelope for every server-to-client event. Unused
// fields are omitted from the payload.
type outboundEvent struct {
	Type        string              `json:"type"`
	Sender      string              `json:"sender,omitempty"`
	Message     string              `json:"message,omitempty"`
	AudioBase64 string              `json:"audioBase64,omitempty"`
	User        string              `json:"user,omitempty"`
	Messages    []model.ChatMessage `json:"messages,omitempty"`
	Error       string              `json:"error,omitempty"`
}
