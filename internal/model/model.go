package model

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single entry in a conversation. Messages are immutable
// once created; ordering within a conversation is significant.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DocumentChunk is a bounded-length piece of a reference document, the unit
// of relevance scoring. Chunks are produced once at load time and never
// mutated afterwards.
type DocumentChunk struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Turn is the outcome of one user message: the assistant's reply plus
// optional synthesized audio for that reply.
type Turn struct {
	Reply string
	Audio []byte
}
