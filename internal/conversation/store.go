package conversation

import (
	"github.com/mykushyn/prismiq/internal/model"
)

// Store is a concurrency-safe mapping from user identity to a bounded
// conversation history. The store exclusively owns the histories it holds;
// Get hands out copies, never references into the store.
//
// For a single user all mutating operations are linearized. Implementations
// must never hold an internal lock across a network call made by a caller,
// which the interface guarantees structurally: every operation returns
// before any provider traffic happens.
type Store interface {
	// GetOrCreate ensures an entry exists for the user and returns a copy
	// of its current history.
	GetOrCreate(user string) []model.ChatMessage

	// Append adds one message to the user's history, creating the entry if
	// it does not exist yet.
	Append(user string, msg model.ChatMessage)

	// AppendTurn adds the user/assistant message pair of one completed turn
	// in a single critical section and trims the history to maxLen.
	AppendTurn(user string, userMsg, assistantMsg model.ChatMessage, maxLen int)

	// TrimTo drops the oldest messages until the history holds at most
	// maxLen entries. Trimming is FIFO by message; it may strand an
	// assistant message from its paired user message.
	TrimTo(user string, maxLen int)

	// Get returns a copy of the user's history, empty if absent.
	Get(user string) []model.ChatMessage

	// Len reports the current history length, zero if absent.
	Len(user string) int

	// Remove deletes the user's entry. Called by the transport when the
	// user's session ends so entries cannot outlive their sessions.
	Remove(user string)
}
