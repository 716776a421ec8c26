package interfaces

import (
	"context"

	"github.com/mykushyn/prismiq/internal/model"
)

// This file defines the interfaces for our core services. Depending on these
// interfaces, instead of concrete implementations, decouples the API layer
// from the service layer and makes testing via mocking straightforward.

// TutorService defines the contract for the tutoring business logic.
type TutorService interface {
	// HandleUserMessage runs one blocking turn: retrieval, completion,
	// history bookkeeping and optional speech synthesis.
	HandleUserMessage(ctx context.Context, user, message, bookName string) model.Turn

	// HandleStreamingMessage relays realtime deltas for a message.
	HandleStreamingMessage(ctx context.Context, message string, onText func(string), onAudio func([]byte)) error

	// TranscribeAudio converts learner audio to text, empty on failure.
	TranscribeAudio(ctx context.Context, audio []byte) string

	// History returns a copy of the user's conversation.
	History(user string) []model.ChatMessage

	// EndSession discards the user's conversation state.
	EndSession(user string)

	// SystemPrompt and SetSystemPrompt expose the runtime-tunable override
	// for the tutor instructions.
	SystemPrompt() string
	SetSystemPrompt(p string)
}
