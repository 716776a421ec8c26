package prompt

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mykushyn/prismiq/internal/model"
)

// Budget keeps an outgoing request under the provider's token limit by
// dropping the oldest history messages from the request. The stored
// conversation is never touched; only the rendered message list shrinks.
type Budget struct {
	limit   int
	encoder *tiktoken.Tiktoken
}

// NewBudget resolves the tokenizer for the given model. When the encoding
// cannot be resolved (unknown model, missing vocabulary files) counting
// falls back to a rune-based estimate instead of failing.
func NewBudget(modelName string, limit int) *Budget {
	enc, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		slog.Warn("Token encoder unavailable, falling back to estimate", "model", modelName, "error", err)
		enc = nil
	}
	return &Budget{limit: limit, encoder: enc}
}

// Count returns the token count of the rendered messages.
func (b *Budget) Count(messages []model.ChatMessage) int {
	total := 0
	for _, msg := range messages {
		if b.encoder != nil {
			total += len(b.encoder.Encode(msg.Content, nil, nil))
		} else {
			total += len([]rune(msg.Content)) / 4
		}
		// Per-message framing overhead.
		total += 4
	}
	return total
}

// Fit drops the oldest non-system messages until the request is within the
// budget. System messages and the final user message always survive.
func (b *Budget) Fit(messages []model.ChatMessage) []model.ChatMessage {
	if b.limit <= 0 {
		return messages
	}
	for b.Count(messages) > b.limit {
		dropped := false
		for i, msg := range messages[:len(messages)-1] {
			if msg.Role != model.RoleSystem {
				messages = append(messages[:i], messages[i+1:]...)
				dropped = true
				break
			}
		}
		if !dropped {
			break
		}
	}
	return messages
}
