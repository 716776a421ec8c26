package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mykushyn/prismiq/internal/conversation"
	"github.com/mykushyn/prismiq/internal/llm"
	"github.com/mykushyn/prismiq/internal/model"
	"github.com/mykushyn/prismiq/internal/prompt"
	"github.com/mykushyn/prismiq/internal/speech"
)

// ContextAssembler produces the retrieved context for a query.
type ContextAssembler interface {
	AssembleContext(query, bookName string) string
}

// TutorService orchestrates one conversation turn: retrieval, history,
// prompt rendering, the provider call, history bookkeeping and speech
// synthesis. The conversation store is only touched before and after the
// provider call; no lock is held across network traffic.
type TutorService struct {
	assembler    ContextAssembler
	store        conversation.Store
	completions  llm.CompletionProvider
	stream       llm.StreamProvider
	synthesizer  speech.Synthesizer
	transcriber  speech.Transcriber
	budget       *prompt.Budget
	historyLimit int

	// promptMu guards systemPrompt: the settings endpoint writes it while
	// hub workers read it mid-turn.
	promptMu     sync.RWMutex
	systemPrompt string
}

type TutorServiceDeps struct {
	Assembler   ContextAssembler
	Store       conversation.Store
	Completions llm.CompletionProvider
	Stream      llm.StreamProvider
	Synthesizer speech.Synthesizer
	Transcriber speech.Transcriber
	Budget      *prompt.Budget
}

func NewTutorService(deps TutorServiceDeps, historyLimit int, systemPrompt string) *TutorService {
	return &TutorService{
		assembler:    deps.Assembler,
		store:        deps.Store,
		completions:  deps.Completions,
		stream:       deps.Stream,
		synthesizer:  deps.Synthesizer,
		transcriber:  deps.Transcriber,
		budget:       deps.Budget,
		historyLimit: historyLimit,
		systemPrompt: systemPrompt,
	}
}

// SystemPrompt returns the override prompt, empty when the built-in tutor
// instructions are in effect.
func (s *TutorService) SystemPrompt() string {
	s.promptMu.RLock()
	defer s.promptMu.RUnlock()
	return s.systemPrompt
}

// SetSystemPrompt replaces the override prompt at runtime.
func (s *TutorService) SetSystemPrompt(p string) {
	s.promptMu.Lock()
	s.systemPrompt = p
	s.promptMu.Unlock()
}

// HandleUserMessage runs one blocking conversation turn for a user message.
//
// A provider failure never propagates: it is logged and turned into a
// clearly labeled reply so the learner sees what happened. Retrieval and
// speech failures degrade to "no context" and "no audio" respectively.
func (s *TutorService) HandleUserMessage(ctx context.Context, user, message, bookName string) model.Turn {
	contextText := s.assembler.AssembleContext(message, bookName)

	history := s.store.GetOrCreate(user)

	systemPrompt := s.SystemPrompt()
	if systemPrompt == "" {
		systemPrompt = prompt.BuildSystemPrompt(bookName)
	}
	messages := prompt.BuildRequestMessages(systemPrompt, contextText, history, message)
	if s.budget != nil {
		messages = s.budget.Fit(messages)
	}

	reply, err := s.completions.Complete(ctx, messages)
	if err != nil {
		reply = failureReply(err)
		slog.Error("Completion request failed", "user", user, "error", err)
	}

	s.store.AppendTurn(user,
		model.ChatMessage{Role: model.RoleUser, Content: message},
		model.ChatMessage{Role: model.RoleAssistant, Content: reply},
		s.historyLimit,
	)

	turn := model.Turn{Reply: reply}
	if s.synthesizer != nil {
		turn.Audio = s.synthesizer.Synthesize(ctx, reply)
		if turn.Audio == nil {
			slog.Info("No audio returned for assistant reply", "user", user)
		}
	}
	return turn
}

// HandleStreamingMessage relays realtime deltas for a user message. This
// path does not consult retrieved context or the conversation store and
// commits nothing to it, also when cancelled mid-stream.
func (s *TutorService) HandleStreamingMessage(ctx context.Context, message string, onText func(string), onAudio func([]byte)) error {
	if s.stream == nil {
		return errors.New("streaming is not configured")
	}
	return s.stream.Stream(ctx, message, onText, onAudio)
}

// TranscribeAudio converts learner audio to text. Empty audio or any
// provider failure yields an empty string; the caller decides whether an
// empty transcript is worth reporting.
func (s *TutorService) TranscribeAudio(ctx context.Context, audio []byte) string {
	if s.transcriber == nil {
		return ""
	}
	return s.transcriber.Transcribe(ctx, audio)
}

// History returns a copy of the user's conversation, empty if absent.
func (s *TutorService) History(user string) []model.ChatMessage {
	return s.store.Get(user)
}

// EndSession removes the user's conversation state. The transport calls
// this when the user's session ends so histories cannot leak.
func (s *TutorService) EndSession(user string) {
	s.store.Remove(user)
}

// failureReply formats a provider failure into the user-visible reply. The
// status code and body are included so a learner can report something
// actionable; the same detail is logged for diagnostics.
func failureReply(err error) string {
	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		return fmt.Sprintf("AI request failed: %d: %s", provErr.StatusCode, provErr.Body)
	}
	return fmt.Sprintf("AI request failed: %v", err)
}
