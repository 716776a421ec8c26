package conversation

import (
	"sync"

	"github.com/mykushyn/prismiq/internal/model"
)

// memoryStore is the in-memory Store implementation: a single mutex with
// short critical sections. Histories live only for the process lifetime.
type memoryStore struct {
	mu        sync.Mutex
	histories map[string][]model.ChatMessage
}

func NewMemoryStore() Store {
	return &memoryStore{histories: make(map[string][]model.ChatMessage)}
}

func (s *memoryStore) GetOrCreate(user string) []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.histories[user]; !ok {
		s.histories[user] = nil
	}
	return copyMessages(s.histories[user])
}

func (s *memoryStore) Append(user string, msg model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[user] = append(s.histories[user], msg)
}

func (s *memoryStore) AppendTurn(user string, userMsg, assistantMsg model.ChatMessage, maxLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.histories[user], userMsg, assistantMsg)
	s.histories[user] = trim(history, maxLen)
}

func (s *memoryStore) TrimTo(user string, maxLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if history, ok := s.histories[user]; ok {
		s.histories[user] = trim(history, maxLen)
	}
}

func (s *memoryStore) Get(user string) []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.histories[user])
}

func (s *memoryStore) Len(user string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories[user])
}

func (s *memoryStore) Remove(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, user)
}

func trim(history []model.ChatMessage, maxLen int) []model.ChatMessage {
	if maxLen >= 0 && len(history) > maxLen {
		return history[len(history)-maxLen:]
	}
	return history
}

func copyMessages(history []model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, len(history))
	copy(out, history)
	return out
}
