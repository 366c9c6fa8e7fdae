// Package chat is the product-advice chat widget. The conversation id the
// server hands out is persisted so a restarted client resumes the thread.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"storefront-client/internal/api"
	"storefront-client/internal/domain"
	"storefront-client/internal/storage"
)

var ErrEmptyMessage = errors.New("message is empty")

const (
	RoleUser = "user"
	RoleBot  = "bot"

	Welcome       = "Hi! I can help you pick the right product. What are you looking for?"
	FallbackReply = "Sorry, something went wrong on my side. Please try again later."
)

type Message struct {
	Role     string
	Content  string
	Products []domain.ChatProduct
}

type Service struct {
	api      api.ChatAPI
	kv       storage.KV
	validate *validator.Validate

	mu      sync.Mutex
	history []Message
}

func NewService(chatAPI api.ChatAPI, kv storage.KV) *Service {
	return &Service{
		api:      chatAPI,
		kv:       kv,
		validate: validator.New(),
		history:  []Message{{Role: RoleBot, Content: Welcome}},
	}
}

// Send posts text and records both sides of the exchange. A failed call
// still records the fallback reply.
func (s *Service) Send(ctx context.Context, text string) (*domain.ChatReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	sessionID, err := s.SessionID(ctx)
	if err != nil {
		return nil, err
	}

	req := domain.ChatRequest{Message: text, SessionID: sessionID}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid chat message: %w", err)
	}

	s.append(Message{Role: RoleUser, Content: text})

	reply, err := s.api.Send(ctx, req)
	if err != nil {
		s.append(Message{Role: RoleBot, Content: FallbackReply})
		return nil, fmt.Errorf("failed to send chat message: %w", err)
	}

	if reply.SessionID != "" && reply.SessionID != sessionID {
		if err := s.kv.Set(ctx, storage.KeyChatSessionID, reply.SessionID); err != nil {
			return nil, fmt.Errorf("failed to store chat session: %w", err)
		}
	}

	s.append(Message{Role: RoleBot, Content: reply.Reply, Products: reply.Products})
	return reply, nil
}

// SessionID returns the persisted conversation id, or "" before the first reply.
func (s *Service) SessionID(ctx context.Context) (string, error) {
	id, err := s.kv.Get(ctx, storage.KeyChatSessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read chat session: %w", err)
	}
	return id, nil
}

// Reset forgets the conversation on both sides of the client.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storage.KeyChatSessionID); err != nil {
		return fmt.Errorf("failed to reset chat session: %w", err)
	}

	s.mu.Lock()
	s.history = []Message{{Role: RoleBot, Content: Welcome}}
	s.mu.Unlock()
	return nil
}

func (s *Service) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Service) append(m Message) {
	s.mu.Lock()
	s.history = append(s.history, m)
	s.mu.Unlock()
}
