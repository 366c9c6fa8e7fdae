package service

import (
	"fmt"
	"strings"
	"sync"

	"storefront-client/internal/domain"
	"storefront-client/internal/repository"

	"github.com/google/uuid"
)

const maxSuggestions = 3

// ChatService is a keyword matcher standing in for the recommendation bot.
type ChatService struct {
	products repository.ProductRepository

	mu       sync.Mutex
	sessions map[string]int
}

func NewChatService(products repository.ProductRepository) *ChatService {
	return &ChatService{
		products: products,
		sessions: make(map[string]int),
	}
}

func (s *ChatService) Reply(req *domain.ChatRequest) (*domain.ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyChatMessage
	}

	s.mu.Lock()
	sessionID := req.SessionID
	if _, ok := s.sessions[sessionID]; !ok || sessionID == "" {
		sessionID = uuid.New().String()
	}
	s.sessions[sessionID] += 2
	historyLength := s.sessions[sessionID]
	s.mu.Unlock()

	matches, err := s.products.Search(keywords(message))
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	reply := &domain.ChatReply{
		SessionID:     sessionID,
		HistoryLength: historyLength,
	}
	if len(matches) == 0 {
		reply.Reply = "I could not find a matching product. Could you tell me more about what you need?"
		return reply, nil
	}

	names := make([]string, len(matches))
	for i, p := range matches {
		names[i] = p.Name
		reply.Products = append(reply.Products, p.ChatProduct())
	}
	reply.Reply = "You might like: " + strings.Join(names, ", ")
	return reply, nil
}

func keywords(message string) []string {
	var out []string
	for _, word := range strings.Fields(strings.ToLower(message)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if len(word) >= 3 {
			out = append(out, word)
		}
	}
	return out
}
