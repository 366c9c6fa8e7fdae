// Package session is the client's authentication module. It owns the
// persisted credential pair and publishes the "is authenticated" signal
// other components follow.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/go-playground/validator/v10"

	"storefront-client/internal/api"
	"storefront-client/internal/domain"
	"storefront-client/internal/storage"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Listener receives every transition of the authenticated signal.
type Listener func(ctx context.Context, authenticated bool)

type Session struct {
	auth     api.AuthAPI
	tokens   *storage.TokenManager
	validate *validator.Validate

	mu        sync.Mutex
	user      *domain.UserInfo
	listeners []Listener
}

func New(auth api.AuthAPI, tokens *storage.TokenManager) *Session {
	return &Session{
		auth:     auth,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// OnChange registers fn for future transitions.
func (s *Session) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Restore loads the cached profile and announces the persisted state.
// An access token is what makes the session authenticated.
func (s *Session) Restore(ctx context.Context) bool {
	user, err := s.tokens.User(ctx)
	if err != nil {
		log.Printf("[Session] Ignoring unreadable cached profile: %v", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	authenticated := s.IsAuthenticated(ctx)
	s.publish(ctx, authenticated)
	return authenticated
}

func (s *Session) IsAuthenticated(ctx context.Context) bool {
	return s.tokens.IsAuthenticated(ctx)
}

// User returns the cached profile, or nil.
func (s *Session) User() *domain.UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *Session) Login(ctx context.Context, email, password string) (*domain.UserInfo, error) {
	req := domain.LoginRequest{Email: email, Password: password}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid login request: %w", err)
	}

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, errors.New("failed to login: server returned no access token")
	}

	creds := domain.Credentials{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.tokens.SetTokens(ctx, creds); err != nil {
		return nil, err
	}

	user := resp.UserInfo
	if err := s.tokens.SetUser(ctx, &user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	log.Printf("[Session] Logged in as %s", user.Email)
	s.publish(ctx, true)
	return &user, nil
}

// Register creates the account. It does not log in.
func (s *Session) Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserInfo, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	user, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	log.Printf("[Session] Registered %s", user.Email)
	return user, nil
}

// Me refreshes the cached profile from the server.
func (s *Session) Me(ctx context.Context) (*domain.UserInfo, error) {
	if !s.IsAuthenticated(ctx) {
		return nil, ErrNotAuthenticated
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if err := s.tokens.SetUser(ctx, user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// Logout tells the server best-effort, then drops local credentials.
func (s *Session) Logout(ctx context.Context) error {
	if s.IsAuthenticated(ctx) {
		if err := s.auth.Logout(ctx); err != nil {
			log.Printf("[Session] Server logout failed: %v", err)
		}
	}

	if err := s.tokens.Clear(ctx); err != nil {
		return err
	}

	s.end(ctx)
	log.Printf("[Session] Logged out")
	return nil
}

// HandleSessionExpired is the gateway's logout callback. The gateway has
// already cleared the credentials.
func (s *Session) HandleSessionExpired(ctx context.Context) {
	log.Printf("[Session] Session expired, logging out")
	s.end(ctx)
}

func (s *Session) end(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.publish(ctx, false)
}

func (s *Session) publish(ctx context.Context, authenticated bool) {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, authenticated)
	}
}
