package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storefront-client/internal/domain"
)

const (
	KeyAccessToken   = "access_token"
	KeyRefreshToken  = "refresh_token"
	KeyUser          = "user"
	KeyChatSessionID = "chat_session_id"
	KeyDeviceID      = "device_id"
)

// TokenManager owns the credential pair and cached profile inside a KV.
type TokenManager struct {
	kv KV
}

func NewTokenManager(kv KV) *TokenManager {
	return &TokenManager{kv: kv}
}

func (m *TokenManager) SetTokens(ctx context.Context, creds domain.Credentials) error {
	if err := m.kv.Set(ctx, KeyAccessToken, creds.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := m.kv.Set(ctx, KeyRefreshToken, creds.RefreshToken); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// SetAccessToken replaces the access token in place after a refresh.
func (m *TokenManager) SetAccessToken(ctx context.Context, token string) error {
	if err := m.kv.Set(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	return nil
}

func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	return m.optional(ctx, KeyAccessToken)
}

func (m *TokenManager) RefreshToken(ctx context.Context) (string, error) {
	return m.optional(ctx, KeyRefreshToken)
}

func (m *TokenManager) Credentials(ctx context.Context) (domain.Credentials, error) {
	access, err := m.AccessToken(ctx)
	if err != nil {
		return domain.Credentials{}, err
	}
	refresh, err := m.RefreshToken(ctx)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *TokenManager) IsAuthenticated(ctx context.Context) bool {
	token, err := m.AccessToken(ctx)
	return err == nil && token != ""
}

// Clear drops both tokens and the cached profile.
func (m *TokenManager) Clear(ctx context.Context) error {
	if err := m.kv.Delete(ctx, KeyAccessToken, KeyRefreshToken, KeyUser); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (m *TokenManager) SetUser(ctx context.Context, user *domain.UserInfo) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := m.kv.Set(ctx, KeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// User returns nil without error when no profile is cached.
func (m *TokenManager) User(ctx context.Context) (*domain.UserInfo, error) {
	raw, err := m.optional(ctx, KeyUser)
	if err != nil || raw == "" {
		return nil, err
	}

	var user domain.UserInfo
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return &user, nil
}

func (m *TokenManager) optional(ctx context.Context, key string) (string, error) {
	value, err := m.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}

// DeviceID returns the persisted device id, minting one on first use.
func DeviceID(ctx context.Context, kv KV) (string, error) {
	id, err := kv.Get(ctx, KeyDeviceID)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}

	id = uuid.New().String()
	if err := kv.Set(ctx, KeyDeviceID, id); err != nil {
		return "", fmt.Errorf("failed to store device id: %w", err)
	}
	return id, nil
}
