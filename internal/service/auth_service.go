package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/internal/repository"
	"storefront-client/pkg/hash"
	"storefront-client/pkg/jwt"

	"github.com/google/uuid"
)

// AuthService issues tokens for the stub backend. Access token ids are
// tracked so a test can revoke them and force a client refresh.
type AuthService struct {
	userRepo          repository.UserRepository
	jwtSecret         string
	jwtExpiration     time.Duration
	refreshExpiration time.Duration
	bcryptCost        int

	mu      sync.Mutex
	issued  map[string]string
	revoked map[string]bool
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExp, refreshExp time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		jwtSecret:         jwtSecret,
		jwtExpiration:     jwtExp,
		refreshExpiration: refreshExp,
		bcryptCost:        bcryptCost,
		issued:            make(map[string]string),
		revoked:           make(map[string]bool),
	}
}

func (s *AuthService) Register(req *domain.RegisterRequest) (*domain.UserInfo, error) {
	emailExists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if emailExists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := hash.HashWithCost(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		UserInfo: domain.UserInfo{
			ID:       uuid.New().String(),
			FullName: req.FullName,
			Email:    req.Email,
			Role:     "customer",
		},
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	info := user.UserInfo
	return &info, nil
}

func (s *AuthService) Login(req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := hash.Compare(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.issueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(user.ID, s.refreshExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.LoginResponse{
		UserInfo:     user.UserInfo,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) RefreshToken(req *domain.RefreshTokenRequest) (*domain.TokenResponse, error) {
	claims, err := jwt.ValidateTokenType(req.RefreshToken, s.jwtSecret, jwt.TypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if _, err := s.userRepo.FindByID(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}

	accessToken, err := s.issueAccessToken(claims.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.TokenResponse{AccessToken: accessToken}, nil
}

// ValidateAccessToken accepts only live access tokens this service issued.
func (s *AuthService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateTokenType(token, s.jwtSecret, jwt.TypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issued[claims.ID]; !ok || s.revoked[claims.ID] {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RevokeAccessTokens invalidates every access token issued to userID so far.
// Refresh tokens stay valid.
func (s *AuthService) RevokeAccessTokens(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, owner := range s.issued {
		if owner == userID && !s.revoked[id] {
			s.revoked[id] = true
			n++
		}
	}
	log.Printf("[Auth] Revoked %d access tokens for user %s", n, userID)
	return n
}

func (s *AuthService) Logout(userID string) {
	s.RevokeAccessTokens(userID)
}

func (s *AuthService) Me(userID string) (*domain.UserInfo, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	info := user.UserInfo
	return &info, nil
}

func (s *AuthService) issueAccessToken(userID string) (string, error) {
	token, err := jwt.GenerateToken(userID, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	claims, err := jwt.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to read issued token: %w", err)
	}

	s.mu.Lock()
	s.issued[claims.ID] = userID
	s.mu.Unlock()

	return token, nil
}
