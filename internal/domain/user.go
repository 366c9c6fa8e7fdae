package domain

import "time"

type UserInfo struct {
	ID       string `json:"_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"isRole"`
}

// User is the stub backend's stored account; Password holds the bcrypt hash.
type User struct {
	UserInfo
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	UserInfo
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Credentials is the client's persisted token pair. Without an access token
// the session is unauthenticated whatever the refresh token says.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

func (c Credentials) Authenticated() bool {
	return c.AccessToken != ""
}
