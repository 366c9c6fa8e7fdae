package api

import (
	"context"
	"net/http"

	"storefront-client/internal/domain"
)

type AuthAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserInfo, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.UserInfo, error)
}

type authAPI struct {
	doer Doer
}

func NewAuthAPI(doer Doer) AuthAPI {
	return &authAPI{doer: doer}
}

func (a *authAPI) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	var out domain.LoginResponse
	if _, err := call(ctx, a.doer, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *authAPI) Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserInfo, error) {
	var out domain.UserInfo
	if _, err := call(ctx, a.doer, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *authAPI) Logout(ctx context.Context) error {
	_, err := call(ctx, a.doer, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

func (a *authAPI) Me(ctx context.Context) (*domain.UserInfo, error) {
	var out domain.UserInfo
	if _, err := call(ctx, a.doer, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
