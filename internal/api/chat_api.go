package api

import (
	"context"
	"net/http"

	"storefront-client/internal/domain"
)

type ChatAPI interface {
	Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)
}

type chatAPI struct {
	doer Doer
}

func NewChatAPI(doer Doer) ChatAPI {
	return &chatAPI{doer: doer}
}

func (a *chatAPI) Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	var out domain.ChatReply
	if _, err := call(ctx, a.doer, http.MethodPost, "/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
