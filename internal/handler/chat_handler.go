package handler

import (
	"net/http"

	"storefront-client/internal/domain"
	"storefront-client/internal/service"
	"storefront-client/pkg/response"

	"github.com/go-playground/validator/v10"
)

type ChatHandler struct {
	chatService *service.ChatService
	validator   *validator.Validate
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validator:   validator.New(),
	}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	reply, err := h.chatService.Reply(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, reply)
}
