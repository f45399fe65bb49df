package handler

import (
	"context"
	"encoding/json"

	"github.com/deppfellow/datagate/internal/server"
	"github.com/deppfellow/datagate/internal/validation"
	"github.com/labstack/echo/v4"
)

type ChatService interface {
	Ask(ctx context.Context, message string) (json.RawMessage, error)
}

type ChatHandler struct {
	Handler
	chat ChatService
}

func NewChatHandler(s *server.Server, chat ChatService) *ChatHandler {
	return &ChatHandler{
		Handler: NewHandler(s),
		chat:    chat,
	}
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

func (r *ChatRequest) Validate() error {
	return validation.Struct(r)
}

// Ask relays the message to the chat service and wraps its JSON answer as
// {"payload": ...}.
func (h *ChatHandler) Ask(c echo.Context, req *ChatRequest) (PayloadResponse, error) {
	answer, err := h.chat.Ask(c.Request().Context(), req.Message)
	if err != nil {
		return PayloadResponse{}, err
	}
	return PayloadResponse{Payload: answer}, nil
}
