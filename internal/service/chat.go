package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/deppfellow/datagate/internal/errs"
	"github.com/deppfellow/datagate/internal/lib/chat"
)

// ChatAsker is satisfied by *chat.Client.
type ChatAsker interface {
	Ask(ctx context.Context, message string) (json.RawMessage, error)
}

// ChatService proxies questions to the chat service.
type ChatService struct {
	client ChatAsker
}

func NewChatService(client ChatAsker) *ChatService {
	return &ChatService{client: client}
}

// Ask returns the chat service's answer. An error status from the chat
// service is reported to the caller as a 400.
func (s *ChatService) Ask(ctx context.Context, message string) (json.RawMessage, error) {
	answer, err := s.client.Ask(ctx, message)
	if err != nil {
		var statusErr *chat.StatusError
		if errors.As(err, &statusErr) {
			return nil, errs.NewBadRequestError(statusErr.Error(), true, errs.Ptr(errs.CodeUpstreamError), nil)
		}
		return nil, err
	}
	return answer, nil
}
