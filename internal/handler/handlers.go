package handler

import (
	"github.com/deppfellow/datagate/internal/server"
	"github.com/deppfellow/datagate/internal/service"
)

// Handlers groups every HTTP handler registered by the router.
type Handlers struct {
	Health *HealthHandler
	Users  *UserHandler
	Media  *MediaHandler
	Chat   *ChatHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(s),
		Users:  NewUserHandler(s, services.Users),
		Media:  NewMediaHandler(s, services.Media),
		Chat:   NewChatHandler(s, services.Chat),
	}
}
