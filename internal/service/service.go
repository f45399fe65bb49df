// Package service holds the business operations behind each route.
//
// Services receive already-validated input from handlers, call repositories
// and client libraries, and translate their failures into *errs.HTTPError
// where the mapping depends on the operation.
package service

import (
	"github.com/deppfellow/datagate/internal/repository"
	"github.com/deppfellow/datagate/internal/server"
)

// Services groups every service handed to the handler layer.
type Services struct {
	Users *UserService
	Media *MediaService
	Chat  *ChatService
}

// NewServices wires the services on the server's shared clients.
func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Users: NewUserService(repos.Users, s.Job.Client, s.Logger),
		Media: NewMediaService(s.Storage),
		Chat:  NewChatService(s.Chat),
	}
}
