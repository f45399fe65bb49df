// Package repository runs every statement the service sends to PostgreSQL.
//
// Reads go through the query package, which validates caller-supplied
// identifiers and binds caller-supplied values; repositories add the fixed
// table, timing and metrics around it.
package repository

import (
	"github.com/deppfellow/datagate/internal/server"
)

// Repositories groups the repository instances handed to the service layer.
type Repositories struct {
	Users *UserRepository
}

// NewRepositories builds every repository on the server's shared pool.
func NewRepositories(s *server.Server) *Repositories {
	var slowQuery = s.Config.Observability.Logging.SlowQueryThreshold

	return &Repositories{
		Users: NewUserRepository(s.DB.Pool, s.Metrics.Queries, s.Logger, slowQuery),
	}
}
