// Package model holds the row types stored in PostgreSQL.
package model

import "github.com/deppfellow/datagate/internal/query"

// UsersTable is the base table of every user query.
const UsersTable = "users"

// Lookup keys accepted by the single-user endpoints.
const (
	UserIDField = "user_id"
	EmailField  = "email"
	NameField   = "name"
)

// User is one row of the users table. UserID is a uuid column scanned as
// its canonical text form.
type User struct {
	UserID string `db:"user_id" json:"user_id"`
	Email  string `db:"email" json:"email"`
	Name   string `db:"name" json:"name"`
}

// Record exposes the fixed output shape of a user, independent of which
// filters or ordering selected it.
func (u User) Record() query.Record {
	return query.Record{
		UserIDField: u.UserID,
		EmailField:  u.Email,
		NameField:   u.Name,
	}
}

// CreateUserInput carries the columns a client may set on insert.
type CreateUserInput struct {
	Email string
	Name  string
}
