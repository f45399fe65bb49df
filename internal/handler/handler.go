// Package handler is the HTTP layer: it binds and validates requests, calls
// the service layer and shapes the response bodies.
package handler

import "github.com/deppfellow/datagate/internal/query"

// PayloadResponse wraps read results as {"payload": ...}.
type PayloadResponse struct {
	Payload any `json:"payload"`
}

// CreatedResponse is the body returned after an insert.
type CreatedResponse struct {
	Res  string       `json:"res"`
	Data query.Record `json:"data"`
}

const resultSuccess = "success"
