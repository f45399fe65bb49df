// Package chat talks to the retrieval-augmented chat service that answers
// free-text questions.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

const chatPath = "/chat"

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// ErrUpstreamStatus is returned when the chat service answers with a 4xx
// or 5xx status.
var ErrUpstreamStatus = errors.New("chat service returned an error status")

// StatusError carries the upstream status code.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error from chat service: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// Request is the body sent to the chat service.
type Request struct {
	Message string `json:"message"`
}

// Client posts messages to <BaseURL>/chat.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client whose outbound calls are recorded as New Relic
// external segments when the request context carries a transaction.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: newrelic.NewRoundTripper(nil),
		},
	}
}

// Ask forwards message and returns the service's JSON answer undecoded
// beyond syntax, so whatever shape it returns reaches the caller intact.
func (c *Client) Ask(ctx context.Context, message string) (json.RawMessage, error) {
	body, err := json.Marshal(Request{Message: message})
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("failed to parse JSON from chat service")
	}

	return json.RawMessage(raw), nil
}
