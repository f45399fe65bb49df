package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk_ForwardsMessageAndReturnsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"message":"what is penn"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Penn National is an insurer","chunks":[["a",0.9]]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 5*time.Second)
	raw, err := client.Ask(context.Background(), "what is penn")
	require.NoError(t, err)

	var answer map[string]any
	require.NoError(t, json.Unmarshal(raw, &answer))
	assert.Equal(t, "Penn National is an insurer", answer["message"])
}

func TestAsk_UpstreamErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"detail":"OpenAI API key not configured"}`, status)
			}))
			defer server.Close()

			_, err := NewClient(server.URL, time.Second).Ask(context.Background(), "hi")

			require.ErrorIs(t, err, ErrUpstreamStatus)
			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, status, statusErr.StatusCode)
		})
	}
}

func TestAsk_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Ask(context.Background(), "hi")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUpstreamStatus))
}

func TestAsk_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Ask(context.Background(), "hi")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUpstreamStatus))
}
