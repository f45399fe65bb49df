package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/datagate/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, name string
	err      error
}

func (f *fakeMailer) SendWelcomeEmail(_ context.Context, to, name string) error {
	f.to, f.name = to, name
	return f.err
}

func newTestService(mailer WelcomeMailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: mailer, logger: &logger}
}

func TestNewWelcomeEmailTask(t *testing.T) {
	task, err := NewWelcomeEmailTask("ada@example.com", "Ada")
	require.NoError(t, err)

	assert.Equal(t, TaskWelcome, task.Type())

	var payload WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, WelcomeEmailPayload{To: "ada@example.com", Name: "Ada"}, payload)
}

func TestWelcomeEmailTask_SendsEmail(t *testing.T) {
	mailer := &fakeMailer{}
	service := newTestService(mailer)

	task, err := NewWelcomeEmailTask("ada@example.com", "Ada")
	require.NoError(t, err)

	require.NoError(t, service.Mux().ProcessTask(context.Background(), task))
	assert.Equal(t, "ada@example.com", mailer.to)
	assert.Equal(t, "Ada", mailer.name)
}

func TestWelcomeEmailTask_RetriesProviderErrors(t *testing.T) {
	providerErr := errors.New("provider down")
	service := newTestService(&fakeMailer{err: providerErr})

	task, _ := NewWelcomeEmailTask("ada@example.com", "Ada")
	err := service.Mux().ProcessTask(context.Background(), task)

	assert.ErrorIs(t, err, providerErr)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestWelcomeEmailTask_SkipsRetryWhenUnconfigured(t *testing.T) {
	service := newTestService(&fakeMailer{err: email.ErrNotConfigured})

	task, _ := NewWelcomeEmailTask("ada@example.com", "Ada")
	err := service.Mux().ProcessTask(context.Background(), task)

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestWelcomeEmailTask_BadPayload(t *testing.T) {
	service := newTestService(&fakeMailer{})

	err := service.Mux().ProcessTask(context.Background(), asynq.NewTask(TaskWelcome, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}
