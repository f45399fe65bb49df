package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/datagate/internal/lib/email"
	"github.com/hibiken/asynq"
)

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().Str("task", TaskWelcome).Str("to", p.To).Logger()

	if err := j.mailer.SendWelcomeEmail(ctx, p.To, p.Name); err != nil {
		// Retrying cannot help until an API key is configured.
		if errors.Is(err, email.ErrNotConfigured) {
			log.Warn().Msg("email delivery not configured, dropping welcome email")
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		log.Error().Err(err).Msg("failed to send welcome email")
		return err
	}

	log.Info().Msg("sent welcome email")
	return nil
}
