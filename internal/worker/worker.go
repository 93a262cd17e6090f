// Package worker implements background rate refresh tasks.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"currencyconverter/internal/rates"
	"currencyconverter/internal/service"
)

// TaskTypeRefreshRates is the asynq task type for a rate refresh.
const TaskTypeRefreshRates = "rates:refresh"

// RefreshPayload is the body of a rates:refresh task.
type RefreshPayload struct {
	Base string `json:"base"`
}

// NewRefreshTask builds a rates:refresh task for base.
func NewRefreshTask(base string, opts ...asynq.Option) (*asynq.Task, error) {
	code, err := rates.NormalizeCode(base)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(RefreshPayload{Base: code})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRefreshRates, data, opts...), nil
}

// ErrRefreshServedStored is returned by the refresh handler when the upstream
// fetch failed and the service answered with the stored snapshot instead.
var ErrRefreshServedStored = errors.New("refresh served stored rates")

// NewRefreshHandler returns a function to handle rate refresh tasks. A malformed
// payload is logged and dropped. A refresh that could not reach any upstream is
// returned as an error so asynq retries it, including when stored rates were
// served in its place.
func NewRefreshHandler(svc service.RateServiceInterface, logger *zap.SugaredLogger) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Errorw("Invalid task payload", "type", t.Type(), "error", err)
			return nil
		}
		if !rates.IsValidCurrencyCode(payload.Base) {
			logger.Errorw("Invalid base in task payload", "type", t.Type(), "base", payload.Base)
			return nil
		}

		start := time.Now()
		snap, err := svc.FetchRates(ctx, payload.Base)
		if err != nil {
			logger.Errorw("Rate refresh failed", "base", payload.Base, "error", err)
			return err
		}
		if snap.FetchedBefore(start) {
			logger.Warnw("Rate refresh fell back to stored rates", "base", payload.Base,
				"date", snap.Date, "fetched_at", snap.FetchedAt())
			return fmt.Errorf("%w for %s (fetched at %s)", ErrRefreshServedStored, payload.Base, snap.FetchedAt().Format(time.RFC3339))
		}

		logger.Infow("Rate refresh completed", "base", payload.Base, "date", snap.Date)
		return nil
	}
}

// AsynqEnqueuer is responsible for enqueuing tasks to an Asynq queue with specific configurations for retries and timeouts.
type AsynqEnqueuer struct {
	client   *asynq.Client
	maxRetry int
	timeout  time.Duration
}

// NewAsynqEnqueuer creates a new AsynqEnqueuer with the given client, retry limit, and task timeout duration.
func NewAsynqEnqueuer(client *asynq.Client, maxRetry int, timeout time.Duration) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client:   client,
		maxRetry: maxRetry,
		timeout:  timeout,
	}
}

// EnqueueRefresh enqueues a rate refresh for base and returns the task ID.
func (e *AsynqEnqueuer) EnqueueRefresh(ctx context.Context, base string) (string, error) {
	task, err := NewRefreshTask(base, asynq.MaxRetry(e.maxRetry), asynq.Timeout(e.timeout))
	if err != nil {
		return "", err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TaskTypeRefreshRates, err)
	}
	return info.ID, nil
}

// RegisterWarmups registers a periodic refresh of every base on cronSpec, a cron
// expression or an "@every <duration>" descriptor.
func RegisterWarmups(scheduler *asynq.Scheduler, cronSpec string, bases []string, maxRetry int, timeout time.Duration) error {
	for _, base := range bases {
		task, err := NewRefreshTask(base, asynq.MaxRetry(maxRetry), asynq.Timeout(timeout))
		if err != nil {
			return fmt.Errorf("warm base %q: %w", base, err)
		}
		if _, err := scheduler.Register(cronSpec, task); err != nil {
			return fmt.Errorf("register refresh for %s on %q: %w", base, cronSpec, err)
		}
	}
	return nil
}
