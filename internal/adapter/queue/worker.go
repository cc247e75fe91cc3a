package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/apperror"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Worker handles reconciliation tasks.
type Worker struct {
	reconciler ports.ReconciliationService
	log        zerolog.Logger
}

func NewWorker(reconciler ports.ReconciliationService, log zerolog.Logger) *Worker {
	return &Worker{reconciler: reconciler, log: log}
}

func (w *Worker) HandlePixReceived(ctx context.Context, t *asynq.Task) error {
	var evt domain.PixEvent
	if err := json.Unmarshal(t.Payload(), &evt); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.result(w.reconciler.ReconcilePix(ctx, evt), t)
}

func (w *Worker) HandleRecurrence(ctx context.Context, t *asynq.Task) error {
	var evt domain.RecurrenceEvent
	if err := json.Unmarshal(t.Payload(), &evt); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.result(w.reconciler.ReconcileRecurrence(ctx, evt), t)
}

// result stops retries for events that can never be applied.
func (w *Worker) result(err error, t *asynq.Task) error {
	if err == nil {
		return nil
	}
	if apperror.HasCode(err, apperror.CodeValidation) {
		w.log.Warn().Err(err).Str("type", t.Type()).Msg("queue: dropping malformed event")
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return err
}

// NewServeMux routes both task types to w.
func NewServeMux(w *Worker) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePixReceived, w.HandlePixReceived)
	mux.HandleFunc(TypeRecurrence, w.HandleRecurrence)
	return mux
}

// NewServer creates the asynq server for the reconcile queue.
func NewServer(redisOpt asynq.RedisConnOpt, concurrency int, log zerolog.Logger) *asynq.Server {
	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueReconcile: 1},
		Logger:      asynqLogger{log: log},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Error().Err(err).
				Str("type", task.Type()).
				Int("retry", retried).
				Int("max_retry", maxRetry).
				Msg("queue: task failed")
		}),
	})
}

// asynqLogger routes asynq's logging to zerolog.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
