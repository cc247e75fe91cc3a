package queue

import (
	"context"
	"errors"
	"fmt"

	"pix-gateway/internal/core/domain"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer is the part of *asynq.Client the publisher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher implements ports.ReconciliationPublisher.
type Publisher struct {
	client Enqueuer
	log    zerolog.Logger
}

func NewPublisher(client Enqueuer, log zerolog.Logger) *Publisher {
	return &Publisher{client: client, log: log}
}

func (p *Publisher) PublishPix(ctx context.Context, evt domain.PixEvent) error {
	task, err := NewPixReceivedTask(evt)
	if err != nil {
		return fmt.Errorf("build pix task: %w", err)
	}
	return p.enqueue(ctx, task, evt.DedupeKey())
}

func (p *Publisher) PublishRecurrence(ctx context.Context, evt domain.RecurrenceEvent) error {
	task, err := NewRecurrenceTask(evt)
	if err != nil {
		return fmt.Errorf("build recurrence task: %w", err)
	}
	return p.enqueue(ctx, task, evt.DedupeKey())
}

func (p *Publisher) enqueue(ctx context.Context, task *asynq.Task, key string) error {
	info, err := p.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		p.log.Debug().Str("event_key", key).Msg("queue: event already enqueued")
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	p.log.Info().
		Str("task_id", info.ID).
		Str("type", task.Type()).
		Str("queue", info.Queue).
		Msg("queue: event enqueued")
	return nil
}
