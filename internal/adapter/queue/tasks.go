// Package queue carries authenticated webhook events from the gateway to the
// reconciliation worker over asynq.
package queue

import (
	"encoding/json"
	"time"

	"pix-gateway/internal/core/domain"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypePixReceived = "pix:received"
	TypeRecurrence  = "pix:recurrence"
)

// QueueReconcile is the asynq queue both task types go to.
const QueueReconcile = "reconcile"

const (
	taskMaxRetry  = 10
	taskRetention = 24 * time.Hour
	taskTimeout   = 2 * time.Minute
)

func NewPixReceivedTask(evt domain.PixEvent) (*asynq.Task, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePixReceived, data, taskOptions(evt.DedupeKey())...), nil
}

func NewRecurrenceTask(evt domain.RecurrenceEvent) (*asynq.Task, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRecurrence, data, taskOptions(evt.DedupeKey())...), nil
}

// taskOptions keys the task by the event so a redelivered webhook is not
// enqueued twice while the first copy is still retained.
func taskOptions(key string) []asynq.Option {
	return []asynq.Option{
		asynq.TaskID(key),
		asynq.Queue(QueueReconcile),
		asynq.MaxRetry(taskMaxRetry),
		asynq.Retention(taskRetention),
		asynq.Timeout(taskTimeout),
	}
}
