// Package memory holds mutex-guarded repositories for local runs and tests.
package memory

import "context"

// Store bundles the in-memory repositories.
type Store struct {
	Withdrawals   *WithdrawalRepo
	Audit         *AuditRepo
	Notifications *NotificationRepo
}

func NewStore() *Store {
	return &Store{
		Withdrawals:   NewWithdrawalRepo(),
		Audit:         NewAuditRepo(),
		Notifications: NewNotificationRepo(),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Name() string { return "memory" }
