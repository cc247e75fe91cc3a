package service

import (
	"context"
	"errors"
	"testing"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/internal/core/ports/mocks"
	"pix-gateway/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type reconciliationMocks struct {
	repo      *mocks.MockWithdrawalRepository
	lifecycle *mocks.MockWithdrawalService
	audit     *mocks.MockAuditService
	dedupe    *mocks.MockEventDeduper
	charges   *mocks.MockChargeSettler
}

func setupReconciliationService(t *testing.T) (ports.ReconciliationService, *reconciliationMocks) {
	ctrl := gomock.NewController(t)
	m := &reconciliationMocks{
		repo:      mocks.NewMockWithdrawalRepository(ctrl),
		lifecycle: mocks.NewMockWithdrawalService(ctrl),
		audit:     mocks.NewMockAuditService(ctrl),
		dedupe:    mocks.NewMockEventDeduper(ctrl),
		charges:   mocks.NewMockChargeSettler(ctrl),
	}
	svc := NewReconciliationService(m.repo, m.lifecycle, m.audit, m.dedupe, m.charges, newTestLogger())
	return svc, m
}

func samplePixEvent() domain.PixEvent {
	return domain.PixEvent{EndToEndID: "E0908935620260310120000000000009", Amount: 123456}
}

func TestReconciliationService_ReconcilePix_CompletesProcessing(t *testing.T) {
	svc, m := setupReconciliationService(t)
	w := sampleWithdrawal(domain.WithdrawalStatusProcessing)
	evt := samplePixEvent()
	evt.SendID = w.SendID()

	m.dedupe.EXPECT().MarkSeen(gomock.Any(), evt.DedupeKey(), EventDedupeTTL).Return(true, nil)
	m.repo.EXPECT().GetBySendID(gomock.Any(), w.SendID()).Return(w, nil)
	m.lifecycle.EXPECT().Settle(gomock.Any(), gomock.Any(), w, gomock.Any()).DoAndReturn(
		func(ctx context.Context, rc domain.RequestContext, _ *domain.WithdrawalRequest, result ports.PixSendResult) (*domain.WithdrawalRequest, error) {
			assert.Equal(t, domain.ActorTypeSystem, rc.ActorType)
			assert.Equal(t, w.TenantID, rc.TenantID)
			assert.Equal(t, evt.EndToEndID, result.EndToEndID)
			return w, nil
		},
	)

	require.NoError(t, svc.ReconcilePix(context.Background(), evt))
}

func TestReconciliationService_ReconcilePix_FallsBackToEndToEnd(t *testing.T) {
	svc, m := setupReconciliationService(t)
	w := sampleWithdrawal(domain.WithdrawalStatusCompleted)
	evt := samplePixEvent()

	m.dedupe.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	m.repo.EXPECT().GetByEndToEndID(gomock.Any(), evt.EndToEndID).Return(w, nil)
	m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in ports.AuditInput) *domain.AuditLogEntry {
			assert.Equal(t, domain.AuditActionReconcile, in.Action)
			assert.Equal(t, w.ID.String(), in.ResourceID)
			assert.Equal(t, true, in.Metadata["amount_matches"])
			return &domain.AuditLogEntry{}
		},
	)

	require.NoError(t, svc.ReconcilePix(context.Background(), evt))
}

func TestReconciliationService_ReconcilePix_UnmatchedGoesToCharges(t *testing.T) {
	svc, m := setupReconciliationService(t)
	evt := samplePixEvent()
	evt.TxID = "cobranca123"

	m.dedupe.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	m.repo.EXPECT().GetByEndToEndID(gomock.Any(), evt.EndToEndID).Return(nil, nil)
	m.charges.EXPECT().SettleCharge(gomock.Any(), evt).Return(nil)

	require.NoError(t, svc.ReconcilePix(context.Background(), evt))
}

func TestReconciliationService_ReconcilePix_DuplicateIsSkipped(t *testing.T) {
	svc, m := setupReconciliationService(t)

	m.dedupe.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	require.NoError(t, svc.ReconcilePix(context.Background(), samplePixEvent()))
}

func TestReconciliationService_ReconcilePix_FailureForgetsKey(t *testing.T) {
	svc, m := setupReconciliationService(t)
	evt := samplePixEvent()
	dbErr := errors.New("connection refused")

	m.dedupe.EXPECT().MarkSeen(gomock.Any(), evt.DedupeKey(), gomock.Any()).Return(true, nil)
	m.repo.EXPECT().GetByEndToEndID(gomock.Any(), gomock.Any()).Return(nil, dbErr)
	m.dedupe.EXPECT().Forget(gomock.Any(), evt.DedupeKey()).Return(nil)

	err := svc.ReconcilePix(context.Background(), evt)
	assert.ErrorIs(t, err, dbErr)
}

func TestReconciliationService_ReconcilePix_ConcurrentSettleIsFine(t *testing.T) {
	svc, m := setupReconciliationService(t)
	w := sampleWithdrawal(domain.WithdrawalStatusProcessing)
	evt := samplePixEvent()

	m.dedupe.EXPECT().MarkSeen(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	m.repo.EXPECT().GetByEndToEndID(gomock.Any(), gomock.Any()).Return(w, nil)
	m.lifecycle.EXPECT().Settle(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrConcurrentModification())

	require.NoError(t, svc.ReconcilePix(context.Background(), evt))
}

func TestReconciliationService_ReconcilePix_RequiresEndToEnd(t *testing.T) {
	svc, _ := setupReconciliationService(t)

	err := svc.ReconcilePix(context.Background(), domain.PixEvent{})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestReconciliationService_ReconcileRecurrence(t *testing.T) {
	svc, m := setupReconciliationService(t)
	evt := domain.RecurrenceEvent{RecurrenceID: "RR1234567820260310abc", Status: "APROVADA"}

	m.dedupe.EXPECT().MarkSeen(gomock.Any(), "rec:RR1234567820260310abc:APROVADA", gomock.Any()).Return(true, nil)
	m.charges.EXPECT().SettleRecurrence(gomock.Any(), evt).Return(nil)

	require.NoError(t, svc.ReconcileRecurrence(context.Background(), evt))

	err := svc.ReconcileRecurrence(context.Background(), domain.RecurrenceEvent{RecurrenceID: "x"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestChargeLedger_AuditsPayments(t *testing.T) {
	ctrl := gomock.NewController(t)
	audit := mocks.NewMockAuditService(ctrl)
	ledger := NewChargeLedger(audit, newTestLogger())

	audit.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in ports.AuditInput) *domain.AuditLogEntry {
			assert.Equal(t, domain.AuditActionChargePaid, in.Action)
			assert.Equal(t, domain.ResourceCharge, in.ResourceType)
			assert.Equal(t, "cobranca123", in.ResourceID)
			return &domain.AuditLogEntry{}
		},
	)
	evt := samplePixEvent()
	evt.TxID = "cobranca123"
	require.NoError(t, ledger.SettleCharge(context.Background(), evt))

	audit.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in ports.AuditInput) *domain.AuditLogEntry {
			assert.Equal(t, domain.AuditActionRecurrence, in.Action)
			assert.Equal(t, "RR1", in.ResourceID)
			return &domain.AuditLogEntry{}
		},
	)
	require.NoError(t, ledger.SettleRecurrence(context.Background(), domain.RecurrenceEvent{RecurrenceID: "RR1", Status: "CANCELADA"}))
}
