package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pix-gateway/internal/adapter/storage/memory"
	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/internal/core/ports/mocks"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/retry"
	"pix-gateway/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type withdrawalFixture struct {
	svc    ports.WithdrawalService
	store  *memory.Store
	psp    *mocks.MockDisbursementClient
	tenant uuid.UUID
	user   domain.RequestContext
	admin  domain.RequestContext
}

func testWithdrawalConfig() WithdrawalConfig {
	return WithdrawalConfig{
		MinAmount:   100,
		MaxAmount:   1000000,
		PayerPixKey: "tesouraria@gateway.example",
		Retry:       retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond},
	}
}

func setupWithdrawalService(t *testing.T, repo ports.WithdrawalRepository, cfg WithdrawalConfig) *withdrawalFixture {
	return setupWithdrawalServiceForTenant(t, repo, cfg, uuid.New())
}

func setupWithdrawalServiceForTenant(t *testing.T, repo ports.WithdrawalRepository, cfg WithdrawalConfig, tenant uuid.UUID) *withdrawalFixture {
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	if repo == nil {
		repo = store.Withdrawals
	}
	psp := mocks.NewMockDisbursementClient(ctrl)
	log := newTestLogger()
	counters := telemetry.Default()

	scorer := NewFraudService(store.Withdrawals, DefaultFraudRules(), log)
	audit := NewAuditService(store.Audit, scorer, counters, log)
	notifier := NewNotificationService(store.Notifications, counters, log)

	return &withdrawalFixture{
		svc:    NewWithdrawalService(repo, scorer, audit, notifier, psp, cfg, counters, log),
		store:  store,
		psp:    psp,
		tenant: tenant,
		user: domain.RequestContext{
			RequestID: "req-user", TenantID: tenant, ActorID: uuid.New(),
			ActorType: domain.ActorTypeUser, IPAddress: "200.1.2.3",
		},
		admin: domain.RequestContext{
			RequestID: "req-admin", TenantID: tenant, ActorID: uuid.New(),
			ActorType: domain.ActorTypeAdmin, IPAddress: "10.0.0.5",
		},
	}
}

func (f *withdrawalFixture) createPending(t *testing.T) *domain.WithdrawalRequest {
	t.Helper()
	w, err := f.svc.Create(context.Background(), f.user, ports.CreateWithdrawalRequest{
		Amount:        25000,
		PixKey:        "Maria@Example.com",
		PixKeyType:    domain.PixKeyTypeEmail,
		RecipientName: "Maria Silva",
	})
	require.NoError(t, err)
	return w
}

// seed stores a pending withdrawal directly, bypassing creation checks.
func (f *withdrawalFixture) seed(t *testing.T, amount int64) *domain.WithdrawalRequest {
	t.Helper()
	now := time.Now().UTC()
	w := &domain.WithdrawalRequest{
		ID:            uuid.New(),
		TenantID:      f.tenant,
		UserID:        f.user.ActorID,
		Amount:        amount,
		PixKey:        "maria@example.com",
		PixKeyType:    domain.PixKeyTypeEmail,
		RecipientName: "Maria Silva",
		Status:        domain.WithdrawalStatusPending,
		RequestedAt:   now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.store.Withdrawals.Create(context.Background(), w))
	return w
}

func (f *withdrawalFixture) auditActions(resourceID uuid.UUID) []domain.AuditAction {
	var actions []domain.AuditAction
	for _, e := range f.store.Audit.Entries() {
		if e.ResourceID == resourceID.String() {
			actions = append(actions, e.Action)
		}
	}
	return actions
}

func (f *withdrawalFixture) userNotifications(typ domain.NotificationType) int {
	n := 0
	for _, item := range f.store.Notifications.All() {
		if item.Audience == domain.AudienceUser && item.Type == typ {
			n++
		}
	}
	return n
}

func pspSuccess(req ports.PixSendRequest) *ports.PixSendResult {
	return &ports.PixSendResult{
		SendID:     req.SendID,
		EndToEndID: "E09089356202603101200" + req.SendID[:11],
		Status:     "EM_PROCESSAMENTO",
		Amount:     req.Amount,
	}
}

func timeoutErr() error {
	return fmt.Errorf("send pix: %w", context.DeadlineExceeded)
}

func TestWithdrawalService_Create_StoresScoredPending(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())

	w := f.createPending(t)

	assert.Equal(t, domain.WithdrawalStatusPending, w.Status)
	assert.Equal(t, "maria@example.com", w.PixKey)
	assert.Equal(t, f.user.ActorID, w.UserID)
	assert.Contains(t, w.RiskIndicators, domain.IndicatorNewPixKey)
	assert.Contains(t, w.RiskIndicators, domain.IndicatorNewIPAddress)

	stored, err := f.store.Withdrawals.GetByID(context.Background(), f.tenant, w.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	entries := f.store.Audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionCreate, entries[0].Action)
	require.NotNil(t, entries[0].RiskScore)
	assert.Equal(t, w.RiskScore, *entries[0].RiskScore)

	assert.Equal(t, 1, f.userNotifications(domain.NotificationWithdrawalRequested))
}

func TestWithdrawalService_Create_RejectsBadInput(t *testing.T) {
	tenant := uuid.New()
	cfg := testWithdrawalConfig()
	cfg.TenantMaxAmount = map[uuid.UUID]int64{tenant: 5000}
	f := setupWithdrawalServiceForTenant(t, nil, cfg, tenant)

	tests := []struct {
		name string
		req  ports.CreateWithdrawalRequest
	}{
		{"zero amount", ports.CreateWithdrawalRequest{Amount: 0, PixKey: "a@b.com", PixKeyType: domain.PixKeyTypeEmail, RecipientName: "A"}},
		{"below minimum", ports.CreateWithdrawalRequest{Amount: 50, PixKey: "a@b.com", PixKeyType: domain.PixKeyTypeEmail, RecipientName: "A"}},
		{"above tenant ceiling", ports.CreateWithdrawalRequest{Amount: 5001, PixKey: "a@b.com", PixKeyType: domain.PixKeyTypeEmail, RecipientName: "A"}},
		{"bad email", ports.CreateWithdrawalRequest{Amount: 1000, PixKey: "not-an-email", PixKeyType: domain.PixKeyTypeEmail, RecipientName: "A"}},
		{"bad cpf", ports.CreateWithdrawalRequest{Amount: 1000, PixKey: "12345678900", PixKeyType: domain.PixKeyTypeCPFCNPJ, RecipientName: "A"}},
		{"unknown type", ports.CreateWithdrawalRequest{Amount: 1000, PixKey: "x", PixKeyType: "iban", RecipientName: "A"}},
		{"blank recipient", ports.CreateWithdrawalRequest{Amount: 1000, PixKey: "a@b.com", PixKeyType: domain.PixKeyTypeEmail, RecipientName: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.user, tt.req)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation), err.Error())
		})
	}
	assert.Empty(t, f.store.Audit.Entries())
}

func TestWithdrawalService_Approve_DisbursesToCompleted(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	var sent ports.PixSendRequest
	f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req ports.PixSendRequest) (*ports.PixSendResult, error) {
			sent = req
			return pspSuccess(req), nil
		},
	)

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "ok, conferido")
	require.NoError(t, err)

	assert.Equal(t, domain.WithdrawalStatusCompleted, got.Status)
	assert.Equal(t, w.SendID(), sent.SendID)
	assert.Equal(t, "tesouraria@gateway.example", sent.PayerPixKey)
	assert.Equal(t, int64(25000), sent.Amount)
	assert.NotEmpty(t, got.EndToEndID)
	assert.Equal(t, w.SendID(), got.PspTransactionID)
	require.NotNil(t, got.AdminID)
	assert.Equal(t, f.admin.ActorID, *got.AdminID)
	assert.Equal(t, "ok, conferido", got.AdminNotes)
	assert.NotNil(t, got.ApprovedAt)
	assert.NotNil(t, got.ProcessedAt)
	assert.NotNil(t, got.CompletedAt)

	var path []domain.WithdrawalStatus
	for _, h := range f.store.Withdrawals.History(w.ID) {
		path = append(path, h.To)
	}
	assert.Equal(t, []domain.WithdrawalStatus{
		domain.WithdrawalStatusApproved,
		domain.WithdrawalStatusProcessing,
		domain.WithdrawalStatusCompleted,
	}, path)

	assert.Equal(t, []domain.AuditAction{
		domain.AuditActionCreate,
		domain.AuditActionApprove,
		domain.AuditActionProcess,
		domain.AuditActionComplete,
	}, f.auditActions(w.ID))
}

func TestWithdrawalService_Approve_InvalidAmountFailsWithoutPspCall(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
	}{
		{"zero", 0},
		{"negative", -500},
		{"above ceiling", 1000001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupWithdrawalService(t, nil, testWithdrawalConfig())
			w := f.seed(t, tt.amount)

			got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
			require.NoError(t, err)
			assert.Equal(t, domain.WithdrawalStatusFailed, got.Status)
			assert.Contains(t, got.AdminNotes, "validation:")
		})
	}
}

func TestWithdrawalService_Approve_MissingPayerKeyFails(t *testing.T) {
	cfg := testWithdrawalConfig()
	cfg.PayerPixKey = ""
	f := setupWithdrawalService(t, nil, cfg)
	w := f.seed(t, 1000)

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusFailed, got.Status)
	assert.Contains(t, got.AdminNotes, "payer pix key is not configured")
}

func TestWithdrawalService_Approve_RetriesTimeoutsThenCompletes(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	var sends int32
	f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(ctx context.Context, req ports.PixSendRequest) (*ports.PixSendResult, error) {
			if atomic.AddInt32(&sends, 1) < 3 {
				return nil, timeoutErr()
			}
			return pspSuccess(req), nil
		},
	)
	f.psp.EXPECT().FindSent(gomock.Any(), w.SendID()).Times(2).Return(nil, nil)

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
	require.NoError(t, err)

	assert.Equal(t, domain.WithdrawalStatusCompleted, got.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&sends))
	assert.Equal(t, 1, f.userNotifications(domain.NotificationWithdrawalCompleted))
	assert.Zero(t, f.userNotifications(domain.NotificationWithdrawalFailed))
}

func TestWithdrawalService_Approve_UsesTransferFoundOnRetry(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	gomock.InOrder(
		f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).Return(nil, timeoutErr()),
		f.psp.EXPECT().FindSent(gomock.Any(), w.SendID()).Return(&ports.PixSendResult{
			SendID: w.SendID(), EndToEndID: "E0908935620260310120000000000001", Status: "REALIZADO",
		}, nil),
	)

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusCompleted, got.Status)
	assert.Equal(t, "E0908935620260310120000000000001", got.EndToEndID)
}

func TestWithdrawalService_Approve_LookupErrorStillResends(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	gomock.InOrder(
		f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).Return(nil, timeoutErr()),
		f.psp.EXPECT().FindSent(gomock.Any(), w.SendID()).Return(nil, errors.New("connection reset by peer")),
		f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, req ports.PixSendRequest) (*ports.PixSendResult, error) {
				return pspSuccess(req), nil
			},
		),
	)

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusCompleted, got.Status)
}

func TestWithdrawalService_Approve_TransientExhaustedFails(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).Times(3).Return(nil, timeoutErr())
	f.psp.EXPECT().FindSent(gomock.Any(), gomock.Any()).Times(2).Return(nil, nil)

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusFailed, got.Status)
	assert.Contains(t, got.AdminNotes, "PSP unavailable after 3 attempts")
	assert.Equal(t, 1, f.userNotifications(domain.NotificationWithdrawalFailed))
}

func TestWithdrawalService_Approve_FatalErrorSendsOnce(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).Times(1).
		Return(nil, apperror.ErrFatalPsp("chave do recebedor inexistente", nil))

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusFailed, got.Status)
	assert.Contains(t, got.AdminNotes, "PSP rejected transfer")
	assert.Equal(t, []domain.AuditAction{
		domain.AuditActionCreate,
		domain.AuditActionApprove,
		domain.AuditActionProcess,
		domain.AuditActionFail,
	}, f.auditActions(w.ID))
}

func TestWithdrawalService_Approve_MissingEndToEndFails(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).
		Return(&ports.PixSendResult{SendID: w.SendID(), Status: "EM_PROCESSAMENTO"}, nil)

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusFailed, got.Status)
	assert.Contains(t, got.AdminNotes, "end-to-end")
}

func TestWithdrawalService_Approve_NotPending(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	_, err := f.svc.Reject(context.Background(), f.admin, w.ID, "documentos pendentes", "")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), f.admin, w.ID, "")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidStateTransition))
}

func TestWithdrawalService_Approve_NotFound(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())

	_, err := f.svc.Approve(context.Background(), f.admin, uuid.New(), "")
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
}

// barrierRepo holds the first two GetByID calls until both have arrived so
// two approvals read the same pending row.
type barrierRepo struct {
	ports.WithdrawalRepository
	calls   atomic.Int32
	arrived sync.WaitGroup
}

func (r *barrierRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	w, err := r.WithdrawalRepository.GetByID(ctx, tenantID, id)
	if r.calls.Add(1) <= 2 {
		r.arrived.Done()
		r.arrived.Wait()
	}
	return w, err
}

func TestWithdrawalService_Approve_ConcurrentOnlyOneWins(t *testing.T) {
	repo := &barrierRepo{}
	repo.arrived.Add(2)
	f := setupWithdrawalService(t, repo, testWithdrawalConfig())
	repo.WithdrawalRepository = f.store.Withdrawals
	w := &domain.WithdrawalRequest{
		ID: uuid.New(), TenantID: f.tenant, UserID: f.user.ActorID, Amount: 5000,
		PixKey: "maria@example.com", PixKeyType: domain.PixKeyTypeEmail, RecipientName: "Maria",
		Status: domain.WithdrawalStatusPending, RequestedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, f.store.Withdrawals.Create(context.Background(), w))

	f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
		func(ctx context.Context, req ports.PixSendRequest) (*ports.PixSendResult, error) {
			return pspSuccess(req), nil
		},
	)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Approve(context.Background(), f.admin, w.ID, "")
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperror.HasCode(err, apperror.CodeConcurrentModification):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	approvals := 0
	for _, e := range f.store.Audit.Entries() {
		if e.Action == domain.AuditActionApprove {
			approvals++
		}
	}
	assert.Equal(t, 1, approvals)
}

func TestWithdrawalService_Reject(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	got, err := f.svc.Reject(context.Background(), f.admin, w.ID, "  titular divergente ", "ligar para o cliente")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusRejected, got.Status)
	assert.Equal(t, "titular divergente", got.RejectionReason)
	assert.Equal(t, "ligar para o cliente", got.AdminNotes)
	assert.Equal(t, 1, f.userNotifications(domain.NotificationWithdrawalRejected))
}

func TestWithdrawalService_Reject_RequiresReasonBeforeAnyRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWithdrawalRepository(ctrl)
	audit := mocks.NewMockAuditService(ctrl)
	notifier := mocks.NewMockNotificationService(ctrl)
	svc := NewWithdrawalService(repo, mocks.NewMockFraudScorer(ctrl), audit, notifier,
		mocks.NewMockDisbursementClient(ctrl), testWithdrawalConfig(), telemetry.Default(), newTestLogger())

	_, err := svc.Reject(context.Background(), domain.RequestContext{TenantID: uuid.New(), ActorType: domain.ActorTypeAdmin}, uuid.New(), "   ", "")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestWithdrawalService_NoDirectJumpFromPending(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)
	system := f.admin.AsSystem()

	_, err := f.svc.Settle(context.Background(), system, w, ports.PixSendResult{EndToEndID: "E1"})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidStateTransition))

	_, err = f.svc.Abandon(context.Background(), system, w, "never sent")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidStateTransition))

	stored, _ := f.store.Withdrawals.GetByID(context.Background(), f.tenant, w.ID)
	assert.Equal(t, domain.WithdrawalStatusPending, stored.Status)
	assert.Empty(t, f.store.Withdrawals.History(w.ID))
}

func TestWithdrawalService_SettleAndAbandonProcessing(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	system := f.admin.AsSystem()

	toProcessing := func() *domain.WithdrawalRequest {
		w := f.seed(t, 1000)
		approved := w.Clone()
		approved.Status = domain.WithdrawalStatusApproved
		require.NoError(t, f.store.Withdrawals.Transition(context.Background(), domain.WithdrawalStatusPending, approved))
		processing := approved.Clone()
		processing.Status = domain.WithdrawalStatusProcessing
		require.NoError(t, f.store.Withdrawals.Transition(context.Background(), domain.WithdrawalStatusApproved, processing))
		return processing
	}

	settled, err := f.svc.Settle(context.Background(), system, toProcessing(), ports.PixSendResult{EndToEndID: "E0908935620260310120000000000002"})
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusCompleted, settled.Status)
	assert.Equal(t, settled.SendID(), settled.PspTransactionID)

	_, err = f.svc.Settle(context.Background(), system, toProcessing(), ports.PixSendResult{})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	abandoned, err := f.svc.Abandon(context.Background(), system, toProcessing(), "PSP never received the transfer")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusFailed, abandoned.Status)
	assert.Contains(t, abandoned.AdminNotes, "PSP never received the transfer")
}

func TestWithdrawalService_GetAndList_ScopeUsers(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	mine := f.createPending(t)

	f.seed(t, 2000)

	stranger := f.user
	stranger.ActorID = uuid.New()
	theirs := mine.Clone()
	theirs.ID = uuid.New()
	theirs.UserID = stranger.ActorID
	require.NoError(t, f.store.Withdrawals.Create(context.Background(), theirs))

	_, err := f.svc.Get(context.Background(), stranger, mine.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))

	got, err := f.svc.Get(context.Background(), f.admin, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	items, total, err := f.svc.List(context.Background(), f.user, ports.WithdrawalListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, item := range items {
		assert.Equal(t, f.user.ActorID, item.UserID)
	}

	_, total, err = f.svc.List(context.Background(), f.admin, ports.WithdrawalListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestWithdrawalService_Approve_RejectedOnLookupStopsRetrying(t *testing.T) {
	f := setupWithdrawalService(t, nil, testWithdrawalConfig())
	w := f.createPending(t)

	gomock.InOrder(
		f.psp.EXPECT().SendPix(gomock.Any(), gomock.Any()).Return(nil, timeoutErr()),
		f.psp.EXPECT().FindSent(gomock.Any(), w.SendID()).
			Return(&ports.PixSendResult{SendID: w.SendID(), Status: ports.PixStatusRejected}, nil),
	)

	got, err := f.svc.Approve(context.Background(), f.admin, w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusFailed, got.Status)
	assert.Contains(t, got.AdminNotes, "not completed")
}
