package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"
	"pix-gateway/internal/core/ports/mocks"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupNotificationService(t *testing.T) (ports.NotificationService, *mocks.MockNotificationRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	return NewNotificationService(repo, telemetry.Default(), newTestLogger()), repo
}

func sampleWithdrawal(status domain.WithdrawalStatus) *domain.WithdrawalRequest {
	return &domain.WithdrawalRequest{
		ID:         uuid.New(),
		TenantID:   uuid.New(),
		UserID:     uuid.New(),
		Amount:     123456,
		PixKey:     "maria@example.com",
		PixKeyType: domain.PixKeyTypeEmail,
		Status:     status,
	}
}

func TestNotificationService_Dispatch_OnePerUserTransition(t *testing.T) {
	tests := []struct {
		status      domain.WithdrawalStatus
		wantType    domain.NotificationType
		wantAdmin   bool
		wantInTitle string
	}{
		{domain.WithdrawalStatusPending, domain.NotificationWithdrawalRequested, true, "solicitado"},
		{domain.WithdrawalStatusApproved, domain.NotificationWithdrawalApproved, false, "aprovado"},
		{domain.WithdrawalStatusRejected, domain.NotificationWithdrawalRejected, false, "recusado"},
		{domain.WithdrawalStatusProcessing, domain.NotificationWithdrawalProcessing, false, "processamento"},
		{domain.WithdrawalStatusCompleted, domain.NotificationWithdrawalCompleted, false, "concluído"},
		{domain.WithdrawalStatusFailed, domain.NotificationWithdrawalFailed, true, "não concluído"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			svc, repo := setupNotificationService(t)
			w := sampleWithdrawal(tt.status)

			var got []*domain.Notification
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(ctx context.Context, n *domain.Notification) error {
					got = append(got, n)
					return nil
				},
			).AnyTimes()

			svc.Dispatch(context.Background(), w, domain.WithdrawalStatusPending)

			var users, admins []*domain.Notification
			for _, n := range got {
				assert.Equal(t, tt.wantType, n.Type)
				assert.Equal(t, w.TenantID, n.TenantID)
				assert.Equal(t, w.ID, n.Data.WithdrawalID)
				if n.Audience == domain.AudienceUser {
					users = append(users, n)
				} else {
					admins = append(admins, n)
				}
			}

			require.Len(t, users, 1)
			require.NotNil(t, users[0].UserID)
			assert.Equal(t, w.UserID, *users[0].UserID)
			assert.Contains(t, strings.ToLower(users[0].Title), tt.wantInTitle)
			assert.Contains(t, users[0].Message, "R$ 1.234,56")
			assert.Equal(t, tt.wantAdmin, len(admins) == 1)
		})
	}
}

func TestNotificationService_Dispatch_RejectionCarriesReason(t *testing.T) {
	svc, repo := setupNotificationService(t)
	w := sampleWithdrawal(domain.WithdrawalStatusRejected)
	w.RejectionReason = "chave PIX não pertence ao titular"

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, n *domain.Notification) error {
			assert.Contains(t, n.Message, "chave PIX não pertence ao titular")
			assert.Equal(t, domain.WithdrawalStatusPending, n.Data.PreviousStatus)
			return nil
		},
	)

	svc.Dispatch(context.Background(), w, domain.WithdrawalStatusPending)
}

func TestNotificationService_Dispatch_FailureHidesPspDetails(t *testing.T) {
	svc, repo := setupNotificationService(t)
	w := sampleWithdrawal(domain.WithdrawalStatusFailed)
	w.AdminNotes = "disbursement failed: PSP 422 chave_invalida"

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, n *domain.Notification) error {
			assert.NotContains(t, n.Message, "chave_invalida")
			assert.NotContains(t, n.Message, "PSP")
			return nil
		},
	).Times(2)

	svc.Dispatch(context.Background(), w, domain.WithdrawalStatusProcessing)
}

func TestNotificationService_Dispatch_FlagsSuspiciousForAdmins(t *testing.T) {
	svc, repo := setupNotificationService(t)
	w := sampleWithdrawal(domain.WithdrawalStatusPending)
	w.RiskScore = 65

	var admin *domain.Notification
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, n *domain.Notification) error {
			if n.Audience == domain.AudienceAdmin {
				admin = n
			}
			return nil
		},
	).Times(2)

	svc.Dispatch(context.Background(), w, "")

	require.NotNil(t, admin)
	assert.Nil(t, admin.UserID)
	assert.True(t, admin.Data.Suspicious)
	assert.Equal(t, 65, admin.Data.RiskScore)
	assert.Contains(t, admin.Message, "suspeito")
}

func TestNotificationService_Dispatch_SwallowsErrors(t *testing.T) {
	svc, repo := setupNotificationService(t)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("sink down")).Times(2)

	assert.NotPanics(t, func() {
		svc.Dispatch(context.Background(), sampleWithdrawal(domain.WithdrawalStatusFailed), domain.WithdrawalStatusProcessing)
	})
}

func TestNotificationService_List_RequiresUserForUserAudience(t *testing.T) {
	svc, _ := setupNotificationService(t)

	_, _, err := svc.List(context.Background(), ports.NotificationScope{
		TenantID: uuid.New(),
		Audience: domain.AudienceUser,
	}, false, 1, 20)

	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestNotificationService_List(t *testing.T) {
	svc, repo := setupNotificationService(t)
	user := uuid.New()
	scope := ports.NotificationScope{TenantID: uuid.New(), Audience: domain.AudienceUser, UserID: &user}

	repo.EXPECT().List(gomock.Any(), scope, true, 1, 20).
		Return([]domain.Notification{{ID: uuid.New()}}, int64(1), nil)

	items, total, err := svc.List(context.Background(), scope, true, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, repo := setupNotificationService(t)
	scope := ports.NotificationScope{TenantID: uuid.New(), Audience: domain.AudienceAdmin}
	id := uuid.New()

	repo.EXPECT().MarkRead(gomock.Any(), scope, id, gomock.Any()).DoAndReturn(
		func(ctx context.Context, s ports.NotificationScope, got uuid.UUID, at time.Time) (bool, error) {
			assert.WithinDuration(t, time.Now(), at, time.Minute)
			return true, nil
		},
	)

	assert.NoError(t, svc.MarkRead(context.Background(), scope, id))
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	svc, repo := setupNotificationService(t)
	scope := ports.NotificationScope{TenantID: uuid.New(), Audience: domain.AudienceAdmin}
	repo.EXPECT().MarkRead(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	err := svc.MarkRead(context.Background(), scope, uuid.New())
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
}
