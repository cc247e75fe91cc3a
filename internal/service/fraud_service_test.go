package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// middayUTC is 09:00 in Sao Paulo, outside the unusual-hour window.
var middayUTC = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func knownPattern() *domain.WithdrawalPattern {
	last := middayUTC.Add(-72 * time.Hour)
	return &domain.WithdrawalPattern{
		TotalCount:      4,
		AverageAmount:   2000,
		DistinctPixKeys: 1,
		KnownPixKeys:    []string{"maria@example.com"},
		LastRequestAt:   &last,
		RecentIPs:       []string{"200.1.2.3"},
	}
}

func TestScoreWithdrawal_CleanRequest(t *testing.T) {
	a := ScoreWithdrawal(knownPattern(), domain.ScoringInput{
		Amount:      2500,
		PixKey:      "maria@example.com",
		IPAddress:   "200.1.2.3",
		RequestedAt: middayUTC,
	}, DefaultFraudRules())

	assert.Equal(t, 0, a.Score)
	assert.Empty(t, a.Indicators)
	assert.False(t, a.Suspicious)
}

func TestScoreWithdrawal_AboveAverageWithNewKey(t *testing.T) {
	a := ScoreWithdrawal(knownPattern(), domain.ScoringInput{
		Amount:      10000,
		PixKey:      "joao@example.com",
		IPAddress:   "200.1.2.3",
		RequestedAt: middayUTC,
	}, DefaultFraudRules())

	assert.Contains(t, a.Indicators, domain.IndicatorAmountAboveAverage)
	assert.Contains(t, a.Indicators, domain.IndicatorNewPixKey)
	assert.GreaterOrEqual(t, a.Score, 40)
	assert.Equal(t, 40, a.Score)
	assert.False(t, a.Suspicious)
}

func TestScoreWithdrawal_EachRule(t *testing.T) {
	rules := DefaultFraudRules()
	recent := middayUTC.Add(-30 * time.Minute)

	tests := []struct {
		name      string
		pattern   func(p *domain.WithdrawalPattern)
		input     func(in *domain.ScoringInput)
		indicator string
		points    int
	}{
		{"high frequency", func(p *domain.WithdrawalPattern) { p.Count24h = 3 }, nil, domain.IndicatorHighFrequency24h, 25},
		{"daily limit", func(p *domain.WithdrawalPattern) { p.Total24h = 999000 }, nil, domain.IndicatorDailyLimitExceeded, 20},
		{"multiple keys", func(p *domain.WithdrawalPattern) { p.DistinctPixKeys = 3 }, nil, domain.IndicatorMultiplePixKeys, 15},
		{"unusual hour", nil, func(in *domain.ScoringInput) {
			in.RequestedAt = time.Date(2026, 3, 10, 6, 30, 0, 0, time.UTC) // 03:30 local
		}, domain.IndicatorUnusualHour, 5},
		{"new ip", nil, func(in *domain.ScoringInput) { in.IPAddress = "177.9.9.9" }, domain.IndicatorNewIPAddress, 10},
		{"very small", nil, func(in *domain.ScoringInput) { in.Amount = 99 }, domain.IndicatorVerySmallAmount, 5},
		{"rapid succession", func(p *domain.WithdrawalPattern) { p.LastRequestAt = &recent }, nil, domain.IndicatorRapidSuccession, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := knownPattern()
			if tt.pattern != nil {
				tt.pattern(p)
			}
			in := domain.ScoringInput{Amount: 2000, PixKey: "maria@example.com", IPAddress: "200.1.2.3", RequestedAt: middayUTC}
			if tt.input != nil {
				tt.input(&in)
			}

			a := ScoreWithdrawal(p, in, rules)

			assert.Equal(t, []string{tt.indicator}, a.Indicators)
			assert.Equal(t, tt.points, a.Score)
		})
	}
}

func TestScoreWithdrawal_FirstRequestSkipsAverage(t *testing.T) {
	a := ScoreWithdrawal(&domain.WithdrawalPattern{}, domain.ScoringInput{
		Amount:      500000,
		PixKey:      "maria@example.com",
		IPAddress:   "200.1.2.3",
		RequestedAt: middayUTC,
	}, DefaultFraudRules())

	assert.NotContains(t, a.Indicators, domain.IndicatorAmountAboveAverage)
	assert.ElementsMatch(t, []string{domain.IndicatorNewPixKey, domain.IndicatorNewIPAddress}, a.Indicators)
	assert.Equal(t, 20, a.Score)
}

func TestScoreWithdrawal_ClampedAt100(t *testing.T) {
	last := middayUTC.Add(-time.Minute)
	p := &domain.WithdrawalPattern{
		Count24h:        10,
		Total24h:        2000000,
		AverageAmount:   10,
		DistinctPixKeys: 7,
		LastRequestAt:   &last,
	}
	in := domain.ScoringInput{
		Amount:      99,
		PixKey:      "new@example.com",
		IPAddress:   "1.1.1.1",
		RequestedAt: time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
	}

	a := ScoreWithdrawal(p, in, DefaultFraudRules())

	assert.Equal(t, 100, a.Score)
	assert.True(t, a.Suspicious)
	assert.Len(t, a.Indicators, 9)
}

func TestScoreWithdrawal_Deterministic(t *testing.T) {
	in := domain.ScoringInput{Amount: 50000, PixKey: "x@y.com", IPAddress: "9.9.9.9", RequestedAt: middayUTC}
	first := ScoreWithdrawal(knownPattern(), in, DefaultFraudRules())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ScoreWithdrawal(knownPattern(), in, DefaultFraudRules()))
	}
}

func TestFraudService_Assess_UsesPattern(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWithdrawalRepository(ctrl)
	svc := NewFraudService(repo, DefaultFraudRules(), newTestLogger())

	tenantID, userID := uuid.New(), uuid.New()
	repo.EXPECT().GetPattern(gomock.Any(), tenantID, userID, middayUTC).Return(knownPattern(), nil)

	a := svc.Assess(context.Background(), tenantID, userID, domain.ScoringInput{
		Amount: 2000, PixKey: "maria@example.com", IPAddress: "200.1.2.3", RequestedAt: middayUTC,
	})

	assert.Equal(t, 0, a.Score)
}

func TestFraudService_Assess_FailsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWithdrawalRepository(ctrl)
	svc := NewFraudService(repo, DefaultFraudRules(), newTestLogger())

	repo.EXPECT().GetPattern(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	a := svc.Assess(context.Background(), uuid.New(), uuid.New(), domain.ScoringInput{
		Amount: 1000000, PixKey: "maria@example.com", IPAddress: "200.1.2.3", RequestedAt: middayUTC,
	})

	assert.Equal(t, []string{domain.IndicatorFraudCheckError}, a.Indicators)
	assert.Equal(t, 0, a.Score)
	assert.False(t, a.Suspicious)
}
