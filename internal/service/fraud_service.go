package service

import (
	"context"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	averageMultiplier    = 5
	highFrequencyCount   = 3
	multipleKeysCount    = 3
	verySmallAmount      = 100 // centavos
	rapidSuccessionLimit = time.Hour
	unusualHourEnd       = 6 // 00:00-05:59 local
)

// FraudRules holds the tunable parts of the withdrawal scorer.
type FraudRules struct {
	DailyLimit int64 // centavos, including the scored request
	Location   *time.Location
}

// DefaultFraudRules uses a R$10.000 daily limit in Sao Paulo local time.
func DefaultFraudRules() FraudRules {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*60*60)
	}
	return FraudRules{DailyLimit: 1000000, Location: loc}
}

// ScoreWithdrawal applies the additive risk rules. A nil pattern means the
// history could not be read: only rules that look at the request alone apply.
func ScoreWithdrawal(pattern *domain.WithdrawalPattern, in domain.ScoringInput, rules FraudRules) domain.RiskAssessment {
	score := 0
	indicators := []string{}
	add := func(points int, indicator string) {
		score += points
		indicators = append(indicators, indicator)
	}

	loc := rules.Location
	if loc == nil {
		loc = time.UTC
	}

	if pattern != nil {
		if pattern.AverageAmount > 0 && in.Amount > averageMultiplier*pattern.AverageAmount {
			add(30, domain.IndicatorAmountAboveAverage)
		}
		if pattern.Count24h >= highFrequencyCount {
			add(25, domain.IndicatorHighFrequency24h)
		}
		if pattern.Total24h+in.Amount > rules.DailyLimit {
			add(20, domain.IndicatorDailyLimitExceeded)
		}
		if pattern.DistinctPixKeys >= multipleKeysCount {
			add(15, domain.IndicatorMultiplePixKeys)
		}
		if !pattern.HasUsedKey(in.PixKey) {
			add(10, domain.IndicatorNewPixKey)
		}
	}

	if in.RequestedAt.In(loc).Hour() < unusualHourEnd {
		add(5, domain.IndicatorUnusualHour)
	}

	if pattern != nil && in.IPAddress != "" && !pattern.HasSeenIP(in.IPAddress) {
		add(10, domain.IndicatorNewIPAddress)
	}

	if in.Amount < verySmallAmount {
		add(5, domain.IndicatorVerySmallAmount)
	}

	if pattern != nil && pattern.LastRequestAt != nil && in.RequestedAt.Sub(*pattern.LastRequestAt) < rapidSuccessionLimit {
		add(15, domain.IndicatorRapidSuccession)
	}

	if score > domain.MaxRiskScore {
		score = domain.MaxRiskScore
	}

	return domain.RiskAssessment{
		Score:      score,
		Indicators: indicators,
		Suspicious: score >= domain.SuspiciousThreshold,
	}
}

type fraudService struct {
	repo  ports.WithdrawalRepository
	rules FraudRules
	log   zerolog.Logger
}

// NewFraudService creates the history-backed scorer.
func NewFraudService(repo ports.WithdrawalRepository, rules FraudRules, log zerolog.Logger) ports.FraudScorer {
	return &fraudService{repo: repo, rules: rules, log: log}
}

// Assess loads the user's pattern and scores the request. A failed pattern
// read does not block the withdrawal; it is tagged fraud_check_error.
func (s *fraudService) Assess(ctx context.Context, tenantID, userID uuid.UUID, in domain.ScoringInput) domain.RiskAssessment {
	pattern, err := s.repo.GetPattern(ctx, tenantID, userID, in.RequestedAt)
	if err != nil {
		s.log.Warn().Err(err).
			Str("tenant_id", tenantID.String()).
			Str("user_id", userID.String()).
			Msg("fraud: withdrawal pattern unavailable, scoring without history")

		a := ScoreWithdrawal(nil, in, s.rules)
		a.Indicators = append(a.Indicators, domain.IndicatorFraudCheckError)
		return a
	}
	if pattern == nil {
		pattern = &domain.WithdrawalPattern{}
	}

	a := ScoreWithdrawal(pattern, in, s.rules)
	if a.Suspicious {
		s.log.Warn().
			Str("tenant_id", tenantID.String()).
			Str("user_id", userID.String()).
			Int("score", a.Score).
			Strs("indicators", a.Indicators).
			Msg("fraud: suspicious withdrawal")
	}
	return a
}
