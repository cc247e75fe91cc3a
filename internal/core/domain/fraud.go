package domain

import "time"

// Risk indicators attached to scored withdrawals.
const (
	IndicatorAmountAboveAverage = "amount_significantly_higher_than_average"
	IndicatorHighFrequency24h   = "high_frequency_withdrawals_24h"
	IndicatorDailyLimitExceeded = "daily_limit_exceeded"
	IndicatorMultiplePixKeys    = "multiple_pix_keys"
	IndicatorNewPixKey          = "new_pix_key"
	IndicatorUnusualHour        = "unusual_hour"
	IndicatorNewIPAddress       = "new_ip_address"
	IndicatorVerySmallAmount    = "very_small_amount"
	IndicatorRapidSuccession    = "rapid_succession"
	IndicatorFraudCheckError    = "fraud_check_error"
)

const (
	MaxRiskScore        = 100
	SuspiciousThreshold = 50
)

// WithdrawalPattern summarises a user's withdrawal history at a point in time.
type WithdrawalPattern struct {
	Count24h        int
	Total24h        int64
	Count7d         int
	Total7d         int64
	TotalCount      int
	AverageAmount   int64
	DistinctPixKeys int
	KnownPixKeys    []string
	LastRequestAt   *time.Time
	RecentIPs       []string // trailing 30 days
}

// HasUsedKey reports whether the user already withdrew to key.
func (p WithdrawalPattern) HasUsedKey(key string) bool {
	return contains(p.KnownPixKeys, key)
}

// HasSeenIP reports whether ip appears in the trailing 30 days.
func (p WithdrawalPattern) HasSeenIP(ip string) bool {
	return contains(p.RecentIPs, ip)
}

// ScoringInput is the request being scored. RequestedAt is the scoring clock.
type ScoringInput struct {
	Amount      int64
	PixKey      string
	IPAddress   string
	RequestedAt time.Time
}

// RiskAssessment is the scorer's output.
type RiskAssessment struct {
	Score      int      `json:"score"`
	Indicators []string `json:"indicators"`
	Suspicious bool     `json:"suspicious"`
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
