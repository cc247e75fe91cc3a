package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionApprove    AuditAction = "approve"
	AuditActionReject     AuditAction = "reject"
	AuditActionProcess    AuditAction = "process"
	AuditActionComplete   AuditAction = "complete"
	AuditActionFail       AuditAction = "fail"
	AuditActionReconcile  AuditAction = "reconcile"
	AuditActionChargePaid AuditAction = "charge_paid"
	AuditActionRecurrence AuditAction = "recurrence_update"
)

// ResourceType names the audited entity.
type ResourceType string

const (
	ResourceWithdrawalRequest ResourceType = "withdrawal_request"
	ResourceCharge            ResourceType = "charge"
	ResourceRecurrence        ResourceType = "recurrence"
)

// AuditLogEntry is an append-only record of a state-changing action.
type AuditLogEntry struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	ActorID        *uuid.UUID      `json:"actor_id,omitempty"`
	ActorType      ActorType       `json:"actor_type"`
	Action         AuditAction     `json:"action"`
	ResourceType   ResourceType    `json:"resource_type"`
	ResourceID     string          `json:"resource_id"`
	Before         json.RawMessage `json:"before,omitempty"`
	After          json.RawMessage `json:"after,omitempty"`
	IPAddress      string          `json:"ip_address,omitempty"`
	ClientID       string          `json:"client_id,omitempty"`
	RiskScore      *int            `json:"risk_score,omitempty"`
	RiskIndicators []string        `json:"risk_indicators,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// IsSuspicious reports whether the entry was scored at or above the threshold.
func (e *AuditLogEntry) IsSuspicious() bool {
	return e.RiskScore != nil && *e.RiskScore >= SuspiciousThreshold
}

// AuditFilter selects audit entries within a tenant.
type AuditFilter struct {
	TenantID       uuid.UUID
	ActorID        *uuid.UUID
	ActorType      *ActorType
	ResourceType   *ResourceType
	ResourceID     string
	Action         *AuditAction
	SuspiciousOnly bool
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

// IndicatorCount is one row of the top-indicators ranking.
type IndicatorCount struct {
	Indicator string `json:"indicator"`
	Count     int64  `json:"count"`
}

// FraudStatistics aggregates scored audit entries for a tenant.
type FraudStatistics struct {
	ScoredCount     int64            `json:"scored_count"`
	SuspiciousCount int64            `json:"suspicious_count"`
	AverageScore    float64          `json:"average_score"`
	TopIndicators   []IndicatorCount `json:"top_indicators"`
	Suspicious24h   int64            `json:"suspicious_last_24h"`
}
