package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pix-gateway/internal/core/domain"

	"github.com/google/uuid"
)

const topIndicatorLimit = 5

// AuditRepo implements ports.AuditRepository. Entries are only appended.
type AuditRepo struct {
	mu      sync.RWMutex
	entries []domain.AuditLogEntry
}

func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

func (r *AuditRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *AuditRepo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditLogEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []domain.AuditLogEntry
	for _, e := range r.entries {
		if matchesAudit(e, f) {
			filtered = append(filtered, e)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return paginate(filtered, f.Page, f.PageSize), int64(len(filtered)), nil
}

func matchesAudit(e domain.AuditLogEntry, f domain.AuditFilter) bool {
	switch {
	case e.TenantID != f.TenantID:
		return false
	case f.ActorID != nil && (e.ActorID == nil || *e.ActorID != *f.ActorID):
		return false
	case f.ActorType != nil && e.ActorType != *f.ActorType:
		return false
	case f.ResourceType != nil && e.ResourceType != *f.ResourceType:
		return false
	case f.ResourceID != "" && e.ResourceID != f.ResourceID:
		return false
	case f.Action != nil && e.Action != *f.Action:
		return false
	case f.SuspiciousOnly && !e.IsSuspicious():
		return false
	case f.From != nil && e.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && e.CreatedAt.After(*f.To):
		return false
	}
	return true
}

func (r *AuditRepo) FraudStatistics(ctx context.Context, tenantID uuid.UUID, since time.Time) (*domain.FraudStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.FraudStatistics{TopIndicators: []domain.IndicatorCount{}}
	counts := make(map[string]int64)
	var scoreSum int64
	for _, e := range r.entries {
		if e.TenantID != tenantID || e.RiskScore == nil {
			continue
		}
		stats.ScoredCount++
		scoreSum += int64(*e.RiskScore)
		if e.IsSuspicious() {
			stats.SuspiciousCount++
			if !e.CreatedAt.Before(since) {
				stats.Suspicious24h++
			}
		}
		for _, ind := range e.RiskIndicators {
			counts[ind]++
		}
	}
	if stats.ScoredCount > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.ScoredCount)
	}
	for ind, n := range counts {
		stats.TopIndicators = append(stats.TopIndicators, domain.IndicatorCount{Indicator: ind, Count: n})
	}
	sort.Slice(stats.TopIndicators, func(i, j int) bool {
		a, b := stats.TopIndicators[i], stats.TopIndicators[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Indicator < b.Indicator
	})
	if len(stats.TopIndicators) > topIndicatorLimit {
		stats.TopIndicators = stats.TopIndicators[:topIndicatorLimit]
	}
	return stats, nil
}

// Entries returns a copy of everything written so far, oldest first.
func (r *AuditRepo) Entries() []domain.AuditLogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.AuditLogEntry(nil), r.entries...)
}
