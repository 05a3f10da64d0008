package ports

import (
	"context"

	"github.com/gemach/admin-console/internal/core/domain"
)

// AuditFilter narrows GET /audit-logs.
type AuditFilter struct {
	Action domain.AuditAction
	UserID string
	Page   int // 1-based
	Limit  int
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, int, error)
}

// AuditService records and queries the audit trail.
type AuditService interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) (*domain.Page[domain.AuditEntry], error)
}
