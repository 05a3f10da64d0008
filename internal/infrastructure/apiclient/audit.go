package apiclient

import (
	"context"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

type AuditClient struct {
	api *transport.Client
}

// AuditFilter narrows GET /audit-logs.
type AuditFilter struct {
	ListParams
	Action domain.AuditAction
	UserID string
}

func (c *AuditClient) List(ctx context.Context, f AuditFilter) (*domain.Page[domain.AuditEntry], error) {
	q := f.values()
	if f.Action != "" {
		q.Set("action", string(f.Action))
	}
	if f.UserID != "" {
		q.Set("userId", f.UserID)
	}
	return list[domain.AuditEntry](ctx, c.api, "/audit-logs", q)
}
