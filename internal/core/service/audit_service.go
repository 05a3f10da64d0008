package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log, now: time.Now}
}

// Record stamps entry with an id and time when missing and persists it.
func (s *auditService) Record(ctx context.Context, entry domain.AuditEntry) error {
	switch entry.Action {
	case domain.AuditLogin, domain.AuditRegister, domain.AuditRefresh, domain.AuditLogout:
	default:
		return fmt.Errorf("record audit: unknown action %q", entry.Action)
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Insert(ctx, &entry); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}

	s.log.Debug().
		Str("action", string(entry.Action)).
		Str("user_id", entry.UserID).
		Bool("success", entry.Success).
		Msg("audit recorded")
	return nil
}

// List returns entries newest first.
func (s *auditService) List(ctx context.Context, filter ports.AuditFilter) (*domain.Page[domain.AuditEntry], error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return &domain.Page[domain.AuditEntry]{Items: entries, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
