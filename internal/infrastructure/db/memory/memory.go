// Package memory holds process-local repositories for the reference backend.
// They are the default storage of the devserver and of end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
)

type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.User
	order []string
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.byID[user.ID] = *user
	r.order = append(r.order, user.ID)
	u := *user
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// List returns users in creation order.
func (r *UserRepository) List(_ context.Context, offset, limit int) ([]domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	if offset >= total {
		return []domain.User{}, total, nil
	}
	end := min(offset+limit, total)

	out := make([]domain.User, 0, end-offset)
	for _, id := range r.order[offset:end] {
		out = append(out, r.byID[id])
	}
	return out, total, nil
}

type refreshEntry struct {
	userID    string
	expiresAt time.Time
}

type RefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	now    func() time.Time
}

var _ ports.RefreshTokenRepository = (*RefreshTokenRepository)(nil)

// NewRefreshTokenRepository uses now as its clock; nil means time.Now.
func NewRefreshTokenRepository(now func() time.Time) *RefreshTokenRepository {
	if now == nil {
		now = time.Now
	}
	return &RefreshTokenRepository{tokens: make(map[string]refreshEntry), now: now}
}

func (r *RefreshTokenRepository) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = refreshEntry{userID: userID, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *RefreshTokenRepository) Consume(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tokens[token]
	if !ok {
		return "", domain.ErrInvalidRefreshToken
	}
	delete(r.tokens, token)
	if !r.now().Before(e.expiresAt) {
		return "", domain.ErrInvalidRefreshToken
	}
	return e.userID, nil
}

func (r *RefreshTokenRepository) RevokeUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tok, e := range r.tokens {
		if e.userID == userID {
			delete(r.tokens, tok)
		}
	}
	return nil
}

type AuditRepository struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(_ context.Context, e *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

// List filters and pages entries, newest first. f.Page and f.Limit must be positive.
func (r *AuditRepository) List(_ context.Context, f ports.AuditFilter) ([]domain.AuditEntry, int, error) {
	r.mu.RLock()
	matched := make([]domain.AuditEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	offset := (f.Page - 1) * f.Limit
	if offset >= total {
		return []domain.AuditEntry{}, total, nil
	}
	return matched[offset:min(offset+f.Limit, total)], total, nil
}
