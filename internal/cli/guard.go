package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/service"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

// Roles allowed into each area of the console.
var (
	adminOnly  = []string{domain.RoleAdmin}
	staffRoles = []string{domain.RoleAdmin, domain.RoleStaff}
)

// requireRole restores the session and admits the user only when signed in
// with one of roles.
func (a *App) requireRole(ctx context.Context, roles ...string) (*domain.User, error) {
	s, err := a.Session.Restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stored session: %w", err)
	}
	if !s.IsAuthenticated || s.User == nil {
		if s.Error == service.MsgSessionRestoreFailed || s.Error == service.MsgProfileLoadFailed {
			return nil, fmt.Errorf("%w, run 'console login'", domain.ErrSessionExpired)
		}
		return nil, fmt.Errorf("%w, run 'console login'", domain.ErrNotAuthenticated)
	}
	if len(roles) > 0 && !s.User.HasRole(roles...) {
		return nil, fmt.Errorf("%w: role %q cannot use this command", domain.ErrForbidden, s.User.Role)
	}
	return s.User, nil
}

// apiError maps the backend's authorization failures onto the console's
// sentinels. A 401 here means the access token died after Restore.
func apiError(action string, err error) error {
	switch transport.StatusCode(err) {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w, run 'console login'", action, domain.ErrSessionExpired)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", action, domain.ErrForbidden)
	}
	return fmt.Errorf("%s: %w", action, err)
}
