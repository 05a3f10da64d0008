package ports

import (
	"context"
	"time"

	"github.com/gemach/admin-console/internal/core/domain"
)

// UserRepository defines persistence for backend accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
}

// RefreshTokenRepository stores opaque refresh tokens until they expire or are revoked.
type RefreshTokenRepository interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Consume atomically looks up and deletes token, returning its owner.
	// It returns domain.ErrInvalidRefreshToken when the token is unknown or expired.
	Consume(ctx context.Context, token string) (userID string, err error)
	RevokeUser(ctx context.Context, userID string) error
}
