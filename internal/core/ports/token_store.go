package ports

import (
	"context"

	"github.com/gemach/admin-console/internal/core/domain"
)

// TokenStore persists the access/refresh token pair on the client.
// Storage failures are returned as-is; decoding never fails loudly.
type TokenStore interface {
	SetTokens(ctx context.Context, access, refresh string) error
	AccessToken(ctx context.Context) (string, bool, error)
	RefreshToken(ctx context.Context) (string, bool, error)
	ClearTokens(ctx context.Context) error
	IsTokenExpired(token string) bool
	TokenPayload(token string) (*domain.TokenPayload, bool)
}
