package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
)

// RefreshTokenRepository keeps refresh tokens in Redis.
// Key format: refresh:<token> -> user id, with the token TTL;
// refresh:user:<user id> is the set of that user's live tokens.
type RefreshTokenRepository struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.RefreshTokenRepository = (*RefreshTokenRepository)(nil)

// NewRefreshTokenRepository wraps client. An empty prefix defaults to "refresh".
func NewRefreshTokenRepository(client redis.UniversalClient, prefix string) *RefreshTokenRepository {
	if prefix == "" {
		prefix = "refresh"
	}
	return &RefreshTokenRepository{client: client, prefix: prefix}
}

func (r *RefreshTokenRepository) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.tokenKey(token), userID, ttl)
	pipe.SAdd(ctx, r.userKey(userID), token)
	pipe.Expire(ctx, r.userKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Consume uses GETDEL so a token is redeemed at most once across replicas.
func (r *RefreshTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	userID, err := r.client.GetDel(ctx, r.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidRefreshToken
	}
	if err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	if err := r.client.SRem(ctx, r.userKey(userID), token).Err(); err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return userID, nil
}

func (r *RefreshTokenRepository) RevokeUser(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, r.tokenKey(t))
	}
	keys = append(keys, r.userKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) tokenKey(token string) string {
	return r.prefix + ":" + token
}

func (r *RefreshTokenRepository) userKey(userID string) string {
	return r.prefix + ":user:" + userID
}
