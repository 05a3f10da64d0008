//go:build integration

package tokenstore_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/gemach/admin-console/internal/infrastructure/tokenstore"
)

type RedisBackendSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
	store     *tokenstore.Store
}

func TestRedisBackendSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBackendSuite))
}

func (s *RedisBackendSuite) SetupSuite() {
	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = ctr

	uri, err := ctr.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)

	s.client = redis.NewClient(opts)
	s.store = tokenstore.New(tokenstore.NewRedisBackend(s.client), tokenstore.WithNamespace("it"))
}

func (s *RedisBackendSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RedisBackendSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *RedisBackendSuite) TestRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.SetTokens(ctx, "access", "refresh"))

	a, ok, err := s.store.AccessToken(ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("access", a)

	raw, err := s.client.Get(ctx, "it.refreshToken").Result()
	s.Require().NoError(err)
	s.Equal("refresh", raw)
}

func (s *RedisBackendSuite) TestEmptyValuesArePresent() {
	ctx := context.Background()
	s.Require().NoError(s.store.SetTokens(ctx, "", ""))

	a, ok, err := s.store.AccessToken(ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Empty(a)
}

func (s *RedisBackendSuite) TestClearIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.store.ClearTokens(ctx))
	s.Require().NoError(s.store.SetTokens(ctx, "a", "r"))
	s.Require().NoError(s.store.ClearTokens(ctx))
	s.Require().NoError(s.store.ClearTokens(ctx))

	_, ok, err := s.store.RefreshToken(ctx)
	s.Require().NoError(err)
	s.False(ok)
}
