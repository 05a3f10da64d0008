//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/gemach/admin-console/internal/core/domain"
	dbredis "github.com/gemach/admin-console/internal/infrastructure/db/redis"
)

type RefreshRepoSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
	repo      *dbredis.RefreshTokenRepository
}

func TestRefreshRepoSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RefreshRepoSuite))
}

func (s *RefreshRepoSuite) SetupSuite() {
	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = ctr

	uri, err := ctr.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := goredis.ParseURL(uri)
	s.Require().NoError(err)

	s.client, err = dbredis.Connect(ctx, dbredis.Config{Addr: opts.Addr})
	s.Require().NoError(err)
	s.repo = dbredis.NewRefreshTokenRepository(s.client, "")
}

func (s *RefreshRepoSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RefreshRepoSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *RefreshRepoSuite) TestConsumeOnce() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, "tok", "u1", time.Minute))

	id, err := s.repo.Consume(ctx, "tok")
	s.Require().NoError(err)
	s.Equal("u1", id)

	_, err = s.repo.Consume(ctx, "tok")
	s.ErrorIs(err, domain.ErrInvalidRefreshToken)
}

func (s *RefreshRepoSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, "short", "u1", time.Second))

	ttl, err := s.client.TTL(ctx, "refresh:short").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}

func (s *RefreshRepoSuite) TestRevokeUser() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, "a", "u1", time.Minute))
	s.Require().NoError(s.repo.Save(ctx, "b", "u1", time.Minute))
	s.Require().NoError(s.repo.Save(ctx, "c", "u2", time.Minute))

	s.Require().NoError(s.repo.RevokeUser(ctx, "u1"))

	for _, tok := range []string{"a", "b"} {
		_, err := s.repo.Consume(ctx, tok)
		s.ErrorIs(err, domain.ErrInvalidRefreshToken)
	}
	id, err := s.repo.Consume(ctx, "c")
	s.Require().NoError(err)
	s.Equal("u2", id)
}
