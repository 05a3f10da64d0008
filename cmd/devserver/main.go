// Command devserver runs the reference authentication backend the console
// talks to during development and in end-to-end tests.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/gemach/admin-console/internal/api"
	"github.com/gemach/admin-console/internal/api/handler"
	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
	"github.com/gemach/admin-console/internal/core/service"
	"github.com/gemach/admin-console/internal/infrastructure/db/memory"
	dbmongo "github.com/gemach/admin-console/internal/infrastructure/db/mongo"
	dbredis "github.com/gemach/admin-console/internal/infrastructure/db/redis"
	"github.com/gemach/admin-console/internal/infrastructure/queue"
	"github.com/gemach/admin-console/internal/pkg/config"
	"github.com/gemach/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "devserver:", err)
		os.Exit(1)
	}
}

// storage is what the selected backends contribute to the server.
type storage struct {
	users   ports.UserRepository
	refresh ports.RefreshTokenRepository
	audit   ports.AuditRepository
	checks  []handler.DependencyCheck
	closers []func(context.Context) error
	log     zerolog.Logger
}

func (s *storage) close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			s.log.Warn().Err(err).Msg("closing storage")
		}
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadServer(ctx, nil)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "gemach-devserver"})
	if cfg.IsDevelopment() {
		banner := figure.NewFigure("gemach", "cybermedium", true)
		banner.Print()
		fmt.Println()
		if cfg.JWTSecret == config.DevJWTSecret {
			log.Warn().Msg("JWT_SECRET not set, signing with the development secret")
		}
	}

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	authSvc := service.NewAuthService(st.users, st.refresh, service.AuthConfig{
		JWTSecret:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}, logger.Component("auth"))
	auditSvc := service.NewAuditService(st.audit, logger.Component("audit"))

	if cfg.SeedAdminEmail != "" {
		err := authSvc.Seed(ctx, ports.RegisterInput{
			Email:     cfg.SeedAdminEmail,
			Password:  cfg.SeedAdminPass,
			FirstName: "Admin",
			Role:      domain.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.Info().Str("email", cfg.SeedAdminEmail).Msg("admin account ready")
	}

	// Workers outlive the signal context so queued entries drain on shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditSvc, logger.Component("audit-queue"))
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Deps{
		AuthService:  authSvc,
		AuditService: auditSvc,
		AuditSink:    dispatcher,
		JWTSecret:    cfg.JWTSecret,
		Checks:       st.checks,
		Log:          logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage).Str("refresh_store", cfg.RefreshStore).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		stopWorkers()
		dispatcher.Wait()
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
	return nil
}

func openStorage(ctx context.Context, cfg *config.ServerConfig) (*storage, error) {
	log := logger.Component("devserver")
	st := &storage{log: log}

	switch cfg.Storage {
	case "mongo":
		client, db, err := dbmongo.Connect(ctx, dbmongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, client.Disconnect)
		if err := dbmongo.EnsureIndexes(ctx, db); err != nil {
			st.close(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		st.users = dbmongo.NewUserRepository(db)
		st.audit = dbmongo.NewAuditRepository(db)
		st.checks = append(st.checks, handler.MongoCheck(db))
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
	default:
		st.users = memory.NewUserRepository()
		st.audit = memory.NewAuditRepository()
	}

	switch cfg.RefreshStore {
	case "redis":
		rdb, err := dbredis.Connect(ctx, dbredis.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			ClientName: "gemach-devserver",
		})
		if err != nil {
			st.close(ctx)
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { return rdb.Close() })
		st.refresh = dbredis.NewRefreshTokenRepository(rdb, "gemach:refresh")
		st.checks = append(st.checks, handler.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	default:
		st.refresh = memory.NewRefreshTokenRepository(nil)
	}

	return st, nil
}
