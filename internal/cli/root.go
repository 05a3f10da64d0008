// Package cli implements the console command tree. Every command works on
// an App built once per invocation in the root's PersistentPreRunE.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/gemach/admin-console/internal/core/service"
	"github.com/gemach/admin-console/internal/infrastructure/apiclient"
	dbredis "github.com/gemach/admin-console/internal/infrastructure/db/redis"
	"github.com/gemach/admin-console/internal/infrastructure/tokenstore"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
	"github.com/gemach/admin-console/internal/pkg/config"
	"github.com/gemach/admin-console/pkg/logger"
)

// App holds what a command needs. It lives for a single invocation.
type App struct {
	Config  *config.ClientConfig
	Log     zerolog.Logger
	Tokens  *tokenstore.Store
	API     *apiclient.Clients
	Session *service.SessionService

	closers []func() error
}

// Close releases connections opened for the invocation.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

type options struct {
	lookuper envconfig.Lookuper
	backend  tokenstore.Backend
	logOut   io.Writer
}

// Option customises the root command, mainly for tests.
type Option func(*options)

// WithLookuper reads configuration from l instead of the environment.
func WithLookuper(l envconfig.Lookuper) Option {
	return func(o *options) { o.lookuper = l }
}

// WithTokenBackend bypasses --token-store and uses b.
func WithTokenBackend(b tokenstore.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

type rootFlags struct {
	apiURL      string
	logLevel    string
	pretty      bool
	tokenStore  string
	credentials string
}

// NewRootCmd creates the root cobra command for the console.
func NewRootCmd(opts ...Option) *cobra.Command {
	o := options{logOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		flags rootFlags
		app   App
	)

	root := &cobra.Command{
		Use:   "console",
		Short: "Admin console for the equipment lending library",
		Long: "console signs staff in to the lending library backend and manages " +
			"users, products, loans, volunteers and the audit trail.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Context(), cmd, flags, o)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "backend base URL (or CONSOLE_API_URL)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (or LOG_LEVEL)")
	pf.BoolVar(&flags.pretty, "pretty", true, "human readable logs")
	pf.StringVar(&flags.tokenStore, "token-store", "", "where tokens are kept: file, memory or redis (or CONSOLE_TOKEN_STORE)")
	pf.StringVar(&flags.credentials, "credentials", "", "credentials file for --token-store=file (or CONSOLE_CREDENTIALS_FILE)")

	root.AddCommand(
		newLoginCmd(&app),
		newRegisterCmd(&app),
		newLogoutCmd(&app),
		newWhoamiCmd(&app),
		newHealthCmd(&app),
		newWatchCmd(&app),
		newUsersCmd(&app),
		newProductsCmd(&app),
		newLoansCmd(&app),
		newVolunteersCmd(&app),
		newAuditCmd(&app),
	)

	return root
}

func (a *App) init(ctx context.Context, cmd *cobra.Command, flags rootFlags, o options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadClient(ctx, o.lookuper)
	if err != nil {
		return err
	}
	pf := cmd.Flags()
	if pf.Changed("api-url") {
		cfg.APIURL = flags.apiURL
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if pf.Changed("pretty") {
		cfg.LogPretty = flags.pretty
	}
	if pf.Changed("token-store") {
		cfg.TokenStore = flags.tokenStore
	}
	if pf.Changed("credentials") {
		cfg.CredentialsFile = flags.credentials
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.Config = cfg

	a.Log = newLogger(cfg, o.logOut)

	backend := o.backend
	if backend == nil {
		if backend, err = a.openBackend(ctx); err != nil {
			return err
		}
	}
	a.Tokens = tokenstore.New(backend, tokenstore.WithNamespace(cfg.TokenNamespace))

	api := transport.New(transport.Config{BaseURL: cfg.APIURL, Timeout: cfg.APITimeout}, a.Tokens, a.Log.With().Str("component", "transport").Logger())
	a.API = apiclient.New(api)
	a.Session = service.NewSessionService(a.API.Auth, a.Tokens, a.Log.With().Str("component", "session").Logger())
	return nil
}

// newLogger builds a private logger rather than the process singleton so
// that each invocation (and each test) honours its own flags.
func newLogger(cfg *config.ClientConfig, out io.Writer) zerolog.Logger {
	if cfg.LogPretty {
		out = zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stderr}
	}
	return zerolog.New(out).Level(logger.ParseLevel(cfg.LogLevel)).With().Timestamp().Logger()
}

func (a *App) openBackend(ctx context.Context) (tokenstore.Backend, error) {
	switch a.Config.TokenStore {
	case "memory":
		return tokenstore.NewMemoryBackend(), nil
	case "redis":
		client, err := dbredis.Connect(ctx, dbredis.Config{
			Addr:       a.Config.Redis.Addr,
			Password:   a.Config.Redis.Password,
			DB:         a.Config.Redis.DB,
			ClientName: "gemach-console",
		})
		if err != nil {
			return nil, fmt.Errorf("open token store: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return tokenstore.NewRedisBackend(client), nil
	default:
		path := a.Config.CredentialsFile
		if path == "" {
			p, err := tokenstore.DefaultCredentialsPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		fb := tokenstore.NewFileBackend(path)
		a.Log.Debug().Str("path", fb.Path()).Msg("using credentials file")
		return fb, nil
	}
}
