package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ClientConfig configures the console and its session SDK.
type ClientConfig struct {
	APIURL          string        `env:"CONSOLE_API_URL,         default=http://localhost:8080"`
	APITimeout      time.Duration `env:"CONSOLE_API_TIMEOUT,     default=10s"`
	TokenStore      string        `env:"CONSOLE_TOKEN_STORE,     default=file"`
	CredentialsFile string        `env:"CONSOLE_CREDENTIALS_FILE"`
	TokenNamespace  string        `env:"CONSOLE_TOKEN_NAMESPACE, default=gemach.console"`
	LogLevel        string        `env:"LOG_LEVEL,               default=warn"`
	LogPretty       bool          `env:"LOG_PRETTY,              default=true"`

	Redis RedisConfig
}

// ServerConfig configures the reference backend.
type ServerConfig struct {
	Port            string        `env:"PORT,              default=8080"`
	Env             string        `env:"ENV,               default=development"`
	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	Storage         string        `env:"STORAGE,           default=memory"`
	RefreshStore    string        `env:"REFRESH_STORE,     default=memory"`
	AuditWorkers    int           `env:"AUDIT_WORKERS,     default=4"`
	SeedAdminEmail  string        `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPass   string        `env:"SEED_ADMIN_PASSWORD"`
	LogLevel        string        `env:"LOG_LEVEL,         default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,        default=false"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=gemach"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// DevJWTSecret signs tokens when ENV=development and no JWT_SECRET is set.
const DevJWTSecret = "gemach-dev-secret"

// LoadClient reads ClientConfig from l, or from the process environment when l is nil.
func LoadClient(ctx context.Context, l envconfig.Lookuper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := process(ctx, &cfg, l); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer reads ServerConfig from l, or from the process environment when l is nil.
func LoadServer(ctx context.Context, l envconfig.Lookuper) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := process(ctx, &cfg, l); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = DevJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func process(ctx context.Context, target any, l envconfig.Lookuper) error {
	if l == nil {
		l = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: target, Lookuper: l}); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks values flags may have overridden after loading.
func (c *ClientConfig) Validate() error {
	switch c.TokenStore {
	case "file", "memory", "redis":
	default:
		return fmt.Errorf("config: unknown token store %q (want file, memory or redis)", c.TokenStore)
	}
	if c.APIURL == "" {
		return errors.New("config: api url is required")
	}
	return nil
}

func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *ServerConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required outside development")
	}
	switch c.Storage {
	case "memory", "mongo":
	default:
		return fmt.Errorf("config: unknown STORAGE %q (want memory or mongo)", c.Storage)
	}
	switch c.RefreshStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown REFRESH_STORE %q (want memory or redis)", c.RefreshStore)
	}
	if (c.SeedAdminEmail == "") != (c.SeedAdminPass == "") {
		return errors.New("config: SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set together")
	}
	return nil
}
