package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/greengp/platform/internal/auth"
	"github.com/greengp/platform/internal/logger"
	"github.com/greengp/platform/internal/reports"
	"github.com/greengp/platform/internal/server"
	"github.com/greengp/platform/internal/store"
	memorystore "github.com/greengp/platform/internal/store/memory"
	postgresstore "github.com/greengp/platform/internal/store/postgres"
	"github.com/rs/cors"
	"gopkg.in/yaml.v3"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:5000" env:"GREENGP_LISTEN"`
	Config string `help:"optional YAML config file, values take precedence over flags" default:"" env:"GREENGP_CONFIG"`
	Cert   string `help:"path to TLS cert file (serves plain HTTP when unset)" default:"" env:"GREENGP_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"GREENGP_TLS_KEY"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:5173" env:"GREENGP_CORS_ORIGINS"`

	// Authentication configuration
	JWTSecret   string        `help:"HMAC signing secret for session tokens (min 32 bytes)" env:"GREENGP_JWT_SECRET"`
	TokenExpiry time.Duration `help:"session token lifetime" default:"24h" env:"GREENGP_TOKEN_EXPIRY"`
	BcryptCost  int           `help:"bcrypt cost for password hashing" default:"10" env:"GREENGP_BCRYPT_COST"`

	// Report generation
	ReportsDir string `help:"directory for generated report artifacts" default:"./reports" env:"GREENGP_REPORTS_DIR"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"GREENGP_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"GREENGP_POSTGRES_AUTO_MIGRATE"`
}

// fileConfig mirrors the flags that can be set from the optional YAML file.
type fileConfig struct {
	Listen      string   `yaml:"listen"`
	CORSOrigins []string `yaml:"cors_origins"`
	JWTSecret   string   `yaml:"jwt_secret"`
	TokenExpiry string   `yaml:"token_expiry"`
	BcryptCost  int      `yaml:"bcrypt_cost"`
	ReportsDir  string   `yaml:"reports_dir"`
	StoreType   string   `yaml:"store_type"`
	Postgres    struct {
		ConnString  string `yaml:"conn_string"`
		AutoMigrate bool   `yaml:"auto_migrate"`
	} `yaml:"postgres"`
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	if c.Config != "" {
		if err := c.loadConfigFile(); err != nil {
			return err
		}
	}

	if len(c.JWTSecret) < 32 {
		return errors.New("JWT signing secret must be at least 32 bytes (--jwt-secret or GREENGP_JWT_SECRET)")
	}

	tokens, err := auth.NewTokens([]byte(c.JWTSecret), c.TokenExpiry)
	if err != nil {
		return err
	}
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	// Create stores based on store type
	var stores *store.Stores

	switch c.StoreType {
	case "postgres":
		if c.PostgresStore.ConnString == "" {
			return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
		}

		pool, err := postgresstore.NewPool(ctx, &postgresstore.PoolConfig{
			ConnString:      c.PostgresStore.ConnString,
			MaxConns:        c.PostgresStore.MaxConns,
			MinConns:        c.PostgresStore.MinConns,
			MaxConnLifetime: c.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime: c.PostgresStore.MaxConnIdleTime,
		})
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		if c.PostgresStore.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("Database migrations completed")
		}

		stores = postgresstore.NewStores(pool)
		log.Info().Msg("Using PostgreSQL stores with shared connection pool")

	default:
		stores = memorystore.NewStores()
		log.Warn().Msg("Using in-memory stores, all data is lost on restart")
	}

	authService := auth.NewService(stores.Users, hasher, tokens)
	generator := reports.NewGenerator(stores.Reports, stores.Analytics, c.ReportsDir)

	api := server.New(stores, authService, tokens, generator, globals.Version)
	handler := withCORS(c.CORSOrigins, api.Handler(log))

	httpServer := configureHTTPServer(c.Listen, handler)

	if c.Cert != "" && c.Key != "" {
		if _, err := os.Stat(c.Cert); err != nil {
			return fmt.Errorf("TLS certificate not found at %s: %w", c.Cert, err)
		}
		if _, err := os.Stat(c.Key); err != nil {
			return fmt.Errorf("TLS key not found at %s: %w", c.Key, err)
		}
		log.Info().Str("addr", c.Listen).Msg("Starting HTTPS server")
		return httpServer.ListenAndServeTLS(c.Cert, c.Key)
	}

	log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
	return httpServer.ListenAndServe()
}

func (c *ServerCmd) loadConfigFile() error {
	data, err := os.ReadFile(c.Config)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Override struct fields with config values (config file takes precedence over flags)
	if config.Listen != "" {
		c.Listen = config.Listen
	}
	if len(config.CORSOrigins) > 0 {
		c.CORSOrigins = config.CORSOrigins
	}
	if config.JWTSecret != "" {
		c.JWTSecret = config.JWTSecret
	}
	if config.TokenExpiry != "" {
		expiry, err := time.ParseDuration(config.TokenExpiry)
		if err != nil {
			return fmt.Errorf("invalid token_expiry in config file: %w", err)
		}
		c.TokenExpiry = expiry
	}
	if config.BcryptCost > 0 {
		c.BcryptCost = config.BcryptCost
	}
	if config.ReportsDir != "" {
		c.ReportsDir = config.ReportsDir
	}
	if config.StoreType != "" {
		c.StoreType = config.StoreType
	}
	if config.Postgres.ConnString != "" {
		c.PostgresStore.ConnString = config.Postgres.ConnString
	}
	if config.Postgres.AutoMigrate {
		c.PostgresStore.AutoMigrate = true
	}

	return nil
}

// withCORS adds CORS support for the browser frontend.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return middleware.Handler(h)
}
