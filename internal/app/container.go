package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/infrastructure/cache"
	infraevents "skill-swap/internal/infrastructure/events"
	"skill-swap/internal/pkg/identity"
	"skill-swap/internal/pkg/jwt"

	"github.com/nats-io/nats.go"
)

// Container owns the process-wide connections. Everything built on top of
// them lives in Bootstrap.
type Container struct {
	Config   config.Config
	Logger   *log.Logger
	DB       database.DB
	Cache    *cache.Redis
	NATS     *nats.Conn
	Tokens   jwt.Service
	Verifier identity.Verifier
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Logger: logger, DB: db}

	c.Cache = cache.NewRedis(cfg.Redis, logger)

	if cfg.Auth.TokenSecret != "" {
		c.Tokens = jwt.NewHMACService(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenExpiresIn)
	}
	if cfg.Auth.OIDCIssuerURL != "" {
		v, err := identity.NewOIDCVerifier(ctx, cfg.Auth.OIDCIssuerURL, cfg.Auth.OIDCClientID)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("oidc discovery: %w", err)
		}
		c.Verifier = v
		logger.Printf("Auth provider | mode=oidc issuer=%s", cfg.Auth.OIDCIssuerURL)
	} else {
		c.Verifier = identity.NewHMACVerifier(c.Tokens)
		logger.Printf("Auth provider | mode=hmac issuer=%s", cfg.Auth.TokenIssuer)
	}

	if cfg.NATS.URL != "" {
		nc, err := infraevents.Connect(cfg.NATS.URL, cfg.App.AppName, logger)
		if err != nil {
			// Events are best effort; run without the bus rather than refuse to start.
			logger.Printf("NATS unavailable, events stay local | url=%s err=%v", cfg.NATS.URL, err)
		} else {
			c.NATS = nc
			logger.Printf("NATS connected | url=%s", nc.ConnectedUrl())
		}
	}

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.NATS != nil {
		_ = c.NATS.Drain()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
