// Package bootstrap wires adapters, repositories, services and the HTTP
// server into a single application container.
package bootstrap

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"pepuhub/internal/adapters/ai"
	"pepuhub/internal/adapters/config"
	"pepuhub/internal/adapters/errors/noop"
	"pepuhub/internal/adapters/errors/sentry"
	"pepuhub/internal/adapters/geckoterminal"
	"pepuhub/internal/adapters/postgres"
	"pepuhub/internal/adapters/redis"
	"pepuhub/internal/api"
	"pepuhub/internal/api/assistantapi"
	"pepuhub/internal/api/contentapi"
	"pepuhub/internal/api/health"
	"pepuhub/internal/assistant"
	"pepuhub/internal/domain/content"
	repo "pepuhub/internal/repository/postgres"
	contentsvc "pepuhub/internal/services/content"
	"pepuhub/internal/services/votes"
	"pepuhub/pkg/errors"
	"pepuhub/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Repositories groups persistence implementations
type Repositories struct {
	Partners  content.PartnerRepository
	Tokens    content.TokenRepository
	Snapshots content.SnapshotRepository
	Votes     content.VoteRepository
}

// Services groups business logic components
type Services struct {
	Assistant *assistant.Service
	Content   *contentsvc.Service
	Votes     *votes.Service
}

// Container holds all application components with their lifecycle
type Container struct {
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	PG    *postgres.Client
	Redis *redis.Client

	MarketData *geckoterminal.Client
	Known      *assistant.KnownTokenCache

	Repos      *Repositories
	Services   *Services
	HTTPServer *api.Server

	WG      *sync.WaitGroup
	Context context.Context
	Cancel  context.CancelFunc
}

// NewContainer creates an empty container with a cancellable root context
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Repos:    &Repositories{},
		Services: &Services{},
		WG:       &sync.WaitGroup{},
		Context:  ctx,
		Cancel:   cancel,
	}
}

// MustInit initializes all components in dependency order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.mustInitConfig()
	c.mustInitInfrastructure()
	c.mustInitRepositories()
	c.mustInitServices()
	c.mustInitHTTP()
}

func (c *Container) mustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	c.Log = logger.Get()

	c.ErrorTracker = c.initErrorTracker()
	logger.SetErrorTracker(c.ErrorTracker)

	c.Log.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)
}

func (c *Container) initErrorTracker() errors.Tracker {
	cfg := c.Config.ErrorTracking
	if !cfg.Enabled || cfg.SentryDSN == "" {
		c.Log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		c.Log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	c.Log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func (c *Container) mustInitInfrastructure() {
	pg, err := postgres.NewClient(c.Config.Postgres)
	if err != nil {
		panic("failed to connect to PostgreSQL: " + err.Error())
	}
	c.PG = pg
	c.Log.Info("✓ PostgreSQL connected")

	if c.Config.Redis.Enabled {
		rd, err := redis.NewClient(c.Config.Redis)
		if err != nil {
			panic("failed to connect to Redis: " + err.Error())
		}
		c.Redis = rd
		c.Log.Info("✓ Redis connected")
	} else {
		c.Log.Info("Redis disabled, using in-process rate limiting")
	}

	c.MarketData = geckoterminal.NewClient(c.Config.MarketData)
	c.Known = assistant.NewKnownTokenCache(
		c.Config.Assistant.KnownTokensFile,
		c.Config.Assistant.KnownTokensTTL,
	)
}

func (c *Container) mustInitRepositories() {
	db := c.PG.DB()
	c.Repos.Partners = repo.NewPartnerRepository(db)
	c.Repos.Tokens = repo.NewListedTokenRepository(db)
	c.Repos.Snapshots = repo.NewSnapshotRepository(db)
	c.Repos.Votes = repo.NewVoteRepository(db)
}

func (c *Container) mustInitServices() {
	aiCfg := c.Config.AI

	var chat ai.ChatProvider
	if aiCfg.OpenAIKey != "" {
		var limiter ai.RateLimiter
		if c.Redis != nil {
			limiter = ai.NewRedisRateLimiter(c.Redis.Client(), "openai", aiCfg.ReqPerMinute, 5)
		} else {
			limiter = ai.NewTokenBucketLimiter(aiCfg.ReqPerMinute, 5)
		}

		provider, err := ai.NewOpenAIProvider(aiCfg.OpenAIKey, aiCfg.Model, aiCfg.Timeout, limiter)
		if err != nil {
			panic("failed to init OpenAI provider: " + err.Error())
		}
		chat = provider
		c.Log.Infow("✓ AI provider initialized", "model", aiCfg.Model)
	} else {
		c.Log.Warn("OPENAI_API_KEY not set, assistant runs on deterministic fallbacks")
	}

	resolver := assistant.NewResolver(c.MarketData, c.Known, c.Config.Assistant.PoolScanLimit)
	reconciler := assistant.NewReconciler(c.MarketData)
	intents := assistant.NewIntentParser(chat, aiCfg.Model)
	composer := assistant.NewComposer(chat, aiCfg.Model, aiCfg.Temperature, aiCfg.MaxTokens)

	c.Services.Assistant = assistant.NewService(c.MarketData, resolver, reconciler, intents, composer, c.Known)
	c.Services.Content = contentsvc.NewService(c.Repos.Partners, c.Repos.Tokens, c.Repos.Snapshots)
	c.Services.Votes = votes.NewService(c.Repos.Votes, c.Repos.Tokens)
}

func (c *Container) mustInitHTTP() {
	healthHandler := health.New(c.Log, c.PG.DB(), c.redisOrNil(), c.Config.App.Name, c.Config.App.Version)
	assistantHandler := assistantapi.New(c.Services.Assistant, c.ErrorTracker)
	contentHandler := contentapi.New(c.Services.Content, c.Services.Votes)
	adminGuard := api.AdminGuard(c.Config.Admin.Allowed, c.Log)

	c.HTTPServer = api.NewServer(api.ServerConfig{
		Port:        c.Config.HTTP.Port,
		ServiceName: c.Config.App.Name,
		Version:     c.Config.App.Version,
	}, healthHandler, assistantHandler, contentHandler, adminGuard, c.Log)
}

// Start launches the HTTP server in the background
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel() // Trigger shutdown on fatal HTTP error
		}
	}()

	c.Log.Info("✓ All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in reverse dependency order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := c.HTTPServer.Shutdown(ctx); err != nil {
		c.Log.Errorf("HTTP server shutdown failed: %v", err)
	}

	c.Cancel()
	c.WG.Wait()

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Errorf("Redis close failed: %v", err)
		}
	}

	if err := c.PG.Close(); err != nil {
		c.Log.Errorf("PostgreSQL close failed: %v", err)
	}

	if err := c.ErrorTracker.Flush(ctx); err != nil {
		c.Log.Warnf("Error tracker flush incomplete: %v", err)
	}

	c.Log.Info("✓ Shutdown complete")
	_ = logger.Sync()
}

func (c *Container) redisOrNil() *goredis.Client {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Client()
}
