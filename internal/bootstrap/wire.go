package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/uptrace/bun"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/events"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/items"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/users"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db/bunstore"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db/migrations"
	rabbitmq_pub "github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/metrics"
	http_handlers "github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(driver, dsn string, debug bool) (*bun.DB, error)

	// NewRedis is only called when REDIS_ADDR is set.
	NewRedis func(addr, password string, db int) *redis.Client

	// NewPublisher is only called when RABBIT_URL is set.
	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type Publisher interface {
	events.Publisher
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	bdb, err := deps.NewDB(cfg.DBDriver, cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = bdb.Close() },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DBAutoMigrate {
		if err := migrations.Up(ctx, bdb.DB, cfg.DBDriver); err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
		logger.Logger.Info().Str("driver", cfg.DBDriver).Msg("migrations applied")
	}

	// 2) repos
	userStore := bunstore.NewUserRepo(bdb)
	itemStore := bunstore.NewItemRepo(bdb)

	// 3) redis (best-effort)
	var userRepo redis.UserStore = userStore
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; cache disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			userRepo = redis.NewCachedUserRepo(userStore, c, cfg.UserCacheTTL)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 4) publisher
	var pub events.Publisher = events.Noop{}
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.IsDev():
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt codec")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	codec := security.NewJWTCodec(cfg.JWTSecret, cfg.JWTIssuer)

	if cfg.DBSeed {
		db.Seed(ctx, userStore, itemStore, hasher, logger.Logger)
	}

	// 6) services
	auditLog := audit.New(logger.Logger)

	authSvc := auth.NewService(userRepo, hasher, codec, auth.Config{TokenTTL: cfg.TokenTTL}).
		WithAudit(auditLog.Record).
		WithPublisher(pub)
	usersSvc := users.NewService(userRepo, hasher).
		WithAudit(auditLog.Record).
		WithPublisher(pub)
	itemsSvc := items.NewService(itemStore)

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      http_handlers.NewHealthHandler(bdb, cfg.Env, cfg.Version),
		Auth:        http_handlers.NewAuthHandler(authSvc),
		Users:       http_handlers.NewUsersHandler(usersSvc),
		Items:       http_handlers.NewItemsHandler(itemsSvc),
		AuthMW:      middleware.Auth(codec, response.WriteError),
		Metrics:     metrics.Handler(),
		CORSOrigins: cfg.CORSAllowedOrigins,
		Version:     cfg.Version,
		HSTS:        cfg.Env == "prod",
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
