package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"inspection-backend/internal/inspections"
	"inspection-backend/internal/notify"
	"inspection-backend/internal/queue"
	"inspection-backend/internal/shared/auth"
	"inspection-backend/internal/shared/config"
	"inspection-backend/internal/shared/server"
	"inspection-backend/internal/shared/server/middleware"
	"inspection-backend/internal/shared/storage/cache"
	"inspection-backend/internal/shared/storage/db"
	"inspection-backend/internal/shared/telemetry"
	"inspection-backend/internal/shops"
	"inspection-backend/internal/shortlinks"
	"inspection-backend/internal/users"
)

// newSQSClient is swapped in tests.
var newSQSClient = queue.NewSQSClient

// App holds shared dependencies for the API and the worker.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Redis              *redis.Client
	Queue              queue.Client
	Verifier           *auth.Verifier
	ShopsService       *shops.Service
	UsersService       *users.Service
	ShortLinksService  *shortlinks.Service
	Dispatcher         *notify.Dispatcher
	InspectionsService *inspections.Service
}

// Build connects storage and wires services and the router. In dev-like
// environments missing or unreachable Postgres and Redis fall back to
// in-memory implementations.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app, err := build(ctx, cfg, db.DefaultServerOptions())
	if err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Verifier:          app.Verifier,
		RateLimiter:       middleware.NewRateLimiter(nil),
		InspectionHandler: inspections.NewHandler(app.InspectionsService),
		ShopHandler:       shops.NewHandler(app.ShopsService),
		ShortLinkHandler:  shortlinks.NewHandler(app.ShortLinksService),
		UserHandler:       users.NewHandler(app.UsersService),
		Ready:             app.Ping,
	})
	return app, nil
}

// BuildWorker wires the notification worker. It delivers inline through the
// configured sender, so no queue client is attached to its dispatcher.
func BuildWorker(ctx context.Context, cfg config.Config) (*App, error) {
	cfg.NotifyQueueURL = ""
	return build(ctx, cfg, db.DefaultWorkerOptions())
}

func build(ctx context.Context, cfg config.Config, dbOpts db.Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.IsDevLike())
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Verifier: verifier}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	if app.DB, err = buildDB(ctx, cfg, dbOpts); err != nil {
		return fail(err)
	}
	if app.Redis, err = buildRedis(ctx, cfg); err != nil {
		return fail(err)
	}
	if app.Queue, err = buildQueue(ctx, cfg); err != nil {
		return fail(err)
	}
	if err := buildServices(ctx, app); err != nil {
		return fail(err)
	}
	return app, nil
}

// Ping checks reachable backing stores.
func (a *App) Ping() error {
	ctx := context.Background()
	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close releases storage connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config, defaults db.Options) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_missing", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(defaults))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_unavailable", map[string]any{"fallback": "memory", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"fallback": "memory", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if cfg.NotifyQueueURL == "" {
		return nil, nil
	}
	client, err := newSQSClient(ctx, cfg.AWSRegion, cfg.NotifyQueueURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildSender(ctx context.Context, cfg config.Config) (notify.Sender, error) {
	if cfg.SMSProvider != "sns" {
		return notify.LogSender{}, nil
	}
	sender, err := notify.NewSNSSender(ctx, cfg.AWSRegion, cfg.SMSSenderID)
	if err != nil {
		return nil, err
	}
	return sender, nil
}

func buildServices(ctx context.Context, app *App) error {
	var shopRepo shops.Repo
	var userRepo users.Repo
	var inspectionRepo inspections.Repo
	var notifyRepo notify.Repo

	if app.DB != nil {
		shopRepo = &shops.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
		inspectionRepo = &inspections.PGRepo{DB: app.DB}
		notifyRepo = &notify.PGRepo{DB: app.DB}
	} else {
		shopRepo = shops.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		inspectionRepo = inspections.NewMemoryRepo()
		notifyRepo = notify.NewMemoryRepo()
	}

	var configCache shops.ConfigCache
	var linkStore shortlinks.Store
	if app.Redis != nil {
		configCache = shops.NewRedisConfigCache(app.Redis)
		linkStore = shortlinks.NewRedisStore(app.Redis)
	} else {
		linkStore = shortlinks.NewMemoryStore()
	}

	sender, err := buildSender(ctx, app.Config)
	if err != nil {
		return err
	}

	app.ShopsService = shops.NewService(shopRepo, configCache, app.Config.DefaultLaborRate)
	app.UsersService = users.NewService(userRepo)
	app.ShortLinksService = shortlinks.NewService(linkStore, app.Config.PublicBaseURL, app.Config.ShortLinkTTL)
	app.Dispatcher = notify.NewDispatcher(sender, app.Queue, notifyRepo)
	app.InspectionsService = inspections.NewService(
		inspectionRepo,
		app.ShopsService,
		app.ShortLinksService,
		app.Dispatcher,
		app.Config.PublicBaseURL,
	)

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          app.Config.Env,
		"postgres":     app.DB != nil,
		"redis":        app.Redis != nil,
		"queue":        app.Queue != nil,
		"sms_provider": app.Config.SMSProvider,
	})
	return nil
}
