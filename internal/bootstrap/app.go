package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"lawyerup-backend/internal/news"
	"lawyerup-backend/internal/shared/auth"
	"lawyerup-backend/internal/shared/config"
	"lawyerup-backend/internal/shared/server"
	"lawyerup-backend/internal/shared/server/middleware"
	"lawyerup-backend/internal/shared/storage/db"
	"lawyerup-backend/internal/shared/storage/object"
	cloudinarystore "lawyerup-backend/internal/shared/storage/object/cloudinary"
	localstore "lawyerup-backend/internal/shared/storage/object/local"
	s3store "lawyerup-backend/internal/shared/storage/object/s3"
	"lawyerup-backend/internal/shared/telemetry"
	"lawyerup-backend/internal/uploads"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	LocalStore    *localstore.Store
	Uploads       *uploads.Router
	NewsRepo      news.Repo
	NewsService   *news.Service
	NewsHandler   *news.Handler
	UploadHandler *uploads.Handler
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.LocalStoreDir) == "" {
		cfg.LocalStoreDir = "."
	}
	if strings.TrimSpace(cfg.RemoteNamespace) == "" {
		cfg.RemoteNamespace = "lawyerup"
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	local := localstore.New(cfg.LocalStoreDir)
	router, err := buildUploadRouter(ctx, cfg, local)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		LocalStore: local,
		Uploads:    router,
	}
	if sqlDB != nil {
		app.NewsRepo = &news.PGRepo{DB: sqlDB}
	} else {
		app.NewsRepo = news.NewMemoryRepo()
	}
	app.NewsService = news.NewService(app.NewsRepo, router)
	app.NewsHandler = news.NewHandler(app.NewsService)
	app.UploadHandler = uploads.NewHandler(router)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Verifier:      verifier,
		NewsHandler:   app.NewsHandler,
		UploadHandler: app.UploadHandler,
		UploadsRoot:   local.Root(),
		Limiter:       middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            cfg.Env,
		"upload_backend": router.Backend(),
		"database":       sqlDB != nil,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database.memory", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

// buildUploadRouter selects the upload backend once. The remote client is
// only constructed when remote storage is enabled.
func buildUploadRouter(ctx context.Context, cfg config.Config, local *localstore.Store) (*uploads.Router, error) {
	var remote uploads.Backend
	if cfg.UseRemoteStorage {
		client, err := buildRemoteClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		remote = uploads.NewRemoteBackend(client, cfg.RemoteNamespace)
	}
	return uploads.NewRouter(uploads.RouterConfig{UseRemote: cfg.UseRemoteStorage}, uploads.NewLocalBackend(local), remote)
}

func buildRemoteClient(ctx context.Context, cfg config.Config) (object.RemoteClient, error) {
	switch cfg.RemoteStore {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return cloudinarystore.New(cfg.CloudinaryURL)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
