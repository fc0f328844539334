// Package server wires and runs the image catalog: object storage, the
// category index, the REST API and the optional gRPC health endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/postapp/internal/awsx"
	"github.com/dmitrijs2005/postapp/internal/logging"
	"github.com/dmitrijs2005/postapp/internal/server/catalog"
	"github.com/dmitrijs2005/postapp/internal/server/config"
	"github.com/dmitrijs2005/postapp/internal/server/httpapi"
	"github.com/dmitrijs2005/postapp/internal/server/index"
	"github.com/dmitrijs2005/postapp/internal/server/storage"

	gs "github.com/dmitrijs2005/postapp/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	catalog *catalog.Service
	db      *sql.DB
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	objects, err := storage.NewS3StoreFromConfig(ctx, storage.Options{
		Bucket:     c.S3Bucket,
		Region:     c.S3Region,
		Endpoint:   c.S3BaseEndpoint,
		AccessKey:  c.S3AccessKey,
		SecretKey:  c.S3SecretKey,
		PresignTTL: c.PresignTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	var idx index.Repository
	switch c.IndexBackend {
	case config.IndexSQL:
		db, dialect, err := index.OpenSQL(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		idx = index.NewSQLRepository(db, dialect)
	default:
		idx, err = index.NewDynamoRepositoryFromConfig(ctx,
			awsx.Options{Region: c.S3Region, AccessKey: c.S3AccessKey, SecretKey: c.S3SecretKey},
			c.DynamoEndpoint, c.DynamoTable, c.DynamoIndex)
		if err != nil {
			return nil, fmt.Errorf("dynamodb init error: %w", err)
		}
	}

	app.catalog = catalog.NewService(objects, idx, logger)
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc, health *gs.HealthServer) {
	opts := httpapi.Options{
		RateLimit:      app.config.RateLimit,
		RateBurst:      app.config.RateBurst,
		MaxUploadBytes: app.config.MaxUploadBytes(),
	}

	limiter := httpapi.NewLimiter(opts)
	if limiter != nil {
		go limiter.RunCleanup(ctx, 5*time.Minute)
	}

	router := httpapi.NewRouter(app.catalog, app.logger, limiter, opts)
	s := httpapi.NewServer(app.config.HTTPAddr, router, app.logger, app.config.ShutdownTimeout)

	if health != nil {
		health.SetServing(true)
	}
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	if health != nil {
		health.SetServing(false)
	}
	cancelFunc()
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc, s *gs.HealthServer) {
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until SIGINT/SIGTERM/SIGQUIT, ctx cancellation or a server
// failure, then waits for both servers to stop.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var health *gs.HealthServer
	if app.config.GRPCHealthAddr != "" {
		health = gs.NewHealthServer(app.config.GRPCHealthAddr, app.logger)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc, health)
	}()

	if health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHealthServer(ctx, cancelFunc, health)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
