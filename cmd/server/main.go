package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // IANA zones for app.timezone and ?tz= on hosts without zoneinfo

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	grpcadapter "github.com/simaogato/cashil-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/cashil-backend/internal/adapter/http"
	"github.com/simaogato/cashil-backend/internal/adapter/notify"
	"github.com/simaogato/cashil-backend/internal/adapter/notify/amqp"
	"github.com/simaogato/cashil-backend/internal/adapter/notify/websocket"
	"github.com/simaogato/cashil-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/cashil-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/cashil-backend/internal/config"
	"github.com/simaogato/cashil-backend/internal/domain"
	"github.com/simaogato/cashil-backend/internal/logger"
	"github.com/simaogato/cashil-backend/internal/usecase/dashboard"
	"github.com/simaogato/cashil-backend/internal/usecase/ledger"
	"github.com/simaogato/cashil-backend/internal/usecase/seeder"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: ./config.yaml if present)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "cashil: %v\n", err)
		os.Exit(1)
	}
}

// store bundles the repository with what main needs to probe and close it
type store struct {
	repo   domain.TransactionRepository
	pinger grpcadapter.Pinger
	closer io.Closer
}

func run(configPath string) error {
	// 1. Configuration and logging
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	st, err := openStore(ctx, cfg, logger.Component(log, "store"))
	if err != nil {
		return err
	}
	defer st.closer.Close()

	if cfg.App.SeedDemo {
		inserted, err := seeder.NewDemoSeeder(st.repo, loc).Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed demo transactions: %w", err)
		}
		log.Info().Int("inserted", inserted).Msg("demo seeding finished")
	}

	// 3. Change notification
	notifyLog := logger.Component(log, "notify")
	hub := websocket.NewHub(notifyLog)
	notifiers := []domain.ChangeNotifier{hub}

	if cfg.AMQPEnabled() {
		publisher, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, notifyLog)
		if err != nil {
			// The broker is auxiliary; browsers still get live updates
			notifyLog.Error().Err(err).Msg("AMQP publisher disabled")
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
			notifyLog.Info().Str("exchange", cfg.AMQP.Exchange).Msg("publishing change events to AMQP")
		}
	}

	// 4. Initialize Services (Use Cases)
	ledgerService := ledger.NewService(st.repo, notify.NewFanout(notifiers...), log)
	dashboardService := dashboard.NewDashboardService(st.repo, loc)

	// 5. Servers
	handler := httpadapter.NewTransactionHandler(ledgerService, dashboardService, loc, logger.Component(log, "http"))
	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		Mode:        cfg.Server.Mode,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, handler, hub.HandleWS, logger.Component(log, "http"))

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpcadapter.NewServer(cfg.Server.GRPCAddr, cfg.Server.AdminToken, logger.Component(log, "grpc"))
	reporter := grpcadapter.NewHealthReporter(st.pinger, grpcServer.Health, cfg.App.HealthInterval, logger.Component(log, "health"))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Str("timezone", loc.String()).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := grpcServer.Start(); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return reporter.Run(gctx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down gracefully")
		return shutdown(httpServer, grpcServer, hub, cfg.Server.ShutdownTimeout, log)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// openStore connects to the configured database, runs migrations and builds the repository
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.NewDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.RunMigrations(cfg.Database.SQLitePath); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.Database.Driver).Str("path", cfg.Database.SQLitePath).Msg("store ready")
		return &store{repo: sqlite.NewTransactionRepository(db), pinger: db, closer: db}, nil

	default:
		db, err := connectPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(cfg.DSN()); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("store ready")
		return &store{repo: postgres.NewTransactionRepository(db), pinger: db, closer: db}, nil
	}
}

// connectPostgres retries while the database container is still starting
func connectPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*postgres.DB, error) {
	pool := postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := postgres.NewDB(ctx, cfg.DSN(), pool)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, lastErr)
}

func shutdown(httpServer *http.Server, grpcServer *grpcadapter.Server, hub *websocket.Hub, timeout time.Duration, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := hub.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close websocket hub")
	}

	err := httpServer.Shutdown(ctx)

	stopped := make(chan struct{})
	go func() {
		grpcServer.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		grpcServer.Server.Stop()
	}

	if err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
