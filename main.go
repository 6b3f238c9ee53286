// Command jobtrack serves the job application tracking API and manages its schema.
//
// @title jobtrack API
// @version 1.0
// @description Authenticated job application tracker.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/user/jobtrack-go/applications"
	"github.com/user/jobtrack-go/auth"
	"github.com/user/jobtrack-go/config"
	"github.com/user/jobtrack-go/db"
	"github.com/user/jobtrack-go/health"
	"github.com/user/jobtrack-go/logger"
	"github.com/user/jobtrack-go/metrics"
	"github.com/user/jobtrack-go/server"
	"github.com/user/jobtrack-go/users"
	"github.com/user/jobtrack-go/validation"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	app := &cli.App{
		Name:    "jobtrack",
		Usage:   "job application tracking API",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "load environment variables from `FILE` if it exists",
				Value: ".env",
			},
		},
		Before: func(c *cli.Context) error {
			if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Warning: error loading %s: %v\n", c.String("env-file"), err)
			}
			return nil
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply all pending migrations", Action: migrateAction(func(m *db.Migrator) error { return m.Up() })},
					{Name: "down", Usage: "revert all migrations", Action: migrateAction(func(m *db.Migrator) error { return m.Down() })},
					{
						Name:  "steps",
						Usage: "apply (n > 0) or revert (n < 0) n migrations",
						Flags: []cli.Flag{&cli.IntFlag{Name: "n", Required: true}},
						Action: func(c *cli.Context) error {
							return migrateAction(func(m *db.Migrator) error { return m.Steps(c.Int("n")) })(c)
						},
					},
					{
						Name:  "version",
						Usage: "print the current schema version",
						Action: migrateAction(func(m *db.Migrator) error {
							v, dirty, err := m.Version()
							if err != nil {
								return err
							}
							fmt.Printf("version %d (dirty: %t)\n", v, dirty)
							return nil
						}),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "jobtrack: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger.
func bootstrap() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Config{
		Env:         cfg.Log.Env,
		Level:       cfg.Log.Level,
		ServiceName: "jobtrack",
		Version:     version,
	})
	return cfg, log, nil
}

func migrateAction(run func(m *db.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		d, err := db.Open(c.Context, cfg.Database)
		if err != nil {
			return err
		}
		defer d.Close()

		m, err := db.NewMigrator(d, log)
		if err != nil {
			return err
		}
		defer m.Close()
		return run(m)
	}
}

func serve(c *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer d.Close()
	log.Info("database connected", zap.String("driver", d.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(d, log); err != nil {
			return err
		}
	}

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	if err := m.RegisterDB(d); err != nil {
		return fmt.Errorf("failed to register database metrics: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return err
	}
	validate := validation.New()
	accounts := users.NewRepository(d)

	router := server.NewRouter(server.Deps{
		Config:       cfg.Server,
		Logger:       log,
		Auth:         auth.NewService(accounts, hasher, validate),
		Tokens:       tokens,
		Resolver:     auth.NewResolver(tokens, accounts),
		Applications: applications.NewService(applications.NewRepository(d), validate),
		Health:       health.NewHandler(d, version),
		Metrics:      m,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("api_prefix", cfg.Server.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server stopped gracefully")
	return nil
}
