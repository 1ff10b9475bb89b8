package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	authpg "github.com/meetly/meetly/engine/auth/infra/postgres"
	authredis "github.com/meetly/meetly/engine/auth/infra/redis"
	"github.com/meetly/meetly/engine/auth/oauth"
	authrouter "github.com/meetly/meetly/engine/auth/router"
	authuc "github.com/meetly/meetly/engine/auth/uc"
	bookingpg "github.com/meetly/meetly/engine/booking/infra/postgres"
	infrapg "github.com/meetly/meetly/engine/infra/postgres"
	"github.com/meetly/meetly/engine/infra/server"
	"github.com/meetly/meetly/engine/infra/store"
	"github.com/meetly/meetly/pkg/config"
	"github.com/meetly/meetly/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "meetly",
		Short:         "Meetly shared-room booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(serveCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "path to an optional env file")
	return cmd
}

func runServe(ctx context.Context, envFile string) error {
	// Missing env file is fine; the environment may already be set.
	_ = godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Init(&logger.Config{
		Level:  logger.LogLevel(cfg.Log.Level),
		Output: os.Stdout,
		JSON:   cfg.Log.JSON,
	})
	log := logger.GetDefault()
	ctx = logger.ContextWithLogger(ctx, log)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := &store.Config{
		ConnString: cfg.Database.ConnString,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password,
		DBName:     cfg.Database.Name,
		SSLMode:    cfg.Database.SSLMode,
	}
	if cfg.Database.AutoMigrate {
		if err := infrapg.ApplyMigrations(ctx, dbCfg.DSN()); err != nil {
			return err
		}
	}
	db, err := store.NewDB(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close(context.WithoutCancel(ctx))

	var authRepo authuc.Repository = authpg.NewRepository(db.Pool())
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		authRepo = authredis.NewCachedRepository(authRepo, client, cfg.Redis.TTL)
		log.Info("session cache enabled", "addr", cfg.Redis.Addr)
	}
	bookingRepo := bookingpg.NewRepository(db.Pool())

	provider := oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:     cfg.OAuth.Google.ClientID,
		ClientSecret: cfg.OAuth.Google.ClientSecret,
		RedirectURL:  cfg.OAuth.Google.RedirectURL,
	})

	srv := server.NewServer(server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, server.Dependencies{
		AuthRepo:    authRepo,
		BookingRepo: bookingRepo,
		Provider:    provider,
		Session: authrouter.SessionConfig{
			CookieName: cfg.Session.CookieName,
			MaxAge:     cfg.Session.MaxAge,
			Secure:     cfg.Session.Secure,
		},
	})
	return srv.Run(ctx)
}
