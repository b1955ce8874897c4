package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"zenmindful/config"
	"zenmindful/internal/application/usecase"
	"zenmindful/internal/infrastructure/cache"
	"zenmindful/internal/infrastructure/generator"
	"zenmindful/internal/infrastructure/notify"
	"zenmindful/internal/infrastructure/repository"
	"zenmindful/internal/infrastructure/security"
	"zenmindful/internal/metrics"
	"zenmindful/internal/middleware"
	grpc_server "zenmindful/internal/transport/grpc"
	handlers "zenmindful/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "zenmindful",
		Short:         "Wellness challenge tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "Directory holding app.env")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(configPath)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if err := repository.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset-user <id>",
		Short: "Delete a user with all challenge data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(configPath)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if err := repository.NewUserRepository(db).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			log.Info("user reset", "user_id", args[0])
			return nil
		},
	})

	return cmd
}

func setup(configPath string) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return cfg, log, nil
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context, configPath string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	log.Info("running migrations")
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	m := metrics.New()

	var sender usecase.CodeSender = notify.NewLogSender(log)
	if cfg.SMSWebhookURL != "" {
		sender = notify.NewWebhookSender(cfg.SMSWebhookURL, cfg.SMSAPIKey)
	}
	var verifier usecase.IdentityVerifier
	if cfg.IdentityTokenSecret != "" {
		verifier = security.NewTokenVerifier(cfg.IdentityTokenSecret, cfg.IdentityTokenIssuer)
	} else {
		log.Warn("IDENTITY_TOKEN_SECRET not set, federated sync is disabled")
	}

	users := repository.NewUserRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	identity := usecase.NewIdentityUseCase(
		users,
		cache.NewSessionStore(rdb, cfg.SessionTTL),
		cache.NewOTPStore(rdb, cfg.OTPTTL),
		security.NewCodeHasher(),
		sender,
		verifier,
		log,
		m,
	)
	challenges := usecase.NewChallengeUseCase(challengeRepo, log, m)
	accounts := usecase.NewAccountUseCase(users, challengeRepo, log)
	gen := generator.NewClient(cfg.GeneratorURL, cfg.GeneratorAPIKey, cfg.GeneratorModel, cfg.GeneratorTimeout)
	content := usecase.NewContentUseCase(gen, log, m)

	cookie := middleware.SessionCookie{Name: cfg.SessionCookie, TTL: cfg.SessionTTL, Secure: cfg.CookieSecure}
	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:       handlers.NewAuthHandler(identity, cookie),
		Challenges: handlers.NewChallengeHandler(challenges, content, identity),
		Account:    handlers.NewAccountHandler(accounts),
		Resolver:   identity,
		Cookie:     cookie,
		Limiter:    middleware.NewRateLimiter(rdb, log),
		Metrics:    m,
		Origins:    cfg.Origins(),
		Log:        log,
	})
	httpSrv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 2)
	go func() {
		log.Info("HTTP server listening", "address", cfg.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := grpc_server.NewChallengeServer(challenges, identity, log).Run(ctx, cfg.GRPCPort); err != nil {
			errc <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-errc:
		stop()
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
		log.Error("http shutdown", "error", serr)
	}
	return err
}
