package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joestump/prompt-generator/internal/config"
	"github.com/joestump/prompt-generator/internal/db"
	"github.com/joestump/prompt-generator/internal/generator"
	"github.com/joestump/prompt-generator/internal/handler"
	"github.com/joestump/prompt-generator/internal/llm"
	"github.com/joestump/prompt-generator/internal/prompt"
	"github.com/joestump/prompt-generator/internal/session"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg, a.logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	backend, closeBackend, err := openSessionBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	sessionManager := session.NewSessionManager(backend, cfg.Session.Lifetime, !cfg.InsecureCookies)

	composer, err := prompt.NewComposer(prompt.Variant(cfg.Prompt.Variant), cfg.Prompt.Template)
	if err != nil {
		return fmt.Errorf("prompt template: %w", err)
	}

	completer, err := llm.New(cfg, logger)
	if err != nil {
		return err
	}

	svc := generator.NewService(composer, completer, cfg.LLM.APIKey)
	if !svc.Configured() {
		logger.Warn("no API key configured; generation requests will be refused",
			zap.String("env", config.APIKeyEnv))
	}

	router := handler.NewRouter(handler.Deps{
		SessionManager: sessionManager,
		Generator:      svc,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// A generate request blocks on the provider for up to the LLM timeout.
		WriteTimeout: cfg.LLM.Timeout + 15*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("variant", cfg.Prompt.Variant),
			zap.String("session_store", cfg.Session.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openSessionBackend connects whatever store cfg.Session.Store names. SQL
// stores are migrated before use.
func openSessionBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Backend, func(), error) {
	switch {
	case cfg.SQLStore():
		database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return session.Backend{}, nil, err
		}
		if err := db.Migrate(database, cfg.DB.Driver); err != nil {
			_ = database.Close()
			return session.Backend{}, nil, err
		}
		logger.Info("session store ready", zap.String("driver", cfg.DB.Driver))
		return session.Backend{Driver: cfg.DB.Driver, DB: database}, func() { _ = database.Close() }, nil

	case cfg.Session.Store == "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return session.Backend{}, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("session store ready", zap.String("driver", "redis"), zap.String("addr", cfg.Redis.Addr))
		return session.Backend{Driver: "redis", Redis: client}, func() { _ = client.Close() }, nil

	default:
		return session.Backend{Driver: "memory"}, func() {}, nil
	}
}
