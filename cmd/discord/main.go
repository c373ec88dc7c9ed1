// cmd/discord/main.go
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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/keshon/server-herald/internal/config"
	"github.com/keshon/server-herald/internal/discord"
	"github.com/keshon/server-herald/internal/logging"
	"github.com/keshon/server-herald/internal/storage"
	"github.com/keshon/server-herald/internal/watch"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dotenv := config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting bot",
		zap.String("trigger", cfg.Trigger),
		zap.String("data", cfg.DataDir),
		zap.Bool("dotenv", dotenv),
		zap.Bool("commands", cfg.CommandEnabled),
		zap.Bool("roles", cfg.RoleEnabled),
		zap.Bool("join", cfg.JoinEnabled),
	)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := discord.New(cfg, log)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("Serving metrics", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if cfg.WatchData {
		handlers := map[string]watch.Handler{}
		if cfg.CommandEnabled {
			handlers[storage.CommandsFile] = bot.ReloadCommands
		}
		if cfg.RoleEnabled {
			handlers[storage.RolesFile] = bot.ReloadRoles
		}
		if cfg.JoinEnabled {
			handlers[storage.JoinMessageFile] = bot.ReloadJoin
		}
		w := watch.New(cfg.DataDir, handlers, watch.WithLogger(log.Named("watch")))
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	err = g.Wait()
	log.Info("Bot stopped")
	return err
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
