package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oneworldlabs/oneworld/internal/app"
	"github.com/oneworldlabs/oneworld/internal/auth"
	"github.com/oneworldlabs/oneworld/internal/bot"
	"github.com/oneworldlabs/oneworld/internal/chain"
	"github.com/oneworldlabs/oneworld/internal/config"
	"github.com/oneworldlabs/oneworld/internal/economy"
	"github.com/oneworldlabs/oneworld/internal/i18n"
	"github.com/oneworldlabs/oneworld/internal/lobby"
	"github.com/oneworldlabs/oneworld/internal/storage"
	"github.com/oneworldlabs/oneworld/internal/transport/http/handler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := setupLogger()

	if err := run(logger); err != nil {
		logger.Error("oneworld exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	printStartupBanner(cfg)

	store, err := storage.NewSQLiteStorage(cfg.DBPath, economy.TotalSupply)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	authCache, err := auth.NewCache()
	if err != nil {
		return fmt.Errorf("build auth cache: %w", err)
	}
	i18nCache, err := i18n.NewCache()
	if err != nil {
		return fmt.Errorf("build i18n cache: %w", err)
	}

	verifier := auth.NewVerifier(cfg.TelegramToken, authCache)
	sessions := auth.NewSessions(cfg.SessionSecret)
	tr := i18n.New(i18nCache)
	lobbies := lobby.NewManager(logger)

	b, err := bot.New(cfg, store, tr, logger)
	if err != nil {
		return err
	}

	repo := handler.NewRepo(store, verifier, sessions, lobbies, cfg.SharedSecret, logger)
	router := app.NewRouter(repo, &app.RouterOptions{
		Logger:          logger,
		Sessions:        sessions,
		CreditPerMinute: 60,
	})
	srv := app.NewServer(cfg, router, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	g.Go(func() error { return b.Run(gctx) })
	g.Go(func() error { return lobbies.Run(gctx) })

	if cfg.BSCRPC != "" {
		watcher := chain.NewWatcher(store, chain.NewClient(cfg.BSCRPC), chain.WatcherConfig{
			Treasury:      cfg.TreasuryAddress,
			Rate:          cfg.OWCPerBNB,
			Confirmations: cfg.Economy.Confirmations,
			Interval:      time.Duration(cfg.Economy.PollSeconds) * time.Second,
			Notify: func(userID, amount int64) {
				text := fmt.Sprintf("Deposit confirmed: +%d OWC credited to your balance.", amount)
				if err := b.SendNotification(userID, text); err != nil {
					logger.Warn("deposit notification failed", "user", userID, "error", err)
				}
			},
		}, logger)
		g.Go(func() error { return watcher.Run(gctx) })
	} else {
		logger.Info("deposit watcher disabled, BSC_RPC not set")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
