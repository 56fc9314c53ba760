package chain

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oneworldlabs/oneworld/internal/economy"
	"github.com/oneworldlabs/oneworld/internal/metrics"
	"github.com/oneworldlabs/oneworld/internal/storage"
)

// WatcherConfig holds the deposit verification tunables.
type WatcherConfig struct {
	Treasury      string        // deposit destination address
	Rate          int64         // OWC credited per BNB
	Confirmations int64         // depth behind head required to settle
	Interval      time.Duration // poll period

	// Notify, when set, is called after a deposit settles so the bot
	// can tell the depositor.
	Notify func(userID, amount int64)
}

// Watcher polls the chain and settles pending deposit claims. A claim
// stays pending while its transaction is unknown or unmined. Claims
// that can never settle (wrong destination, reverted, zero value) are
// marked failed so they are not rechecked forever.
type Watcher struct {
	store  storage.Storage
	client *Client
	cfg    WatcherConfig
	logger *slog.Logger
}

// NewWatcher creates a deposit watcher.
func NewWatcher(store storage.Storage, client *Client, cfg WatcherConfig, logger *slog.Logger) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.Confirmations <= 0 {
		cfg.Confirmations = 1
	}
	return &Watcher{store: store, client: client, cfg: cfg, logger: logger}
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("deposit watcher started",
		"treasury", w.cfg.Treasury,
		"interval", w.cfg.Interval,
	)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep checks every pending claim once.
func (w *Watcher) Sweep(ctx context.Context) {
	pending, err := w.store.PendingDeposits(50)
	if err != nil {
		w.logger.Error("listing pending deposits failed", "error", err)
		return
	}

	for _, dep := range pending {
		if ctx.Err() != nil {
			return
		}
		w.verify(ctx, dep)
	}
}

func (w *Watcher) verify(ctx context.Context, dep *storage.Transaction) {
	tx, err := w.client.TransactionByHash(ctx, dep.Ref)
	if errors.Is(err, ErrTxNotFound) {
		return // not indexed yet, check again next sweep
	}
	if err != nil {
		w.logger.Warn("deposit lookup failed", "tx", dep.Ref, "error", err)
		return
	}

	if !SameAddress(tx.To, w.cfg.Treasury) {
		w.fail(dep, "wrong destination")
		return
	}

	receipt, err := w.client.TransactionReceipt(ctx, dep.Ref)
	if errors.Is(err, ErrTxNotFound) {
		return // mined state not visible yet
	}
	if err != nil {
		w.logger.Warn("receipt lookup failed", "tx", dep.Ref, "error", err)
		return
	}
	if !receipt.Succeeded() {
		w.fail(dep, "transaction reverted")
		return
	}

	if w.cfg.Confirmations > 1 {
		head, err := w.client.BlockNumber(ctx)
		if err != nil {
			w.logger.Warn("head lookup failed", "error", err)
			return
		}
		if receipt.BlockNumber == nil || head-receipt.BlockNumber.Int64()+1 < w.cfg.Confirmations {
			return // not deep enough yet
		}
	}

	amount := economy.FromWei(tx.Value.BigInt(), w.cfg.Rate)
	if amount <= 0 {
		w.fail(dep, "zero value")
		return
	}

	if err := w.store.SettleDeposit(dep.ID, amount); err != nil {
		w.logger.Error("settling deposit failed", "tx", dep.Ref, "error", err)
		return
	}
	metrics.DepositsSettled.Inc()
	w.logger.Info("deposit settled", "tx", dep.Ref, "user", dep.ToID, "amount", amount)
	if w.cfg.Notify != nil {
		w.cfg.Notify(dep.ToID, amount)
	}
}

func (w *Watcher) fail(dep *storage.Transaction, reason string) {
	if err := w.store.FailDeposit(dep.ID); err != nil {
		w.logger.Error("failing deposit failed", "tx", dep.Ref, "error", err)
		return
	}
	metrics.DepositsFailed.Inc()
	w.logger.Warn("deposit rejected", "tx", dep.Ref, "reason", reason)
}
