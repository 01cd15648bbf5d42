// Package sync drains the offline sale queue against the remote
// transaction service, strictly in creation order, removing each entry
// only after the remote service confirms that exact record.
package sync

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/metrics"
	"github.com/fekuna/omnipos-terminal/internal/queue"
	"github.com/fekuna/omnipos-terminal/internal/remote"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
	"go.uber.org/zap"
)

type Config struct {
	Interval   time.Duration
	MaxRejects int
}

type Engine struct {
	cfg     *Config
	queue   queue.Repository
	remote  remote.Client
	monitor *connectivity.Monitor
	logger  logger.ZapLogger

	// Single-slot semaphore serializing passes: a trigger arriving while
	// a pass runs is a no-op, the next trigger picks up remaining work.
	sem chan struct{}
}

func NewEngine(cfg *Config, q queue.Repository, client remote.Client, monitor *connectivity.Monitor, log logger.ZapLogger) *Engine {
	return &Engine{
		cfg:     cfg,
		queue:   q,
		remote:  client,
		monitor: monitor,
		logger:  log,
		sem:     make(chan struct{}, 1),
	}
}

// Run reacts to became-online events and ticks a safety-net interval for
// missed events, until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	events := e.monitor.Subscribe()
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	// Drain whatever was queued before this process started.
	if e.monitor.IsOnline() {
		e.TrySync(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if ev.Online {
				e.TrySync(ctx)
			}
		case <-ticker.C:
			if e.monitor.IsOnline() {
				e.TrySync(ctx)
			}
		}
	}
}

// TrySync runs one synchronization pass unless one is already in progress,
// in which case it reports false and does nothing.
func (e *Engine) TrySync(ctx context.Context) bool {
	select {
	case e.sem <- struct{}{}:
	default:
		return false
	}
	defer func() { <-e.sem }()

	e.syncPass(ctx)
	return true
}

func (e *Engine) syncPass(ctx context.Context) {
	metrics.SyncPasses.Inc()

	// The full list is re-read at the start of each pass; an enqueue that
	// lands after this read waits for the next trigger.
	sales, err := e.queue.ListPending(ctx)
	if err != nil {
		e.logger.Error("could not read offline queue", zap.Error(err))
		return
	}
	if len(sales) == 0 {
		e.updateDepth(ctx)
		return
	}

	e.logger.Info("starting sync pass", zap.Int("pending", len(sales)))

	for i := range sales {
		s := &sales[i]
		result, err := e.remote.SubmitSale(ctx, remote.RequestFromPendingSale(s))
		if err != nil {
			var rejected *remote.RejectedError
			if errors.As(err, &rejected) {
				// Definitive business refusal: the entry stays for
				// operator intervention, later entries still go out.
				e.logger.Warn("queued sale rejected by remote service",
					zap.Int64("local_id", s.ID),
					zap.String("message", rejected.Message))
				metrics.RejectedSales.Inc()
				if err := e.queue.MarkRejected(ctx, s.ID, e.cfg.MaxRejects); err != nil {
					e.logger.Error("could not record rejection", zap.Int64("local_id", s.ID), zap.Error(err))
				}
				continue
			}

			// Indeterminate: stop here so replay order is preserved and
			// an unreachable backend is not hammered.
			e.logger.Warn("sync pass interrupted, remote unreachable",
				zap.Int64("local_id", s.ID),
				zap.Int("remaining", len(sales)-i),
				zap.Error(err))
			metrics.DeferredSales.Add(float64(len(sales) - i))
			e.monitor.SetOnline(false)
			e.updateDepth(ctx)
			return
		}

		// Confirmed. Remove before touching the next entry; if removal
		// fails the pass stops, otherwise the entry would be replayed.
		if err := e.queue.Remove(ctx, s.ID); err != nil {
			e.logger.Error("could not remove synced sale, stopping pass",
				zap.Int64("local_id", s.ID), zap.Error(err))
			return
		}
		e.logger.Info("offline sale synced",
			zap.Int64("local_id", s.ID),
			zap.Int64("order_id", result.OrderID))
		metrics.SyncedSales.Inc()
	}

	e.logger.Info("sync pass finished")
	e.updateDepth(ctx)
}

func (e *Engine) updateDepth(ctx context.Context) {
	if n, err := e.queue.Count(ctx); err == nil {
		metrics.QueueDepth.Set(float64(n))
	}
}
