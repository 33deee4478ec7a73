// Package offlinesync publishes predictions recorded in the offline log
// upstream and marks them synced.
package offlinesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"

	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Store is the offline log as seen by the syncer.
type Store interface {
	Ping(ctx context.Context) error
	Unsynced(ctx context.Context, limit int) ([]domain.Prediction, error)
	MarkSynced(ctx context.Context, ids []string) error
}

// Publisher delivers predictions upstream.
type Publisher interface {
	PublishBatch(ctx context.Context, predictions []domain.Prediction) error
}

// Syncer drains unsynced predictions from the offline log in batches.
// Delivery is at least once: a record published but not marked synced is
// published again on the next batch, keyed by the same id.
type Syncer struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	batchSize int
	interval  time.Duration
	synced    atomic.Bool
}

// New creates a Syncer that publishes up to batchSize records per batch and
// polls every interval once the log is drained.
func New(s Store, p Publisher, logger *slog.Logger, metrics *observability.Metrics, batchSize int, interval time.Duration) *Syncer {
	return &Syncer{
		store:     s,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		batchSize: batchSize,
		interval:  interval,
	}
}

// WithClock replaces the clock used for polling and backoff waits.
func (s *Syncer) WithClock(c clockwork.Clock) *Syncer {
	s.clock = c
	return s
}

// CheckReadiness returns nil once at least one batch has completed and the
// offline log still answers.
func (s *Syncer) CheckReadiness(ctx context.Context) error {
	if !s.synced.Load() {
		return errors.New("offline sync has not completed a batch yet")
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("offline log unreachable: %w", err)
	}
	return nil
}

// Run syncs batches until the context is cancelled. A full batch is followed
// immediately by the next one; a partial or empty batch waits for the poll
// interval. Failures back off exponentially from 200ms up to 5s.
func (s *Syncer) Run(ctx context.Context) error {
	s.logger.Info("offline sync started", "batch_size", s.batchSize, "interval", s.interval)
	s.metrics.SyncRunning.Set(1)
	defer s.metrics.SyncRunning.Set(0)

	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("offline sync stopping", "reason", ctx.Err())
			return nil
		default:
		}

		n, err := s.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("sync batch failed", "error", err, "retry_in", backoff)
			if !s.sleep(ctx, backoff) {
				return nil
			}
			backoff = retry.NextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = initialBackoff

		if n < s.batchSize && !s.sleep(ctx, s.interval) {
			return nil
		}
	}
}

// RunOnce publishes a single batch of unsynced records and marks them synced.
// It returns the number of records synced.
func (s *Syncer) RunOnce(ctx context.Context) (int, error) {
	batch, err := s.store.Unsynced(ctx, s.batchSize)
	if err != nil {
		s.metrics.SyncErrors.Inc()
		return 0, fmt.Errorf("read unsynced: %w", err)
	}
	if len(batch) == 0 {
		s.synced.Store(true)
		return 0, nil
	}

	if err := s.publisher.PublishBatch(ctx, batch); err != nil {
		s.metrics.SyncErrors.Inc()
		return 0, fmt.Errorf("publish batch: %w", err)
	}

	ids := make([]string, len(batch))
	for i := range batch {
		ids[i] = batch[i].ID
	}
	if err := s.store.MarkSynced(ctx, ids); err != nil {
		s.metrics.SyncErrors.Inc()
		return 0, fmt.Errorf("mark synced: %w", err)
	}

	s.metrics.SyncPublished.Add(float64(len(batch)))
	s.synced.Store(true)
	s.logger.Info("synced predictions", "count", len(batch))
	return len(batch), nil
}

// Drain runs batches until the log has no unsynced records or an error occurs.
// It returns the total number of records synced.
func (s *Syncer) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := s.RunOnce(ctx)
		total += n
		if err != nil || n < s.batchSize {
			return total, err
		}
	}
}

func (s *Syncer) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := s.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
