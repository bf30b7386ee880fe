// internal/scheduler/scheduler.go
// Background feed sync plane. Runs SyncAllFeeds on a fixed interval,
// driving each enabled feed's adapter and folding the fetched indicators
// into the tenant's IOC store.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/feeds"
	"github.com/cyberops/isora/internal/ioc"
	"github.com/cyberops/isora/internal/metrics"
	"github.com/cyberops/isora/internal/repository"
	"github.com/cyberops/isora/internal/tenant"
)

const (
	defaultInterval   = time.Hour
	defaultFetchLimit = 5000
	maxRetries        = 3
	retryBaseDelay    = 300 * time.Second

	// Rate-limit backoffs do not consume the retry budget, but a provider
	// that keeps answering 429 must not pin a worker forever.
	maxRateLimitBackoffs = 2
)

// SyncResult is the per-feed accounting of one sync run
type SyncResult struct {
	FeedID      string                `json:"feed_id"`
	Provider    string                `json:"provider"`
	Status      repository.SyncStatus `json:"status"`
	IOCsNew     int                   `json:"iocs_new"`
	IOCsUpdated int                   `json:"iocs_updated"`
	IOCsSkipped int                   `json:"iocs_skipped"`
	Error       string                `json:"error,omitempty"`
}

// adapterFactory builds the provider adapter for a feed config
type adapterFactory func(cfg feeds.Config, logger *zap.Logger) (feeds.Adapter, error)

// Scheduler drives periodic feed syncs
type Scheduler struct {
	feedRepo repository.FeedRepository
	iocRepo  repository.IOCRepository
	logger   *zap.Logger
	metrics  *metrics.Metrics

	interval   time.Duration
	fetchLimit int

	newAdapter adapterFactory
	sleep      func(ctx context.Context, d time.Duration) error
	now        func() time.Time
}

// Option configures the scheduler
type Option func(*Scheduler)

// WithInterval overrides the sync period
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithFetchLimit overrides the per-feed fetch bound
func WithFetchLimit(n int) Option {
	return func(s *Scheduler) { s.fetchLimit = n }
}

// WithMetrics attaches the Prometheus instruments
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New creates a scheduler over the given repositories
func New(feedRepo repository.FeedRepository, iocRepo repository.IOCRepository, logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		feedRepo:   feedRepo,
		iocRepo:    iocRepo,
		logger:     logger,
		interval:   defaultInterval,
		fetchLimit: defaultFetchLimit,
		newAdapter: feeds.New,
		sleep:      sleepCtx,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks, syncing all feeds once per interval until the context is
// cancelled. The first pass runs immediately.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SyncAllFeeds(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SyncAllFeeds(ctx)
		}
	}
}

// SyncAllFeeds syncs every enabled feed across tenants
func (s *Scheduler) SyncAllFeeds(ctx context.Context) []SyncResult {
	enabled, err := s.feedRepo.ListEnabled(ctx)
	if err != nil {
		s.logger.Error("listing enabled feeds failed", zap.Error(err))
		return nil
	}

	results := make([]SyncResult, 0, len(enabled))
	for _, feed := range enabled {
		if ctx.Err() != nil {
			return results
		}
		result := s.SyncFeed(ctx, feed)
		results = append(results, result)
		if s.metrics != nil {
			s.metrics.ObserveFeedSync(feed.Provider, string(result.Status),
				result.IOCsNew, result.IOCsUpdated, result.IOCsSkipped)
		}
	}
	return results
}

// SyncFeed runs one feed's sync cycle and persists its bookkeeping.
// Errors are recorded on the feed row, never returned to callers.
func (s *Scheduler) SyncFeed(ctx context.Context, feed *repository.Feed) SyncResult {
	result := SyncResult{FeedID: feed.ID, Provider: feed.Provider}
	log := s.logger.With(zap.String("feed_id", feed.ID), zap.String("provider", feed.Provider))

	adapter, err := s.newAdapter(feed.Config, s.logger)
	if err != nil {
		log.Error("adapter construction failed", zap.Error(err))
		return s.recordFailure(ctx, feed, &result, err)
	}
	defer adapter.Close()

	if err := s.withRetry(ctx, log, func() error { return adapter.TestConnection(ctx) }); err != nil {
		log.Warn("feed connection check failed", zap.Error(err))
		return s.recordFailure(ctx, feed, &result, err)
	}

	var fetched []ioc.IOC
	err = s.withRetry(ctx, log, func() error {
		var fetchErr error
		fetched, fetchErr = adapter.FetchSince(ctx, feed.LastSync, s.fetchLimit)
		return fetchErr
	})
	if err != nil {
		log.Warn("feed fetch failed", zap.Error(err))
		return s.recordFailure(ctx, feed, &result, err)
	}

	batch := ioc.Deduplicate(s.filter(feed, fetched))
	scope := tenant.Scope{TenantID: feed.TenantID}
	for i := range batch {
		if err := s.upsert(ctx, scope, &batch[i], &result); err != nil {
			result.IOCsSkipped += 1
			log.Warn("indicator upsert failed",
				zap.String("key", batch[i].Key()), zap.Error(err))
		}
	}

	syncedAt := s.now().UTC()
	feed.LastSync = &syncedAt
	feed.LastSyncStatus = repository.SyncSuccess
	feed.LastSyncCount = result.IOCsNew + result.IOCsUpdated
	feed.ConsecutiveFailures = 0
	result.Status = repository.SyncSuccess
	if err := s.feedRepo.Update(ctx, feed); err != nil {
		log.Error("feed bookkeeping update failed", zap.Error(err))
	}

	log.Info("feed sync complete",
		zap.Int("iocs_new", result.IOCsNew),
		zap.Int("iocs_updated", result.IOCsUpdated),
		zap.Int("iocs_skipped", result.IOCsSkipped))
	return result
}

// filter applies the feed's min-confidence and type allowlist
func (s *Scheduler) filter(feed *repository.Feed, fetched []ioc.IOC) []ioc.IOC {
	allowed := make(map[ioc.Type]bool, len(feed.IOCTypes))
	for _, t := range feed.IOCTypes {
		allowed[t] = true
	}

	out := fetched[:0]
	for _, item := range fetched {
		if item.Confidence < feed.MinConfidence {
			continue
		}
		if len(allowed) > 0 && !allowed[item.Type] {
			continue
		}
		out = append(out, item)
	}
	return out
}

// upsert folds one fetched indicator into the tenant's store
func (s *Scheduler) upsert(ctx context.Context, scope tenant.Scope, item *ioc.IOC, result *SyncResult) error {
	existing, err := s.iocRepo.GetByKey(ctx, scope, item.Value, item.Type)
	if err == nil {
		merged := ioc.Merge(*existing, *item)
		merged.ID = existing.ID
		merged.TenantID = existing.TenantID
		if err := s.iocRepo.Update(ctx, scope, &merged); err != nil {
			return err
		}
		result.IOCsUpdated += 1
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if item.Status == "" {
		item.Status = ioc.StatusActive
	}
	if err := s.iocRepo.Create(ctx, scope, item); err != nil {
		return err
	}
	result.IOCsNew += 1
	return nil
}

// withRetry runs op, retrying transient connection errors up to maxRetries
// with a linear base delay. Provider rate limits sleep out the advertised
// retry_after without consuming the retry budget.
func (s *Scheduler) withRetry(ctx context.Context, log *zap.Logger, op func() error) error {
	attempt := 0
	backoffs := 0
	for {
		err := op()
		if err == nil {
			return nil
		}

		if rl, ok := feeds.AsRateLimit(err); ok {
			if backoffs >= maxRateLimitBackoffs {
				return err
			}
			backoffs += 1
			delay := rl.RetryAfter
			log.Warn("provider rate limited, backing off",
				zap.Duration("retry_after", delay))
			if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
				return err
			}
			continue
		}

		if !errors.Is(err, feeds.ErrConnection) {
			return err
		}
		attempt += 1
		if attempt >= maxRetries {
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}
		delay := time.Duration(attempt) * retryBaseDelay
		log.Warn("transient feed error, retrying",
			zap.Int("attempt", attempt), zap.Duration("delay", delay))
		if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
			return err
		}
	}
}

// recordFailure stamps the failure on the feed row. Rate-limit outcomes
// are bookkept separately and do not count as consecutive failures.
func (s *Scheduler) recordFailure(ctx context.Context, feed *repository.Feed, result *SyncResult, cause error) SyncResult {
	result.Error = cause.Error()
	if _, ok := feeds.AsRateLimit(cause); ok {
		result.Status = repository.SyncRateLimited
	} else {
		result.Status = repository.SyncError
		feed.ConsecutiveFailures += 1
	}

	feed.LastSyncStatus = result.Status
	if err := s.feedRepo.Update(ctx, feed); err != nil {
		s.logger.Error("feed bookkeeping update failed",
			zap.String("feed_id", feed.ID), zap.Error(err))
	}
	return *result
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
