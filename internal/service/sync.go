package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"news_reader/internal/config"
	"news_reader/internal/domain"
	"news_reader/internal/metrics"
)

const (
	// DefaultMinLoadingDuration keeps the initial loading indicator visible
	// long enough to be noticed, and delays error reports by the same amount.
	DefaultMinLoadingDuration = time.Second

	DefaultPageSize = 15
)

// DelayFunc waits for d or until ctx is done, whichever comes first.
type DelayFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production DelayFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Option func(*SyncController)

// WithDelay replaces the wait used for the minimum loading duration.
func WithDelay(fn DelayFunc) Option {
	return func(c *SyncController) {
		c.delay = fn
	}
}

type operation struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// SyncController owns the news list state for one consumer and decides how
// remote pages and the local cache are reconciled.
//
// At most one fetch runs at a time. LoadNextPage is dropped while another
// fetch is in flight; RefreshNews cancels the in-flight fetch and takes over.
type SyncController struct {
	repo       Repository
	publisher  Publisher
	logger     *slog.Logger
	pageSize   int
	minLoading time.Duration
	delay      DelayFunc

	lifecycle context.Context
	stop      context.CancelFunc

	opMu     sync.Mutex
	inFlight *operation

	mu          sync.Mutex
	state       domain.SyncState
	currentPage int
	subscribers map[chan domain.SyncState]struct{}
	closed      bool
}

func NewSyncController(
	repo Repository,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
	opts ...Option,
) *SyncController {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	minLoading := cfg.MinLoadingDuration
	if minLoading <= 0 {
		minLoading = DefaultMinLoadingDuration
	}

	lifecycle, stop := context.WithCancel(context.Background())

	c := &SyncController{
		repo:        repo,
		publisher:   publisher,
		logger:      logger.With("component", "sync_controller"),
		pageSize:    pageSize,
		minLoading:  minLoading,
		delay:       Sleep,
		lifecycle:   lifecycle,
		stop:        stop,
		currentPage: 1,
		subscribers: make(map[chan domain.SyncState]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadNextPage fetches the page under the cursor and merges it into the
// cache. The first load of an empty list replaces the cache instead.
func (c *SyncController) LoadNextPage(ctx context.Context) {
	opCtx, end, ok := c.begin(ctx, false)
	if !ok {
		c.logger.Debug("fetch in flight, skipping page load")
		return
	}
	defer end()

	c.fetch(opCtx, false)
}

// RefreshNews restarts pagination from the first page and replaces the cache
// on success. The cursor only moves back once the refresh succeeds.
func (c *SyncController) RefreshNews(ctx context.Context) {
	opCtx, end, ok := c.begin(ctx, true)
	if !ok {
		c.logger.Debug("refresh abandoned before start")
		return
	}
	defer end()

	c.update(func(s *domain.SyncState) {
		s.LoadError = false
		s.IsRefreshing = true
	})

	c.fetch(opCtx, true)
}

// LoadOfflineCache shows whatever the cache holds without touching the
// network.
func (c *SyncController) LoadOfflineCache(ctx context.Context) {
	rows, err := c.repo.AllCachedRows(ctx)
	if err != nil {
		c.logger.Error("failed to read offline cache", "error", err)
		rows = nil
	}

	c.update(func(s *domain.SyncState) {
		s.Items = rows
		s.NoOfflineDataAvailable = len(rows) == 0
	})
	metrics.CachedRows.Set(float64(len(rows)))
}

func (c *SyncController) DismissOfflineUnavailableNotice() {
	c.update(func(s *domain.SyncState) {
		s.NoOfflineDataAvailable = false
	})
}

func (c *SyncController) ShouldLoadMore(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ShouldLoadMore(index)
}

func (c *SyncController) State() domain.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe returns a channel that receives the current state immediately and
// every later change. Slow readers only see the latest state. The returned
// func unsubscribes and closes the channel.
func (c *SyncController) Subscribe() (<-chan domain.SyncState, func()) {
	ch := make(chan domain.SyncState, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	ch <- c.state.Clone()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subscribers[ch]; ok {
				delete(c.subscribers, ch)
				close(ch)
			}
		})
	}
}

// Close cancels the in-flight fetch, waits for it to unwind and closes all
// subscriptions.
func (c *SyncController) Close() {
	c.stop()

	c.opMu.Lock()
	op := c.inFlight
	c.opMu.Unlock()
	if op != nil {
		<-op.done
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
}

func (c *SyncController) begin(ctx context.Context, preempt bool) (context.Context, func(), bool) {
	for {
		c.opMu.Lock()
		op := c.inFlight
		if op == nil {
			if c.lifecycle.Err() != nil {
				c.opMu.Unlock()
				return nil, nil, false
			}

			opCtx, cancel := context.WithCancel(ctx)
			stopAfter := context.AfterFunc(c.lifecycle, cancel)
			op = &operation{cancel: cancel, done: make(chan struct{})}
			c.inFlight = op
			c.opMu.Unlock()

			return opCtx, func() {
				stopAfter()
				cancel()
				c.opMu.Lock()
				c.inFlight = nil
				c.opMu.Unlock()
				close(op.done)
			}, true
		}
		c.opMu.Unlock()

		if !preempt {
			return nil, nil, false
		}

		op.cancel()
		select {
		case <-op.done:
		case <-ctx.Done():
			return nil, nil, false
		}
	}
}

func (c *SyncController) fetch(ctx context.Context, refresh bool) {
	var initial bool
	var page int
	c.update(func(s *domain.SyncState) {
		if len(s.Items) == 0 {
			s.IsLoadingInitial = true
			initial = true
		}
		page = c.currentPage
		if refresh {
			page = 1
		}
	})

	mode := metrics.ModePagination
	switch {
	case refresh:
		mode = metrics.ModeRefresh
	case initial:
		mode = metrics.ModeInitial
	}
	logger := c.logger.With("page", page, "mode", mode)

	if initial {
		if err := c.delay(ctx, c.minLoading); err != nil {
			c.abort(logger, mode, err)
			return
		}
	}

	started := time.Now()
	result, err := c.repo.FetchPage(ctx, page)
	fetched := time.Since(started)

	var items []domain.CachedArticle
	if err == nil {
		items, err = c.reconcile(ctx, result.Rows, initial || refresh)
	}

	if err != nil {
		if ctx.Err() != nil {
			c.abort(logger, mode, ctx.Err())
			return
		}
		c.fail(ctx, logger, mode, page, err, fetched)
		return
	}

	endReached := reachedEnd(page, c.pageSize, result.TotalResults)
	c.update(func(s *domain.SyncState) {
		s.PaginationEndReached = endReached
		c.currentPage = page + 1
		s.LoadError = false
		s.Items = items
		s.IsLoadingInitial = false
		s.IsRefreshing = false
	})

	metrics.RecordFetch(mode, metrics.OutcomeSuccess, fetched.Seconds())
	metrics.CachedRows.Set(float64(len(items)))

	logger.Info("news page loaded",
		"rows", len(result.Rows),
		"cached", len(items),
		"end_reached", endReached,
	)

	c.publish(ctx, domain.NewEvent(domain.EventPageSynced,
		domain.ParamPage, strconv.Itoa(page),
		domain.ParamMode, mode,
		domain.ParamRows, strconv.Itoa(len(result.Rows)),
	))
}

// reconcile writes rows to the cache and returns its new contents.
func (c *SyncController) reconcile(ctx context.Context, rows []domain.CachedArticle, replace bool) ([]domain.CachedArticle, error) {
	var err error
	if replace {
		err = c.repo.ReplaceCache(ctx, rows)
	} else {
		err = c.repo.InsertPage(ctx, rows)
	}
	if err != nil {
		return nil, err
	}
	return c.repo.AllCachedRows(ctx)
}

func (c *SyncController) fail(ctx context.Context, logger *slog.Logger, mode string, page int, err error, fetched time.Duration) {
	logger.Warn("failed to load news page", "error", err)

	if derr := c.delay(ctx, c.minLoading); derr != nil {
		c.abort(logger, mode, derr)
		return
	}

	c.update(func(s *domain.SyncState) {
		s.LoadError = true
		s.IsLoadingInitial = false
		s.IsRefreshing = false
	})

	metrics.RecordFetch(mode, metrics.OutcomeFailure, fetched.Seconds())

	c.publish(ctx, domain.NewEvent(domain.EventSyncFailed,
		domain.ParamPage, strconv.Itoa(page),
		domain.ParamMode, mode,
		domain.ParamReason, err.Error(),
	))
}

// abort leaves items, the cursor and the error flag as they were.
func (c *SyncController) abort(logger *slog.Logger, mode string, err error) {
	logger.Info("news page load cancelled", "error", err)

	c.update(func(s *domain.SyncState) {
		s.IsLoadingInitial = false
		s.IsRefreshing = false
	})

	metrics.FetchTotal.WithLabelValues(mode, metrics.OutcomeCancelled).Inc()
}

func (c *SyncController) publish(ctx context.Context, event *domain.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		metrics.PublishErrors.Inc()
		c.logger.Warn("failed to publish event", "type", event.Type, "error", err)
	}
}

func (c *SyncController) update(fn func(s *domain.SyncState)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.state)

	snapshot := c.state.Clone()
	for ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// reachedEnd treats a missing total as exactly one page of results.
func reachedEnd(page, pageSize int, total *int) bool {
	t := pageSize
	if total != nil {
		t = *total
	}
	return page*pageSize >= t
}
