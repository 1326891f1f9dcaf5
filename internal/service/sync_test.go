package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"news_reader/internal/config"
	"news_reader/internal/domain"
	"news_reader/internal/metrics"
	"news_reader/internal/service/mocks"
	"news_reader/internal/testutil"
)

type SyncControllerTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	ctx  context.Context

	repo      *mocks.MockRepository
	publisher *mocks.MockPublisher

	controller *SyncController
	logger     *slog.Logger

	delayMu sync.Mutex
	delays  []domain.SyncState
}

func (s *SyncControllerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()

	s.repo = mocks.NewMockRepository(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.delays = nil

	s.controller = s.newController(nil)
}

func (s *SyncControllerTestSuite) TearDownTest() {
	s.controller.Close()
	s.ctrl.Finish()
}

func TestSyncControllerTestSuite(t *testing.T) {
	suite.Run(t, new(SyncControllerTestSuite))
}

func (s *SyncControllerTestSuite) newController(publisher Publisher) *SyncController {
	return NewSyncController(
		s.repo,
		publisher,
		s.logger,
		config.SyncConfig{PageSize: 15, MinLoadingDuration: time.Second},
		WithDelay(s.recordDelay),
	)
}

// recordDelay snapshots the state at every wait and never sleeps.
func (s *SyncControllerTestSuite) recordDelay(ctx context.Context, d time.Duration) error {
	s.Equal(time.Second, d)
	state := s.controller.State()

	s.delayMu.Lock()
	s.delays = append(s.delays, state)
	s.delayMu.Unlock()

	return ctx.Err()
}

func (s *SyncControllerTestSuite) recordedDelays() []domain.SyncState {
	s.delayMu.Lock()
	defer s.delayMu.Unlock()
	return append([]domain.SyncState(nil), s.delays...)
}

func rows(from, n int) []domain.CachedArticle {
	out := make([]domain.CachedArticle, 0, n)
	for i := from; i < from+n; i++ {
		title := "article-" + strconv.Itoa(i)
		out = append(out, domain.CachedArticle{
			ImageURL:    testutil.Ptr("https://example.com/" + title + ".jpg"),
			Title:       testutil.Ptr(title),
			PublishDate: testutil.Ptr("2023-December-31 18:46"),
		})
	}
	return out
}

func stored(in []domain.CachedArticle, firstID int64) []domain.CachedArticle {
	out := make([]domain.CachedArticle, len(in))
	for i, r := range in {
		r.ID = firstID + int64(i)
		out[i] = r
	}
	return out
}

// loadFirstPage drives a successful initial load of three rows.
func (s *SyncControllerTestSuite) loadFirstPage(total int) []domain.CachedArticle {
	page := rows(1, 3)
	cache := stored(page, 1)

	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).
			Return(&domain.Page{Rows: page, TotalResults: testutil.Ptr(total)}, nil),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), page).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(cache, nil),
	)

	s.controller.LoadNextPage(s.ctx)
	s.Require().Len(s.controller.State().Items, 3)
	return cache
}

func (s *SyncControllerTestSuite) TestLoadNextPage_InitialLoadReplacesCache() {
	cache := s.loadFirstPage(40)

	state := s.controller.State()
	s.Equal(cache, state.Items)
	s.False(state.IsLoadingInitial)
	s.False(state.IsRefreshing)
	s.False(state.LoadError)
	s.False(state.PaginationEndReached)

	delays := s.recordedDelays()
	s.Require().Len(delays, 1)
	s.True(delays[0].IsLoadingInitial)
	s.Empty(delays[0].Items)
}

func (s *SyncControllerTestSuite) TestLoadNextPage_TwoPagesThenFailure() {
	first := rows(1, 3)
	second := rows(4, 3)
	all := stored(append(append([]domain.CachedArticle{}, first...), second...), 1)

	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).
			Return(&domain.Page{Rows: first, TotalResults: testutil.Ptr(6)}, nil),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), first).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(all[:3], nil),
		s.repo.EXPECT().FetchPage(gomock.Any(), 2).
			Return(&domain.Page{Rows: second, TotalResults: testutil.Ptr(6)}, nil),
		s.repo.EXPECT().InsertPage(gomock.Any(), second).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(all, nil),
		s.repo.EXPECT().FetchPage(gomock.Any(), 3).Return(nil, errors.New("offline")),
	)

	s.controller.LoadNextPage(s.ctx)
	s.controller.LoadNextPage(s.ctx)

	state := s.controller.State()
	s.Len(state.Items, 6)
	s.True(state.PaginationEndReached)
	s.False(state.LoadError)

	s.controller.LoadNextPage(s.ctx)

	state = s.controller.State()
	s.Equal(all, state.Items)
	s.True(state.LoadError)
	s.False(state.IsLoadingInitial)
	s.False(state.ShouldLoadMore(5))

	// initial wait, then only the error wait of the third call
	delays := s.recordedDelays()
	s.Require().Len(delays, 2)
	s.True(delays[0].IsLoadingInitial)
	s.False(delays[1].IsLoadingInitial)
	s.False(delays[1].LoadError)
	s.Len(delays[1].Items, 6)
}

func (s *SyncControllerTestSuite) TestLoadNextPage_InitialFailure() {
	s.repo.EXPECT().FetchPage(gomock.Any(), 1).Return(nil, errors.New("dns"))

	s.controller.LoadNextPage(s.ctx)

	state := s.controller.State()
	s.True(state.LoadError)
	s.False(state.IsLoadingInitial)
	s.Empty(state.Items)
	s.False(s.controller.ShouldLoadMore(0))

	delays := s.recordedDelays()
	s.Require().Len(delays, 2)
	s.True(delays[1].IsLoadingInitial)
	s.False(delays[1].LoadError)

	// the cursor did not move
	s.loadFirstPage(40)
	s.False(s.controller.State().LoadError)
}

func (s *SyncControllerTestSuite) TestLoadNextPage_CacheWriteFailure() {
	page := rows(1, 3)
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).
			Return(&domain.Page{Rows: page, TotalResults: testutil.Ptr(40)}, nil),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), page).Return(errors.New("disk full")),
	)

	s.controller.LoadNextPage(s.ctx)

	state := s.controller.State()
	s.True(state.LoadError)
	s.Empty(state.Items)

	s.loadFirstPage(40)
}

func (s *SyncControllerTestSuite) TestLoadNextPage_EmptyFilteredPageStaysInitial() {
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).
			Return(&domain.Page{Rows: []domain.CachedArticle{}, TotalResults: testutil.Ptr(40)}, nil),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), []domain.CachedArticle{}).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(nil, nil),
		s.repo.EXPECT().FetchPage(gomock.Any(), 2).
			Return(&domain.Page{Rows: rows(1, 1), TotalResults: testutil.Ptr(40)}, nil),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), rows(1, 1)).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(stored(rows(1, 1), 1), nil),
	)

	s.controller.LoadNextPage(s.ctx)
	s.controller.LoadNextPage(s.ctx)

	s.Len(s.controller.State().Items, 1)
	s.Len(s.recordedDelays(), 2)
}

func (s *SyncControllerTestSuite) TestRefreshNews_RestartsFromFirstPage() {
	s.loadFirstPage(40)

	second := rows(4, 3)
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 2).
			Return(&domain.Page{Rows: second, TotalResults: testutil.Ptr(40)}, nil),
		s.repo.EXPECT().InsertPage(gomock.Any(), second).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(stored(rows(1, 6), 1), nil),
	)
	s.controller.LoadNextPage(s.ctx)

	fresh := rows(10, 2)
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).DoAndReturn(
			func(ctx context.Context, page int) (*domain.Page, error) {
				state := s.controller.State()
				s.True(state.IsRefreshing)
				s.False(state.IsLoadingInitial)
				s.False(state.LoadError)
				return &domain.Page{Rows: fresh, TotalResults: testutil.Ptr(2)}, nil
			},
		),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), fresh).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(stored(fresh, 7), nil),
	)
	s.controller.RefreshNews(s.ctx)

	state := s.controller.State()
	s.Equal(stored(fresh, 7), state.Items)
	s.False(state.IsRefreshing)
	s.True(state.PaginationEndReached)

	// no waits outside the initial load
	s.Len(s.recordedDelays(), 1)
}

func (s *SyncControllerTestSuite) TestRefreshNews_FailureKeepsItems() {
	cache := s.loadFirstPage(40)

	s.repo.EXPECT().FetchPage(gomock.Any(), 1).Return(nil, errors.New("timeout"))
	s.controller.RefreshNews(s.ctx)

	state := s.controller.State()
	s.Equal(cache, state.Items)
	s.True(state.LoadError)
	s.False(state.IsRefreshing)

	delays := s.recordedDelays()
	s.Require().Len(delays, 2)
	s.True(delays[1].IsRefreshing)

	// a later refresh clears the error
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).
			Return(&domain.Page{Rows: rows(1, 3), TotalResults: testutil.Ptr(40)}, nil),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), rows(1, 3)).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(cache, nil),
	)
	s.controller.RefreshNews(s.ctx)
	s.False(s.controller.State().LoadError)
}

func (s *SyncControllerTestSuite) TestRefreshNews_FailureKeepsCursor() {
	s.loadFirstPage(40)

	s.repo.EXPECT().FetchPage(gomock.Any(), 1).Return(nil, errors.New("timeout"))
	s.controller.RefreshNews(s.ctx)
	s.True(s.controller.State().LoadError)

	// pagination resumes after the rows already shown
	second := rows(4, 3)
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 2).
			Return(&domain.Page{Rows: second, TotalResults: testutil.Ptr(40)}, nil),
		s.repo.EXPECT().InsertPage(gomock.Any(), second).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(stored(rows(1, 6), 1), nil),
	)
	s.controller.LoadNextPage(s.ctx)

	state := s.controller.State()
	s.Len(state.Items, 6)
	s.False(state.LoadError)
}

func (s *SyncControllerTestSuite) TestRefreshNews_CancelledKeepsCursor() {
	s.loadFirstPage(40)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	s.repo.EXPECT().FetchPage(gomock.Any(), 1).DoAndReturn(
		func(ctx context.Context, page int) (*domain.Page, error) {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		},
	)
	s.controller.RefreshNews(ctx)

	state := s.controller.State()
	s.False(state.IsRefreshing)
	s.False(state.LoadError)
	s.True(state.ShouldLoadMore(2))

	second := rows(4, 3)
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 2).
			Return(&domain.Page{Rows: second, TotalResults: testutil.Ptr(40)}, nil),
		s.repo.EXPECT().InsertPage(gomock.Any(), second).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(stored(rows(1, 6), 1), nil),
	)
	s.controller.LoadNextPage(s.ctx)
	s.Len(s.controller.State().Items, 6)
}

func (s *SyncControllerTestSuite) TestRefreshNews_OnEmptyListShowsInitialLoading() {
	page := rows(1, 2)
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).
			Return(&domain.Page{Rows: page, TotalResults: testutil.Ptr(2)}, nil),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), page).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(stored(page, 1), nil),
	)

	s.controller.RefreshNews(s.ctx)

	delays := s.recordedDelays()
	s.Require().Len(delays, 1)
	s.True(delays[0].IsLoadingInitial)
	s.True(delays[0].IsRefreshing)

	state := s.controller.State()
	s.False(state.IsLoadingInitial)
	s.False(state.IsRefreshing)
	s.Len(state.Items, 2)
}

func (s *SyncControllerTestSuite) TestLoadOfflineCache() {
	cache := stored(rows(1, 4), 1)
	s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(cache, nil)

	s.controller.LoadOfflineCache(s.ctx)

	state := s.controller.State()
	s.Equal(cache, state.Items)
	s.False(state.NoOfflineDataAvailable)
}

func (s *SyncControllerTestSuite) TestLoadOfflineCache_Empty() {
	s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(nil, nil)

	s.controller.LoadOfflineCache(s.ctx)

	state := s.controller.State()
	s.Empty(state.Items)
	s.True(state.NoOfflineDataAvailable)

	s.controller.DismissOfflineUnavailableNotice()
	s.False(s.controller.State().NoOfflineDataAvailable)
}

func (s *SyncControllerTestSuite) TestLoadOfflineCache_ReadError() {
	s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(nil, errors.New("locked"))

	s.controller.LoadOfflineCache(s.ctx)

	s.True(s.controller.State().NoOfflineDataAvailable)
}

func (s *SyncControllerTestSuite) TestShouldLoadMore() {
	s.True(s.controller.ShouldLoadMore(0))

	s.loadFirstPage(40)

	s.False(s.controller.ShouldLoadMore(0))
	s.False(s.controller.ShouldLoadMore(1))
	s.True(s.controller.ShouldLoadMore(2))
}

func (s *SyncControllerTestSuite) TestShouldLoadMore_EndReached() {
	s.loadFirstPage(3)

	s.True(s.controller.State().PaginationEndReached)
	s.False(s.controller.ShouldLoadMore(2))
}

func (s *SyncControllerTestSuite) TestLoadNextPage_CancelledBeforeFetch() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	s.controller.LoadNextPage(ctx)

	state := s.controller.State()
	s.False(state.IsLoadingInitial)
	s.False(state.LoadError)

	s.loadFirstPage(40)
}

func (s *SyncControllerTestSuite) TestLoadNextPage_CancelledDuringFetch() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.repo.EXPECT().FetchPage(gomock.Any(), 1).DoAndReturn(
		func(ctx context.Context, page int) (*domain.Page, error) {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		},
	)

	s.controller.LoadNextPage(ctx)

	state := s.controller.State()
	s.False(state.IsLoadingInitial)
	s.False(state.LoadError)
	s.Len(s.recordedDelays(), 1)

	s.loadFirstPage(40)
}

func (s *SyncControllerTestSuite) TestLoadNextPage_DroppedWhileInFlight() {
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	page := rows(1, 3)
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).DoAndReturn(
			func(ctx context.Context, p int) (*domain.Page, error) {
				close(started)
				<-release
				return &domain.Page{Rows: page, TotalResults: testutil.Ptr(40)}, nil
			},
		),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), page).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(stored(page, 1), nil),
	)

	go func() {
		defer close(done)
		s.controller.LoadNextPage(s.ctx)
	}()

	<-started
	s.controller.LoadNextPage(s.ctx)
	close(release)
	<-done

	s.Len(s.controller.State().Items, 3)
}

func (s *SyncControllerTestSuite) TestRefreshNews_PreemptsInFlightLoad() {
	started := make(chan struct{})
	done := make(chan struct{})

	fresh := rows(1, 2)
	gomock.InOrder(
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).DoAndReturn(
			func(ctx context.Context, p int) (*domain.Page, error) {
				close(started)
				<-ctx.Done()
				return nil, ctx.Err()
			},
		),
		s.repo.EXPECT().FetchPage(gomock.Any(), 1).
			Return(&domain.Page{Rows: fresh, TotalResults: testutil.Ptr(2)}, nil),
		s.repo.EXPECT().ReplaceCache(gomock.Any(), fresh).Return(nil),
		s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(stored(fresh, 1), nil),
	)

	go func() {
		defer close(done)
		s.controller.LoadNextPage(s.ctx)
	}()

	<-started
	s.controller.RefreshNews(s.ctx)
	<-done

	state := s.controller.State()
	s.Len(state.Items, 2)
	s.False(state.LoadError)
	s.False(state.IsRefreshing)
	s.False(state.IsLoadingInitial)
}

func (s *SyncControllerTestSuite) TestClose_CancelsInFlightLoad() {
	started := make(chan struct{})
	done := make(chan struct{})

	s.repo.EXPECT().FetchPage(gomock.Any(), 1).DoAndReturn(
		func(ctx context.Context, p int) (*domain.Page, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	)

	updates, _ := s.controller.Subscribe()

	go func() {
		defer close(done)
		s.controller.LoadNextPage(s.ctx)
	}()

	<-started
	s.controller.Close()
	<-done

	state := s.controller.State()
	s.False(state.IsLoadingInitial)
	s.False(state.LoadError)

	for range updates {
	}

	// closed controllers ignore further loads
	s.controller.LoadNextPage(s.ctx)
	s.controller.RefreshNews(s.ctx)
}

func (s *SyncControllerTestSuite) TestSubscribe() {
	updates, unsubscribe := s.controller.Subscribe()

	initial := <-updates
	s.Empty(initial.Items)
	s.False(initial.NoOfflineDataAvailable)

	s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(nil, nil)
	s.controller.LoadOfflineCache(s.ctx)

	latest := <-updates
	s.True(latest.NoOfflineDataAvailable)

	unsubscribe()
	unsubscribe()

	_, ok := <-updates
	s.False(ok)
}

func (s *SyncControllerTestSuite) TestSubscribe_SlowReaderSeesLatest() {
	updates, unsubscribe := s.controller.Subscribe()
	defer unsubscribe()

	s.repo.EXPECT().AllCachedRows(gomock.Any()).Return(nil, nil)
	s.controller.LoadOfflineCache(s.ctx)
	s.controller.DismissOfflineUnavailableNotice()

	latest := <-updates
	s.False(latest.NoOfflineDataAvailable)
	s.Empty(updates)
}

func (s *SyncControllerTestSuite) TestPublishesSyncEvents() {
	s.controller.Close()
	s.controller = s.newController(s.publisher)

	var published []*domain.Event
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, event *domain.Event) error {
			published = append(published, event)
			return errors.New("broker down")
		},
	).Times(2)

	s.loadFirstPage(40)

	s.repo.EXPECT().FetchPage(gomock.Any(), 2).Return(nil, errors.New("offline"))
	s.controller.LoadNextPage(s.ctx)

	s.Require().Len(published, 2)
	s.Equal(domain.EventPageSynced, published[0].Type)
	s.Contains(published[0].Params, domain.EventParam{Key: domain.ParamPage, Value: "1"})
	s.Contains(published[0].Params, domain.EventParam{Key: domain.ParamRows, Value: "3"})
	s.Equal(domain.EventSyncFailed, published[1].Type)
	s.Contains(published[1].Params, domain.EventParam{Key: domain.ParamMode, Value: "pagination"})

	// publish failures do not leak into the state
	s.True(s.controller.State().LoadError)
	s.Len(s.controller.State().Items, 3)
}

func TestReachedEnd(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total *int
		want  bool
	}{
		{"missing total means one page", 1, nil, true},
		{"more pages left", 1, testutil.Ptr(40), false},
		{"second of three", 2, testutil.Ptr(40), false},
		{"last partial page", 3, testutil.Ptr(40), true},
		{"exact multiple", 2, testutil.Ptr(30), true},
		{"zero results", 1, testutil.Ptr(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reachedEnd(tt.page, 15, tt.total))
		})
	}
}

func TestSleep_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
}

func fetchDuration(t *testing.T, mode string) (uint64, float64) {
	var m dto.Metric
	require.NoError(t, metrics.FetchDuration.WithLabelValues(mode).(prometheus.Histogram).Write(&m))
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}

func TestFetchDuration_ExcludesLoadingDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	c := NewSyncController(repo, nil, logger, config.SyncConfig{PageSize: 15, MinLoadingDuration: 100 * time.Millisecond})
	defer c.Close()

	repo.EXPECT().FetchPage(gomock.Any(), 1).Return(nil, errors.New("offline"))

	count, sum := fetchDuration(t, metrics.ModeInitial)
	c.LoadNextPage(context.Background())
	after, afterSum := fetchDuration(t, metrics.ModeInitial)

	// one wait before the fetch and one before the error is shown
	assert.Equal(t, count+1, after)
	assert.Less(t, afterSum-sum, 0.1)
	assert.True(t, c.State().LoadError)
}
