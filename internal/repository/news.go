package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"news_reader/internal/domain"
)

// FetchFailedMessage is what callers see for any remote failure.
const FetchFailedMessage = "failed to get the top headlines based on the given country"

// FetchError reports a failed remote fetch. Error always returns
// FetchFailedMessage; the cause is kept for logging.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return FetchFailedMessage
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewsRepository translates remote headline pages into cache rows and
// mediates all cache access.
type NewsRepository struct {
	source    Source
	store     ArticleStore
	txManager TransactionManager
	logger    *slog.Logger
}

func NewNewsRepository(
	source Source,
	store ArticleStore,
	txManager TransactionManager,
	logger *slog.Logger,
) *NewsRepository {
	return &NewsRepository{
		source:    source,
		store:     store,
		txManager: txManager,
		logger:    logger.With("component", "news_repository"),
	}
}

// FetchPage fetches one page and converts it. The returned error, if any, is
// always a *FetchError.
func (r *NewsRepository) FetchPage(ctx context.Context, page int) (*domain.Page, error) {
	headlines, err := r.source.TopHeadlines(ctx, page)
	if err != nil {
		r.logger.Error("fetch headlines", "page", page, "error", err)
		return nil, &FetchError{Page: page, Err: err}
	}
	if headlines == nil {
		return nil, &FetchError{Page: page, Err: errors.New("empty response")}
	}

	rows := make([]domain.CachedArticle, 0, len(headlines.Articles))
	for _, a := range headlines.Articles {
		row, ok := ToCachedArticle(a)
		if !ok {
			r.logger.Debug("dropping article", "page", page, "missing_fields", !a.Convertible())
			continue
		}
		rows = append(rows, row)
	}

	r.logger.Debug("converted page",
		"page", page,
		"received", len(headlines.Articles),
		"kept", len(rows),
	)

	return &domain.Page{Rows: rows, TotalResults: headlines.TotalResults}, nil
}

// InsertPage appends rows, replacing stored rows with the same id.
func (r *NewsRepository) InsertPage(ctx context.Context, rows []domain.CachedArticle) error {
	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return r.store.InsertOrReplace(txCtx, rows)
	})
	if err != nil {
		return fmt.Errorf("insert page: %w", err)
	}
	return nil
}

// ReplaceCache swaps the whole cache for rows in one transaction.
func (r *NewsRepository) ReplaceCache(ctx context.Context, rows []domain.CachedArticle) error {
	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := r.store.DeleteAll(txCtx); err != nil {
			return fmt.Errorf("delete rows: %w", err)
		}
		if err := r.store.InsertOrReplace(txCtx, rows); err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

func (r *NewsRepository) ClearCache(ctx context.Context) error {
	if err := r.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// AllCachedRows returns the cache in insertion order.
func (r *NewsRepository) AllCachedRows(ctx context.Context) ([]domain.CachedArticle, error) {
	rows, err := r.store.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("select rows: %w", err)
	}
	return rows, nil
}

// CachedRow returns nil without error when id is not cached.
func (r *NewsRepository) CachedRow(ctx context.Context, id int64) (*domain.CachedArticle, error) {
	row, err := r.store.SelectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("select row %d: %w", id, err)
	}
	return row, nil
}
