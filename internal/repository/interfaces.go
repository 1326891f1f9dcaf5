package repository

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_reader/internal/domain"
)

type Source interface {
	TopHeadlines(ctx context.Context, page int) (*domain.Headlines, error)
}

// ArticleStore is the local row cache keyed by integer id.
type ArticleStore interface {
	// InsertOrReplace writes rows in slice order. A row with an ID replaces
	// the stored row with that ID. A row without one is appended with an id
	// above every id stored before it, so SelectAll returns appended rows in
	// the order they were written.
	InsertOrReplace(ctx context.Context, rows []domain.CachedArticle) error
	SelectAll(ctx context.Context) ([]domain.CachedArticle, error)
	SelectByID(ctx context.Context, id int64) (*domain.CachedArticle, error)
	DeleteAll(ctx context.Context) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
