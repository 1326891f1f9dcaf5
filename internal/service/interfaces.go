package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_reader/internal/domain"
)

type Repository interface {
	FetchPage(ctx context.Context, page int) (*domain.Page, error)
	InsertPage(ctx context.Context, rows []domain.CachedArticle) error
	ReplaceCache(ctx context.Context, rows []domain.CachedArticle) error
	AllCachedRows(ctx context.Context) ([]domain.CachedArticle, error)
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.Event) error
	Close() error
}
