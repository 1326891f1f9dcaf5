package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_reader/internal/domain"
)

// Controller is the news list state holder the handlers drive.
type Controller interface {
	LoadNextPage(ctx context.Context)
	RefreshNews(ctx context.Context)
	LoadOfflineCache(ctx context.Context)
	DismissOfflineUnavailableNotice()
	ShouldLoadMore(index int) bool
	State() domain.SyncState
	Subscribe() (<-chan domain.SyncState, func())
}

type ArticleFinder interface {
	CachedRow(ctx context.Context, id int64) (*domain.CachedArticle, error)
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}
