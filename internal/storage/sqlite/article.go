package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"news_reader/internal/domain"
	"news_reader/internal/storage"
)

const selectArticles = `
	SELECT id, image_url, title, description, publish_date, author, url_to_article
	FROM cached_articles`

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// InsertOrReplace stores rows in slice order. Rows with an ID replace the
// stored row with that ID in place.
func (s *ArticleStore) InsertOrReplace(ctx context.Context, rows []domain.CachedArticle) error {
	exec := storage.Executor(ctx, s.db)

	for _, row := range rows {
		var err error
		if row.ID == 0 {
			_, err = exec.ExecContext(ctx, `
				INSERT INTO cached_articles (
					image_url, title, description, publish_date, author, url_to_article
				) VALUES (?, ?, ?, ?, ?, ?)`,
				row.ImageURL, row.Title, row.Description, row.PublishDate, row.Author, row.URLToArticle,
			)
		} else {
			_, err = exec.ExecContext(ctx, `
				INSERT INTO cached_articles (
					id, image_url, title, description, publish_date, author, url_to_article
				) VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					image_url = excluded.image_url,
					title = excluded.title,
					description = excluded.description,
					publish_date = excluded.publish_date,
					author = excluded.author,
					url_to_article = excluded.url_to_article`,
				row.ID, row.ImageURL, row.Title, row.Description, row.PublishDate, row.Author, row.URLToArticle,
			)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *ArticleStore) SelectAll(ctx context.Context) ([]domain.CachedArticle, error) {
	var rows []domain.CachedArticle
	err := sqlx.SelectContext(ctx, storage.Executor(ctx, s.db), &rows, selectArticles+" ORDER BY id")
	return rows, err
}

func (s *ArticleStore) SelectByID(ctx context.Context, id int64) (*domain.CachedArticle, error) {
	var row domain.CachedArticle
	err := sqlx.GetContext(ctx, storage.Executor(ctx, s.db), &row, selectArticles+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *ArticleStore) DeleteAll(ctx context.Context) error {
	_, err := storage.Executor(ctx, s.db).ExecContext(ctx, "DELETE FROM cached_articles")
	return err
}
