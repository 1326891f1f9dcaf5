package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

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
// stored row with that ID; each run of rows without one is appended as a
// batch above every id stored so far.
func (s *ArticleStore) InsertOrReplace(ctx context.Context, rows []domain.CachedArticle) error {
	exec := storage.Executor(ctx, s.db)

	var fresh []domain.CachedArticle
	for _, row := range rows {
		if row.ID == 0 {
			fresh = append(fresh, row)
			continue
		}
		if err := s.insertBatch(ctx, exec, fresh); err != nil {
			return err
		}
		fresh = fresh[:0]

		if err := s.upsert(ctx, exec, row); err != nil {
			return err
		}
		// Explicit ids bypass the sequence.
		if err := s.syncSequence(ctx, exec); err != nil {
			return err
		}
	}

	return s.insertBatch(ctx, exec, fresh)
}

func (s *ArticleStore) syncSequence(ctx context.Context, exec sqlx.ExtContext) error {
	_, err := exec.ExecContext(ctx, `
		SELECT setval(
			pg_get_serial_sequence('cached_articles', 'id'),
			GREATEST((SELECT MAX(id) FROM cached_articles), 1)
		)`)
	return err
}

func (s *ArticleStore) upsert(ctx context.Context, exec sqlx.ExtContext, row domain.CachedArticle) error {
	query := `
		INSERT INTO cached_articles (
			id, image_url, title, description, publish_date, author, url_to_article
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (id) DO UPDATE SET
			image_url = EXCLUDED.image_url,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			publish_date = EXCLUDED.publish_date,
			author = EXCLUDED.author,
			url_to_article = EXCLUDED.url_to_article`

	_, err := exec.ExecContext(ctx, query,
		row.ID,
		row.ImageURL,
		row.Title,
		row.Description,
		row.PublishDate,
		row.Author,
		row.URLToArticle,
	)
	return err
}

func (s *ArticleStore) insertBatch(ctx context.Context, exec sqlx.ExtContext, rows []domain.CachedArticle) error {
	if len(rows) == 0 {
		return nil
	}

	n := len(rows)
	imageURLs := make([]*string, n)
	titles := make([]*string, n)
	descriptions := make([]*string, n)
	publishDates := make([]*string, n)
	authors := make([]*string, n)
	urls := make([]*string, n)
	for i, row := range rows {
		imageURLs[i] = row.ImageURL
		titles[i] = row.Title
		descriptions[i] = row.Description
		publishDates[i] = row.PublishDate
		authors[i] = row.Author
		urls[i] = row.URLToArticle
	}

	query := `
		INSERT INTO cached_articles (
			image_url, title, description, publish_date, author, url_to_article
		)
		SELECT image_url, title, description, publish_date, author, url_to_article
		FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[])
			WITH ORDINALITY AS t(image_url, title, description, publish_date, author, url_to_article, ord)
		ORDER BY ord`

	_, err := exec.ExecContext(ctx, query,
		pq.Array(imageURLs),
		pq.Array(titles),
		pq.Array(descriptions),
		pq.Array(publishDates),
		pq.Array(authors),
		pq.Array(urls),
	)
	return err
}

func (s *ArticleStore) SelectAll(ctx context.Context) ([]domain.CachedArticle, error) {
	var rows []domain.CachedArticle
	err := sqlx.SelectContext(ctx, storage.Executor(ctx, s.db), &rows, selectArticles+" ORDER BY id")
	return rows, err
}

func (s *ArticleStore) SelectByID(ctx context.Context, id int64) (*domain.CachedArticle, error) {
	var row domain.CachedArticle
	err := sqlx.GetContext(ctx, storage.Executor(ctx, s.db), &row, selectArticles+" WHERE id = $1", id)
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
