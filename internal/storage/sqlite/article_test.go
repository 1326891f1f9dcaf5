package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"news_reader/internal/domain"
	"news_reader/internal/storage"
	"news_reader/internal/testutil"
)

type ArticleStoreSuite struct {
	suite.Suite
	ctx   context.Context
	db    *sqlx.DB
	store *ArticleStore
}

func (s *ArticleStoreSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := Open(s.ctx, filepath.Join(s.T().TempDir(), "cache.db"))
	s.Require().NoError(err)
	s.db = db
	s.store = NewArticleStore(db)
}

func (s *ArticleStoreSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestArticleStoreSuite(t *testing.T) {
	suite.Run(t, new(ArticleStoreSuite))
}

func row(title string) domain.CachedArticle {
	return domain.CachedArticle{
		ImageURL:     testutil.Ptr("https://example.com/" + title + ".jpg"),
		Title:        testutil.Ptr(title),
		PublishDate:  testutil.Ptr("2023-December-31 18:46"),
		URLToArticle: testutil.Ptr("https://example.com/" + title),
	}
}

func titles(rows []domain.CachedArticle) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.Title)
	}
	return out
}

func (s *ArticleStoreSuite) TestOpen_IsIdempotent() {
	s.NoError(Migrate(s.ctx, s.db))
}

func (s *ArticleStoreSuite) TestSelectAll_Empty() {
	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Empty(rows)
}

func (s *ArticleStoreSuite) TestInsertOrReplace_AppendsInOrder() {
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("a"), row("b")}))
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("c")}))

	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Equal([]string{"a", "b", "c"}, titles(rows))
	s.Nil(rows[0].Author)
	s.Nil(rows[0].Description)
	s.Less(rows[0].ID, rows[1].ID)
	s.Less(rows[1].ID, rows[2].ID)
}

func (s *ArticleStoreSuite) TestInsertOrReplace_ReplacesInPlace() {
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("a"), row("b")}))
	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)

	updated := rows[0]
	updated.Title = testutil.Ptr("a2")
	updated.Author = testutil.Ptr("someone")
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{updated, row("c")}))

	rows, err = s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Equal([]string{"a2", "b", "c"}, titles(rows))
	s.Equal("someone", *rows[0].Author)
}

func (s *ArticleStoreSuite) TestInsertOrReplace_MixedKeepsSliceOrder() {
	pinned := row("pinned")
	pinned.ID = 20
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("a"), pinned, row("b")}))
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("c")}))

	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Equal([]string{"a", "pinned", "b", "c"}, titles(rows))
	s.Equal([]int64{1, 20, 21, 22}, []int64{rows[0].ID, rows[1].ID, rows[2].ID, rows[3].ID})
}

func (s *ArticleStoreSuite) TestSelectByID() {
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("a"), row("b")}))
	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)

	got, err := s.store.SelectByID(s.ctx, rows[1].ID)
	s.NoError(err)
	s.Require().NotNil(got)
	s.Equal("b", *got.Title)
	s.Equal(rows[1], *got)

	missing, err := s.store.SelectByID(s.ctx, 9999)
	s.NoError(err)
	s.Nil(missing)
}

func (s *ArticleStoreSuite) TestDeleteAll() {
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("a"), row("b")}))
	s.NoError(s.store.DeleteAll(s.ctx))

	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Empty(rows)
}

func (s *ArticleStoreSuite) TestTransaction_CommitReplacesRows() {
	tm := storage.NewTransactionManager(s.db)
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("old")}))

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.store.DeleteAll(ctx); err != nil {
			return err
		}
		return s.store.InsertOrReplace(ctx, []domain.CachedArticle{row("new1"), row("new2")})
	})
	s.NoError(err)

	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Equal([]string{"new1", "new2"}, titles(rows))
}

func (s *ArticleStoreSuite) TestTransaction_RollbackKeepsRows() {
	tm := storage.NewTransactionManager(s.db)
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("old")}))

	errBoom := errors.New("boom")
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.store.DeleteAll(ctx); err != nil {
			return err
		}
		return errBoom
	})
	s.ErrorIs(err, errBoom)

	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Equal([]string{"old"}, titles(rows))
}

func (s *ArticleStoreSuite) TestTransaction_NestedJoinsOuter() {
	tm := storage.NewTransactionManager(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return tm.WithTransaction(ctx, func(inner context.Context) error {
			s.Same(storage.TxFromContext(ctx), storage.TxFromContext(inner))
			return s.store.InsertOrReplace(inner, []domain.CachedArticle{row("a")})
		})
	})
	s.NoError(err)

	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Len(rows, 1)
}

func (s *ArticleStoreSuite) TestTransaction_PanicRollsBack() {
	tm := storage.NewTransactionManager(s.db)
	s.NoError(s.store.InsertOrReplace(s.ctx, []domain.CachedArticle{row("old")}))

	s.PanicsWithValue("boom", func() {
		_ = tm.WithTransaction(s.ctx, func(ctx context.Context) error {
			s.Require().NoError(s.store.DeleteAll(ctx))
			panic("boom")
		})
	})

	rows, err := s.store.SelectAll(s.ctx)
	s.NoError(err)
	s.Equal([]string{"old"}, titles(rows))
}
