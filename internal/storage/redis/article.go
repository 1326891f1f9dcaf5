// Package redis keeps the article cache in Redis: a sorted set of ids scored
// by id (insertion order) plus one JSON value per row.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"news_reader/internal/domain"
)

// assignIDs walks the row ids in ARGV, where 0 marks a new row, and returns
// them with new rows numbered above every id seen so far.
var assignIDs = goredis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local out = {}
for i, raw in ipairs(ARGV) do
	local id = tonumber(raw)
	if id == 0 then
		cur = cur + 1
		id = cur
	elseif id > cur then
		cur = id
	end
	out[i] = id
end
redis.call('SET', KEYS[1], cur)
return out
`)

type ArticleStore struct {
	client *goredis.Client
	prefix string
}

func NewArticleStore(client *goredis.Client, prefix string) *ArticleStore {
	return &ArticleStore{client: client, prefix: prefix}
}

func (s *ArticleStore) seqKey() string   { return s.prefix + ":articles:seq" }
func (s *ArticleStore) indexKey() string { return s.prefix + ":articles:ids" }

func (s *ArticleStore) rowKey(id int64) string {
	return s.prefix + ":articles:row:" + strconv.FormatInt(id, 10)
}

// InsertOrReplace stores rows in slice order. Rows with an ID replace the
// stored row with that ID; rows without one get the next id above every id
// stored so far.
func (s *ArticleStore) InsertOrReplace(ctx context.Context, rows []domain.CachedArticle) error {
	if len(rows) == 0 {
		return nil
	}

	args := make([]any, len(rows))
	for i, row := range rows {
		args[i] = row.ID
	}
	ids, err := assignIDs.Run(ctx, s.client, []string{s.seqKey()}, args...).Int64Slice()
	if err != nil {
		return fmt.Errorf("reserve ids: %w", err)
	}
	if len(ids) != len(rows) {
		return fmt.Errorf("reserve ids: got %d ids for %d rows", len(ids), len(rows))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, row := range rows {
			row.ID = ids[i]
			data, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("marshal row: %w", err)
			}
			pipe.Set(ctx, s.rowKey(row.ID), data, 0)
			pipe.ZAdd(ctx, s.indexKey(), goredis.Z{Score: float64(row.ID), Member: row.ID})
		}
		return nil
	})
	return err
}

func (s *ArticleStore) SelectAll(ctx context.Context) ([]domain.CachedArticle, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", raw, err)
		}
		keys = append(keys, s.rowKey(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	rows := make([]domain.CachedArticle, 0, len(values))
	for _, v := range values {
		// Rows deleted between ZRANGE and MGET come back as nil.
		str, ok := v.(string)
		if !ok {
			continue
		}
		var row domain.CachedArticle
		if err := json.Unmarshal([]byte(str), &row); err != nil {
			return nil, fmt.Errorf("unmarshal row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *ArticleStore) SelectByID(ctx context.Context, id int64) (*domain.CachedArticle, error) {
	data, err := s.client.Get(ctx, s.rowKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var row domain.CachedArticle
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("unmarshal row: %w", err)
	}
	return &row, nil
}

func (s *ArticleStore) DeleteAll(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, s.indexKey())
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("parse id %q: %w", raw, err)
		}
		keys = append(keys, s.rowKey(id))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

// TransactionManager runs fn directly. Each store call is a MULTI/EXEC block
// of its own; Redis gives no isolation across calls.
type TransactionManager struct{}

func (TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
