package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brickstore/brickstore/internal/domain"
)

// RedisStore keeps each row as a JSON string and maintains creation-ordered
// sorted sets for the whole collection and for each type.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore wraps an existing client. Keys are namespaced under
// the collection name.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: domain.CollectionName, now: time.Now}
}

func (s *RedisStore) rowKey(id string) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

func (s *RedisStore) indexKey() string {
	return s.prefix
}

func (s *RedisStore) typeIndexKey(t domain.SetType) string {
	return fmt.Sprintf("%s:type:%s", s.prefix, t)
}

func (s *RedisStore) Insert(ctx context.Context, set *domain.LegoSet) error {
	now := s.now().UTC()
	set.ID = uuid.NewString()
	set.CreatedAt = now
	set.UpdatedAt = now

	data, err := json.Marshal(set)
	if err != nil {
		return errors.WithStack(err)
	}
	score := float64(now.UnixNano())
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.rowKey(set.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), &redis.Z{Score: score, Member: set.ID})
		pipe.ZAdd(ctx, s.typeIndexKey(set.Type), &redis.Z{Score: score, Member: set.ID})
		return nil
	})
	return errors.WithStack(err)
}

func (s *RedisStore) SelectAll(ctx context.Context) ([]domain.LegoSet, error) {
	return s.selectIndex(ctx, s.indexKey())
}

func (s *RedisStore) SelectByType(ctx context.Context, t domain.SetType) ([]domain.LegoSet, error) {
	return s.selectIndex(ctx, s.typeIndexKey(t))
}

func (s *RedisStore) selectIndex(ctx context.Context, key string) ([]domain.LegoSet, error) {
	ids, err := s.client.ZRevRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sets := make([]domain.LegoSet, 0, len(ids))
	if len(ids) == 0 {
		return sets, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, s.rowKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, errors.WithStack(err)
	}
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err == redis.Nil {
			// index entry outlived its row
			continue
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		var set domain.LegoSet
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, errors.WithStack(err)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (s *RedisStore) SelectByID(ctx context.Context, id string) (*domain.LegoSet, error) {
	data, err := s.client.Get(ctx, s.rowKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var set domain.LegoSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, errors.WithStack(err)
	}
	return &set, nil
}

func (s *RedisStore) UpdateByID(ctx context.Context, id string, cols Columns) (*domain.LegoSet, error) {
	set, err := s.SelectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldType := set.Type
	if err := ApplyColumns(set, cols); err != nil {
		return nil, err
	}
	set.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(set)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.rowKey(id), data, 0)
		if set.Type != oldType {
			pipe.ZRem(ctx, s.typeIndexKey(oldType), id)
			pipe.ZAdd(ctx, s.typeIndexKey(set.Type), &redis.Z{
				Score:  float64(set.CreatedAt.UnixNano()),
				Member: id,
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return set, nil
}

func (s *RedisStore) DeleteByID(ctx context.Context, id string) error {
	set, err := s.SelectByID(ctx, id)
	if err == ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.rowKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		pipe.ZRem(ctx, s.typeIndexKey(set.Type), id)
		return nil
	})
	return errors.WithStack(err)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
