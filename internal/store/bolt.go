package store

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/bwmarrin/snowflake"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/brickstore/brickstore/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var bucketLegoSets = []byte(domain.CollectionName)

// BoltStore persists rows in a single bbolt file. Keys are snowflake ids,
// which sort by creation time, so a reverse cursor walk is newest first.
type BoltStore struct {
	db   *bolt.DB
	node *snowflake.Node
	now  func() time.Time
}

// OpenBolt opens (or creates) the database file at path. nodeID seeds the
// snowflake generator and must be unique per writer process.
func OpenBolt(path string, nodeID int64) (*BoltStore, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "snowflake node")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLegoSets)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}
	return &BoltStore{db: db, node: node, now: time.Now}, nil
}

func boltKey(id snowflake.ID) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id.Int64()))
	return k
}

// parseKey returns false for ids this store could never have issued.
func parseKey(id string) ([]byte, bool) {
	sid, err := snowflake.ParseString(id)
	if err != nil || sid.Int64() <= 0 {
		return nil, false
	}
	return boltKey(sid), true
}

func (s *BoltStore) Insert(ctx context.Context, set *domain.LegoSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := s.node.Generate()
	now := s.now().UTC()
	set.ID = id.String()
	set.CreatedAt = now
	set.UpdatedAt = now

	data, err := json.Marshal(set)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLegoSets).Put(boltKey(id), data)
	}))
}

func (s *BoltStore) SelectAll(ctx context.Context) ([]domain.LegoSet, error) {
	return s.selectWhere(ctx, func(domain.LegoSet) bool { return true })
}

func (s *BoltStore) SelectByType(ctx context.Context, t domain.SetType) ([]domain.LegoSet, error) {
	return s.selectWhere(ctx, func(set domain.LegoSet) bool { return set.Type == t })
}

func (s *BoltStore) selectWhere(ctx context.Context, match func(domain.LegoSet) bool) ([]domain.LegoSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sets := make([]domain.LegoSet, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketLegoSets).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var set domain.LegoSet
			if err := json.Unmarshal(v, &set); err != nil {
				return err
			}
			if match(set) {
				sets = append(sets, set)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return sets, nil
}

func (s *BoltStore) SelectByID(ctx context.Context, id string) (*domain.LegoSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, ok := parseKey(id)
	if !ok {
		return nil, ErrNoRows
	}
	var set *domain.LegoSet
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketLegoSets).Get(key)
		if v == nil {
			return ErrNoRows
		}
		set = new(domain.LegoSet)
		return json.Unmarshal(v, set)
	})
	if errors.Is(err, ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return set, nil
}

func (s *BoltStore) UpdateByID(ctx context.Context, id string, cols Columns) (*domain.LegoSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, ok := parseKey(id)
	if !ok {
		return nil, ErrNoRows
	}
	var set domain.LegoSet
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLegoSets)
		v := b.Get(key)
		if v == nil {
			return ErrNoRows
		}
		if err := json.Unmarshal(v, &set); err != nil {
			return err
		}
		if err := ApplyColumns(&set, cols); err != nil {
			return err
		}
		set.UpdatedAt = s.now().UTC()
		data, err := json.Marshal(&set)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
	if errors.Is(err, ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &set, nil
}

func (s *BoltStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, ok := parseKey(id)
	if !ok {
		return nil
	}
	return errors.WithStack(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLegoSets).Delete(key)
	}))
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
