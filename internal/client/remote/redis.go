package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/visitordesk/internal/common"
)

// keyPrefix namespaces the hashes so several applications can share one
// Redis instance.
const keyPrefix = "visitordesk:"

// RedisStore keeps each collection in one Redis hash
// (e.g. visitordesk:users), field = record key, value = JSON document.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore parses addr as a redis URL (redis://host:port/db) and
// verifies connectivity. When the server is unreachable the store is
// returned together with a common.ErrRemoteUnavailable error so the caller
// can start in fallback mode and retry per operation.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return &RedisStore{rdb: rdb}, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func hashKey(collection string) string {
	return keyPrefix + collection
}

func (s *RedisStore) Put(ctx context.Context, collection, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, key, err)
	}
	if err := s.rdb.HSet(ctx, hashKey(collection), key, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, collection, key string, fields map[string]any) error {
	// Redis has no partial-JSON update on hash fields, so merge client-side.
	data, err := s.Get(ctx, collection, key)
	if err != nil {
		return err
	}

	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal %s/%s: %w", collection, key, err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	return s.Put(ctx, collection, key, doc)
}

func (s *RedisStore) Get(ctx context.Context, collection, key string) ([]byte, error) {
	data, err := s.rdb.HGet(ctx, hashKey(collection), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	return data, nil
}

func (s *RedisStore) QueryAll(ctx context.Context, collection string) (map[string][]byte, error) {
	all, err := s.rdb.HGetAll(ctx, hashKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}

	docs := make(map[string][]byte, len(all))
	for k, v := range all {
		docs[k] = []byte(v)
	}
	return docs, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
