package liststore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	fieldData    = "data"
	fieldVersion = "updated_at"
)

// RedisStore keeps each list in a hash holding the payload and its version
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the given redis server
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, key Key) ([]byte, int64, error) {
	return readHash(ctx, s.client, key)
}

func readHash(ctx context.Context, c redis.Cmdable, key Key) ([]byte, int64, error) {
	vals, err := c.HMGet(ctx, string(key), fieldData, fieldVersion).Result()
	if err != nil {
		return nil, 0, err
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return nil, Absent, nil
	}

	data, _ := vals[0].(string)
	raw, _ := vals[1].(string)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("bad version for %s: %w", key, err)
	}
	return []byte(data), version, nil
}

// Put implements Store. The compare step runs under WATCH so a concurrent
// writer aborts the transaction.
func (s *RedisStore) Put(ctx context.Context, key Key, data []byte, expected int64) (int64, error) {
	version := nextVersion(expected)

	if expected == AnyVersion {
		err := s.client.HSet(ctx, string(key), fieldData, data, fieldVersion, version).Err()
		if err != nil {
			return 0, err
		}
		return version, nil
	}

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		_, current, err := readHash(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != expected {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, string(key), fieldData, data, fieldVersion, version)
			return nil
		})
		return err
	}, string(key))

	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// Close implements Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}
