package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/badgeboard/pkg/cache"
)

// templateEnc keeps timestamps at full precision.
var templateEnc = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key. Defaults to "badgeboard:".
	Prefix string
}

// RedisStore keeps each template as a CBOR value and tracks ids in a set.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection, retrying
// transient failures with backoff.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. Close closes it.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "badgeboard:"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(id string) string { return s.prefix + "template:" + id }
func (s *RedisStore) indexKey() string     { return s.prefix + "templates" }

func (s *RedisStore) Get(ctx context.Context, id string) (Template, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Template{}, notFound(id)
	}
	if err != nil {
		return Template{}, fmt.Errorf("redis get: %w", err)
	}
	var t Template
	if err := cbor.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("decode template %s: %w", id, err)
	}
	return t, nil
}

func (s *RedisStore) Put(ctx context.Context, t Template) (Template, error) {
	var prev *Template
	if old, err := s.Get(ctx, t.ID); err == nil {
		prev = &old
	}
	t, err := prepare(t, prev, s.now())
	if err != nil {
		return t, err
	}
	data, err := templateEnc.Marshal(t)
	if err != nil {
		return t, fmt.Errorf("encode template: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(t.ID), data, 0)
		p.SAdd(ctx, s.indexKey(), t.ID)
		return nil
	})
	if err != nil {
		return t, fmt.Errorf("redis put: %w", err)
	}
	return t, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.key(id))
		p.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	if del.Val() == 0 {
		return notFound(id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	slices.Sort(ids)
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		if err != nil {
			// Index entry without a value; skip it.
			continue
		}
		out = append(out, t.Summary())
	}
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
