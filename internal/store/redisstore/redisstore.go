// Package redisstore implements the document Store on Redis. Documents are
// JSON strings keyed by path; change notifications ride a pub/sub channel
// so every connected instance observes every write.
package redisstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"cellquest-service/internal/store"
)

const (
	keyPrefix     = "cellquest:doc:"
	changeChannel = "cellquest:changes"
)

// Store is a Redis-backed document store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a store. A non-zero ttl expires documents, useful for
// throwaway environments; production runs with ttl 0 (no expiry).
func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, path string, out any) error {
	raw, err := s.client.Get(ctx, keyPrefix+path).Bytes()
	if err == redis.Nil {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *Store) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+path, raw, s.ttl)
	pipe.Publish(ctx, changeChannel, path)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) SetIfAbsent(ctx context.Context, path string, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	created, err := s.client.SetNX(ctx, keyPrefix+path, raw, s.ttl).Result()
	if err != nil {
		return false, err
	}
	if created {
		_ = s.client.Publish(ctx, changeChannel, path).Err()
	}
	return created, nil
}

// Update applies all writes in one MULTI/EXEC pipeline so readers never see
// a partially applied batch. Merge reads happen before the pipeline; the
// store's last-write-wins semantics govern concurrent merges to the same
// path.
func (s *Store) Update(ctx context.Context, writes []store.Write) error {
	prepared := make(map[string]json.RawMessage, len(writes))
	for _, w := range writes {
		if w.Merge {
			existing, err := s.client.Get(ctx, keyPrefix+w.Path).Bytes()
			if err != nil && err != redis.Nil {
				return err
			}
			merged, err := store.MergeDoc(existing, w.Value)
			if err != nil {
				return err
			}
			prepared[w.Path] = merged
			continue
		}
		raw, err := json.Marshal(w.Value)
		if err != nil {
			return err
		}
		prepared[w.Path] = raw
	}

	pipe := s.client.TxPipeline()
	for path, raw := range prepared {
		pipe.Set(ctx, keyPrefix+path, []byte(raw), s.ttl)
		pipe.Publish(ctx, changeChannel, path)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Delete(ctx context.Context, path string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, keyPrefix+path)
	pipe.Publish(ctx, changeChannel, path)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) List(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage)
	iter := s.client.Scan(ctx, 0, keyPrefix+prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		path := key[len(keyPrefix):]
		if !store.HasPrefix(path, prefix) {
			continue
		}
		raw, err := s.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, err
		}
		out[path] = raw
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Watch(ctx context.Context, prefix string) (<-chan store.Event, func(), error) {
	sub := s.client.Subscribe(ctx, changeChannel)
	// Force the subscription to be established before returning so callers
	// cannot miss writes issued right after Watch.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan store.Event, 16)
	var once sync.Once
	cancel := func() {
		once.Do(func() { _ = sub.Close() })
	}

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			path := msg.Payload
			if !store.HasPrefix(path, prefix) {
				continue
			}
			select {
			case out <- store.Event{Path: path}:
			case <-ctx.Done():
				cancel()
				return
			}
		}
	}()
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return out, cancel, nil
}
