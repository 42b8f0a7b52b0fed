// Package rediscache fronts a content Loader with a Redis cache so every
// instance shares one warmed copy of each activity.
package rediscache

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"cellquest-service/internal/content"
	"cellquest-service/internal/domain"
)

// Repository caches activity JSON under activity:{id} with a jittered TTL
// and falls back to the loader on cache miss.
type Repository struct {
	client *redis.Client
	loader content.Loader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewRepository(client *redis.Client, loader content.Loader, ttl time.Duration) *Repository {
	return &Repository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Repository) Activity(ctx context.Context, activityID string) (domain.Activity, error) {
	key := r.key(activityID)

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var activity domain.Activity
		if err := json.Unmarshal(raw, &activity); err == nil {
			return activity, nil
		}
		// Unreadable cache entry, fall through and rebuild it.
	}

	result, err, _ := r.sf.Do(activityID, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var activity domain.Activity
			if err := json.Unmarshal(raw, &activity); err == nil {
				return activity, nil
			}
		}

		activity, err := r.loader.LoadActivity(ctx, activityID)
		if err != nil {
			return domain.Activity{}, err
		}
		raw, err := json.Marshal(activity)
		if err != nil {
			return domain.Activity{}, err
		}
		_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		return activity, nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	return result.(domain.Activity), nil
}

func (r *Repository) key(activityID string) string {
	return "activity:" + activityID
}

func (r *Repository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
