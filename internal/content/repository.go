package content

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"cellquest-service/internal/domain"
)

// Repository caches activities with TTL to avoid repeated loader hits.
type Repository struct {
	loader Loader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedActivity
}

type cachedActivity struct {
	activity  domain.Activity
	expiresAt time.Time
}

func NewRepository(loader Loader, ttl time.Duration) *Repository {
	return &Repository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedActivity),
	}
}

func (r *Repository) Activity(ctx context.Context, activityID string) (domain.Activity, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[activityID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.activity, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(activityID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[activityID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.activity, nil
		}
		r.mu.RUnlock()

		activity, err := r.loader.LoadActivity(ctx, activityID)
		if err != nil {
			return domain.Activity{}, err
		}

		r.mu.Lock()
		r.cache[activityID] = cachedActivity{
			activity:  activity,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return activity, nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	return result.(domain.Activity), nil
}

func (r *Repository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
