package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"cellquest-service/internal/content"
	"cellquest-service/internal/domain"
)

func TestRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{Loader: content.NewStaticLoader(content.SeedActivities())}
	repo := NewRepository(client, loader, time.Minute)

	activity, err := repo.Activity(context.Background(), "activity5")
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(activity.Questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(activity.Questions))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call is served from Redis.
	cached, err := repo.Activity(context.Background(), "activity5")
	if err != nil {
		t.Fatalf("cached activity: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Questions[9].CorrectText != "Cilia" {
		t.Fatalf("cache dropped question fields: %+v", cached.Questions[9])
	}
}

type countingLoader struct {
	content.Loader
	calls int
}

func (l *countingLoader) LoadActivity(ctx context.Context, activityID string) (domain.Activity, error) {
	l.calls++
	return l.Loader.LoadActivity(ctx, activityID)
}
