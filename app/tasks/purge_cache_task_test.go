package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/lysyi3m/nexus-news/app/cache"
)

func TestPurgeCacheTaskEvictsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	responseCache := cache.NewMemory(time.Minute, func() time.Time { return now })

	responseCache.Set("old", []byte("a"))
	now = now.Add(2 * time.Minute)
	responseCache.Set("fresh", []byte("b"))

	task := NewPurgeCacheTask(responseCache)
	if task.GetType() != TaskTypePurgeCache {
		t.Errorf("Expected purge task type, got %s", task.GetType())
	}
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	stats := responseCache.Stats()
	if stats.Entries != 1 || stats.Evicted != 1 {
		t.Errorf("Expected 1 entry and 1 eviction, got %+v", stats)
	}
	if _, ok := responseCache.Get("fresh"); !ok {
		t.Error("Expected fresh entry to survive purge")
	}
}
