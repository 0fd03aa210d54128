package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/nexus-news/app/cache"
)

type PurgeCacheTask struct {
	Task
	cache cache.Cache
}

func NewPurgeCacheTask(responseCache cache.Cache) *PurgeCacheTask {
	return &PurgeCacheTask{
		Task:  NewTask(TaskTypePurgeCache, ""),
		cache: responseCache,
	}
}

func (t *PurgeCacheTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	evicted := t.cache.Purge()
	if evicted > 0 {
		slog.Info("Task completed", "type", t.GetType(), "evicted", evicted, "duration", t.GetDuration())
	} else {
		slog.Debug("No expired cache entries", "type", t.GetType())
	}

	return nil
}
