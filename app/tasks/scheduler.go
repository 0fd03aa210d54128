package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/nexus-news/app/article"
	"github.com/lysyi3m/nexus-news/app/cache"
	"github.com/lysyi3m/nexus-news/app/store"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const taskQueueSize = 300

type Scheduler struct {
	configs     ConfigSource
	board       *store.Board
	fetcher     Fetcher
	normalizer  *article.Normalizer
	filterer    *article.Filterer
	extractor   Extractor
	cache       cache.Cache
	interval    time.Duration
	workerCount int
	clock       func() time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	mu          sync.Mutex
	attemptedAt map[string]time.Time // last refresh enqueue per provider
	extractedAt map[string]time.Time // batch FetchedAt already handed to extraction
}

func NewScheduler(configs ConfigSource, board *store.Board, fetcher Fetcher, normalizer *article.Normalizer,
	filterer *article.Filterer, extractor Extractor, responseCache cache.Cache,
	interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount < 1 {
		workerCount = 1
	}

	return &Scheduler{
		configs:     configs,
		board:       board,
		fetcher:     fetcher,
		normalizer:  normalizer,
		filterer:    filterer,
		extractor:   extractor,
		cache:       responseCache,
		interval:    interval,
		workerCount: workerCount,
		clock:       time.Now,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, taskQueueSize),
		attemptedAt: make(map[string]time.Time),
		extractedAt: make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

// Stop cancels workers and waits for them. The queue stays open so late
// retries and API calls fail with the context error instead of panicking.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueRefresh schedules an immediate refresh of one configured provider.
func (s *Scheduler) EnqueueRefresh(providerName string) error {
	config, err := s.configs.GetConfig(providerName)
	if err != nil {
		return err
	}

	if err := s.EnqueueTask(NewRefreshProviderTask(config, s.fetcher, s.normalizer, s.filterer, s.board)); err != nil {
		return err
	}

	s.mu.Lock()
	s.attemptedAt[providerName] = s.clock()
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) enqueueStartupTasks() {
	providerConfigs := s.configs.GetEnabledConfigs()
	if len(providerConfigs) == 0 {
		slog.Debug("No enabled provider configurations found")
		return
	}

	slog.Debug("Processing provider configurations", "count", len(providerConfigs))

	now := s.clock()
	for name, providerConfig := range providerConfigs {
		refreshTask := NewRefreshProviderTask(providerConfig, s.fetcher, s.normalizer, s.filterer, s.board)
		if err := s.EnqueueTask(refreshTask); err != nil {
			slog.Warn("Failed to enqueue RefreshProviderTask", "provider", name, "error", err)
			continue
		}
		s.markAttempted(name, now)
	}
}

func (s *Scheduler) enqueueTasks() {
	providerConfigs := s.configs.GetEnabledConfigs()
	if len(providerConfigs) == 0 {
		slog.Debug("No enabled provider configurations found")
	} else {
		slog.Debug("Processing enabled provider configurations for task scheduling", "count", len(providerConfigs))
	}

	now := s.clock()
	for name, providerConfig := range providerConfigs {
		if s.refreshDue(name, providerConfig.RefreshInterval(), now) {
			refreshTask := NewRefreshProviderTask(providerConfig, s.fetcher, s.normalizer, s.filterer, s.board)
			if err := s.EnqueueTask(refreshTask); err != nil {
				slog.Warn("Failed to enqueue RefreshProviderTask", "provider", name, "error", err)
			} else {
				s.markAttempted(name, now)
			}
		} else {
			slog.Debug("Provider not due for refresh yet", "provider", name, "last_fetched", s.board.LastFetched(name))
		}

		if providerConfig.Settings.ExtractContent && s.extractionDue(name) {
			extractTask := NewExtractContentTask(providerConfig, s.fetcher, s.extractor, s.normalizer, s.board)
			if err := s.EnqueueTask(extractTask); err != nil {
				slog.Warn("Failed to enqueue ExtractContentTask", "provider", name, "error", err)
			}
		}
	}

	if s.cache != nil {
		if err := s.EnqueueTask(NewPurgeCacheTask(s.cache)); err != nil {
			slog.Warn("Failed to enqueue PurgeCacheTask", "error", err)
		}
	}
}

// refreshDue is true once refresh_interval has passed since the later of the
// last successful fetch and the last enqueued attempt.
func (s *Scheduler) refreshDue(name string, refreshInterval time.Duration, now time.Time) bool {
	last := s.board.LastFetched(name)

	s.mu.Lock()
	if attempted := s.attemptedAt[name]; attempted.After(last) {
		last = attempted
	}
	s.mu.Unlock()

	return last.IsZero() || !now.Before(last.Add(refreshInterval))
}

func (s *Scheduler) markAttempted(name string, at time.Time) {
	s.mu.Lock()
	s.attemptedAt[name] = at
	s.mu.Unlock()
}

// extractionDue hands each fetched batch to content extraction once.
func (s *Scheduler) extractionDue(name string) bool {
	fetchedAt := s.board.LastFetched(name)
	if fetchedAt.IsZero() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !fetchedAt.After(s.extractedAt[name]) {
		return false
	}
	s.extractedAt[name] = fetchedAt
	return true
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			delay := retryDelay(task.GetRetryCount())

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "provider", task.GetProviderName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

			go func() {
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
				case <-time.After(delay):
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
