package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/linkdepot/internal/entities"
	"github.com/mrlokans/linkdepot/internal/logger"
)

// DefaultBatchSize caps how many links one backfill run looks at.
const DefaultBatchSize = 100

// MissingFaviconLister finds links that have no stored icon.
type MissingFaviconLister interface {
	ListMissingFavicons(limit int) ([]entities.Link, error)
}

// FaviconEnqueuer hands a link over for favicon fetching.
type FaviconEnqueuer interface {
	EnqueueFavicon(linkID uint, faviconURL string) error
}

// FaviconBackfillScheduler periodically fetches icons for links saved
// without one.
type FaviconBackfillScheduler struct {
	links     MissingFaviconLister
	queue     FaviconEnqueuer
	schedule  string
	batchSize int
	log       logger.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewFaviconBackfillScheduler creates a new scheduler instance.
func NewFaviconBackfillScheduler(links MissingFaviconLister, queue FaviconEnqueuer, schedule string, log logger.Logger) *FaviconBackfillScheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &FaviconBackfillScheduler{
		links:     links,
		queue:     queue,
		schedule:  schedule,
		batchSize: DefaultBatchSize,
		log:       log,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start begins the scheduler.
func (s *FaviconBackfillScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule favicon backfill: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.Info("Favicon backfill scheduler started",
		logger.String("schedule", s.schedule),
		logger.Any("next_run", s.cron.Entry(entryID).Next))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running backfill to finish and stops the scheduler.
func (s *FaviconBackfillScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.log.Info("Favicon backfill scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *FaviconBackfillScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next backfill will occur.
func (s *FaviconBackfillScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	t := s.cron.Entry(s.entryID).Next
	return &t
}

// RunOnce hands every link without an icon to the queue and returns how
// many were accepted.
func (s *FaviconBackfillScheduler) RunOnce() int {
	links, err := s.links.ListMissingFavicons(s.batchSize)
	if err != nil {
		s.log.Error("Favicon backfill: failed to list links", logger.Error(err))
		return 0
	}

	if len(links) == 0 {
		s.log.Debug("Favicon backfill: nothing to do")
		return 0
	}

	start := time.Now()
	queued := 0
	for _, link := range links {
		if err := s.queue.EnqueueFavicon(link.ID, ""); err != nil {
			s.log.Warn("Favicon backfill: link skipped",
				logger.Uint("link_id", link.ID), logger.Error(err))
			continue
		}
		queued++
	}

	s.log.Info("Favicon backfill finished",
		logger.Int("candidates", len(links)),
		logger.Int("queued", queued),
		logger.Duration("took", time.Since(start)))
	return queued
}
