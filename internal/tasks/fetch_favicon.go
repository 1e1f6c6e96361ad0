package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/linkdepot/internal/entities"
	"github.com/mrlokans/linkdepot/internal/logger"
)

// FaviconStore loads links and stores their icons.
type FaviconStore interface {
	FromID(id uint) (*entities.Link, error)
	SetFavicon(id uint, favicon []byte) error
}

// FaviconFetcher downloads an icon for a link URL, preferring an explicit
// icon URL when one is given.
type FaviconFetcher interface {
	FetchForLink(ctx context.Context, linkURL, explicit string) ([]byte, error)
}

// FetchFaviconTask downloads and stores the favicon of one link.
type FetchFaviconTask struct {
	LinkID     uint   `json:"link_id"`
	FaviconURL string `json:"favicon_url,omitempty"`
}

// Config returns the queue configuration for favicon tasks.
func (t FetchFaviconTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "fetch_favicon",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FetchFavicon runs one favicon fetch synchronously. It is shared by the
// queue processor, the backfill job and requests served without a queue.
func FetchFavicon(ctx context.Context, store FaviconStore, fetcher FaviconFetcher, task FetchFaviconTask) error {
	link, err := store.FromID(task.LinkID)
	if err != nil {
		return fmt.Errorf("load link %d: %w", task.LinkID, err)
	}

	data, err := fetcher.FetchForLink(ctx, link.URL, task.FaviconURL)
	if err != nil {
		return fmt.Errorf("fetch favicon for link %d: %w", task.LinkID, err)
	}

	if err := store.SetFavicon(link.ID, data); err != nil {
		return fmt.Errorf("store favicon for link %d: %w", task.LinkID, err)
	}
	return nil
}

// FetchFaviconProcessor creates a processor function for FetchFaviconTask.
func FetchFaviconProcessor(store FaviconStore, fetcher FaviconFetcher, log logger.Logger) backlite.QueueProcessor[FetchFaviconTask] {
	return func(ctx context.Context, task FetchFaviconTask) error {
		if store == nil || fetcher == nil {
			return fmt.Errorf("favicon fetching not configured")
		}

		if err := FetchFavicon(ctx, store, fetcher, task); err != nil {
			return err
		}

		if log != nil {
			log.Info("Stored favicon", logger.Uint("link_id", task.LinkID))
		}
		return nil
	}
}

// NewFetchFaviconQueue creates a backlite queue for favicon tasks.
func NewFetchFaviconQueue(store FaviconStore, fetcher FaviconFetcher, log logger.Logger) backlite.Queue {
	return backlite.NewQueue(FetchFaviconProcessor(store, fetcher, log))
}

// Inline runs favicon fetches in the caller's goroutine. It stands in for
// the queue when background workers are disabled.
type Inline struct {
	Store   FaviconStore
	Fetcher FaviconFetcher
	Timeout time.Duration
}

// EnqueueFavicon fetches and stores the icon before returning.
func (i *Inline) EnqueueFavicon(linkID uint, faviconURL string) error {
	ctx := context.Background()
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}
	return FetchFavicon(ctx, i.Store, i.Fetcher, FetchFaviconTask{LinkID: linkID, FaviconURL: faviconURL})
}
