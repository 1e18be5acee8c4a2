package service

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/flight-explorer/internal/queue"
	"github.com/iliyamo/flight-explorer/internal/refdata"
)

// SnapshotRefresher reloads the reference snapshot.  *refdata.Holder
// satisfies it.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*refdata.Snapshot, error)
}

// Publisher broadcasts refresh events.
type Publisher interface {
	PublishRefreshRequested(ctx context.Context, ev queue.RefreshRequestedEvent) error
}

// CacheFlusher drops cached HTTP responses and reports how many went.
type CacheFlusher func(ctx context.Context) (int, error)

// RefreshResult reports what a refresh did.
type RefreshResult struct {
	Stats       refdata.Stats `json:"stats"`
	Flushed     int           `json:"cache_entries_flushed"`
	Broadcasted bool          `json:"broadcasted"`
}

// Refresher runs refreshes for the admin endpoint and for events arriving
// from other instances.
type Refresher struct {
	Snapshots SnapshotRefresher
	Flush     CacheFlusher // optional
	Publisher Publisher    // optional
	Instance  string
}

// Refresh reloads the snapshot, flushes the response cache and broadcasts
// the event.  Only the reload can fail the call; flush and publish failures
// are logged.
func (r *Refresher) Refresh(ctx context.Context, requestedBy, reason string) (RefreshResult, error) {
	res, err := r.apply(ctx)
	if err != nil {
		return res, err
	}
	if r.Publisher != nil {
		ev := queue.NewRefreshRequested(r.Instance, requestedBy, reason)
		if err := r.Publisher.PublishRefreshRequested(ctx, ev); err != nil {
			log.Printf("refresh: broadcast failed: %v", err)
		} else {
			res.Broadcasted = true
		}
	}
	return res, nil
}

// HandleRemote applies an event published by another instance.  It does not
// re-broadcast.
func (r *Refresher) HandleRemote(ctx context.Context, ev queue.RefreshRequestedEvent) error {
	log.Printf("refresh: event from %s (by %s)", ev.Origin, ev.RequestedBy)
	_, err := r.apply(ctx)
	return err
}

func (r *Refresher) apply(ctx context.Context) (RefreshResult, error) {
	if r.Snapshots == nil {
		return RefreshResult{}, errors.New("refresh: no snapshot source")
	}
	snap, err := r.Snapshots.Refresh(ctx)
	if err != nil {
		return RefreshResult{}, err
	}
	res := RefreshResult{Stats: snap.Stats()}
	if r.Flush != nil {
		n, err := r.Flush(ctx)
		if err != nil {
			log.Printf("refresh: cache flush failed: %v", err)
		}
		res.Flushed = n
	}
	return res, nil
}
