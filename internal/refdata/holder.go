package refdata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/flight-explorer/internal/model"
)

// ErrNotLoaded is returned by Holder.Current callers that need a snapshot
// before the first successful load.
var ErrNotLoaded = errors.New("reference data not loaded")

// loadTimeout bounds one shared reload of the reference tables.
const loadTimeout = 30 * time.Second

// Source reads the reference tables.  repository.Store satisfies it.
type Source interface {
	ListCountries(ctx context.Context) ([]model.Country, error)
	ListAirlinesWithIATA(ctx context.Context) ([]model.Airline, error)
	ListAirportsWithIATA(ctx context.Context) ([]model.Airport, error)
}

// Load reads the three tables concurrently and builds a Snapshot.  Any
// failing read fails the whole load.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	var (
		countries []model.Country
		airlines  []model.Airline
		airports  []model.Airport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		countries, err = src.ListCountries(gctx)
		if err != nil {
			return fmt.Errorf("load countries: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		airlines, err = src.ListAirlinesWithIATA(gctx)
		if err != nil {
			return fmt.Errorf("load airlines: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		airports, err = src.ListAirportsWithIATA(gctx)
		if err != nil {
			return fmt.Errorf("load airports: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewSnapshot(countries, airlines, airports), nil
}

// Holder owns the current Snapshot and knows how to rebuild it.
type Holder struct {
	src     Source
	current atomic.Pointer[Snapshot]
	sf      singleflight.Group
}

// NewHolder returns a Holder with no snapshot loaded yet.
func NewHolder(src Source) *Holder {
	return &Holder{src: src}
}

// Static returns a Holder permanently serving snap.  Refresh on it is a no-op.
func Static(snap *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(snap)
	return h
}

// Current returns the snapshot in use, or nil before the first load.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Refresh rebuilds the snapshot from the source and swaps it in.  Concurrent
// callers share one load, which is not tied to any caller's cancellation and
// is bounded by loadTimeout.  A caller whose ctx ends stops waiting while the
// load carries on for the others.  On failure the previous snapshot stays in
// place.
func (h *Holder) Refresh(ctx context.Context) (*Snapshot, error) {
	if h.src == nil {
		if snap := h.Current(); snap != nil {
			return snap, nil
		}
		return nil, ErrNotLoaded
	}
	ch := h.sf.DoChan("refresh", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		snap, err := Load(lctx, h.src)
		if err != nil {
			return nil, err
		}
		h.current.Store(snap)
		st := snap.Stats()
		log.Printf("refdata: loaded %d countries, %d airlines, %d airports", st.Countries, st.Airlines, st.Airports)
		return snap, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Run refreshes the snapshot every interval until ctx is cancelled.  Failures
// are logged and the old snapshot keeps serving.
func (h *Holder) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := h.Refresh(ctx); err != nil {
				log.Printf("refdata: periodic refresh failed: %v", err)
			}
		}
	}
}
