package event

import (
	"context"
	"sort"
	"sync"

	"github.com/D-Elbel/gpxshare/internal/track/entity"
)

const defaultRecentsSize = 20

type RecorderConfig struct {
	Size    int
	Workers int
}

// Recorder consumes TrackSaved events and keeps a bounded, newest-first
// list of recently stored tracks. The list lives only for the lifetime of
// this process; the blob store itself has no listing operation.
type Recorder struct {
	bus     *Bus
	size    int
	workers int

	mu      sync.RWMutex
	entries []recentEntry
	seen    map[string]struct{}

	wg sync.WaitGroup
}

type recentEntry struct {
	seq   int64
	track entity.RecentTrack
}

func NewRecorder(bus *Bus, cfg RecorderConfig) *Recorder {
	size := cfg.Size
	if size < 1 {
		size = defaultRecentsSize
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &Recorder{
		bus:     bus,
		size:    size,
		workers: workers,
		seen:    make(map[string]struct{}),
	}
}

func (r *Recorder) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
}

func (r *Recorder) Stop(ctx context.Context) error {
	if r.bus != nil {
		r.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recents returns the tracked entries newest-first.
func (r *Recorder) Recents() []entity.RecentTrack {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recents := make([]entity.RecentTrack, 0, len(r.entries))
	for _, entry := range r.entries {
		recents = append(recents, entry.track)
	}

	return recents
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for event := range r.bus.Subscribe() {
		r.record(event)
	}
}

// record inserts the event ordered by sequence number so that entries stay
// newest-first even when saves race across workers.
func (r *Recorder) record(event entity.TrackSavedEvent) {
	if event.UUID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, loaded := r.seen[event.UUID]; loaded {
		return
	}
	r.seen[event.UUID] = struct{}{}

	entry := recentEntry{
		seq: event.Seq,
		track: entity.RecentTrack{
			UUID:            event.UUID,
			TotalDistanceKm: event.Stats.TotalDistanceKm,
			SavedAt:         event.SavedAt,
		},
	}

	idx := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].seq < entry.seq
	})

	r.entries = append(r.entries, recentEntry{})
	copy(r.entries[idx+1:], r.entries[idx:])
	r.entries[idx] = entry

	if len(r.entries) > r.size {
		for _, evicted := range r.entries[r.size:] {
			delete(r.seen, evicted.track.UUID)
		}
		r.entries = r.entries[:r.size]
	}
}
