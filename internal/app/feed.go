package app

import (
	"sync"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

// SnapshotFeed is a single-slot cell holding the latest full event
// snapshot. Every push replaces the slot wholesale; subscribers are
// fanned out to with latest-wins delivery, so a slow subscriber skips
// stale intermediate snapshots instead of queueing them.
type SnapshotFeed struct {
	mu      sync.Mutex
	latest  []domain.Event
	primed  bool
	subs    map[int]chan []domain.Event
	nextKey int
}

func NewSnapshotFeed() *SnapshotFeed {
	return &SnapshotFeed{subs: make(map[int]chan []domain.Event)}
}

// Publish replaces the current snapshot and notifies subscribers.
// The slice is treated as immutable by all consumers.
func (f *SnapshotFeed) Publish(events []domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = events
	f.primed = true
	for _, ch := range f.subs {
		deliver(ch, events)
	}
}

// Latest returns the current snapshot and whether one has been
// published yet.
func (f *SnapshotFeed) Latest() ([]domain.Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.primed
}

// Subscribe registers a consumer. The channel is primed with the
// current snapshot when one exists. cancel releases the subscription;
// the channel is closed afterwards.
func (f *SnapshotFeed) Subscribe() (<-chan []domain.Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := f.nextKey
	f.nextKey++
	ch := make(chan []domain.Event, 1)
	f.subs[key] = ch
	if f.primed {
		deliver(ch, f.latest)
	}

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[key]; ok {
			delete(f.subs, key)
			close(sub)
		}
	}
	return ch, cancel
}

// deliver drops the buffered snapshot, if any, before sending so the
// receiver only ever observes the most recent one.
func deliver(ch chan []domain.Event, events []domain.Event) {
	select {
	case <-ch:
	default:
	}
	ch <- events
}
