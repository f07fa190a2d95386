package app

import (
	"testing"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

func TestSnapshotFeed(t *testing.T) {
	t.Parallel()

	t.Run("latest is empty before the first push", func(t *testing.T) {
		feed := NewSnapshotFeed()
		events, ok := feed.Latest()
		if ok || events != nil {
			t.Fatalf("expected no snapshot, got %+v (ok=%v)", events, ok)
		}
	})

	t.Run("publish replaces the slot wholesale", func(t *testing.T) {
		feed := NewSnapshotFeed()
		feed.Publish([]domain.Event{{ID: "a"}, {ID: "b"}})
		feed.Publish([]domain.Event{{ID: "c"}})

		events, ok := feed.Latest()
		if !ok {
			t.Fatalf("expected a snapshot")
		}
		if len(events) != 1 || events[0].ID != "c" {
			t.Fatalf("expected the last push only, got %+v", events)
		}
	})

	t.Run("subscriber is primed with the current snapshot", func(t *testing.T) {
		feed := NewSnapshotFeed()
		feed.Publish([]domain.Event{{ID: "a"}})

		snapshots, cancel := feed.Subscribe()
		defer cancel()

		got := <-snapshots
		if len(got) != 1 || got[0].ID != "a" {
			t.Fatalf("expected primed snapshot, got %+v", got)
		}
	})

	t.Run("slow subscriber only sees the most recent push", func(t *testing.T) {
		feed := NewSnapshotFeed()
		snapshots, cancel := feed.Subscribe()
		defer cancel()

		feed.Publish([]domain.Event{{ID: "a"}})
		feed.Publish([]domain.Event{{ID: "b"}})
		feed.Publish([]domain.Event{{ID: "c"}})

		got := <-snapshots
		if len(got) != 1 || got[0].ID != "c" {
			t.Fatalf("expected only the latest snapshot, got %+v", got)
		}
		select {
		case stale := <-snapshots:
			t.Fatalf("expected no queued snapshots, got %+v", stale)
		default:
		}
	})

	t.Run("cancel closes the channel and stops delivery", func(t *testing.T) {
		feed := NewSnapshotFeed()
		snapshots, cancel := feed.Subscribe()
		cancel()
		cancel() // idempotent

		if _, open := <-snapshots; open {
			t.Fatalf("expected closed channel after cancel")
		}
		// Must not panic on a closed subscription.
		feed.Publish([]domain.Event{{ID: "a"}})
	})

	t.Run("multiple subscribers all receive pushes", func(t *testing.T) {
		feed := NewSnapshotFeed()
		first, cancelFirst := feed.Subscribe()
		second, cancelSecond := feed.Subscribe()
		defer cancelFirst()
		defer cancelSecond()

		feed.Publish([]domain.Event{{ID: "a"}})

		if got := <-first; len(got) != 1 || got[0].ID != "a" {
			t.Fatalf("first subscriber got %+v", got)
		}
		if got := <-second; len(got) != 1 || got[0].ID != "a" {
			t.Fatalf("second subscriber got %+v", got)
		}
	})
}
