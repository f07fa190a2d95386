package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

// SnapshotPublisher receives every full snapshot the watcher reads.
type SnapshotPublisher interface {
	Publish(events []domain.Event)
}

// Watcher is the live subscription over one scope: it LISTENs on the
// events channel from a dedicated connection and republishes the full
// event list whenever the store signals a change for the scope. Every
// (re-)subscription starts with a fresh full snapshot.
type Watcher struct {
	pool      *pgxpool.Pool
	repo      *EventRepository
	scope     domain.Scope
	publisher SnapshotPublisher
	logger    *log.Logger
}

func NewWatcher(pool *pgxpool.Pool, repo *EventRepository, scope domain.Scope, publisher SnapshotPublisher, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		pool:      pool,
		repo:      repo,
		scope:     scope,
		publisher: publisher,
		logger:    logger,
	}
}

const resubscribeDelay = time.Second

// Run blocks until ctx is done. A broken listen connection is
// re-opened after a short delay; each re-open republishes a full
// snapshot so consumers never miss state.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		err := w.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		w.logger.Printf("WARN: event subscription lost, re-subscribing: %v", err)

		select {
		case <-time.After(resubscribeDelay):
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) listen(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `LISTEN `+notifyChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// Fresh subscription, fresh full snapshot.
	if err := w.refresh(ctx); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		if notification.Payload != w.scope.Path() {
			continue
		}
		if err := w.refresh(ctx); err != nil {
			return err
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) error {
	events, err := w.repo.ListEvents(ctx, w.scope)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}
	w.publisher.Publish(events)
	return nil
}
