package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

// notifyChannel carries change pushes for every scope; the payload is
// the scope path, so listeners filter to their own scope.
const notifyChannel = "calendar_events"

// EventRepository stores calendar events keyed by scope. Writes emit
// a pg_notify in the same transaction, so the change push comes from
// the store itself on commit.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// CreateEvent inserts the event and returns it with the store-assigned
// id and creation timestamp.
func (r *EventRepository) CreateEvent(ctx context.Context, scope domain.Scope, event domain.Event) (domain.Event, error) {
	const stmt = `
INSERT INTO events (namespace, user_id, title, event_date)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

	stored := event
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		if err := r.queryRow(txCtx, stmt, scope.Namespace, scope.UserID, event.Title, event.Date).
			Scan(&stored.ID, &stored.CreatedAt); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return r.notify(txCtx, scope)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return stored, nil
}

// DeleteEvent removes the event. An id unknown to the store surfaces
// ErrEventNotFound; there is no caller-side existence check.
func (r *EventRepository) DeleteEvent(ctx context.Context, scope domain.Scope, id string) error {
	const stmt = `
DELETE FROM events
WHERE id = $1 AND namespace = $2 AND user_id = $3`

	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		tag, err := r.exec(txCtx, stmt, id, scope.Namespace, scope.UserID)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrEventNotFound
		}
		return r.notify(txCtx, scope)
	})
}

// ListEvents returns the full event list for the scope in arrival
// order.
func (r *EventRepository) ListEvents(ctx context.Context, scope domain.Scope) ([]domain.Event, error) {
	const query = `
SELECT id, title, event_date, created_at
FROM events
WHERE namespace = $1 AND user_id = $2
ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, scope.Namespace, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Date, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) notify(ctx context.Context, scope domain.Scope) error {
	if _, err := r.exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, scope.Path()); err != nil {
		return fmt.Errorf("notify change: %w", err)
	}
	return nil
}

func (r *EventRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *EventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
