package migrations_test

import (
	"context"
	"testing"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/testutil"
	"github.com/DaryllDaniel/Simple-Event-Calendar/migrations"
)

func TestApply(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()

	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var applied int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied < 1 {
		t.Fatalf("expected at least one recorded migration, got %d", applied)
	}

	// Re-applying is a no-op.
	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}
	var again int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&again); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if again != applied {
		t.Fatalf("expected %d migrations after re-apply, got %d", applied, again)
	}

	// The events table exists and accepts the snapshot query shape.
	var events int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&events); err != nil {
		t.Fatalf("query events: %v", err)
	}
}
