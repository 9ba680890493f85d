package sqlite

import (
	"context"
	"database/sql"

	"github.com/raumfrei/offerd/internal/offers/domain"
)

type usageRepo struct {
	db *sql.DB
}

func (r *usageRepo) Record(ctx context.Context, ev domain.UsageEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_events (id, tenant_key, action, created_at) VALUES (?, ?, ?, ?)`,
		ev.ID, ev.TenantKey, string(ev.Action), ev.CreatedAt,
	)
	return err
}
