package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/raumfrei/offerd/internal/offers/domain"
	"github.com/raumfrei/offerd/internal/offers/store"
	"github.com/raumfrei/offerd/pkg/idx"
)

type offersRepo struct {
	db *sql.DB
}

func (r *offersRepo) Create(ctx context.Context, o domain.Offer) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		formID := idx.New().String()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO forms (id, tenant_key, payload) VALUES (?, ?, ?)`,
			formID, o.TenantKey, string(o.FormData),
		); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO offers (id, tenant_key, email, token_hash, form_id, confirmed, created_at, expires_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.TenantKey, o.Email, o.TokenHash, formID, o.Confirmed, o.CreatedAt, o.ExpiresAt,
		)
		return err
	})
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

const offerColumns = `o.id, o.tenant_key, o.email, o.token_hash, f.payload, o.confirmed, o.created_at, o.expires_at`

func scanOffer(row interface {
	Scan(dest ...any) error
},
) (domain.Offer, error) {
	var o domain.Offer
	var payload string
	err := row.Scan(&o.ID, &o.TenantKey, &o.Email, &o.TokenHash, &payload, &o.Confirmed, &o.CreatedAt, &o.ExpiresAt)
	if err != nil {
		return domain.Offer{}, err
	}
	o.FormData = []byte(payload)
	return o, nil
}

func (r *offersRepo) FindByTokenHash(ctx context.Context, hash string) (domain.Offer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+offerColumns+`
		 FROM offers o JOIN forms f ON f.id = o.form_id
		 WHERE o.token_hash = ?`, hash)

	o, err := scanOffer(row)
	if err != nil {
		return domain.Offer{}, mapNotFound(err)
	}
	return o, nil
}

// FindActive selects only the public projection columns; token hash, flags,
// and expiration never leave the database for listing queries.
func (r *offersRepo) FindActive(ctx context.Context, tenantKey string, now time.Time) ([]domain.Offer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.email, f.payload, o.created_at
		 FROM offers o JOIN forms f ON f.id = o.form_id
		 WHERE o.tenant_key = ? AND o.confirmed = 1 AND o.expires_at > ?
		 ORDER BY o.created_at DESC`, tenantKey, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var o domain.Offer
		var payload string
		if err := rows.Scan(&o.ID, &o.Email, &payload, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.FormData = []byte(payload)
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *offersRepo) ListAll(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+offerColumns+`
		 FROM offers o JOIN forms f ON f.id = o.form_id
		 ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *offersRepo) Update(ctx context.Context, id string, patch store.OfferPatch) (domain.Offer, error) {
	var updated domain.Offer
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if patch.Confirmed != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE offers SET confirmed = ? WHERE id = ?`, *patch.Confirmed, id); err != nil {
				return err
			}
		}
		if patch.ExpiresAt != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE offers SET expires_at = ? WHERE id = ?`, *patch.ExpiresAt, id); err != nil {
				return err
			}
		}

		row := tx.QueryRowContext(ctx,
			`SELECT `+offerColumns+`
			 FROM offers o JOIN forms f ON f.id = o.form_id
			 WHERE o.id = ?`, id)

		var err error
		updated, err = scanOffer(row)
		return mapNotFound(err)
	})
	if err != nil {
		return domain.Offer{}, err
	}
	return updated, nil
}

// Delete removes the offer and its owned form row in one transaction.
func (r *offersRepo) Delete(ctx context.Context, hash string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var formID string
		err := tx.QueryRowContext(ctx,
			`SELECT form_id FROM offers WHERE token_hash = ?`, hash).Scan(&formID)
		if err != nil {
			return mapNotFound(err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM offers WHERE token_hash = ?`, hash); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, formID); err != nil {
			return fmt.Errorf("delete owned form: %w", err)
		}
		return nil
	})
}

func (r *offersRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM offers WHERE expires_at < ?`, cutoff)
		if err != nil {
			return err
		}
		if purged, err = res.RowsAffected(); err != nil {
			return err
		}

		// Offers own their forms, so anything no longer referenced goes too.
		_, err = tx.ExecContext(ctx,
			`DELETE FROM forms WHERE id NOT IN (SELECT form_id FROM offers)`)
		return err
	})
	return purged, err
}
