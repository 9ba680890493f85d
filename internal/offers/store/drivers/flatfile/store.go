// Package flatfile implements the offer store as a single JSON snapshot
// file: the whole offer set is held in memory and rewritten wholesale on
// every mutation.
//
// This backend is single-process only. A process-local mutex serializes the
// read-modify-write cycle, so concurrent goroutines are safe, but two
// processes sharing a snapshot file will silently overwrite each other's
// changes, and a crash mid-rewrite can lose the in-flight mutation. The
// snapshot is written to a temp file and renamed into place so a crash never
// leaves a half-written file behind.
package flatfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/raumfrei/offerd/internal/offers/domain"
	"github.com/raumfrei/offerd/internal/offers/store"
)

type Store struct {
	path       string
	eventsPath string

	mu     sync.Mutex
	offers map[string]domain.Offer // keyed by token hash
}

// NewStore loads the snapshot at path, or starts empty if none exists yet.
// Usage events are appended to a JSONL sidecar next to the snapshot.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:       path,
		eventsPath: path + ".events.jsonl",
		offers:     make(map[string]domain.Offer),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flatfile: read snapshot: %w", err)
	}

	records, err := decodeSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("flatfile: decode snapshot %s: %w", path, err)
	}
	for _, o := range records {
		s.offers[o.TokenHash] = o
	}
	return s, nil
}

func (s *Store) Offers() store.Offers { return &offersRepo{s: s} }
func (s *Store) Usage() store.Usage   { return &usageRepo{s: s} }

func (s *Store) Close() error { return nil }

// Ping verifies the snapshot location is still writable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

// flush serializes the full offer set and atomically replaces the snapshot.
// Callers must hold s.mu.
func (s *Store) flush() error {
	records := make([]domain.Offer, 0, len(s.offers))
	for _, o := range s.offers {
		records = append(records, o)
	}
	// Deterministic file content makes snapshots diffable.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	raw, err := encodeSnapshot(records)
	if err != nil {
		return fmt.Errorf("flatfile: encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("flatfile: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("flatfile: replace snapshot: %w", err)
	}
	return nil
}

type offersRepo struct {
	s *Store
}

func (r *offersRepo) Create(ctx context.Context, o domain.Offer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.offers[o.TokenHash]; exists {
		return store.ErrAlreadyExists
	}

	r.s.offers[o.TokenHash] = o
	if err := r.s.flush(); err != nil {
		delete(r.s.offers, o.TokenHash)
		return err
	}
	return nil
}

func (r *offersRepo) FindByTokenHash(ctx context.Context, hash string) (domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.offers[hash]
	if !ok {
		return domain.Offer{}, store.ErrNotFound
	}
	return o, nil
}

func (r *offersRepo) FindActive(ctx context.Context, tenantKey string, now time.Time) ([]domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var offers []domain.Offer
	for _, o := range r.s.offers {
		if o.TenantKey != tenantKey || !o.Active(now) {
			continue
		}
		// Same projection the sqlite driver produces: public fields only.
		offers = append(offers, domain.Offer{
			ID:        o.ID,
			Email:     o.Email,
			FormData:  o.FormData,
			CreatedAt: o.CreatedAt,
		})
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].CreatedAt.After(offers[j].CreatedAt) })
	return offers, nil
}

func (r *offersRepo) ListAll(ctx context.Context) ([]domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	offers := make([]domain.Offer, 0, len(r.s.offers))
	for _, o := range r.s.offers {
		offers = append(offers, o)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].CreatedAt.After(offers[j].CreatedAt) })
	return offers, nil
}

func (r *offersRepo) Update(ctx context.Context, id string, patch store.OfferPatch) (domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for hash, o := range r.s.offers {
		if o.ID != id {
			continue
		}

		prev := o
		if patch.Confirmed != nil {
			o.Confirmed = *patch.Confirmed
		}
		if patch.ExpiresAt != nil {
			o.ExpiresAt = *patch.ExpiresAt
		}

		r.s.offers[hash] = o
		if err := r.s.flush(); err != nil {
			r.s.offers[hash] = prev
			return domain.Offer{}, err
		}
		return o, nil
	}
	return domain.Offer{}, store.ErrNotFound
}

// Delete keeps a tombstone rather than dropping the record: the offer stays
// addressable by token so repeat deletions and late confirmations can be
// answered precisely, matching the behavior of the original snapshot format.
func (r *offersRepo) Delete(ctx context.Context, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.offers[hash]
	if !ok {
		return store.ErrNotFound
	}

	prev := o
	o.Deleted = true
	o.FormData = nil // owned form data goes with the offer
	r.s.offers[hash] = o
	if err := r.s.flush(); err != nil {
		r.s.offers[hash] = prev
		return err
	}
	return nil
}

func (r *offersRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var purged int64
	for hash, o := range r.s.offers {
		if o.ExpiresAt.Before(cutoff) {
			delete(r.s.offers, hash)
			purged++
		}
	}
	if purged == 0 {
		return 0, nil
	}
	if err := r.s.flush(); err != nil {
		return 0, err
	}
	return purged, nil
}

type usageRepo struct {
	s *Store
}

// Record appends the event to the JSONL sidecar. Best effort by contract;
// the caller swallows errors.
func (r *usageRepo) Record(ctx context.Context, ev domain.UsageEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, err := os.OpenFile(r.s.eventsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(usageRecord{
		ID:        ev.ID,
		TenantKey: ev.TenantKey,
		Action:    string(ev.Action),
		CreatedAt: ev.CreatedAt,
	})
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}

type usageRecord struct {
	ID        string    `json:"id"`
	TenantKey string    `json:"tenantKey"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}
