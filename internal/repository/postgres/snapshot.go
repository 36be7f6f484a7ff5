package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"pepuhub/internal/domain/content"
	"pepuhub/pkg/errors"
)

// Compile-time check that we implement the interface
var _ content.SnapshotRepository = (*SnapshotRepository)(nil)

// SnapshotRepository implements content.SnapshotRepository using sqlx
type SnapshotRepository struct {
	db DBTX
}

// NewSnapshotRepository creates a new treasury snapshot repository
func NewSnapshotRepository(db DBTX) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a snapshot and its entries. No transaction is used:
// a snapshot missing some entries is acceptable for display purposes
// and the admin can re-submit.
func (r *SnapshotRepository) Create(ctx context.Context, s *content.TreasurySnapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now().UTC()
	}

	query := `
		INSERT INTO treasury_snapshots (id, taken_at, total_value_usd, notes)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, s.ID, s.TakenAt, s.TotalValueUSD, s.Notes); err != nil {
		return err
	}

	entryQuery := `
		INSERT INTO snapshot_entries (id, snapshot_id, token_address, token_symbol, amount, value_usd)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range s.Entries {
		e := &s.Entries[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.SnapshotID = s.ID
		if _, err := r.db.ExecContext(ctx, entryQuery,
			e.ID, e.SnapshotID, e.TokenAddress, e.TokenSymbol, e.Amount, e.ValueUSD,
		); err != nil {
			return errors.Wrapf(err, "insert snapshot entry %s", e.TokenSymbol)
		}
	}

	return nil
}

// Latest returns the most recent snapshot with its entries
func (r *SnapshotRepository) Latest(ctx context.Context) (*content.TreasurySnapshot, error) {
	var s content.TreasurySnapshot

	query := `
		SELECT id, taken_at, total_value_usd, notes
		FROM treasury_snapshots
		ORDER BY taken_at DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &s, query)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(errors.ErrNotFound, "no snapshots")
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadEntries(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns recent snapshots without entries
func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]content.TreasurySnapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	var snapshots []content.TreasurySnapshot
	query := `
		SELECT id, taken_at, total_value_usd, notes
		FROM treasury_snapshots
		ORDER BY taken_at DESC
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &snapshots, query, limit); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Delete removes a snapshot and its entries
func (r *SnapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshot_entries WHERE snapshot_id = $1`, id); err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM treasury_snapshots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.Wrap(errors.ErrNotFound, "snapshot not found")
	}
	return nil
}

func (r *SnapshotRepository) loadEntries(ctx context.Context, s *content.TreasurySnapshot) error {
	query := `
		SELECT id, snapshot_id, token_address, token_symbol, amount, value_usd
		FROM snapshot_entries
		WHERE snapshot_id = $1
		ORDER BY value_usd DESC`

	return r.db.SelectContext(ctx, &s.Entries, query, s.ID)
}
