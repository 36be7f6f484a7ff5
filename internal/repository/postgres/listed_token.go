package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"pepuhub/internal/domain/content"
	"pepuhub/pkg/errors"
)

// Compile-time check that we implement the interface
var _ content.TokenRepository = (*ListedTokenRepository)(nil)

// ListedTokenRepository implements content.TokenRepository using sqlx
type ListedTokenRepository struct {
	db DBTX
}

// NewListedTokenRepository creates a new listed token repository
func NewListedTokenRepository(db DBTX) *ListedTokenRepository {
	return &ListedTokenRepository{db: db}
}

// Create inserts a new listed token. Addresses are stored lowercase.
func (r *ListedTokenRepository) Create(ctx context.Context, t *content.ListedToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.Address = strings.ToLower(t.Address)
	t.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO listed_tokens (id, address, symbol, name, decimals, logo_url, votes, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Address, t.Symbol, t.Name, t.Decimals, t.LogoURL, t.Votes, t.Active, t.CreatedAt,
	)
	return err
}

// GetByID retrieves a listed token by ID
func (r *ListedTokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*content.ListedToken, error) {
	var t content.ListedToken

	query := `
		SELECT id, address, symbol, name, decimals, logo_url, votes, active, created_at
		FROM listed_tokens
		WHERE id = $1`

	err := r.db.GetContext(ctx, &t, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(errors.ErrNotFound, "token not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns listed tokens ordered by votes descending
func (r *ListedTokenRepository) List(ctx context.Context, activeOnly bool) ([]content.ListedToken, error) {
	var tokens []content.ListedToken

	query := `
		SELECT id, address, symbol, name, decimals, logo_url, votes, active, created_at
		FROM listed_tokens`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY votes DESC, symbol ASC`

	if err := r.db.SelectContext(ctx, &tokens, query); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Update modifies an existing listed token
func (r *ListedTokenRepository) Update(ctx context.Context, t *content.ListedToken) error {
	query := `
		UPDATE listed_tokens
		SET address = $2, symbol = $3, name = $4, decimals = $5, logo_url = $6, active = $7
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		t.ID, strings.ToLower(t.Address), t.Symbol, t.Name, t.Decimals, t.LogoURL, t.Active,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.Wrap(errors.ErrNotFound, "token not found")
	}
	return nil
}

// Delete removes a listed token
func (r *ListedTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listed_tokens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.Wrap(errors.ErrNotFound, "token not found")
	}
	return nil
}

// IncrementVotes bumps the denormalized vote counter
func (r *ListedTokenRepository) IncrementVotes(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE listed_tokens SET votes = votes + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.Wrap(errors.ErrNotFound, "token not found")
	}
	return nil
}
