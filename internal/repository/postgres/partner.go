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
var _ content.PartnerRepository = (*PartnerRepository)(nil)

// PartnerRepository implements content.PartnerRepository using sqlx
type PartnerRepository struct {
	db DBTX
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db DBTX) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// Create inserts a new partner
func (r *PartnerRepository) Create(ctx context.Context, p *content.Partner) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO partners (id, name, description, logo_url, site_url, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.LogoURL, p.SiteURL, p.Featured, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a partner by ID
func (r *PartnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*content.Partner, error) {
	var p content.Partner

	query := `
		SELECT id, name, description, logo_url, site_url, featured, created_at, updated_at
		FROM partners
		WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(errors.ErrNotFound, "partner not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all partners, featured first
func (r *PartnerRepository) List(ctx context.Context) ([]content.Partner, error) {
	var partners []content.Partner

	query := `
		SELECT id, name, description, logo_url, site_url, featured, created_at, updated_at
		FROM partners
		ORDER BY featured DESC, name ASC`

	if err := r.db.SelectContext(ctx, &partners, query); err != nil {
		return nil, err
	}
	return partners, nil
}

// Update modifies an existing partner
func (r *PartnerRepository) Update(ctx context.Context, p *content.Partner) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE partners
		SET name = $2, description = $3, logo_url = $4, site_url = $5, featured = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.LogoURL, p.SiteURL, p.Featured, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.Wrap(errors.ErrNotFound, "partner not found")
	}
	return nil
}

// Delete removes a partner
func (r *PartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.Wrap(errors.ErrNotFound, "partner not found")
	}
	return nil
}
