// Package content implements the dashboard content management logic.
package content

import (
	"context"

	"github.com/google/uuid"

	"pepuhub/internal/domain/content"
	"pepuhub/pkg/errors"
	"pepuhub/pkg/logger"
)

// Service handles partner, token and snapshot management
type Service struct {
	partners  content.PartnerRepository
	tokens    content.TokenRepository
	snapshots content.SnapshotRepository
	log       *logger.Logger
}

// NewService creates a content service
func NewService(
	partners content.PartnerRepository,
	tokens content.TokenRepository,
	snapshots content.SnapshotRepository,
) *Service {
	return &Service{
		partners:  partners,
		tokens:    tokens,
		snapshots: snapshots,
		log:       logger.Get().With("component", "content_service"),
	}
}

// ListPartners returns all partners, featured first
func (s *Service) ListPartners(ctx context.Context) ([]content.Partner, error) {
	return s.partners.List(ctx)
}

// CreatePartner validates and stores a new partner
func (s *Service) CreatePartner(ctx context.Context, p *content.Partner) error {
	if p.Name == "" {
		return errors.NewValidationError("name", "partner name is required", p.Name)
	}
	if err := s.partners.Create(ctx, p); err != nil {
		return errors.Wrap(err, "create partner")
	}
	s.log.Infow("partner created", "id", p.ID, "name", p.Name)
	return nil
}

// UpdatePartner modifies an existing partner
func (s *Service) UpdatePartner(ctx context.Context, p *content.Partner) error {
	if p.ID == uuid.Nil {
		return errors.NewValidationError("id", "partner id is required", p.ID)
	}
	return s.partners.Update(ctx, p)
}

// DeletePartner removes a partner
func (s *Service) DeletePartner(ctx context.Context, id uuid.UUID) error {
	return s.partners.Delete(ctx, id)
}

// ListTokens returns listed tokens ordered by votes
func (s *Service) ListTokens(ctx context.Context, activeOnly bool) ([]content.ListedToken, error) {
	return s.tokens.List(ctx, activeOnly)
}

// GetToken returns a single listed token by id
func (s *Service) GetToken(ctx context.Context, id uuid.UUID) (*content.ListedToken, error) {
	return s.tokens.GetByID(ctx, id)
}

// CreateToken validates and stores a new listed token
func (s *Service) CreateToken(ctx context.Context, t *content.ListedToken) error {
	if t.Symbol == "" {
		return errors.NewValidationError("symbol", "token symbol is required", t.Symbol)
	}
	if t.Address == "" {
		return errors.NewValidationError("address", "token address is required", t.Address)
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return errors.Wrap(err, "create token")
	}
	s.log.Infow("token listed", "id", t.ID, "symbol", t.Symbol)
	return nil
}

// UpdateToken modifies an existing listed token
func (s *Service) UpdateToken(ctx context.Context, t *content.ListedToken) error {
	if t.ID == uuid.Nil {
		return errors.NewValidationError("id", "token id is required", t.ID)
	}
	return s.tokens.Update(ctx, t)
}

// DeleteToken removes a listed token
func (s *Service) DeleteToken(ctx context.Context, id uuid.UUID) error {
	return s.tokens.Delete(ctx, id)
}

// CreateSnapshot stores a treasury snapshot with its entries
func (s *Service) CreateSnapshot(ctx context.Context, snap *content.TreasurySnapshot) error {
	if len(snap.Entries) == 0 {
		return errors.NewValidationError("entries", "snapshot needs at least one entry", len(snap.Entries))
	}
	if err := s.snapshots.Create(ctx, snap); err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	s.log.Infow("treasury snapshot stored", "id", snap.ID, "entries", len(snap.Entries))
	return nil
}

// LatestSnapshot returns the most recent treasury snapshot
func (s *Service) LatestSnapshot(ctx context.Context) (*content.TreasurySnapshot, error) {
	return s.snapshots.Latest(ctx)
}

// ListSnapshots returns recent snapshots without entries
func (s *Service) ListSnapshots(ctx context.Context, limit int) ([]content.TreasurySnapshot, error) {
	return s.snapshots.List(ctx, limit)
}

// DeleteSnapshot removes a snapshot
func (s *Service) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	return s.snapshots.Delete(ctx, id)
}
