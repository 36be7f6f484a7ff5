// Package content holds the dashboard's managed entities: partners,
// listed tokens, treasury snapshots and token votes.
package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Partner is an ecosystem partner shown on the dashboard.
type Partner struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	LogoURL     string    `db:"logo_url" json:"logoUrl"`
	SiteURL     string    `db:"site_url" json:"siteUrl"`
	Featured    bool      `db:"featured" json:"featured"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ListedToken is a token listed for community voting.
type ListedToken struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Address   string    `db:"address" json:"address"`
	Symbol    string    `db:"symbol" json:"symbol"`
	Name      string    `db:"name" json:"name"`
	Decimals  int       `db:"decimals" json:"decimals"`
	LogoURL   string    `db:"logo_url" json:"logoUrl"`
	Votes     int       `db:"votes" json:"votes"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SnapshotEntry is one holding inside a treasury snapshot.
type SnapshotEntry struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	SnapshotID   uuid.UUID       `db:"snapshot_id" json:"-"`
	TokenAddress string          `db:"token_address" json:"tokenAddress"`
	TokenSymbol  string          `db:"token_symbol" json:"tokenSymbol"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	ValueUSD     decimal.Decimal `db:"value_usd" json:"valueUsd"`
}

// TreasurySnapshot captures the treasury's holdings at a point in time.
type TreasurySnapshot struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	TakenAt       time.Time       `db:"taken_at" json:"takenAt"`
	TotalValueUSD decimal.Decimal `db:"total_value_usd" json:"totalValueUsd"`
	Notes         string          `db:"notes" json:"notes"`
	Entries       []SnapshotEntry `json:"entries"`
}

// Vote is one wallet's vote for a listed token.
type Vote struct {
	ID            uuid.UUID `db:"id" json:"id"`
	TokenID       uuid.UUID `db:"token_id" json:"tokenId"`
	WalletAddress string    `db:"wallet_address" json:"walletAddress"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// PartnerRepository persists partners.
type PartnerRepository interface {
	Create(ctx context.Context, p *Partner) error
	GetByID(ctx context.Context, id uuid.UUID) (*Partner, error)
	List(ctx context.Context) ([]Partner, error)
	Update(ctx context.Context, p *Partner) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenRepository persists listed tokens.
type TokenRepository interface {
	Create(ctx context.Context, t *ListedToken) error
	GetByID(ctx context.Context, id uuid.UUID) (*ListedToken, error)
	List(ctx context.Context, activeOnly bool) ([]ListedToken, error)
	Update(ctx context.Context, t *ListedToken) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementVotes(ctx context.Context, id uuid.UUID) error
}

// SnapshotRepository persists treasury snapshots and their entries.
type SnapshotRepository interface {
	Create(ctx context.Context, s *TreasurySnapshot) error
	Latest(ctx context.Context) (*TreasurySnapshot, error)
	List(ctx context.Context, limit int) ([]TreasurySnapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VoteRepository persists token votes.
type VoteRepository interface {
	Create(ctx context.Context, v *Vote) error
	HasVoted(ctx context.Context, tokenID uuid.UUID, walletAddress string) (bool, error)
	CountByToken(ctx context.Context, tokenID uuid.UUID) (int, error)
}
