package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pepuhub/internal/domain/content"
)

// Compile-time check that we implement the interface
var _ content.VoteRepository = (*VoteRepository)(nil)

// VoteRepository implements content.VoteRepository using sqlx
type VoteRepository struct {
	db DBTX
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db DBTX) *VoteRepository {
	return &VoteRepository{db: db}
}

// Create inserts a vote. Wallet addresses are stored lowercase.
func (r *VoteRepository) Create(ctx context.Context, v *content.Vote) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.WalletAddress = strings.ToLower(v.WalletAddress)
	v.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO votes (id, token_id, wallet_address, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, v.ID, v.TokenID, v.WalletAddress, v.CreatedAt)
	return err
}

// HasVoted reports whether the wallet already voted for the token
func (r *VoteRepository) HasVoted(ctx context.Context, tokenID uuid.UUID, walletAddress string) (bool, error) {
	var count int

	query := `SELECT COUNT(1) FROM votes WHERE token_id = $1 AND wallet_address = $2`

	err := r.db.GetContext(ctx, &count, query, tokenID, strings.ToLower(walletAddress))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByToken returns the number of votes for a token
func (r *VoteRepository) CountByToken(ctx context.Context, tokenID uuid.UUID) (int, error) {
	var count int

	err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM votes WHERE token_id = $1`, tokenID)
	if err != nil {
		return 0, err
	}
	return count, nil
}
