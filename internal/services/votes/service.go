// Package votes implements wallet voting on listed tokens.
package votes

import (
	"context"
	"regexp"

	"github.com/google/uuid"

	"pepuhub/internal/domain/content"
	"pepuhub/internal/metrics"
	"pepuhub/pkg/errors"
	"pepuhub/pkg/logger"
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Service handles token voting. Duplicate protection is a single
// existence check per request; no cross-request atomicity is promised.
type Service struct {
	votes  content.VoteRepository
	tokens content.TokenRepository
	log    *logger.Logger
}

// NewService creates a vote service
func NewService(votes content.VoteRepository, tokens content.TokenRepository) *Service {
	return &Service{
		votes:  votes,
		tokens: tokens,
		log:    logger.Get().With("component", "vote_service"),
	}
}

// Cast records one wallet's vote for a token and bumps the token's
// denormalized counter.
func (s *Service) Cast(ctx context.Context, tokenID uuid.UUID, walletAddress string) error {
	if !walletPattern.MatchString(walletAddress) {
		return errors.NewValidationError("walletAddress", "not a valid wallet address", walletAddress)
	}

	token, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return err
	}
	if !token.Active {
		return errors.Wrap(errors.ErrForbidden, "token is not open for voting")
	}

	voted, err := s.votes.HasVoted(ctx, tokenID, walletAddress)
	if err != nil {
		return errors.Wrap(err, "check existing vote")
	}
	if voted {
		return errors.ErrAlreadyVoted
	}

	vote := &content.Vote{TokenID: tokenID, WalletAddress: walletAddress}
	if err := s.votes.Create(ctx, vote); err != nil {
		return errors.Wrap(err, "record vote")
	}

	if err := s.tokens.IncrementVotes(ctx, tokenID); err != nil {
		// Counter drift is tolerable; CountByToken remains the truth.
		s.log.Warnw("vote counter increment failed", "token_id", tokenID, "error", err)
	}

	metrics.VotesCast.Inc()
	s.log.Infow("vote cast", "token_id", tokenID, "wallet", walletAddress)
	return nil
}

// Count returns the exact vote count for a token
func (s *Service) Count(ctx context.Context, tokenID uuid.UUID) (int, error) {
	return s.votes.CountByToken(ctx, tokenID)
}
