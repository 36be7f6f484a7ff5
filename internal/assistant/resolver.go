package assistant

import (
	"context"
	"regexp"
	"strings"

	"pepuhub/internal/adapters/geckoterminal"
	"pepuhub/internal/metrics"
	"pepuhub/pkg/logger"
)

// addressPattern matches an EVM contract address.
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

const poolPageSize = 20

// Resolver maps free-text token references (name, symbol or contract
// address) to canonical token records using a tiered strategy.
type Resolver struct {
	api           geckoterminal.API
	known         *KnownTokenCache
	poolScanLimit int
	log           *logger.Logger
}

// NewResolver creates a token resolver.
func NewResolver(api geckoterminal.API, known *KnownTokenCache, poolScanLimit int) *Resolver {
	if poolScanLimit <= 0 {
		poolScanLimit = 200
	}
	return &Resolver{
		api:           api,
		known:         known,
		poolScanLimit: poolScanLimit,
		log:           logger.Get().With("component", "token_resolver"),
	}
}

// Resolve returns the canonical record for a token reference, or nil
// when nothing matched. A nil result is an expected outcome for
// unlisted tokens, not an error.
func (r *Resolver) Resolve(ctx context.Context, query string) (*ResolvedToken, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	// Tier 1: explicit contract address
	if addressPattern.MatchString(query) {
		if token, err := r.api.Token(ctx, strings.ToLower(query)); err == nil {
			metrics.ResolverOutcomes.WithLabelValues(string(ResolvedByAddress)).Inc()
			return recordFromToken(token, ResolvedByAddress), nil
		}
		// Unlisted address: the table or scan will not find it either,
		// but keep the address identity so callers can still report it.
		r.log.Debugw("address lookup failed, token likely unlisted", "address", query)
	}

	// Tier 2: known-token table
	normalized := strings.ToLower(query)
	if addr, ok := r.known.Lookup(normalized); ok {
		metrics.ResolverOutcomes.WithLabelValues(string(ResolvedByKnownTable)).Inc()
		if token, err := r.api.Token(ctx, addr); err == nil {
			return recordFromToken(token, ResolvedByKnownTable), nil
		}
		// Table knows the address even when the API is down.
		return &ResolvedToken{
			Address: addr,
			Symbol:  strings.ToUpper(normalized),
			Name:    query,
			Source:  ResolvedByKnownTable,
		}, nil
	}

	// Tier 3: scan the top pools network-wide for a fuzzy match
	if token := r.scanPools(ctx, normalized); token != nil {
		metrics.ResolverOutcomes.WithLabelValues(string(ResolvedByPoolScan)).Inc()
		return token, nil
	}

	metrics.ResolverOutcomes.WithLabelValues("not_found").Inc()
	return nil, nil
}

// scanPools fetches the top pools by 24h volume and tests every base and
// quote token against the query. Among all matches it selects the one
// whose containing pool reports the highest 24h volume: the pool, not
// the token aggregate, is the provenance unit.
func (r *Resolver) scanPools(ctx context.Context, query string) *ResolvedToken {
	pages := (r.poolScanLimit + poolPageSize - 1) / poolPageSize

	var (
		best       *ResolvedToken
		bestVolume float64
	)

	for page := 1; page <= pages; page++ {
		pools, err := r.api.TopPools(ctx, page)
		if err != nil {
			r.log.Debugw("pool scan page failed", "page", page, "error", err)
			break
		}
		if len(pools) == 0 {
			break
		}

		for _, pool := range pools {
			volume, _ := pool.Volume24hUSD.Float64()

			// Pool listings expose pair symbols only, so the name leg
			// of the match has nothing to test against. Matching the
			// full pair name would cross-match the other side.
			if tokenMatches(query, pool.BaseSymbol, "") && (best == nil || volume > bestVolume) {
				best = &ResolvedToken{
					Address: pool.BaseTokenAddress,
					Symbol:  pool.BaseSymbol,
					Name:    pool.BaseSymbol,
					Source:  ResolvedByPoolScan,
				}
				bestVolume = volume
			}
			if tokenMatches(query, pool.QuoteSymbol, "") && (best == nil || volume > bestVolume) {
				best = &ResolvedToken{
					Address: pool.QuoteTokenAddress,
					Symbol:  pool.QuoteSymbol,
					Name:    pool.QuoteSymbol,
					Source:  ResolvedByPoolScan,
				}
				bestVolume = volume
			}
		}
	}

	return best
}

// tokenMatches tests a query against a token's symbol and name: exact
// case-insensitive match, or substring match once the query is longer
// than 2 characters. The substring rule trades precision for recall on
// short symbols; kept as-is deliberately.
func tokenMatches(query, symbol, name string) bool {
	q := strings.ToLower(query)
	s := strings.ToLower(symbol)
	n := strings.ToLower(name)

	if q == s || q == n {
		return true
	}
	if len(q) > 2 {
		return strings.Contains(s, q) || strings.Contains(n, q)
	}
	return false
}

func recordFromToken(t *geckoterminal.Token, source ResolutionSource) *ResolvedToken {
	return &ResolvedToken{
		Address:  strings.ToLower(t.Address),
		Symbol:   t.Symbol,
		Name:     t.Name,
		Decimals: t.Decimals,
		Source:   source,
	}
}
