package assistant

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"pepuhub/internal/adapters/geckoterminal"
	"pepuhub/internal/metrics"
	"pepuhub/pkg/logger"
)

// candidate is one source's view of a token's market state. Candidates
// are tagged variants so the selection rule stays a pure reducer.
type candidate struct {
	Source      SourceTag
	Price       float64
	MarketCap   float64
	Volume      float64
	PriceChange float64
	Liquidity   float64
	PoolAddress string
	Symbol      string
	Name        string
	Decimals    int
}

// Reconciler queries multiple market-data paths for one token and picks
// the source reporting the highest trading volume as authoritative.
// Averaging is deliberately rejected: blending a stale cache with a
// live pool produces misleading numbers, while the most actively
// reporting source is the best proxy for current state.
type Reconciler struct {
	api geckoterminal.API
	log *logger.Logger
}

// NewReconciler creates a data reconciler.
func NewReconciler(api geckoterminal.API) *Reconciler {
	return &Reconciler{
		api: api,
		log: logger.Get().With("component", "data_reconciler"),
	}
}

// Reconcile fetches the token through three independent paths and
// returns the reconciled view, or nil when no source responded. Call
// order does not affect the result; selection is by value.
func (r *Reconciler) Reconcile(ctx context.Context, address string) (*ReconciledTokenData, error) {
	address = strings.ToLower(address)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		candidates []candidate
		direct     *geckoterminal.Token
	)

	add := func(c candidate) {
		mu.Lock()
		candidates = append(candidates, c)
		mu.Unlock()
	}

	wg.Add(3)

	// (a) direct token-info endpoint
	go func() {
		defer wg.Done()
		token, err := r.api.Token(ctx, address)
		if err != nil {
			r.log.Debugw("direct token lookup failed", "address", address, "error", err)
			return
		}
		mu.Lock()
		direct = token
		mu.Unlock()
		add(candidateFromToken(token))
	}()

	// (b) the token's own pool list
	go func() {
		defer wg.Done()
		pools, err := r.api.TokenPools(ctx, address)
		if err != nil {
			r.log.Debugw("token pools lookup failed", "address", address, "error", err)
			return
		}
		if pool := busiestPool(pools); pool != nil {
			add(candidateFromPool(pool, address, SourcePoolLookup))
		}
	}()

	// (c) the network's top pools, filtered to this token
	go func() {
		defer wg.Done()
		pools, err := r.api.TopPools(ctx, 1)
		if err != nil {
			r.log.Debugw("top pools lookup failed", "address", address, "error", err)
			return
		}
		var containing []geckoterminal.Pool
		for _, p := range pools {
			if p.BaseTokenAddress == address || p.QuoteTokenAddress == address {
				containing = append(containing, p)
			}
		}
		if pool := busiestPool(containing); pool != nil {
			add(candidateFromPool(pool, address, SourceCrossReferenced))
		}
	}()

	wg.Wait()

	winner := selectCandidate(candidates)
	if winner == nil {
		return nil, nil
	}

	metrics.ReconcilerSource.WithLabelValues(string(winner.Source)).Inc()

	data := &ReconciledTokenData{
		Address:        address,
		Symbol:         winner.Symbol,
		Name:           winner.Name,
		Decimals:       winner.Decimals,
		Price:          winner.Price,
		MarketCap:      winner.MarketCap,
		Volume24h:      winner.Volume,
		PriceChange24h: winner.PriceChange,
		Liquidity:      winner.Liquidity,
		PoolAddress:    winner.PoolAddress,
		Source:         winner.Source,
	}

	// The direct endpoint carries the authoritative identity fields
	// even when a pool won the value selection.
	if direct != nil {
		data.Symbol = direct.Symbol
		data.Name = direct.Name
		data.Decimals = direct.Decimals
		if data.MarketCap == 0 {
			data.MarketCap, _ = direct.FDVUSD.Float64()
		}
	}

	ValidateTokenData(data)
	return data, nil
}

// selectCandidate picks the candidate with the strictly highest volume;
// ties break by source priority cross_referenced_pool > pool_lookup >
// direct (pool data is judged fresher than the token aggregate).
func selectCandidate(candidates []candidate) *candidate {
	var best *candidate
	for i := range candidates {
		c := &candidates[i]
		switch {
		case best == nil:
			best = c
		case c.Volume > best.Volume:
			best = c
		case c.Volume == best.Volume && sourcePriority(c.Source) > sourcePriority(best.Source):
			best = c
		}
	}
	return best
}

func sourcePriority(s SourceTag) int {
	switch s {
	case SourceCrossReferenced:
		return 3
	case SourcePoolLookup:
		return 2
	case SourceDirect:
		return 1
	default:
		return 0
	}
}

// busiestPool returns the pool with the highest 24h volume.
func busiestPool(pools []geckoterminal.Pool) *geckoterminal.Pool {
	var best *geckoterminal.Pool
	var bestVolume float64
	for i := range pools {
		v, _ := pools[i].Volume24hUSD.Float64()
		if best == nil || v > bestVolume {
			best = &pools[i]
			bestVolume = v
		}
	}
	return best
}

// The token endpoint reports no 24h price change, so the direct
// candidate leaves PriceChange24h at zero and the change-on-thin-volume
// plausibility check only ever fires for pool-derived sources.
func candidateFromToken(t *geckoterminal.Token) candidate {
	price, _ := t.PriceUSD.Float64()
	fdv, _ := t.FDVUSD.Float64()
	volume, _ := t.Volume24hUSD.Float64()
	liquidity, _ := t.TotalReserveUSD.Float64()
	return candidate{
		Source:    SourceDirect,
		Price:     price,
		MarketCap: fdv,
		Volume:    volume,
		Liquidity: liquidity,
		Symbol:    t.Symbol,
		Name:      t.Name,
		Decimals:  t.Decimals,
	}
}

func candidateFromPool(p *geckoterminal.Pool, address string, source SourceTag) candidate {
	price, _ := p.BasePriceUSD.Float64()
	symbol := p.BaseSymbol
	if p.QuoteTokenAddress == address {
		price, _ = p.QuotePriceUSD.Float64()
		symbol = p.QuoteSymbol
	}
	fdv, _ := p.FDVUSD.Float64()
	volume, _ := p.Volume24hUSD.Float64()
	liquidity, _ := p.ReserveUSD.Float64()
	change, _ := p.PriceChange24hPct.Float64()
	return candidate{
		Source:      source,
		Price:       price,
		MarketCap:   fdv,
		Volume:      volume,
		PriceChange: change,
		Liquidity:   liquidity,
		PoolAddress: p.Address,
		Symbol:      symbol,
		Name:        symbol,
	}
}

// ValidateTokenData runs post-hoc plausibility checks, appending
// warnings and downgrading the confidence label. Warnings are advisory
// signals for the response composer, never hard failures.
func ValidateTokenData(d *ReconciledTokenData) {
	d.Confidence = ConfidenceHigh
	d.ValidationWarnings = nil

	downgrade := func(to Confidence) {
		if to == ConfidenceLow || d.Confidence == ConfidenceHigh {
			d.Confidence = to
		}
	}

	if d.MarketCap > 0 && d.Volume24h > 10*d.MarketCap {
		d.ValidationWarnings = append(d.ValidationWarnings,
			fmt.Sprintf("24h volume (%.0f) exceeds 10x market cap (%.0f)", d.Volume24h, d.MarketCap))
		downgrade(ConfidenceMedium)
	}

	if d.Volume24h == 0 && d.Liquidity > 1000 {
		d.ValidationWarnings = append(d.ValidationWarnings,
			"stale data: zero volume reported with nonzero liquidity")
		downgrade(ConfidenceLow)
	}

	if d.MarketCap > 0 && d.Liquidity > 5*d.MarketCap {
		d.ValidationWarnings = append(d.ValidationWarnings,
			fmt.Sprintf("liquidity (%.0f) exceeds 5x market cap (%.0f)", d.Liquidity, d.MarketCap))
		downgrade(ConfidenceMedium)
	}

	if math.Abs(d.PriceChange24h) > 50 && d.Volume24h < 1000 {
		d.ValidationWarnings = append(d.ValidationWarnings,
			fmt.Sprintf("large price move (%.1f%%) on thin volume (%.0f)", d.PriceChange24h, d.Volume24h))
		downgrade(ConfidenceLow)
	}

	d.IsValid = len(d.ValidationWarnings) == 0
}
