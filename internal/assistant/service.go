package assistant

import (
	"context"
	"strings"

	"pepuhub/internal/adapters/geckoterminal"
	"pepuhub/pkg/logger"
)

// Limits how many token mentions one chat request will resolve; each
// mention costs several upstream calls.
const maxTokensPerRequest = 5

// TokenRef is a client-supplied token hint (selected in the UI or held
// in the connected wallet).
type TokenRef struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Message        string     `json:"message"`
	SelectedTokens []TokenRef `json:"selectedTokens,omitempty"`
	WalletTokens   []TokenRef `json:"walletTokens,omitempty"`
}

// TokenSummary is the per-token digest returned alongside the prose.
type TokenSummary struct {
	Address    string     `json:"address"`
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	Price      float64    `json:"price"`
	Volume24h  float64    `json:"volume24h"`
	Source     SourceTag  `json:"source"`
	Confidence Confidence `json:"confidence"`
	RiskLevel  RiskLevel  `json:"riskLevel,omitempty"`
}

// ChatResult is the assistant's answer.
type ChatResult struct {
	Response    string         `json:"response"`
	TokensFound int            `json:"tokensFound"`
	Tokens      []TokenSummary `json:"tokens"`
}

// Service orchestrates the assistant pipeline: intent parsing, token
// resolution, data reconciliation, pattern analysis and composition.
// Each request is handled independently; the only process-wide state is
// the known-token cache.
type Service struct {
	api        geckoterminal.API
	resolver   *Resolver
	reconciler *Reconciler
	intents    *IntentParser
	composer   *Composer
	known      *KnownTokenCache
	log        *logger.Logger
}

// NewService wires the assistant pipeline.
func NewService(
	api geckoterminal.API,
	resolver *Resolver,
	reconciler *Reconciler,
	intents *IntentParser,
	composer *Composer,
	known *KnownTokenCache,
) *Service {
	return &Service{
		api:        api,
		resolver:   resolver,
		reconciler: reconciler,
		intents:    intents,
		composer:   composer,
		known:      known,
		log:        logger.Get().With("component", "assistant"),
	}
}

// Chat answers one user message. Upstream failures degrade the answer
// (fewer data sources, fallback prose); they never fail the request.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	intent := s.intents.Parse(ctx, req.Message)

	mentions := collectMentions(intent, req.SelectedTokens, req.WalletTokens)

	var (
		reconciled []ReconciledTokenData
		summaries  []TokenSummary
		analyses   = make(map[string]PatternAnalysis)
	)

	for _, mention := range mentions {
		token, err := s.resolver.Resolve(ctx, mention)
		if err != nil {
			s.log.Warnw("resolution error", "mention", mention, "error", err)
			continue
		}
		if token == nil {
			s.log.Debugw("token not found", "mention", mention)
			continue
		}

		data, err := s.reconciler.Reconcile(ctx, token.Address)
		if err != nil || data == nil {
			// Resolved identity without market data is still worth
			// reporting to the composer.
			summaries = append(summaries, TokenSummary{
				Address: token.Address,
				Symbol:  token.Symbol,
				Name:    token.Name,
			})
			continue
		}
		if data.Symbol == "" {
			data.Symbol = token.Symbol
			data.Name = token.Name
		}

		reconciled = append(reconciled, *data)

		summary := TokenSummary{
			Address:    data.Address,
			Symbol:     data.Symbol,
			Name:       data.Name,
			Price:      data.Price,
			Volume24h:  data.Volume24h,
			Source:     data.Source,
			Confidence: data.Confidence,
		}

		if data.PoolAddress != "" {
			if analysis := s.analyzePool(ctx, data.PoolAddress); analysis != nil {
				analyses[data.Address] = *analysis
				summary.RiskLevel = analysis.RiskLevel
			}
		}

		summaries = append(summaries, summary)
	}

	var marketCtx *MarketContext
	if intent.NeedsMarketContext {
		marketCtx = s.marketContext(ctx)
	}

	response := s.composer.Compose(ctx, req.Message, intent, reconciled, marketCtx, analyses)

	return &ChatResult{
		Response:    response,
		TokensFound: len(summaries),
		Tokens:      summaries,
	}, nil
}

// RefreshKnownTokens clears the known-token cache and reloads it.
func (s *Service) RefreshKnownTokens() int {
	count := s.known.Refresh()
	s.log.Infow("known token table refreshed", "count", count)
	return count
}

// analyzePool fetches minute candles for the token's primary pool and
// runs the pattern heuristic. Failure yields no analysis, not an error.
func (s *Service) analyzePool(ctx context.Context, poolAddress string) *PatternAnalysis {
	candles, err := s.api.OHLCV(ctx, poolAddress, "minute", 15, analysisWindow)
	if err != nil {
		s.log.Debugw("ohlcv fetch failed", "pool", poolAddress, "error", err)
		return nil
	}
	analysis := AnalyzeCandles(candles)
	return &analysis
}

// marketContext aggregates network-wide pool data. Every piece is
// optional: a failed fetch just leaves that part empty.
func (s *Service) marketContext(ctx context.Context) *MarketContext {
	mc := &MarketContext{}

	if top, err := s.api.TopPools(ctx, 1); err == nil {
		mc.TopPools = top
		mc.PoolCount = len(top)
		for _, p := range top {
			v, _ := p.Volume24hUSD.Float64()
			l, _ := p.ReserveUSD.Float64()
			mc.TotalVolume24h += v
			mc.TotalLiquidity += l
		}
	} else {
		s.log.Debugw("top pools unavailable for market context", "error", err)
	}

	if trending, err := s.api.TrendingPools(ctx); err == nil {
		mc.TrendingPools = trending
	}

	if addr, ok := s.known.Lookup("pepu"); ok {
		if pepu, err := s.reconciler.Reconcile(ctx, addr); err == nil && pepu != nil {
			mc.Pepu = pepu
		}
	}

	if mc.PoolCount == 0 && mc.Pepu == nil && len(mc.TrendingPools) == 0 {
		return nil
	}
	return mc
}

// collectMentions merges intent mentions with client-supplied token
// refs, preserving order and capping the total.
func collectMentions(intent UserIntent, selected, wallet []TokenRef) []string {
	seen := make(map[string]bool)
	var mentions []string

	add := func(m string) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] || len(mentions) >= maxTokensPerRequest {
			return
		}
		seen[m] = true
		mentions = append(mentions, m)
	}

	for _, t := range intent.Tokens {
		add(t)
	}
	for _, ref := range selected {
		add(ref.Address)
	}
	for _, ref := range wallet {
		add(ref.Address)
	}

	return mentions
}
