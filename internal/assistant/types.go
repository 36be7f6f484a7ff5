// Package assistant implements the analytics assistant: token
// resolution, market-data reconciliation, heuristic pattern analysis
// and response composition.
package assistant

// ResolutionSource identifies which resolver tier produced a token.
type ResolutionSource string

const (
	ResolvedByAddress    ResolutionSource = "address"
	ResolvedByKnownTable ResolutionSource = "known_table"
	ResolvedByPoolScan   ResolutionSource = "dynamic_pool_scan"
)

// ResolvedToken is a canonical token record. Identity is the lowercase
// contract address. Never persisted; recomputed per request.
type ResolvedToken struct {
	Address  string           `json:"address"`
	Symbol   string           `json:"symbol"`
	Name     string           `json:"name"`
	Decimals int              `json:"decimals"`
	Source   ResolutionSource `json:"source"`
}

// SourceTag names the data origin a reconciled value came from.
type SourceTag string

const (
	SourceDirect             SourceTag = "direct"
	SourcePoolLookup         SourceTag = "pool_lookup"
	SourceCrossReferenced    SourceTag = "cross_referenced_pool"
	SourceRealTimeValidation SourceTag = "real_time_validation"
)

// Confidence is the advisory data-quality label attached by validation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ReconciledTokenData is market data for one token with provenance.
// Source always names the origin actually used for volume/liquidity;
// ValidationWarnings is non-empty only when a plausibility check failed.
type ReconciledTokenData struct {
	Address            string     `json:"address"`
	Symbol             string     `json:"symbol"`
	Name               string     `json:"name"`
	Decimals           int        `json:"decimals"`
	Price              float64    `json:"price"`
	MarketCap          float64    `json:"marketCap"` // FDV
	Volume24h          float64    `json:"volume24h"`
	PriceChange24h     float64    `json:"priceChange24h"`
	Liquidity          float64    `json:"liquidity"`
	PoolAddress        string     `json:"poolAddress,omitempty"`
	Source             SourceTag  `json:"source"`
	Confidence         Confidence `json:"confidence"`
	IsValid            bool       `json:"isValid"`
	ValidationWarnings []string   `json:"validationWarnings,omitempty"`
}

// TrendLabel is the coarse trend classification over a candle window.
type TrendLabel string

const (
	TrendInsufficientData TrendLabel = "insufficient_data"
	TrendPumpAndDump      TrendLabel = "pump_and_dump"
	TrendDeclining        TrendLabel = "declining"
	TrendGrowing          TrendLabel = "growing"
	TrendStable           TrendLabel = "stable"
)

// RiskLevel is the discrete risk label mapped from pattern signals.
type RiskLevel string

const (
	RiskUnknown RiskLevel = "unknown"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

// VolumeSpike records one candle whose volume exceeded 3x the window
// average.
type VolumeSpike struct {
	Timestamp int64   `json:"timestamp"`
	Volume    float64 `json:"volume"`
	Ratio     float64 `json:"ratio"`
}

// PatternAnalysis holds heuristic signals derived from an OHLCV
// sequence. This is a heuristic classifier, not a statistically
// validated model; false positives and negatives are expected.
type PatternAnalysis struct {
	VolatilityPct    float64       `json:"volatilityPct"`
	VolumeSpikeCount int           `json:"volumeSpikeCount"`
	TopSpikes        []VolumeSpike `json:"topSpikes,omitempty"`
	Trend            TrendLabel    `json:"trend"`
	LiquidityScore   int           `json:"liquidityScore"`
	Suspicious       bool          `json:"suspicious"`
	RiskLevel        RiskLevel     `json:"riskLevel"`
	Narrative        string        `json:"narrative"`
}

// Intent classification enums. The model's structured answer maps onto
// these; regex heuristics may force some of them.
const (
	AnalysisGeneral    = "general"
	AnalysisComparison = "comparison"
	AnalysisTechnical  = "technical"

	QueryGeneral       = "general"
	QueryAddressLookup = "address_lookup"
	QueryComparison    = "comparison"
	QueryPriceCheck    = "price_check"
)

// UserIntent is the parsed shape of one chat message. Produced once per
// request and consumed immediately by resolution and reconciliation.
type UserIntent struct {
	Tokens             []string `json:"tokens"`
	AnalysisType       string   `json:"analysisType"`
	QueryType          string   `json:"queryType"`
	NeedsMarketContext bool     `json:"needsMarketContext"`
	Timeframe          string   `json:"timeframe"`
	SpecificRequest    string   `json:"specificRequest"`
}
