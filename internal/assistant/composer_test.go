package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pepuhub/pkg/errors"
)

func TestCompose_ProviderFailureFallsBack(t *testing.T) {
	composer := NewComposer(&chatStub{err: errors.ErrUnavailable}, "test-model", 0.7, 512)

	tokens := []ReconciledTokenData{{
		Address:    "0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6",
		Symbol:     "PEPU",
		Price:      0.0021,
		Volume24h:  120_000,
		Liquidity:  400_000,
		Source:     SourcePoolLookup,
		Confidence: ConfidenceHigh,
	}}

	response := composer.Compose(context.Background(), "how is pepu doing", UserIntent{}, tokens, nil, nil)

	assert.NotEmpty(t, strings.TrimSpace(response), "fallback must never be empty")
	assert.Contains(t, response, "PEPU")
	assert.Contains(t, response, "120,000")
	assert.Contains(t, response, string(SourcePoolLookup))
}

func TestCompose_NilProviderFallsBack(t *testing.T) {
	composer := NewComposer(nil, "", 0, 0)

	response := composer.Compose(context.Background(), "gm", UserIntent{}, nil, nil, nil)

	assert.NotEmpty(t, strings.TrimSpace(response))
	assert.Contains(t, response, "couldn't resolve")
}

func TestCompose_EmptyCompletionFallsBack(t *testing.T) {
	// A blank completion is as useless as an error.
	composer := NewComposer(&chatStub{content: "   "}, "test-model", 0.7, 512)

	response := composer.Compose(context.Background(), "gm", UserIntent{}, nil, nil, nil)
	assert.NotEmpty(t, strings.TrimSpace(response))
}

func TestCompose_SuccessfulCompletionReturned(t *testing.T) {
	stub := &chatStub{content: "PEPU is holding steady around $0.002 with healthy volume."}
	composer := NewComposer(stub, "test-model", 0.7, 512)

	response := composer.Compose(context.Background(), "how is pepu", UserIntent{}, nil, nil, nil)

	assert.Equal(t, stub.content, response)
	assert.Equal(t, 1, stub.calls)
}

func TestFallback_IncludesWarningsAndAnalysis(t *testing.T) {
	composer := NewComposer(nil, "", 0, 0)

	tokens := []ReconciledTokenData{{
		Address:            "0xabc0000000000000000000000000000000000abc",
		Symbol:             "SUS",
		Price:              0.5,
		Volume24h:          0,
		Liquidity:          5000,
		Source:             SourceDirect,
		Confidence:         ConfidenceLow,
		ValidationWarnings: []string{"stale data: zero volume reported with nonzero liquidity"},
	}}
	analyses := map[string]PatternAnalysis{
		"0xabc0000000000000000000000000000000000abc": {
			Trend:     TrendPumpAndDump,
			RiskLevel: RiskHigh,
			Narrative: "sharp rise then steep fall",
		},
	}

	response := composer.Compose(context.Background(), "check this", UserIntent{}, tokens, nil, analyses)

	assert.Contains(t, response, "stale data")
	assert.Contains(t, response, string(TrendPumpAndDump))
	assert.Contains(t, response, "risk high")
}

func TestFallback_MarketContext(t *testing.T) {
	composer := NewComposer(nil, "", 0, 0)

	marketCtx := &MarketContext{
		Pepu: &ReconciledTokenData{
			Symbol:    "PEPU",
			Price:     0.002,
			Volume24h: 500_000,
		},
		TotalVolume24h: 2_000_000,
		TotalLiquidity: 9_000_000,
		PoolCount:      20,
	}

	response := composer.Compose(context.Background(), "market overview", UserIntent{}, nil, marketCtx, nil)

	assert.Contains(t, response, "Network summary")
	assert.Contains(t, response, "2,000,000")
	assert.Contains(t, response, "Pools tracked: 20")
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{12345.678, "12,345.68"},
		{1, "1"},
		{0.002, "0.002000"},
		{0.0000000314, "0.0000000314"},
		{0, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPrice(tt.price), "price=%v", tt.price)
	}
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0x93aa0c...85d6", shortAddress("0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6"))
	assert.Equal(t, "0xshort", shortAddress("0xshort"))
}
