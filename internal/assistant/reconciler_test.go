package assistant

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepuhub/internal/adapters/geckoterminal"
)

func TestSelectCandidate_HighestVolumeWins(t *testing.T) {
	candidates := []candidate{
		{Source: SourceDirect, Volume: 1000, Price: 1.0},
		{Source: SourcePoolLookup, Volume: 5000, Price: 1.1},
		{Source: SourceCrossReferenced, Volume: 3000, Price: 1.2},
	}

	winner := selectCandidate(candidates)
	require.NotNil(t, winner)
	assert.Equal(t, SourcePoolLookup, winner.Source)
	assert.Equal(t, 1.1, winner.Price)
}

func TestSelectCandidate_TieBreaksBySourcePriority(t *testing.T) {
	tests := []struct {
		name    string
		sources []SourceTag
		want    SourceTag
	}{
		{
			name:    "cross referenced beats pool lookup",
			sources: []SourceTag{SourcePoolLookup, SourceCrossReferenced},
			want:    SourceCrossReferenced,
		},
		{
			name:    "pool lookup beats direct",
			sources: []SourceTag{SourceDirect, SourcePoolLookup},
			want:    SourcePoolLookup,
		},
		{
			name:    "order of arrival does not matter",
			sources: []SourceTag{SourceCrossReferenced, SourceDirect, SourcePoolLookup},
			want:    SourceCrossReferenced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var candidates []candidate
			for _, s := range tt.sources {
				candidates = append(candidates, candidate{Source: s, Volume: 1000})
			}
			winner := selectCandidate(candidates)
			require.NotNil(t, winner)
			assert.Equal(t, tt.want, winner.Source)
		})
	}
}

func TestSelectCandidate_Empty(t *testing.T) {
	assert.Nil(t, selectCandidate(nil))
}

func TestValidateTokenData_CleanData(t *testing.T) {
	d := &ReconciledTokenData{
		MarketCap:      1_000_000,
		Volume24h:      50_000,
		Liquidity:      100_000,
		PriceChange24h: 5,
	}
	ValidateTokenData(d)

	assert.True(t, d.IsValid)
	assert.Empty(t, d.ValidationWarnings)
	assert.Equal(t, ConfidenceHigh, d.Confidence)
}

func TestValidateTokenData_VolumeExceedsMarketCap(t *testing.T) {
	d := &ReconciledTokenData{
		MarketCap: 1000,
		Volume24h: 20_000, // > 10x market cap
		Liquidity: 500,
	}
	ValidateTokenData(d)

	assert.False(t, d.IsValid)
	require.Len(t, d.ValidationWarnings, 1)
	assert.Equal(t, ConfidenceMedium, d.Confidence)
}

func TestValidateTokenData_StaleData(t *testing.T) {
	d := &ReconciledTokenData{
		MarketCap: 100_000,
		Volume24h: 0,
		Liquidity: 5000, // nonzero liquidity with zero volume
	}
	ValidateTokenData(d)

	assert.False(t, d.IsValid)
	assert.Contains(t, d.ValidationWarnings[0], "stale data")
	assert.Equal(t, ConfidenceLow, d.Confidence)
}

func TestValidateTokenData_LowNeverUpgrades(t *testing.T) {
	// Trips a low check first, then a medium check; low must stick.
	d := &ReconciledTokenData{
		MarketCap:      1000,
		Volume24h:      0,
		Liquidity:      10_000, // stale (low) and liquidity > 5x mcap (medium)
		PriceChange24h: 0,
	}
	ValidateTokenData(d)

	assert.Equal(t, ConfidenceLow, d.Confidence)
	assert.Len(t, d.ValidationWarnings, 2)
}

func TestValidateTokenData_ThinVolumeBigMove(t *testing.T) {
	d := &ReconciledTokenData{
		MarketCap:      1_000_000,
		Volume24h:      500,
		Liquidity:      50_000,
		PriceChange24h: -80,
	}
	ValidateTokenData(d)

	assert.False(t, d.IsValid)
	assert.Equal(t, ConfidenceLow, d.Confidence)
}

func TestReconcile_PicksBusiestSourceAndKeepsDirectIdentity(t *testing.T) {
	const addr = "0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6"

	api := &apiStub{
		token: func(address string) (*geckoterminal.Token, error) {
			return &geckoterminal.Token{
				Address:         addr,
				Symbol:          "PEPU",
				Name:            "Pepe Unchained",
				Decimals:        18,
				PriceUSD:        decimal.NewFromFloat(0.002),
				FDVUSD:          decimal.NewFromInt(5_000_000),
				Volume24hUSD:    decimal.NewFromInt(10_000),
				TotalReserveUSD: decimal.NewFromInt(200_000),
			}, nil
		},
		tokenPools: func(address string) ([]geckoterminal.Pool, error) {
			return []geckoterminal.Pool{
				{
					Address:          "0xpool1",
					BaseTokenAddress: addr,
					BaseSymbol:       "PEPU",
					BasePriceUSD:     decimal.NewFromFloat(0.0021),
					Volume24hUSD:     decimal.NewFromInt(90_000),
					ReserveUSD:       decimal.NewFromInt(150_000),
				},
			}, nil
		},
		topPools: func(page int) ([]geckoterminal.Pool, error) {
			return []geckoterminal.Pool{
				{
					Address:          "0xother",
					BaseTokenAddress: "0xsomeoneelse",
					Volume24hUSD:     decimal.NewFromInt(999_999),
				},
			}, nil
		},
	}

	data, err := NewReconciler(api).Reconcile(context.Background(), addr)
	require.NoError(t, err)
	require.NotNil(t, data)

	// The pool lookup reported the highest volume for this token.
	assert.Equal(t, SourcePoolLookup, data.Source)
	assert.Equal(t, float64(90_000), data.Volume24h)
	assert.Equal(t, "0xpool1", data.PoolAddress)

	// Identity fields still come from the direct endpoint.
	assert.Equal(t, "PEPU", data.Symbol)
	assert.Equal(t, "Pepe Unchained", data.Name)
	assert.Equal(t, 18, data.Decimals)
}

func TestReconcile_AllSourcesDown(t *testing.T) {
	data, err := NewReconciler(&apiStub{}).Reconcile(context.Background(), "0xdead")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestReconcile_DirectOnly(t *testing.T) {
	api := &apiStub{
		token: func(address string) (*geckoterminal.Token, error) {
			return &geckoterminal.Token{
				Address:      address,
				Symbol:       "PENK",
				Volume24hUSD: decimal.NewFromInt(4000),
				FDVUSD:       decimal.NewFromInt(1_000_000),
			}, nil
		},
	}

	data, err := NewReconciler(api).Reconcile(context.Background(), "0xpenk")
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, SourceDirect, data.Source)
	assert.Equal(t, float64(4000), data.Volume24h)
}
