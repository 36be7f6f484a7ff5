package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepuhub/internal/adapters/geckoterminal"
	"pepuhub/pkg/errors"
)

func testKnownCache(t *testing.T) *KnownTokenCache {
	t.Helper()
	// Nonexistent path forces the hardcoded fallback table.
	return NewKnownTokenCache("testdata/does_not_exist.json", time.Minute)
}

func TestResolve_AddressTier(t *testing.T) {
	const addr = "0xAbCd000000000000000000000000000000001234"

	var requested string
	api := &apiStub{
		token: func(address string) (*geckoterminal.Token, error) {
			requested = address
			return &geckoterminal.Token{
				Address:  address,
				Symbol:   "TEST",
				Name:     "Test Token",
				Decimals: 18,
			}, nil
		},
	}

	token, err := NewResolver(api, testKnownCache(t), 200).Resolve(context.Background(), addr)
	require.NoError(t, err)
	require.NotNil(t, token)

	assert.Equal(t, ResolvedByAddress, token.Source)
	assert.Equal(t, strings.ToLower(addr), requested, "address must be lowercased before lookup")
	assert.Equal(t, "TEST", token.Symbol)
}

func TestResolve_KnownTableTier(t *testing.T) {
	api := &apiStub{
		token: func(address string) (*geckoterminal.Token, error) {
			return &geckoterminal.Token{
				Address:  address,
				Symbol:   "PEPU",
				Name:     "Pepe Unchained",
				Decimals: 18,
			}, nil
		},
	}

	for _, query := range []string{"pepu", "PEPU", "$pepu", "Pepe Unchained"} {
		token, err := NewResolver(api, testKnownCache(t), 200).Resolve(context.Background(), query)
		require.NoError(t, err, "query=%q", query)
		require.NotNil(t, token, "query=%q", query)
		assert.Equal(t, ResolvedByKnownTable, token.Source, "query=%q", query)
		assert.Equal(t, "0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6", token.Address, "query=%q", query)
	}
}

func TestResolve_KnownTableSurvivesAPIOutage(t *testing.T) {
	// The table knows the address even when the token endpoint is down.
	token, err := NewResolver(&apiStub{}, testKnownCache(t), 200).Resolve(context.Background(), "penk")
	require.NoError(t, err)
	require.NotNil(t, token)

	assert.Equal(t, ResolvedByKnownTable, token.Source)
	assert.Equal(t, "PENK", token.Symbol)
	assert.NotEmpty(t, token.Address)
}

func TestResolve_PoolScanTier(t *testing.T) {
	// Two pools contain a matching token; the one in the higher-volume
	// pool must win even though it appears later in the scan.
	api := &apiStub{
		topPools: func(page int) ([]geckoterminal.Pool, error) {
			if page > 1 {
				return nil, nil
			}
			return []geckoterminal.Pool{
				{
					BaseTokenAddress:  "0xlowvolume",
					BaseSymbol:        "WIDGET",
					QuoteTokenAddress: "0xquote1",
					QuoteSymbol:       "WETH",
					Volume24hUSD:      decimal.NewFromInt(1000),
				},
				{
					BaseTokenAddress:  "0xhighvolume",
					BaseSymbol:        "WIDGET",
					QuoteTokenAddress: "0xquote2",
					QuoteSymbol:       "USDC",
					Volume24hUSD:      decimal.NewFromInt(80_000),
				},
			}, nil
		},
	}

	token, err := NewResolver(api, testKnownCache(t), 200).Resolve(context.Background(), "widget")
	require.NoError(t, err)
	require.NotNil(t, token)

	assert.Equal(t, ResolvedByPoolScan, token.Source)
	assert.Equal(t, "0xhighvolume", token.Address)
}

func TestResolve_PoolScanZeroVolumePool(t *testing.T) {
	// A match in a pool with no reported 24h volume is still a match.
	api := &apiStub{
		topPools: func(page int) ([]geckoterminal.Pool, error) {
			if page > 1 {
				return nil, nil
			}
			return []geckoterminal.Pool{{
				BaseTokenAddress:  "0xdormant",
				BaseSymbol:        "WIDGET",
				QuoteTokenAddress: "0xquote1",
				QuoteSymbol:       "WETH",
				Volume24hUSD:      decimal.Zero,
			}}, nil
		},
	}

	token, err := NewResolver(api, testKnownCache(t), 200).Resolve(context.Background(), "widget")
	require.NoError(t, err)
	require.NotNil(t, token)

	assert.Equal(t, ResolvedByPoolScan, token.Source)
	assert.Equal(t, "0xdormant", token.Address)
}

func TestResolve_PoolScanPagination(t *testing.T) {
	var pages []int
	api := &apiStub{
		topPools: func(page int) ([]geckoterminal.Pool, error) {
			pages = append(pages, page)
			if page > 2 {
				return nil, nil
			}
			return []geckoterminal.Pool{{
				BaseTokenAddress: "0xfiller",
				BaseSymbol:       "FILLER",
				Volume24hUSD:     decimal.NewFromInt(1),
			}}, nil
		},
	}

	// 50-pool limit at 20 per page is 3 pages.
	_, err := NewResolver(api, testKnownCache(t), 50).Resolve(context.Background(), "nomatch")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, pages)
}

func TestResolve_NotFound(t *testing.T) {
	api := &apiStub{
		topPools: func(page int) ([]geckoterminal.Pool, error) {
			return nil, errors.ErrUnavailable
		},
	}

	token, err := NewResolver(api, testKnownCache(t), 200).Resolve(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, token, "unknown token resolves to nil without error")
}

func TestResolve_EmptyQuery(t *testing.T) {
	token, err := NewResolver(&apiStub{}, testKnownCache(t), 200).Resolve(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenMatches(t *testing.T) {
	tests := []struct {
		query  string
		symbol string
		name   string
		want   bool
	}{
		{"pepu", "PEPU", "Pepe Unchained", true},
		{"PEPU", "pepu", "Pepe Unchained", true},
		{"pep", "PEPU", "Pepe Unchained", true}, // substring, len > 2
		{"pe", "PEPU", "Pepe Unchained", false}, // too short for substring
		{"we", "WETH", "Wrapped Ether", false},
		{"weth", "WETH", "Wrapped Ether", true},
		{"ether", "WETH", "Wrapped Ether", true}, // substring of name
		{"doge", "PEPU", "Pepe Unchained", false},
		{"weth", "WETH", "", true}, // pool scan passes no name
		{"ether", "WETH", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenMatches(tt.query, tt.symbol, tt.name),
			"query=%q symbol=%q name=%q", tt.query, tt.symbol, tt.name)
	}
}
