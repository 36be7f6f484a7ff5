package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepuhub/internal/adapters/geckoterminal"
)

func newTestService(api geckoterminal.API) *Service {
	known := NewKnownTokenCache("testdata/does_not_exist.json", time.Minute)
	return NewService(
		api,
		NewResolver(api, known, 40),
		NewReconciler(api),
		NewIntentParser(nil, ""),
		NewComposer(nil, "", 0, 0),
		known,
	)
}

func TestChat_ResolvesAndAnalyzes(t *testing.T) {
	const addr = "0x93aa0ccd1e5628d3a841c4dbdf602d9eb04085d6"

	api := &apiStub{
		token: func(address string) (*geckoterminal.Token, error) {
			return &geckoterminal.Token{
				Address:      addr,
				Symbol:       "PEPU",
				Name:         "Pepe Unchained",
				PriceUSD:     decimal.NewFromFloat(0.002),
				FDVUSD:       decimal.NewFromInt(5_000_000),
				Volume24hUSD: decimal.NewFromInt(10_000),
			}, nil
		},
		tokenPools: func(address string) ([]geckoterminal.Pool, error) {
			return []geckoterminal.Pool{{
				Address:          "0xpool1",
				BaseTokenAddress: addr,
				BaseSymbol:       "PEPU",
				BasePriceUSD:     decimal.NewFromFloat(0.0021),
				Volume24hUSD:     decimal.NewFromInt(90_000),
				ReserveUSD:       decimal.NewFromInt(150_000),
			}}, nil
		},
		ohlcv: func(poolAddress, timeframe string, aggregate, limit int) ([]geckoterminal.Candle, error) {
			assert.Equal(t, "0xpool1", poolAddress)
			assert.Equal(t, "minute", timeframe)
			assert.Equal(t, 15, aggregate)
			return flatCandles(50, 0.002, 50_000), nil
		},
	}

	result, err := newTestService(api).Chat(context.Background(), ChatRequest{
		Message: "tell me about pepu",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.Tokens, 1)
	assert.Equal(t, "PEPU", result.Tokens[0].Symbol)
	assert.Equal(t, RiskLow, result.Tokens[0].RiskLevel, "pattern analysis ran on the winning pool")
	assert.NotEmpty(t, result.Response)
}

func TestChat_UnresolvedTokenStillAnswers(t *testing.T) {
	result, err := newTestService(&apiStub{}).Chat(context.Background(), ChatRequest{
		Message: "tell me about ghostcoin",
	})
	require.NoError(t, err)

	assert.Empty(t, result.Tokens)
	assert.NotEmpty(t, result.Response, "fallback prose even with nothing resolved")
}

func TestChat_MentionCapAndClientHints(t *testing.T) {
	var resolved []string
	api := &apiStub{
		token: func(address string) (*geckoterminal.Token, error) {
			resolved = append(resolved, address)
			return &geckoterminal.Token{Address: address, Symbol: "X"}, nil
		},
	}

	selected := []TokenRef{
		{Address: "0x1111111111111111111111111111111111111111"},
		{Address: "0x2222222222222222222222222222222222222222"},
	}
	wallet := []TokenRef{
		{Address: "0x3333333333333333333333333333333333333333"},
		{Address: "0x4444444444444444444444444444444444444444"},
		{Address: "0x5555555555555555555555555555555555555555"},
		{Address: "0x6666666666666666666666666666666666666666"},
	}

	result, err := newTestService(api).Chat(context.Background(), ChatRequest{
		Message:        "what do I hold",
		SelectedTokens: selected,
		WalletTokens:   wallet,
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Tokens), maxTokensPerRequest)
}

func TestCollectMentions_OrderAndDedup(t *testing.T) {
	intent := UserIntent{Tokens: []string{"penk", "spring"}}
	selected := []TokenRef{{Address: "0xaaa"}, {Address: "0xaaa"}}
	wallet := []TokenRef{{Address: "0xbbb"}, {Address: "penk"}}

	mentions := collectMentions(intent, selected, wallet)

	assert.Equal(t, []string{"penk", "spring", "0xaaa", "0xbbb"}, mentions)
}

func TestCollectMentions_Cap(t *testing.T) {
	intent := UserIntent{Tokens: []string{"a", "b", "c", "d", "e", "f", "g"}}
	mentions := collectMentions(intent, nil, nil)
	assert.Len(t, mentions, maxTokensPerRequest)
}

func TestRefreshKnownTokens(t *testing.T) {
	svc := newTestService(&apiStub{})
	count := svc.RefreshKnownTokens()
	assert.Greater(t, count, 0, "fallback table is never empty")
}
