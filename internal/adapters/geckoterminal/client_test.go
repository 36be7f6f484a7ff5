package geckoterminal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepuhub/internal/adapters/config"
	"pepuhub/pkg/errors"
)

func testClient(baseURL string) *Client {
	return NewClient(config.MarketDataConfig{
		BaseURL:      baseURL,
		Network:      "pepe-unchained",
		Timeout:      2 * time.Second,
		ReqPerMinute: 60000, // no throttling in tests
	})
}

func TestToken_ParsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/networks/pepe-unchained/tokens/0xabc", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"id": "pepe-unchained_0xabc",
				"type": "token",
				"attributes": {
					"address": "0xABC",
					"name": "Pepe Unchained",
					"symbol": "PEPU",
					"decimals": 18,
					"price_usd": "0.00213",
					"fdv_usd": "5000000",
					"volume_usd": {"h24": "123456.78"},
					"total_reserve_in_usd": "400000"
				}
			}
		}`))
	}))
	defer srv.Close()

	token, err := testClient(srv.URL).Token(context.Background(), "0xabc")
	require.NoError(t, err)

	assert.Equal(t, "0xabc", token.Address, "address is lowercased")
	assert.Equal(t, "PEPU", token.Symbol)
	assert.Equal(t, 18, token.Decimals)
	assert.Equal(t, "0.00213", token.PriceUSD.String())
	assert.Equal(t, "123456.78", token.Volume24hUSD.String())
}

func TestTopPools_ParsesPoolList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/networks/pepe-unchained/pools", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "h24_volume_usd_desc", r.URL.Query().Get("sort"))

		_, _ = w.Write([]byte(`{
			"data": [{
				"id": "pepe-unchained_0xpool",
				"type": "pool",
				"attributes": {
					"name": "PENK / WPEPU",
					"address": "0xPOOL",
					"base_token_price_usd": "0.5",
					"quote_token_price_usd": "0.002",
					"fdv_usd": "1000000",
					"reserve_in_usd": "250000",
					"volume_usd": {"h24": "75000"},
					"price_change_percentage": {"h24": "-12.5"},
					"transactions": {"h24": {"buys": 40, "sells": 25}}
				},
				"relationships": {
					"base_token": {"data": {"id": "pepe-unchained_0xBASE", "type": "token"}},
					"quote_token": {"data": {"id": "pepe-unchained_0xQUOTE", "type": "token"}}
				}
			}]
		}`))
	}))
	defer srv.Close()

	pools, err := testClient(srv.URL).TopPools(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pools, 1)

	p := pools[0]
	assert.Equal(t, "0xpool", p.Address)
	assert.Equal(t, "PENK", p.BaseSymbol)
	assert.Equal(t, "WPEPU", p.QuoteSymbol)
	assert.Equal(t, "0xbase", p.BaseTokenAddress, "network prefix stripped, lowercased")
	assert.Equal(t, "0xquote", p.QuoteTokenAddress)
	assert.Equal(t, "75000", p.Volume24hUSD.String())
	assert.Equal(t, "-12.5", p.PriceChange24hPct.String())
	assert.Equal(t, 65, p.TxCount24h)
}

func TestOHLCV_ParsesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/networks/pepe-unchained/pools/0xpool/ohlcv/minute", r.URL.Path)
		assert.Equal(t, "15", r.URL.Query().Get("aggregate"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		_, _ = w.Write([]byte(`{
			"data": {
				"attributes": {
					"ohlcv_list": [
						[1700000900, 1.0, 1.2, 0.9, 1.1, 5000],
						[1700000000, 0.9, 1.05, 0.85, 1.0, 4000],
						[1699999100, 0.8]
					]
				}
			}
		}`))
	}))
	defer srv.Close()

	candles, err := testClient(srv.URL).OHLCV(context.Background(), "0xpool", "minute", 15, 100)
	require.NoError(t, err)

	// The short row is dropped, not an error.
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000900), candles[0].Timestamp)
	assert.Equal(t, 1.1, candles[0].Close)
	assert.Equal(t, 5000.0, candles[0].Volume)
}

func TestClient_Non2xxIsUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusNotFound, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := testClient(srv.URL).Token(context.Background(), "0xabc")
		assert.ErrorIs(t, err, errors.ErrUnavailable, "status=%d", status)
		srv.Close()
	}
}

func TestClient_MissingDataIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Token(context.Background(), "0xabc")
	assert.ErrorIs(t, err, errors.ErrUnavailable)

	_, err = testClient(srv.URL).TopPools(context.Background(), 1)
	assert.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestClient_MalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).TrendingPools(context.Background())
	assert.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestClient_ServerDownIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := testClient(srv.URL).Token(context.Background(), "0xabc")
	assert.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestParseDecimal_Tolerant(t *testing.T) {
	assert.True(t, parseDecimal("").IsZero())
	assert.True(t, parseDecimal("n/a").IsZero())
	assert.Equal(t, "1.5", parseDecimal("1.5").String())
}

func TestSplitPairName(t *testing.T) {
	base, quote := splitPairName("PENK / WPEPU")
	assert.Equal(t, "PENK", base)
	assert.Equal(t, "WPEPU", quote)

	base, quote = splitPairName("weird-name")
	assert.Empty(t, base)
	assert.Empty(t, quote)
}
