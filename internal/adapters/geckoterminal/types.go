package geckoterminal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Token is a parsed token record from the market-data API.
type Token struct {
	Address         string
	Symbol          string
	Name            string
	Decimals        int
	PriceUSD        decimal.Decimal
	FDVUSD          decimal.Decimal
	MarketCapUSD    decimal.Decimal
	Volume24hUSD    decimal.Decimal
	TotalReserveUSD decimal.Decimal
}

// Pool is a parsed liquidity pool snapshot. The pool is the provenance
// unit for price and volume data.
type Pool struct {
	ID                string
	Address           string
	Name              string
	BaseTokenAddress  string
	QuoteTokenAddress string
	BaseSymbol        string
	QuoteSymbol       string
	BasePriceUSD      decimal.Decimal
	QuotePriceUSD     decimal.Decimal
	FDVUSD            decimal.Decimal
	ReserveUSD        decimal.Decimal
	Volume24hUSD      decimal.Decimal
	PriceChange24hPct decimal.Decimal
	TxCount24h        int
}

// Candle is one OHLCV bucket.
type Candle struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Wire-level types. The API is JSON:API shaped: every payload is a
// { "data": ... } envelope of resources with string-encoded numerics.

type resource struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Attributes    poolAttributes `json:"attributes"`
	Relationships *relationships `json:"relationships,omitempty"`
}

type poolAttributes struct {
	Name                  string            `json:"name"`
	Address               string            `json:"address"`
	BaseTokenPriceUSD     string            `json:"base_token_price_usd"`
	QuoteTokenPriceUSD    string            `json:"quote_token_price_usd"`
	FDVUSD                string            `json:"fdv_usd"`
	MarketCapUSD          string            `json:"market_cap_usd"`
	ReserveInUSD          string            `json:"reserve_in_usd"`
	VolumeUSD             volumeWindow      `json:"volume_usd"`
	PriceChangePercentage map[string]string `json:"price_change_percentage"`
	Transactions          map[string]txHist `json:"transactions"`

	// Token-resource fields (same attribute bag, different resource type)
	Symbol          string `json:"symbol"`
	Decimals        int    `json:"decimals"`
	PriceUSD        string `json:"price_usd"`
	TotalReserveUSD string `json:"total_reserve_in_usd"`
}

type volumeWindow struct {
	H24 string `json:"h24"`
}

type txHist struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type relationships struct {
	BaseToken  relationshipData `json:"base_token"`
	QuoteToken relationshipData `json:"quote_token"`
}

type relationshipData struct {
	Data struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"data"`
}

type ohlcvAttributes struct {
	OHLCVList [][]float64 `json:"ohlcv_list"`
}

// parseDecimal tolerates empty, null-ish and malformed numeric strings:
// a source with a missing figure simply contributes zero.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// tokenAddressFromID strips the network prefix from a relationship id
// like "pepe-unchained_0xabc..." and lowercases the address.
func tokenAddressFromID(id, network string) string {
	addr := strings.TrimPrefix(id, network+"_")
	return strings.ToLower(addr)
}

// splitPairName splits a pool name like "PENK / WPEPU" into base and
// quote symbols. Unparseable names leave both sides empty.
func splitPairName(name string) (base, quote string) {
	parts := strings.Split(name, " / ")
	if len(parts) != 2 {
		return "", ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

func (r resource) toPool(network string) Pool {
	base, quote := splitPairName(r.Attributes.Name)
	p := Pool{
		ID:            r.ID,
		Address:       strings.ToLower(r.Attributes.Address),
		Name:          r.Attributes.Name,
		BaseSymbol:    base,
		QuoteSymbol:   quote,
		BasePriceUSD:  parseDecimal(r.Attributes.BaseTokenPriceUSD),
		QuotePriceUSD: parseDecimal(r.Attributes.QuoteTokenPriceUSD),
		FDVUSD:        parseDecimal(r.Attributes.FDVUSD),
		ReserveUSD:    parseDecimal(r.Attributes.ReserveInUSD),
		Volume24hUSD:  parseDecimal(r.Attributes.VolumeUSD.H24),
	}
	if v, ok := r.Attributes.PriceChangePercentage["h24"]; ok {
		p.PriceChange24hPct = parseDecimal(v)
	}
	if tx, ok := r.Attributes.Transactions["h24"]; ok {
		p.TxCount24h = tx.Buys + tx.Sells
	}
	if r.Relationships != nil {
		p.BaseTokenAddress = tokenAddressFromID(r.Relationships.BaseToken.Data.ID, network)
		p.QuoteTokenAddress = tokenAddressFromID(r.Relationships.QuoteToken.Data.ID, network)
	}
	return p
}

func (r resource) toToken() Token {
	return Token{
		Address:         strings.ToLower(r.Attributes.Address),
		Symbol:          r.Attributes.Symbol,
		Name:            r.Attributes.Name,
		Decimals:        r.Attributes.Decimals,
		PriceUSD:        parseDecimal(r.Attributes.PriceUSD),
		FDVUSD:          parseDecimal(r.Attributes.FDVUSD),
		MarketCapUSD:    parseDecimal(r.Attributes.MarketCapUSD),
		Volume24hUSD:    parseDecimal(r.Attributes.VolumeUSD.H24),
		TotalReserveUSD: parseDecimal(r.Attributes.TotalReserveUSD),
	}
}
