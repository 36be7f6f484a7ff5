package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"pepuhub/internal/adapters/ai"
	"pepuhub/internal/adapters/geckoterminal"
	"pepuhub/internal/metrics"
	"pepuhub/pkg/logger"
)

const composerSystemPrompt = `You are the analytics assistant for a token treasury dashboard on the Pepe Unchained network. Be decisive and opinionated: give a clear read on every token you are shown, call out risk signals plainly, and never hedge with "do your own research" boilerplate. Ground every claim in the structured data provided. If a figure is missing, say so instead of inventing one. Keep answers tight and conversational.`

// MarketContext is the network-wide data attached to a prompt when the
// intent asks for broader context.
type MarketContext struct {
	Pepu           *ReconciledTokenData `json:"pepu,omitempty"`
	TopPools       []geckoterminal.Pool `json:"-"`
	TrendingPools  []geckoterminal.Pool `json:"-"`
	TotalVolume24h float64              `json:"totalVolume24h"`
	TotalLiquidity float64              `json:"totalLiquidity"`
	PoolCount      int                  `json:"poolCount"`
}

// Composer turns reconciled data into prose via a completion call, with
// a deterministic fallback when the model is unreachable. It always
// returns non-empty text.
type Composer struct {
	chat        ai.ChatProvider
	model       string
	temperature float64
	maxTokens   int
	log         *logger.Logger
}

// NewComposer creates a response composer.
func NewComposer(chat ai.ChatProvider, model string, temperature float64, maxTokens int) *Composer {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Composer{
		chat:        chat,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		log:         logger.Get().With("component", "response_composer"),
	}
}

// Compose builds the analyst prompt and requests a completion. Any
// provider failure falls back to deterministic text assembled from the
// locally available structured data; the error never propagates.
func (c *Composer) Compose(
	ctx context.Context,
	message string,
	intent UserIntent,
	tokens []ReconciledTokenData,
	marketCtx *MarketContext,
	analyses map[string]PatternAnalysis,
) string {
	if c.chat != nil {
		prompt := c.buildContext(intent, tokens, marketCtx, analyses)

		resp, err := c.chat.Chat(ctx, ai.ChatRequest{
			Model: c.model,
			Messages: []ai.Message{
				{Role: ai.RoleSystem, Content: composerSystemPrompt},
				{Role: ai.RoleSystem, Content: prompt},
				{Role: ai.RoleUser, Content: message},
			},
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
		})
		if err == nil && strings.TrimSpace(resp.Content) != "" {
			return resp.Content
		}
		if err != nil {
			c.log.Warnw("completion failed, serving fallback response", "error", err)
		}
	}

	metrics.CompletionFallbacks.Inc()
	return c.fallback(tokens, marketCtx, analyses)
}

// buildContext serializes everything the model should ground on.
func (c *Composer) buildContext(
	intent UserIntent,
	tokens []ReconciledTokenData,
	marketCtx *MarketContext,
	analyses map[string]PatternAnalysis,
) string {
	var b strings.Builder

	b.WriteString("Structured data for this question. Use it as the single source of truth.\n")

	if data, err := json.Marshal(intent); err == nil {
		b.WriteString("\nParsed intent:\n")
		b.Write(data)
		b.WriteString("\n")
	}

	if len(tokens) > 0 {
		if data, err := json.MarshalIndent(tokens, "", "  "); err == nil {
			b.WriteString("\nResolved tokens with reconciled market data:\n")
			b.Write(data)
			b.WriteString("\n")
		}
	}

	if len(analyses) > 0 {
		if data, err := json.MarshalIndent(analyses, "", "  "); err == nil {
			b.WriteString("\nCandle pattern analysis per token address:\n")
			b.Write(data)
			b.WriteString("\n")
		}
	}

	if marketCtx != nil {
		b.WriteString("\nNetwork market context:\n")
		if marketCtx.Pepu != nil {
			if data, err := json.Marshal(marketCtx.Pepu); err == nil {
				b.WriteString("PEPU: ")
				b.Write(data)
				b.WriteString("\n")
			}
		}
		fmt.Fprintf(&b, "Top pools tracked: %d, combined 24h volume $%s, combined liquidity $%s\n",
			marketCtx.PoolCount,
			humanize.CommafWithDigits(marketCtx.TotalVolume24h, 0),
			humanize.CommafWithDigits(marketCtx.TotalLiquidity, 0),
		)
		for i, pool := range marketCtx.TrendingPools {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "Trending: %s 24h volume $%s\n", pool.Name, pool.Volume24hUSD.StringFixed(0))
		}
	}

	return b.String()
}

// fallback renders the structured data as plain indented text so the
// endpoint still answers when the completion API is down.
func (c *Composer) fallback(
	tokens []ReconciledTokenData,
	marketCtx *MarketContext,
	analyses map[string]PatternAnalysis,
) string {
	var b strings.Builder

	b.WriteString("Here's what I can tell you from live market data:\n")

	for _, t := range tokens {
		fmt.Fprintf(&b, "\n%s (%s)\n", t.Symbol, shortAddress(t.Address))
		fmt.Fprintf(&b, "  Price: $%s\n", formatPrice(t.Price))
		fmt.Fprintf(&b, "  24h volume: $%s\n", humanize.CommafWithDigits(t.Volume24h, 0))
		fmt.Fprintf(&b, "  Liquidity: $%s\n", humanize.CommafWithDigits(t.Liquidity, 0))
		if t.MarketCap > 0 {
			fmt.Fprintf(&b, "  Market cap (FDV): $%s\n", humanize.CommafWithDigits(t.MarketCap, 0))
		}
		fmt.Fprintf(&b, "  24h change: %.2f%%\n", t.PriceChange24h)
		fmt.Fprintf(&b, "  Data source: %s, confidence %s\n", t.Source, t.Confidence)
		for _, w := range t.ValidationWarnings {
			fmt.Fprintf(&b, "  Warning: %s\n", w)
		}
		if a, ok := analyses[t.Address]; ok && a.Trend != TrendInsufficientData {
			fmt.Fprintf(&b, "  Pattern: %s, risk %s (%s)\n", a.Trend, a.RiskLevel, a.Narrative)
		}
	}

	if len(tokens) == 0 {
		b.WriteString("\nI couldn't resolve any of the tokens you mentioned to live market data.\n")
	}

	if marketCtx != nil {
		b.WriteString("\nNetwork summary:\n")
		if marketCtx.Pepu != nil {
			fmt.Fprintf(&b, "  PEPU: $%s, 24h volume $%s\n",
				formatPrice(marketCtx.Pepu.Price),
				humanize.CommafWithDigits(marketCtx.Pepu.Volume24h, 0))
		}
		fmt.Fprintf(&b, "  Pools tracked: %d\n", marketCtx.PoolCount)
		fmt.Fprintf(&b, "  Combined 24h volume: $%s\n", humanize.CommafWithDigits(marketCtx.TotalVolume24h, 0))
		fmt.Fprintf(&b, "  Combined liquidity: $%s\n", humanize.CommafWithDigits(marketCtx.TotalLiquidity, 0))
	}

	return b.String()
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-4:]
}

// formatPrice keeps meaningful digits for sub-cent meme-token prices.
func formatPrice(p float64) string {
	switch {
	case p >= 1:
		// CommafWithDigits truncates, so round to cents first.
		return humanize.CommafWithDigits(math.Round(p*100)/100, 2)
	case p >= 0.0001:
		return fmt.Sprintf("%.6f", p)
	case p > 0:
		return fmt.Sprintf("%.10f", p)
	default:
		return "0"
	}
}
