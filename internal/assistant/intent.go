package assistant

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"pepuhub/internal/adapters/ai"
	"pepuhub/pkg/logger"
)

var (
	// Anywhere in the message, not just standalone
	inlineAddressRe = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)

	aboutRe   = regexp.MustCompile(`(?i)(?:tell me about|about|analyze|info on|check|lookup)\s+(\w+)`)
	statRe    = regexp.MustCompile(`(?i)(\w+)\s+(?:price|performance|chart|stats)`)
	versusRe  = regexp.MustCompile(`(?i)(\w+)\s+(?:vs|versus|compared to)\s+(\w+)`)
	compareRe = regexp.MustCompile(`(?i)compare\s+(\w+)\s+(?:and|with)\s+(\w+)`)
)

const intentSystemPrompt = `You classify crypto analytics questions. Answer with strict JSON only, no prose, matching:
{"tokens":["mentioned token names, symbols or 0x addresses"],"analysisType":"general|comparison|technical","queryType":"general|address_lookup|comparison|price_check","needsMarketContext":true,"timeframe":"short free-text timeframe or empty","specificRequest":"one-line restatement of what the user wants"}`

// IntentParser extracts token mentions and a coarse query
// classification from free text. A model classification call is
// augmented, never overwritten, by deterministic regex heuristics.
type IntentParser struct {
	chat  ai.ChatProvider
	model string
	log   *logger.Logger
}

// NewIntentParser creates an intent parser.
func NewIntentParser(chat ai.ChatProvider, model string) *IntentParser {
	return &IntentParser{
		chat:  chat,
		model: model,
		log:   logger.Get().With("component", "intent_parser"),
	}
}

// Parse classifies one chat message. Classifier failure degrades to a
// regex-only intent; it never fails the request.
func (p *IntentParser) Parse(ctx context.Context, message string) UserIntent {
	intent := p.classify(ctx, message)
	return AugmentIntent(message, intent)
}

func (p *IntentParser) classify(ctx context.Context, message string) UserIntent {
	fallback := UserIntent{
		AnalysisType:       AnalysisGeneral,
		QueryType:          QueryGeneral,
		NeedsMarketContext: true,
	}

	if p.chat == nil {
		return fallback
	}

	resp, err := p.chat.Chat(ctx, ai.ChatRequest{
		Model: p.model,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: intentSystemPrompt},
			{Role: ai.RoleUser, Content: message},
		},
		Temperature: 0.1,
		MaxTokens:   256,
	})
	if err != nil {
		p.log.Warnw("intent classification failed, using regex-only intent", "error", err)
		return fallback
	}

	var intent UserIntent
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &intent); err != nil {
		p.log.Warnw("intent classification returned malformed JSON", "error", err)
		return fallback
	}

	if intent.AnalysisType == "" {
		intent.AnalysisType = AnalysisGeneral
	}
	if intent.QueryType == "" {
		intent.QueryType = QueryGeneral
	}
	return intent
}

// AugmentIntent applies the deterministic heuristics on top of a model
// classification. Pure; independently testable. Token deduplication is
// case-sensitive identity, a known looseness kept as-is.
func AugmentIntent(message string, intent UserIntent) UserIntent {
	addToken := func(token string) {
		token = strings.TrimSpace(token)
		if token == "" {
			return
		}
		for _, existing := range intent.Tokens {
			if existing == token {
				return
			}
		}
		intent.Tokens = append(intent.Tokens, token)
	}

	for _, addr := range inlineAddressRe.FindAllString(message, -1) {
		addToken(addr)
		intent.QueryType = QueryAddressLookup
	}

	if m := aboutRe.FindStringSubmatch(message); m != nil {
		addToken(m[1])
	}

	if m := statRe.FindStringSubmatch(message); m != nil {
		addToken(m[1])
	}

	if m := versusRe.FindStringSubmatch(message); m != nil {
		addToken(m[1])
		addToken(m[2])
		intent.AnalysisType = AnalysisComparison
		intent.QueryType = QueryComparison
	}

	if m := compareRe.FindStringSubmatch(message); m != nil {
		addToken(m[1])
		addToken(m[2])
		intent.AnalysisType = AnalysisComparison
		intent.QueryType = QueryComparison
	}

	return intent
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
