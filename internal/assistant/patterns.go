package assistant

import (
	"fmt"
	"math"
	"sort"

	"pepuhub/internal/adapters/geckoterminal"
)

const (
	minCandles        = 10
	trendMinCandles   = 20
	analysisWindow    = 100
	liquidityWindow   = 50
	spikeFactor       = 3.0
	maxReportedSpikes = 5
)

// AnalyzeCandles derives heuristic pattern signals from an OHLCV
// sequence ordered newest-first. Pure function, no I/O.
func AnalyzeCandles(candles []geckoterminal.Candle) PatternAnalysis {
	if len(candles) < minCandles {
		return PatternAnalysis{
			Trend:     TrendInsufficientData,
			RiskLevel: RiskUnknown,
			Narrative: "Not enough trading history for pattern analysis.",
		}
	}

	window := candles
	if len(window) > analysisWindow {
		window = window[:analysisWindow]
	}

	volatility := volatilityPct(window)
	spikes := volumeSpikes(window)
	trend := classifyTrend(window)
	liquidity := liquidityScore(window)

	suspicious := len(spikes) > 5 ||
		volatility > 50 ||
		trend == TrendPumpAndDump ||
		liquidity < 30

	risk := RiskLow
	switch {
	case suspicious:
		risk = RiskHigh
	case volatility > 20 || len(spikes) > 2:
		risk = RiskMedium
	}

	top := spikes
	if len(top) > maxReportedSpikes {
		top = top[:maxReportedSpikes]
	}

	return PatternAnalysis{
		VolatilityPct:    volatility,
		VolumeSpikeCount: len(spikes),
		TopSpikes:        top,
		Trend:            trend,
		LiquidityScore:   liquidity,
		Suspicious:       suspicious,
		RiskLevel:        risk,
		Narrative:        narrative(trend, risk, volatility, len(spikes), liquidity),
	}
}

// volatilityPct is the population standard deviation of
// period-over-period returns, in percentage units.
func volatilityPct(window []geckoterminal.Candle) float64 {
	var returns []float64
	for i := 1; i < len(window); i++ {
		prev := window[i].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (window[i-1].Close-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}
	return stddev(returns) * 100
}

// volumeSpikes returns every candle whose volume exceeds 3x the window
// average, sorted by spike ratio descending.
func volumeSpikes(window []geckoterminal.Candle) []VolumeSpike {
	avg := avgVolume(window)
	if avg == 0 {
		return nil
	}

	var spikes []VolumeSpike
	for _, c := range window {
		if c.Volume > spikeFactor*avg {
			spikes = append(spikes, VolumeSpike{
				Timestamp: c.Timestamp,
				Volume:    c.Volume,
				Ratio:     c.Volume / avg,
			})
		}
	}
	sort.Slice(spikes, func(i, j int) bool { return spikes[i].Ratio > spikes[j].Ratio })
	return spikes
}

// classifyTrend compares the oldest, midpoint and newest closes of the
// window. Candles are newest-first, so the oldest close sits at the
// end of the slice.
func classifyTrend(window []geckoterminal.Candle) TrendLabel {
	if len(window) < trendMinCandles {
		return TrendInsufficientData
	}

	first := window[len(window)-1].Close
	middle := window[len(window)/2].Close
	last := window[0].Close

	if first == 0 {
		return TrendInsufficientData
	}

	switch {
	case middle > first*1.5 && last < middle*0.7:
		return TrendPumpAndDump
	case last < first*0.8:
		return TrendDeclining
	case last > first*1.2:
		return TrendGrowing
	default:
		return TrendStable
	}
}

// liquidityScore rates pool health 0-100 from the most recent candles:
// penalties for thin absolute volume, wide price range relative to the
// average close, and erratic volume distribution.
func liquidityScore(window []geckoterminal.Candle) int {
	recent := window
	if len(recent) > liquidityWindow {
		recent = recent[:liquidityWindow]
	}

	score := 100

	avgVol := avgVolume(recent)
	switch {
	case avgVol < 1000:
		score -= 30
	case avgVol < 10000:
		score -= 15
	}

	maxHigh := recent[0].High
	minLow := recent[0].Low
	var closeSum float64
	for _, c := range recent {
		if c.High > maxHigh {
			maxHigh = c.High
		}
		if c.Low < minLow {
			minLow = c.Low
		}
		closeSum += c.Close
	}
	avgClose := closeSum / float64(len(recent))
	if avgClose > 0 {
		spread := (maxHigh - minLow) / avgClose
		switch {
		case spread > 0.5:
			score -= 25
		case spread > 0.2:
			score -= 10
		}
	}

	if avgVol > 0 {
		volumes := make([]float64, len(recent))
		for i, c := range recent {
			volumes[i] = c.Volume
		}
		cov := stddev(volumes) / avgVol
		switch {
		case cov > 2:
			score -= 20
		case cov > 1:
			score -= 10
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

func narrative(trend TrendLabel, risk RiskLevel, volatility float64, spikes, liquidity int) string {
	switch trend {
	case TrendPumpAndDump:
		return fmt.Sprintf("Pump-and-dump shape: sharp rise then steep fall, %.1f%% volatility, %d volume spikes. Treat with caution.", volatility, spikes)
	case TrendDeclining:
		return fmt.Sprintf("Declining trend over the window with %.1f%% volatility. Liquidity health %d/100.", volatility, liquidity)
	case TrendGrowing:
		return fmt.Sprintf("Growing trend with %.1f%% volatility and %d volume spikes. Liquidity health %d/100.", volatility, spikes, liquidity)
	case TrendStable:
		return fmt.Sprintf("Stable price action, %.1f%% volatility. Liquidity health %d/100, risk %s.", volatility, liquidity, risk)
	default:
		return "Not enough trading history for pattern analysis."
	}
}

func avgVolume(candles []geckoterminal.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	var sum float64
	for _, c := range candles {
		sum += c.Volume
	}
	return sum / float64(len(candles))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
