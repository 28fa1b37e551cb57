package analysis

import (
	"math"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// sampleSeries reads a minute-indexed cumulative series with index clamping.
// Reports false when the series is absent.
func sampleSeries(series []int, minute int) (int, bool) {
	if len(series) == 0 {
		return 0, false
	}
	idx := minute
	if idx < 0 {
		idx = 0
	}
	if idx > len(series)-1 {
		idx = len(series) - 1
	}
	return series[idx], true
}

// netWorthAt samples the gold series at the given minute, falling back to a
// linear gold-per-minute estimate when the series is absent.
func netWorthAt(p *model.PlayerDetail, minute int) int {
	if v, ok := sampleSeries(p.GoldT, minute); ok {
		return v
	}
	return int(math.Round(float64(p.GoldPerMin) * float64(minute)))
}

// lastHitsAt samples the last-hit series at the given minute, falling back to
// a linear estimate from the match-end last-hit total.
func lastHitsAt(p *model.PlayerDetail, minute, durationSeconds int) int {
	if v, ok := sampleSeries(p.LastHitsT, minute); ok {
		return v
	}
	minutes := durationSeconds / 60
	if minutes < 1 {
		minutes = 1
	}
	return int(math.Round(float64(p.LastHits) / float64(minutes) * float64(minute)))
}

// xpAt samples the experience series at the given minute, falling back to a
// linear xp-per-minute estimate when the series is absent.
func xpAt(p *model.PlayerDetail, minute int) int {
	if v, ok := sampleSeries(p.XPT, minute); ok {
		return v
	}
	return int(math.Round(float64(p.XPPerMin) * float64(minute)))
}

// deniesAt samples the deny series at the given minute and returns 0 when the
// series is absent.
//
// TODO: confirm with product whether denies should extrapolate linearly like
// the other three samplers when the series is missing.
func deniesAt(p *model.PlayerDetail, minute int) int {
	v, _ := sampleSeries(p.DeniesT, minute)
	return v
}
