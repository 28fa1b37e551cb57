package analysis

import (
	"fmt"
	"sort"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// benchmarkMetric maps an OpenDota benchmark key to its display label and to
// how the subject's raw stat is normalized before comparison.
type benchmarkMetric struct {
	key    string
	label  string
	value  func(m *model.RecentMatch) float64
	perMin bool
}

func benchmarkMetrics() []benchmarkMetric {
	return []benchmarkMetric{
		{key: "gold_per_min", label: "GPM", value: func(m *model.RecentMatch) float64 { return float64(m.GoldPerMin) }},
		{key: "xp_per_min", label: "XPM", value: func(m *model.RecentMatch) float64 { return float64(m.XPPerMin) }},
		{key: "kills_per_min", label: "Kills per min", value: func(m *model.RecentMatch) float64 { return float64(m.Kills) }, perMin: true},
		{key: "last_hits_per_min", label: "Last hits per min", value: func(m *model.RecentMatch) float64 { return float64(m.LastHits) }, perMin: true},
		{key: "hero_damage_per_min", label: "Hero damage per min", value: func(m *model.RecentMatch) float64 { return float64(m.HeroDamage) }, perMin: true},
		{key: "hero_healing_per_min", label: "Healing per min", value: func(m *model.RecentMatch) float64 { return float64(m.HeroHealing) }, perMin: true},
		{key: "tower_damage", label: "Tower damage", value: func(m *model.RecentMatch) float64 { return float64(m.TowerDamage) }},
	}
}

// estimatePercentile places a raw value on a hero's population curve and
// returns the estimated percentile in [0,100]. Returns false when the curve
// is empty.
func estimatePercentile(entries []model.BenchmarkEntry, raw float64) (float64, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	sorted := make([]model.BenchmarkEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	best := sorted[0]
	for _, e := range sorted {
		if e.Value <= raw {
			best = e
		}
	}
	return best.Percentile * 100, true
}

// percentileValue returns the population value closest to the requested
// percentile (given in [0,1]). Returns false when the curve is empty.
func percentileValue(entries []model.BenchmarkEntry, percentile float64) (float64, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	best := entries[0]
	bestDist := absFloat(entries[0].Percentile - percentile)
	for _, e := range entries[1:] {
		if d := absFloat(e.Percentile - percentile); d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best.Value, true
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// buildBenchmarkNotes compares the subject's match stats against the hero's
// population benchmarks. Metrics without population data are skipped.
func buildBenchmarkNotes(match *model.RecentMatch, bench *model.Benchmarks) []string {
	if bench == nil || len(bench.Result) == 0 {
		return nil
	}
	minutes := float64(match.DurationMinutes())

	var notes []string
	for _, metric := range benchmarkMetrics() {
		entries := bench.Result[metric.key]
		if len(entries) == 0 {
			continue
		}
		raw := metric.value(match)
		if metric.perMin {
			raw /= minutes
		}

		pctLabel := "unknown"
		if pct, ok := estimatePercentile(entries, raw); ok {
			pctLabel = fmt.Sprintf("%.0f", pct)
		}
		p50Label := "unknown"
		if p50, ok := percentileValue(entries, 0.5); ok {
			p50Label = fmt.Sprintf("%.0f", p50)
		}
		p80Label := "unknown"
		if p80, ok := percentileValue(entries, 0.8); ok {
			p80Label = fmt.Sprintf("%.0f", p80)
		}

		notes = append(notes, fmt.Sprintf("%s: %.0f (hero percentile ~%s, p50 ~%s, p80 ~%s)",
			metric.label, raw, pctLabel, p50Label, p80Label))
	}
	return notes
}
