package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoag/go-dota-insights/internal/model"
)

func openMemCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestMatchCache_RoundTrip(t *testing.T) {
	cache := openMemCache(t)

	detail := &model.MatchDetail{
		MatchID:  42,
		Duration: 2400,
		Players: []model.PlayerDetail{
			{PlayerSlot: 0, HeroID: 1, GoldT: []int{0, 400, 900}},
		},
	}
	require.NoError(t, cache.PutMatch(detail))

	got, ok, err := cache.GetMatch(42, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, detail.MatchID, got.MatchID)
	require.Len(t, got.Players, 1)
	assert.Equal(t, []int{0, 400, 900}, got.Players[0].GoldT)
}

func TestMatchCache_Miss(t *testing.T) {
	cache := openMemCache(t)

	_, ok, err := cache.GetMatch(99, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchCache_Expiry(t *testing.T) {
	cache := openMemCache(t)

	base := time.Now()
	cache.now = func() time.Time { return base }
	require.NoError(t, cache.PutMatch(&model.MatchDetail{MatchID: 7}))

	cache.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, ok, err := cache.GetMatch(7, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "entry past max age should miss")

	// Zero max age disables expiry.
	got, ok, err := cache.GetMatch(7, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.MatchID)
}

func TestMatchCache_Upsert(t *testing.T) {
	cache := openMemCache(t)

	require.NoError(t, cache.PutMatch(&model.MatchDetail{MatchID: 5, Duration: 100}))
	require.NoError(t, cache.PutMatch(&model.MatchDetail{MatchID: 5, Duration: 200}))

	got, ok, err := cache.GetMatch(5, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 200, got.Duration)
}

func TestRecentMatchesCache(t *testing.T) {
	cache := openMemCache(t)

	matches := []model.RecentMatch{
		{MatchID: 10, HeroID: 1},
		{MatchID: 9, HeroID: 2},
	}
	require.NoError(t, cache.PutRecentMatches(1001, matches))

	got, ok, err := cache.GetRecentMatches(1001, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, matches, got)

	// Other accounts stay separate.
	_, ok, err = cache.GetRecentMatches(1002, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConstantsCaches(t *testing.T) {
	cache := openMemCache(t)

	require.NoError(t, cache.PutHeroes([]model.Hero{{ID: 1, Name: "npc_dota_hero_antimage", LocalizedName: "Anti-Mage"}}))
	heroes, ok, err := cache.GetHeroes(time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Anti-Mage", heroes[0].LocalizedName)

	require.NoError(t, cache.PutHeroStats([]model.HeroStats{{ID: 1, ProPick: 100, ProWin: 55}}))
	stats, ok, err := cache.GetHeroStats(time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 55, stats[0].ProWin)

	require.NoError(t, cache.PutItems(map[string]model.ItemConstants{
		"blink": {ID: 1, DisplayName: "Blink Dagger"},
	}))
	items, ok, err := cache.GetItems(time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Blink Dagger", items["blink"].DisplayName)
}

func TestBenchmarkCache_KeyedByHero(t *testing.T) {
	cache := openMemCache(t)

	require.NoError(t, cache.PutBenchmarks(&model.Benchmarks{
		HeroID: 1,
		Result: map[string][]model.BenchmarkEntry{"gold_per_min": {{Percentile: 0.5, Value: 450}}},
	}))
	require.NoError(t, cache.PutBenchmarks(&model.Benchmarks{
		HeroID: 2,
		Result: map[string][]model.BenchmarkEntry{"gold_per_min": {{Percentile: 0.5, Value: 390}}},
	}))

	bench, ok, err := cache.GetBenchmarks(2, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 390.0, bench.Result["gold_per_min"][0].Value)
}
