package model

// ---- Analysis output ----

// StatLine is one labeled entry of the per-match statistics block. A slice of
// these keeps the display order stable, which a plain map would not.
type StatLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// InventoryItem is one resolved item in an inventory snapshot.
type InventoryItem struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Img  string `json:"img"`
}

// InventorySnapshot is the reconstructed inventory at one checkpoint time.
type InventorySnapshot struct {
	Time  int             `json:"time"` // seconds
	Items []InventoryItem `json:"items"`
}

// MatchAnalysis is the engine's output for a single match. Built once per
// match; only the enhancement pointers may be attached afterwards by an
// external enrichment step.
type MatchAnalysis struct {
	MatchID  int64  `json:"match_id"`
	HeroID   int    `json:"hero_id"`
	HeroName string `json:"hero_name"`
	Won      bool   `json:"won"`
	Result   string `json:"result"`

	// Parsed is false when OpenDota had no detailed player data for the
	// match; the analysis then carries only aggregate stats and placeholder
	// labels.
	Parsed bool `json:"parsed"`

	LaneRole  int    `json:"lane_role"` // -1 when unknown
	Position1 bool   `json:"position1"`
	PickRound string `json:"pick_round"`
	PickIndex int    `json:"pick_index"` // 1-based; -1 when draft data is absent

	LaneResult         string   `json:"lane_result"`
	LaneNetWorthDiff10 int      `json:"lane_net_worth_diff_10"`
	LaneOpponentHero   string   `json:"lane_opponent_hero"`
	LaneOpponentHeroID int      `json:"lane_opponent_hero_id"`
	LaneAllyHeroes     []string `json:"lane_ally_heroes"`
	LaneEnemyHeroes    []string `json:"lane_enemy_heroes"`
	LaneAllyHeroIDs    []int    `json:"lane_ally_hero_ids"`
	LaneEnemyHeroIDs   []int    `json:"lane_enemy_hero_ids"`
	LaneMatchup        string   `json:"lane_matchup"`
	LaneKills          int      `json:"lane_kills"`
	LaneDeaths         int      `json:"lane_deaths"`
	PlayerDenies10     int      `json:"player_denies_10"`
	EnemyDenies10      int      `json:"enemy_denies_10"`

	LaningDetails     []string `json:"laning_details"`
	BenchmarkNotes    []string `json:"benchmark_notes"`
	PerformanceRating string   `json:"performance_rating"`
	Mistakes          []string `json:"mistakes"`
	Suggestions       []string `json:"suggestions"`

	Statistics []StatLine `json:"statistics"`

	AllyHeroes   []string `json:"ally_heroes"`
	AllyHeroIDs  []int    `json:"ally_hero_ids"`
	EnemyHeroes  []string `json:"enemy_heroes"`
	EnemyHeroIDs []int    `json:"enemy_hero_ids"`

	InventoryTimeline []InventorySnapshot `json:"inventory_timeline"`

	// Replay-derived enhancements, attached after the fact by the demo
	// enrichment step when a replay was available. Nil otherwise.
	PositionHeatmap *PositionHeatmap `json:"position_heatmap,omitempty"`
	EconomyTimeline *EconomyTimeline `json:"economy_timeline,omitempty"`
	Wards           *WardList        `json:"wards,omitempty"`
	CombatSummary   *CombatSummary   `json:"combat_summary,omitempty"`
	AbilityTimeline *AbilityTimeline `json:"ability_timeline,omitempty"`
}

// AnalysisSummary is a roll-up over a batch of analyses.
type AnalysisSummary struct {
	TotalMatches    int     `json:"total_matches"`
	Wins            int     `json:"wins"`
	WinRate         float64 `json:"win_rate"`
	ParsedMatches   int     `json:"parsed_matches"`
	UnparsedMatches int     `json:"unparsed_matches"`
}

// ---- Replay enhancements ----
//
// Each enhancement has a fixed shape once produced, so they are typed fields
// rather than a free-form blob.

// HeatPoint is one weighted map position sample.
type HeatPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Weight float64 `json:"weight"`
}

// PositionHeatmap aggregates the subject's map positions over the match.
type PositionHeatmap struct {
	Points []HeatPoint `json:"points"`
}

// EconomyTick is the subject's net worth at one replay sample time.
type EconomyTick struct {
	Time     int `json:"time"`
	NetWorth int `json:"net_worth"`
}

// EconomyTimeline is the replay-accurate net worth curve.
type EconomyTimeline struct {
	Ticks []EconomyTick `json:"ticks"`
}

// WardPlacement is one observer/sentry ward placed by the subject's team.
type WardPlacement struct {
	Time     int     `json:"time"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	WardType string  `json:"ward_type"` // "observer" or "sentry"
}

// WardList collects ward placements for the match.
type WardList struct {
	Placements []WardPlacement `json:"placements"`
}

// CombatSummary aggregates replay combat-log events for the subject.
type CombatSummary struct {
	DamageDealt  int `json:"damage_dealt"`
	DamageTaken  int `json:"damage_taken"`
	StunsApplied int `json:"stuns_applied"`
	FightCount   int `json:"fight_count"`
}

// AbilityCast is one ability use at a replay timestamp.
type AbilityCast struct {
	Time    int    `json:"time"`
	Ability string `json:"ability"`
}

// AbilityTimeline is the chronological ability-cast log for the subject.
type AbilityTimeline struct {
	Casts []AbilityCast `json:"casts"`
}
