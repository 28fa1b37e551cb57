package model

// RecentMatch is one row of an OpenDota player match listing. Aggregate stats
// only; per-minute series live on PlayerDetail.
type RecentMatch struct {
	MatchID     int64 `json:"match_id"`
	PlayerSlot  int   `json:"player_slot"`
	RadiantWin  bool  `json:"radiant_win"`
	Duration    int   `json:"duration"` // seconds
	StartTime   int   `json:"start_time"`
	HeroID      int   `json:"hero_id"`
	Kills       int   `json:"kills"`
	Deaths      int   `json:"deaths"`
	Assists     int   `json:"assists"`
	LastHits    int   `json:"last_hits"`
	Denies      int   `json:"denies"`
	GoldPerMin  int   `json:"gold_per_min"`
	XPPerMin    int   `json:"xp_per_min"`
	HeroDamage  int   `json:"hero_damage"`
	TowerDamage int   `json:"tower_damage"`
	HeroHealing int   `json:"hero_healing"`
	Level       int   `json:"level"`
}

// IsRadiant reports which side the subject played. Slots 0–127 are Radiant,
// 128–255 are Dire.
func (m *RecentMatch) IsRadiant() bool { return m.PlayerSlot < 128 }

// Won reports whether the subject's team won the match.
func (m *RecentMatch) Won() bool { return m.IsRadiant() == m.RadiantWin }

// DurationMinutes returns the match length in whole minutes, never below 1.
func (m *RecentMatch) DurationMinutes() int {
	minutes := m.Duration / 60
	if minutes < 1 {
		return 1
	}
	return minutes
}

// MatchDetail is the full parsed match record from /matches/{id}.
type MatchDetail struct {
	MatchID    int64          `json:"match_id"`
	Duration   int            `json:"duration"`
	RadiantWin bool           `json:"radiant_win"`
	Players    []PlayerDetail `json:"players"`
	PicksBans  []PickBan      `json:"picks_bans"`
	Cluster    int            `json:"cluster"`
	ReplaySalt int            `json:"replay_salt"`
}

// PlayerDetail is one roster entry of a parsed match. The *_t slices are
// minute-indexed cumulative series and are absent for unparsed matches.
type PlayerDetail struct {
	AccountID   *int64 `json:"account_id"` // nil for anonymous players
	PlayerSlot  int    `json:"player_slot"`
	HeroID      int    `json:"hero_id"`
	Kills       int    `json:"kills"`
	Deaths      int    `json:"deaths"`
	Assists     int    `json:"assists"`
	LastHits    int    `json:"last_hits"`
	Denies      int    `json:"denies"`
	GoldPerMin  int    `json:"gold_per_min"`
	XPPerMin    int    `json:"xp_per_min"`
	Level       int    `json:"level"`
	Lane        int    `json:"lane"`
	LaneRole    int    `json:"lane_role"` // 1=safe, 2=mid, 3=off, 4/5=support; 0 when unassigned
	HeroDamage  int    `json:"hero_damage"`
	TowerDamage int    `json:"tower_damage"`

	Item0       int `json:"item_0"`
	Item1       int `json:"item_1"`
	Item2       int `json:"item_2"`
	Item3       int `json:"item_3"`
	Item4       int `json:"item_4"`
	Item5       int `json:"item_5"`
	Backpack0   int `json:"backpack_0"`
	Backpack1   int `json:"backpack_1"`
	Backpack2   int `json:"backpack_2"`
	ItemNeutral int `json:"item_neutral"`

	GoldT     []int `json:"gold_t"`
	LastHitsT []int `json:"lh_t"`
	DeniesT   []int `json:"dn_t"`
	XPT       []int `json:"xp_t"`

	PurchaseLog []PurchaseLogEntry `json:"purchase_log"`
	KillsLog    []KillLogEntry     `json:"kills_log"`
}

// IsRadiant reports the roster entry's side.
func (p *PlayerDetail) IsRadiant() bool { return p.PlayerSlot < 128 }

// PurchaseLogEntry is one purchase event: item key at game time in seconds.
type PurchaseLogEntry struct {
	Time int    `json:"time"`
	Key  string `json:"key"`
}

// KillLogEntry is one hero kill credited to the player. Key is the victim's
// unit key, usually in the npc_dota_hero_<name> form.
type KillLogEntry struct {
	Time int    `json:"time"`
	Key  string `json:"key"`
}

// PickBan is one draft event from picks_bans.
type PickBan struct {
	IsPick bool `json:"is_pick"`
	HeroID int  `json:"hero_id"`
	Team   int  `json:"team"` // 0 = Radiant, 1 = Dire
	Order  int  `json:"order"`
}

// Hero is one entry of /heroes.
type Hero struct {
	ID            int    `json:"id"`
	Name          string `json:"name"` // npc_dota_hero_<key>
	LocalizedName string `json:"localized_name"`
}

// HeroStats carries the pro pick/win counts used for hero win rates.
type HeroStats struct {
	ID      int `json:"id"`
	ProPick int `json:"pro_pick"`
	ProWin  int `json:"pro_win"`
}

// ItemConstants is one entry of /constants/items, keyed by item key.
type ItemConstants struct {
	ID          int      `json:"id"`
	Img         string   `json:"img"`
	DisplayName string   `json:"dname"`
	Cost        int      `json:"cost"`
	Quality     string   `json:"qual"`
	Components  []string `json:"components"` // keys consumed when this item is assembled
}

// BenchmarkEntry is one population point of a hero benchmark curve.
// Percentile is in [0,1].
type BenchmarkEntry struct {
	Percentile float64 `json:"percentile"`
	Value      float64 `json:"value"`
}

// Benchmarks is the /benchmarks response for one hero: population percentile
// curves keyed by metric name (gold_per_min, xp_per_min, ...).
type Benchmarks struct {
	HeroID int                         `json:"hero_id"`
	Result map[string][]BenchmarkEntry `json:"result"`
}
