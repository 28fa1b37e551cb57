package analysis

import (
	"fmt"
	"strings"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// laneWindowSeconds is the end of the laning window for kill/death counting.
const laneWindowSeconds = 600

// laneParticipants partitions the roster into the subject's lane.
type laneParticipants struct {
	allies  []*model.PlayerDetail // same lane, same team, excluding the subject
	enemies []*model.PlayerDetail
}

// laningContext carries the 5-/10-minute diffs the mistake detector and the
// detail lines are built from. All diffs are subject minus primary opponent.
type laningContext struct {
	netWorthDiff5    int
	netWorthDiff10   int
	lastHitsDiff5    int
	lastHitsDiff10   int
	xpDiff5          int
	xpDiff10         int
	playerLastHits10 int
	trend            string
}

// laningSummary is everything the laning analyzer produces for one match.
type laningSummary struct {
	result         string
	netWorthDiff   int
	opponentHero   string
	opponentHeroID int
	allyHeroes     []string
	enemyHeroes    []string
	allyHeroIDs    []int
	enemyHeroIDs   []int
	matchup        string
	laneKills      int
	laneDeaths     int
	playerDenies10 int
	enemyDenies10  int
	details        []string
	benchmarkNotes []string
	ctx            laningContext
}

// findLaneParticipants resolves lane allies and enemies for the subject.
// When lane metadata is missing or no enemy shares the lane, it falls back to
// the single highest-GPM opponent with no allies.
func findLaneParticipants(player *model.PlayerDetail, detail *model.MatchDetail, isRadiant bool) laneParticipants {
	var allies, enemies []*model.PlayerDetail
	for i := range detail.Players {
		p := &detail.Players[i]
		if p.IsRadiant() == isRadiant {
			if p.PlayerSlot != player.PlayerSlot {
				allies = append(allies, p)
			}
		} else {
			enemies = append(enemies, p)
		}
	}

	if player.Lane > 0 {
		var laneAllies, laneEnemies []*model.PlayerDetail
		for _, a := range allies {
			if a.Lane == player.Lane {
				laneAllies = append(laneAllies, a)
			}
		}
		for _, e := range enemies {
			if e.Lane == player.Lane {
				laneEnemies = append(laneEnemies, e)
			}
		}
		if len(laneEnemies) > 0 {
			return laneParticipants{allies: laneAllies, enemies: laneEnemies}
		}
	}

	if fallback := highestGPM(enemies); fallback != nil {
		return laneParticipants{enemies: []*model.PlayerDetail{fallback}}
	}
	return laneParticipants{}
}

// highestGPM returns the player with the highest gold per minute, or nil for
// an empty slice. Ties keep the earlier roster entry.
func highestGPM(players []*model.PlayerDetail) *model.PlayerDetail {
	var best *model.PlayerDetail
	for _, p := range players {
		if best == nil || p.GoldPerMin > best.GoldPerMin {
			best = p
		}
	}
	return best
}

// analyzeLaning computes the full lane-phase breakdown for the subject.
func analyzeLaning(player *model.PlayerDetail, detail *model.MatchDetail, isRadiant bool, dir Resolver) laningSummary {
	participants := findLaneParticipants(player, detail, isRadiant)
	primaryEnemy := highestGPM(participants.enemies)

	playerNetWorth10 := netWorthAt(player, 10)
	enemyNetWorth10 := 0
	if primaryEnemy != nil {
		enemyNetWorth10 = netWorthAt(primaryEnemy, 10)
	}
	diff := playerNetWorth10 - enemyNetWorth10

	var result string
	switch {
	case diff >= 700:
		result = fmt.Sprintf("advantage (net worth %+d at 10 min)", diff)
	case diff <= -700:
		result = fmt.Sprintf("disadvantage (net worth %+d at 10 min)", diff)
	default:
		result = fmt.Sprintf("even (net worth %+d at 10 min)", diff)
	}

	opponentHero := "unknown"
	opponentHeroID := 0
	if primaryEnemy != nil {
		opponentHero = dir.HeroName(primaryEnemy.HeroID)
		opponentHeroID = primaryEnemy.HeroID
	}

	var allyHeroes, enemyHeroes []string
	var allyHeroIDs, enemyHeroIDs []int
	for _, a := range participants.allies {
		allyHeroes = append(allyHeroes, dir.HeroName(a.HeroID))
		allyHeroIDs = append(allyHeroIDs, a.HeroID)
	}
	for _, e := range participants.enemies {
		enemyHeroes = append(enemyHeroes, dir.HeroName(e.HeroID))
		enemyHeroIDs = append(enemyHeroIDs, e.HeroID)
	}

	allySide := strings.Join(append([]string{dir.HeroName(player.HeroID)}, allyHeroes...), " + ")
	enemySide := "unknown"
	if len(enemyHeroes) > 0 {
		enemySide = strings.Join(enemyHeroes, " + ")
	}
	matchup := allySide + " vs " + enemySide

	laneKills := countLaneKills(player, participants.enemies, laneWindowSeconds, dir)
	for _, ally := range participants.allies {
		laneKills += countLaneKills(ally, participants.enemies, laneWindowSeconds, dir)
	}
	laneDeaths := countLaneDeaths(player, participants.enemies, laneWindowSeconds, dir)
	for _, ally := range participants.allies {
		laneDeaths += countLaneDeaths(ally, participants.enemies, laneWindowSeconds, dir)
	}

	playerDenies10 := deniesAt(player, 10)
	for _, ally := range participants.allies {
		playerDenies10 += deniesAt(ally, 10)
	}
	enemyDenies10 := 0
	for _, enemy := range participants.enemies {
		enemyDenies10 += deniesAt(enemy, 10)
	}

	ctx := buildLaningContext(player, primaryEnemy, detail.Duration)

	details := []string{
		"Lane matchup: " + matchup,
		fmt.Sprintf("5 min: net worth %+d, last hits %+d, xp %+d",
			ctx.netWorthDiff5, ctx.lastHitsDiff5, ctx.xpDiff5),
		fmt.Sprintf("10 min: net worth %+d, last hits %+d, xp %+d",
			ctx.netWorthDiff10, ctx.lastHitsDiff10, ctx.xpDiff10),
		fmt.Sprintf("Denies at 10 min: own lane %d vs enemy %d", playerDenies10, enemyDenies10),
		fmt.Sprintf("Lane kills: %d scored, %d conceded", laneKills, laneDeaths),
		"Trend: " + ctx.trend,
	}

	var benchmarkNotes []string
	if target, ok := roleLastHitTarget(player.LaneRole); ok {
		if ctx.playerLastHits10 < target {
			benchmarkNotes = append(benchmarkNotes, fmt.Sprintf(
				"Estimated role benchmark: %d last hits at 10 min, you had %d", target, ctx.playerLastHits10))
		} else {
			benchmarkNotes = append(benchmarkNotes, fmt.Sprintf(
				"Estimated role benchmark: %d last hits at 10 min (met)", target))
		}
	}

	return laningSummary{
		result:         result,
		netWorthDiff:   diff,
		opponentHero:   opponentHero,
		opponentHeroID: opponentHeroID,
		allyHeroes:     allyHeroes,
		enemyHeroes:    enemyHeroes,
		allyHeroIDs:    allyHeroIDs,
		enemyHeroIDs:   enemyHeroIDs,
		matchup:        matchup,
		laneKills:      laneKills,
		laneDeaths:     laneDeaths,
		playerDenies10: playerDenies10,
		enemyDenies10:  enemyDenies10,
		details:        details,
		benchmarkNotes: benchmarkNotes,
		ctx:            ctx,
	}
}

// buildLaningContext computes the 5-/10-minute diffs against the primary
// opponent. With no opponent the diffs stay zero and the trend is unknown.
func buildLaningContext(player, enemy *model.PlayerDetail, durationSeconds int) laningContext {
	var ctx laningContext
	ctx.playerLastHits10 = lastHitsAt(player, 10, durationSeconds)
	if enemy == nil {
		ctx.trend = "unknown"
		return ctx
	}

	ctx.netWorthDiff5 = netWorthAt(player, 5) - netWorthAt(enemy, 5)
	ctx.netWorthDiff10 = netWorthAt(player, 10) - netWorthAt(enemy, 10)
	ctx.lastHitsDiff5 = lastHitsAt(player, 5, durationSeconds) - lastHitsAt(enemy, 5, durationSeconds)
	ctx.lastHitsDiff10 = lastHitsAt(player, 10, durationSeconds) - lastHitsAt(enemy, 10, durationSeconds)
	ctx.xpDiff5 = xpAt(player, 5) - xpAt(enemy, 5)
	ctx.xpDiff10 = xpAt(player, 10) - xpAt(enemy, 10)
	ctx.trend = describeTrend(ctx.netWorthDiff5, ctx.netWorthDiff10)
	return ctx
}

// describeTrend classifies the laning trajectory from the 5- and 10-minute
// net worth diffs.
func describeTrend(diff5, diff10 int) string {
	switch {
	case diff5 >= 400 && diff10 <= -300:
		return "lead lost between 5 and 10 min"
	case diff5 <= -400 && diff10 >= 200:
		return "recovered after a rough start"
	case diff10 >= 700:
		return "sustained advantage"
	case diff10 <= -700:
		return "sustained disadvantage"
	default:
		return "roughly even"
	}
}

// heroKeySet builds the case-insensitive match set for a hero: the bare key
// plus the npc_dota_hero_ prefixed form found in kill logs.
func heroKeySet(heroIDs []int, dir Resolver) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, id := range heroIDs {
		key := strings.ToLower(dir.HeroKey(id))
		if key == "" {
			continue
		}
		keys[key] = struct{}{}
		keys["npc_dota_hero_"+key] = struct{}{}
	}
	return keys
}

// countLaneKills counts the player's kill-log entries inside the laning
// window whose victim is one of the lane enemies.
func countLaneKills(player *model.PlayerDetail, laneEnemies []*model.PlayerDetail, maxTime int, dir Resolver) int {
	if len(player.KillsLog) == 0 {
		return 0
	}
	ids := make([]int, 0, len(laneEnemies))
	for _, e := range laneEnemies {
		ids = append(ids, e.HeroID)
	}
	enemyKeys := heroKeySet(ids, dir)

	count := 0
	for _, k := range player.KillsLog {
		if k.Time > maxTime {
			continue
		}
		if _, ok := enemyKeys[strings.ToLower(k.Key)]; ok {
			count++
		}
	}
	return count
}

// countLaneDeaths counts kills credited to lane enemies against the player
// inside the laning window.
func countLaneDeaths(player *model.PlayerDetail, laneEnemies []*model.PlayerDetail, maxTime int, dir Resolver) int {
	playerKeys := heroKeySet([]int{player.HeroID}, dir)
	if len(playerKeys) == 0 {
		return 0
	}

	deaths := 0
	for _, enemy := range laneEnemies {
		for _, k := range enemy.KillsLog {
			if k.Time > maxTime {
				continue
			}
			if _, ok := playerKeys[strings.ToLower(k.Key)]; ok {
				deaths++
			}
		}
	}
	return deaths
}

// roleLastHitTarget returns the estimated 10-minute last-hit target for a
// lane role.
func roleLastHitTarget(laneRole int) (int, bool) {
	switch laneRole {
	case 1:
		return 45, true
	case 2:
		return 50, true
	case 3:
		return 35, true
	case 4, 5:
		return 15, true
	default:
		return 0, false
	}
}
