package analysis

import (
	"fmt"
	"strings"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// disablerHeroes lists heroes with reliable hard disables, used to judge
// whether a late BKB was punishable. Lowercased localized names.
var disablerHeroes = map[string]struct{}{
	"axe":               {},
	"bane":              {},
	"beastmaster":       {},
	"centaur warrunner": {},
	"chaos knight":      {},
	"crystal maiden":    {},
	"dark seer":         {},
	"doom":              {},
	"dragon knight":     {},
	"earth spirit":      {},
	"earthshaker":       {},
	"elder titan":       {},
	"enigma":            {},
	"faceless void":     {},
	"grimstroke":        {},
	"invoker":           {},
	"kunkka":            {},
	"legion commander":  {},
	"lion":              {},
	"magnus":            {},
	"mars":              {},
	"medusa":            {},
	"mirana":            {},
	"nyx assassin":      {},
	"ogre magi":         {},
	"pudge":             {},
	"puck":              {},
	"riki":              {},
	"sand king":         {},
	"shadow shaman":     {},
	"slardar":           {},
	"snapfire":          {},
	"spirit breaker":    {},
	"storm spirit":      {},
	"sven":              {},
	"tidehunter":        {},
	"tiny":              {},
	"treant protector":  {},
	"tusk":              {},
	"underlord":         {},
	"vengeful spirit":   {},
	"warlock":           {},
	"windranger":        {},
	"winter wyvern":     {},
	"witch doctor":      {},
	"zeus":              {},
	"primal beast":      {},
	"ringmaster":        {},
	"marci":             {},
	"muerta":            {},
}

// detectMistakes runs the rule set over one match and returns paired mistake
// and suggestion lines. When no rule fires it returns exactly one default
// pair.
func detectMistakes(match *model.RecentMatch, player *model.PlayerDetail, enemyHeroes []string, laneDiff int, ctx laningContext, teamTowerDamage int) (mistakes, suggestions []string) {
	minutes := match.DurationMinutes()
	csPerMin := float64(match.LastHits) / float64(minutes)

	if laneDiff <= -700 && match.GoldPerMin < 450 {
		mistakes = append(mistakes, "Economy stayed behind after losing the lane")
		suggestions = append(suggestions, "Rotate earlier after 10 min: jungle, swap lanes, or push the enemy safe lane instead of staying in a losing matchup")
	}

	if ctx.netWorthDiff5 <= -350 && ctx.netWorthDiff10 <= -700 {
		mistakes = append(mistakes, fmt.Sprintf("Lost the lane early (net worth %+d at 5 min) and never stabilized", ctx.netWorthDiff5))
		suggestions = append(suggestions, "Play safer in the first 5 minutes: hug the tower, pull creep equilibrium, and ask for an early rotation")
	}

	if ctx.netWorthDiff5 >= 400 && ctx.netWorthDiff10 <= -300 {
		mistakes = append(mistakes, "Threw away an early lane lead between 5 and 10 min")
		suggestions = append(suggestions, "Convert a lane lead into tower pressure or a rotation instead of coin-flip trades")
	}

	if ctx.lastHitsDiff10 <= -8 && ctx.xpDiff10 <= -400 {
		mistakes = append(mistakes, "Lost the farm and experience battle in lane")
		suggestions = append(suggestions, "Focus on last-hit timing and stay in experience range even when pushed under tower")
	}

	if match.Deaths >= 6 && csPerMin < 4 {
		mistakes = append(mistakes, fmt.Sprintf("Died %d times with low farm (%.1f CS/min)", match.Deaths, csPerMin))
		suggestions = append(suggestions, "Cut down risky movements; carry a TP scroll and farm triangles near safe exits")
	}

	if match.HeroDamage < match.Duration*300 {
		mistakes = append(mistakes, "Low hero damage for the match length")
		suggestions = append(suggestions, "Join more fights once key items are online, or pick fights around your power spikes")
	}

	if shouldFlagLowPushContribution(match, player, teamTowerDamage) {
		mistakes = append(mistakes, "Low tower damage share for your role")
		suggestions = append(suggestions, "Group up after winning fights and take towers while the enemy respawns")
	}

	if bkbTime, ok := itemPurchaseTime(player, "black_king_bar"); ok && bkbTime > 1500 {
		if countDisablers(enemyHeroes) >= 2 {
			mistakes = append(mistakes, fmt.Sprintf("BKB came online late (minute %d) against multiple disablers", bkbTime/60))
			suggestions = append(suggestions, "Against a lockdown-heavy draft, prioritize BKB before minute 25")
		}
	}

	if len(mistakes) == 0 {
		mistakes = append(mistakes, "No major mistakes spotted")
		suggestions = append(suggestions, "Keep the current pace and decision-making")
	}
	return mistakes, suggestions
}

// countDisablers counts enemy heroes in the disabler set.
func countDisablers(enemyHeroes []string) int {
	n := 0
	for _, h := range enemyHeroes {
		if _, ok := disablerHeroes[strings.ToLower(h)]; ok {
			n++
		}
	}
	return n
}

// itemPurchaseTime returns the first purchase time of the given item key.
func itemPurchaseTime(player *model.PlayerDetail, key string) (int, bool) {
	if player == nil {
		return 0, false
	}
	for _, e := range player.PurchaseLog {
		if e.Key == key {
			return e.Time, true
		}
	}
	return 0, false
}

// isSupportLike reports whether the subject's stat profile looks like a
// support: an explicit support role, or low farm with a high assist share.
func isSupportLike(match *model.RecentMatch, laneRole int) bool {
	if laneRole == 4 || laneRole == 5 {
		return true
	}
	csPerMin := float64(match.LastHits) / float64(match.DurationMinutes())
	total := match.Kills + match.Assists
	assistShare := 0.0
	if total > 0 {
		assistShare = float64(match.Assists) / float64(total)
	}
	return match.GoldPerMin < 420 && csPerMin < 3.5 && assistShare >= 0.6
}

// shouldFlagLowPushContribution checks the subject's share of the team's
// tower damage against a role-dependent threshold. Only meaningful in games
// long enough for sieging to matter, with a team that actually hit towers.
func shouldFlagLowPushContribution(match *model.RecentMatch, player *model.PlayerDetail, teamTowerDamage int) bool {
	if match.Duration < 25*60 || teamTowerDamage < 2500 {
		return false
	}
	share := float64(match.TowerDamage) / float64(teamTowerDamage)

	laneRole := 0
	if player != nil {
		laneRole = player.LaneRole
	}
	support := isSupportLike(match, laneRole)

	var threshold float64
	switch laneRole {
	case 1:
		threshold = 0.12
	case 2:
		threshold = 0.10
	case 3:
		threshold = 0.08
	case 4, 5:
		threshold = 0.05
	default:
		if support {
			threshold = 0.05
		} else {
			threshold = 0.08
		}
	}

	if share >= threshold {
		return false
	}

	if support {
		// Supports get a pass when they carried their weight elsewhere.
		minutes := match.DurationMinutes()
		assistFloor := 6
		if minutes/2 > assistFloor {
			assistFloor = minutes / 2
		}
		return match.HeroDamage < match.Duration*200 && match.Assists < assistFloor
	}

	// Cores already flagged for a broken economy get no extra push flag.
	csPerMin := float64(match.LastHits) / float64(match.DurationMinutes())
	if match.GoldPerMin < 420 && csPerMin < 4 {
		return false
	}
	return true
}
