package analysis

import (
	"strings"
	"testing"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// cleanMatch builds a match no mistake rule fires on.
func cleanMatch() model.RecentMatch {
	return model.RecentMatch{
		Duration:    2400,
		Kills:       8,
		Deaths:      3,
		Assists:     10,
		LastHits:    240, // 6 CS/min
		GoldPerMin:  520,
		XPPerMin:    600,
		HeroDamage:  2400 * 301,
		TowerDamage: 3000,
	}
}

func TestDetectMistakes_DefaultPair(t *testing.T) {
	match := cleanMatch()
	mistakes, suggestions := detectMistakes(&match, nil, nil, 0, laningContext{}, 0)

	if len(mistakes) != 1 || mistakes[0] != "No major mistakes spotted" {
		t.Errorf("mistakes = %v, want single default", mistakes)
	}
	if len(suggestions) != 1 || suggestions[0] != "Keep the current pace and decision-making" {
		t.Errorf("suggestions = %v, want single default", suggestions)
	}
}

func TestDetectMistakes_LostLaneEconomy(t *testing.T) {
	match := cleanMatch()
	match.GoldPerMin = 400
	match.Duration = 1800
	match.LastHits = 180 // keep CS/min at 6 so the low-farm rules stay quiet
	match.HeroDamage = 1800 * 301

	mistakes, suggestions := detectMistakes(&match, nil, nil, -800, laningContext{}, 0)

	if len(mistakes) != 1 {
		t.Fatalf("mistakes = %v, want exactly the economy flag", mistakes)
	}
	if mistakes[0] != "Economy stayed behind after losing the lane" {
		t.Errorf("mistake = %q", mistakes[0])
	}
	if len(suggestions) != 1 || !strings.Contains(suggestions[0], "Rotate earlier") {
		t.Errorf("suggestions = %v", suggestions)
	}
}

func TestDetectMistakes_EarlyCollapseEmbedsDiff(t *testing.T) {
	match := cleanMatch()
	ctx := laningContext{netWorthDiff5: -350, netWorthDiff10: -700}

	mistakes, _ := detectMistakes(&match, nil, nil, 0, ctx, 0)

	found := false
	for _, m := range mistakes {
		if strings.Contains(m, "net worth -350 at 5 min") {
			found = true
		}
	}
	if !found {
		t.Errorf("mistakes = %v, want the early-collapse flag with the 5-min diff", mistakes)
	}
}

func TestDetectMistakes_ThrownLead(t *testing.T) {
	match := cleanMatch()
	ctx := laningContext{netWorthDiff5: 400, netWorthDiff10: -300}

	mistakes, _ := detectMistakes(&match, nil, nil, 0, ctx, 0)
	if !containsLine(mistakes, "Threw away an early lane lead between 5 and 10 min") {
		t.Errorf("mistakes = %v, want the thrown-lead flag", mistakes)
	}
}

func TestDetectMistakes_FarmAndXPGap(t *testing.T) {
	match := cleanMatch()
	ctx := laningContext{lastHitsDiff10: -8, xpDiff10: -400}

	mistakes, _ := detectMistakes(&match, nil, nil, 0, ctx, 0)
	if !containsLine(mistakes, "Lost the farm and experience battle in lane") {
		t.Errorf("mistakes = %v, want the farm/xp flag", mistakes)
	}
}

func TestDetectMistakes_FeedingWithLowFarm(t *testing.T) {
	match := cleanMatch()
	match.Deaths = 6
	match.LastHits = 120 // 3 CS/min

	mistakes, _ := detectMistakes(&match, nil, nil, 0, laningContext{}, 0)
	if !containsLine(mistakes, "Died 6 times with low farm (3.0 CS/min)") {
		t.Errorf("mistakes = %v, want the feeding flag", mistakes)
	}
}

func TestDetectMistakes_LowHeroDamage(t *testing.T) {
	match := cleanMatch()
	match.HeroDamage = match.Duration*300 - 1

	mistakes, _ := detectMistakes(&match, nil, nil, 0, laningContext{}, 0)
	if !containsLine(mistakes, "Low hero damage for the match length") {
		t.Errorf("mistakes = %v, want the low-damage flag", mistakes)
	}
}

func TestDetectMistakes_LateBKBAgainstDisablers(t *testing.T) {
	match := cleanMatch()
	player := &model.PlayerDetail{
		PurchaseLog: []model.PurchaseLogEntry{
			{Time: 900, Key: "power_treads"},
			{Time: 1620, Key: "black_king_bar"}, // minute 27
		},
	}
	enemies := []string{"Lion", "Earthshaker", "Anti-Mage"}

	mistakes, _ := detectMistakes(&match, player, enemies, 0, laningContext{}, 0)
	if !containsLine(mistakes, "BKB came online late (minute 27) against multiple disablers") {
		t.Errorf("mistakes = %v, want the late-BKB flag", mistakes)
	}

	// One disabler is not enough.
	mistakes, _ = detectMistakes(&match, player, []string{"Lion", "Anti-Mage"}, 0, laningContext{}, 0)
	if containsLine(mistakes, "BKB came online late (minute 27) against multiple disablers") {
		t.Error("single disabler should not trigger the BKB flag")
	}
}

func TestShouldFlagLowPushContribution(t *testing.T) {
	match := cleanMatch()
	match.TowerDamage = 100

	player := &model.PlayerDetail{LaneRole: 1}
	if !shouldFlagLowPushContribution(&match, player, 10000) {
		t.Error("1% share as a carry should be flagged")
	}

	// Short games never flag.
	short := match
	short.Duration = 1499
	if shouldFlagLowPushContribution(&short, player, 10000) {
		t.Error("games under 25 min should not be flagged")
	}

	// A team that never sieged never flags.
	if shouldFlagLowPushContribution(&match, player, 2000) {
		t.Error("team tower damage under 2500 should not be flagged")
	}

	// Supports with fight impact get a pass.
	support := cleanMatch()
	support.TowerDamage = 100
	support.GoldPerMin = 300
	support.Assists = 25
	supportPlayer := &model.PlayerDetail{LaneRole: 5}
	if shouldFlagLowPushContribution(&support, supportPlayer, 10000) {
		t.Error("high-assist support should not be flagged")
	}

	// Supports with neither damage nor assists are flagged.
	idle := support
	idle.Assists = 3
	idle.HeroDamage = 1000
	if !shouldFlagLowPushContribution(&idle, supportPlayer, 10000) {
		t.Error("idle support should be flagged")
	}
}

func TestIsSupportLike(t *testing.T) {
	match := cleanMatch()
	if isSupportLike(&match, 1) {
		t.Error("farming core should not look support-like")
	}
	if !isSupportLike(&match, 5) {
		t.Error("explicit role 5 is always support-like")
	}

	statProfile := model.RecentMatch{
		Duration:   2400,
		GoldPerMin: 300,
		LastHits:   60, // 1.5 CS/min
		Kills:      2,
		Assists:    18,
	}
	if !isSupportLike(&statProfile, 0) {
		t.Error("low farm with high assist share should look support-like")
	}

	statProfile.Assists = 2
	statProfile.Kills = 8
	if isSupportLike(&statProfile, 0) {
		t.Error("low assist share should not look support-like")
	}
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
