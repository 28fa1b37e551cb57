package analysis

import (
	"fmt"
	"sort"

	"github.com/nicoag/go-dota-insights/internal/model"
)

// Resolver maps game constants to display data. The constants directory
// implements it; tests use a small fake.
type Resolver interface {
	HeroName(id int) string
	HeroKey(id int) string
	ItemByKey(key string) (model.ItemConstants, bool)
	ItemKeyByID(id int) (string, bool)
}

// winRateResolver is implemented by resolvers that also know pro win rates.
type winRateResolver interface {
	HeroWinRate(id int) (float64, bool)
}

// Analyze builds the full analysis for one of the subject's matches. detail
// and bench may be nil; the analysis degrades to aggregate stats in that
// case and never errors.
func Analyze(match model.RecentMatch, detail *model.MatchDetail, accountID int64, bench *model.Benchmarks, dir Resolver) *model.MatchAnalysis {
	out := &model.MatchAnalysis{
		MatchID:  match.MatchID,
		HeroID:   match.HeroID,
		HeroName: dir.HeroName(match.HeroID),
		Won:      match.Won(),
		LaneRole: -1,
	}
	if out.Won {
		out.Result = "Victory"
	} else {
		out.Result = "Defeat"
	}

	out.Statistics = buildStatistics(&match)
	out.PerformanceRating = ratePerformance(&match)

	player := findPlayer(detail, accountID, match.PlayerSlot)
	if detail == nil || player == nil {
		return fillUnparsed(out, &match, bench)
	}
	out.Parsed = true

	if player.LaneRole > 0 {
		out.LaneRole = player.LaneRole
	}

	isRadiant := match.IsRadiant()
	summary := analyzeLaning(player, detail, isRadiant, dir)
	out.LaneResult = summary.result
	out.LaneNetWorthDiff10 = summary.netWorthDiff
	out.LaneOpponentHero = summary.opponentHero
	out.LaneOpponentHeroID = summary.opponentHeroID
	out.LaneAllyHeroes = summary.allyHeroes
	out.LaneEnemyHeroes = summary.enemyHeroes
	out.LaneAllyHeroIDs = summary.allyHeroIDs
	out.LaneEnemyHeroIDs = summary.enemyHeroIDs
	out.LaneMatchup = summary.matchup
	out.LaneKills = summary.laneKills
	out.LaneDeaths = summary.laneDeaths
	out.PlayerDenies10 = summary.playerDenies10
	out.EnemyDenies10 = summary.enemyDenies10
	out.LaningDetails = summary.details
	out.BenchmarkNotes = append(out.BenchmarkNotes, summary.benchmarkNotes...)
	out.BenchmarkNotes = append(out.BenchmarkNotes, buildBenchmarkNotes(&match, bench)...)
	if note, ok := proWinRateNote(dir, match.HeroID, out.HeroName); ok {
		out.BenchmarkNotes = append(out.BenchmarkNotes, note)
	}

	teamTowerDamage := 0
	for i := range detail.Players {
		p := &detail.Players[i]
		if p.IsRadiant() == isRadiant {
			teamTowerDamage += p.TowerDamage
			if p.PlayerSlot != player.PlayerSlot {
				out.AllyHeroes = append(out.AllyHeroes, dir.HeroName(p.HeroID))
				out.AllyHeroIDs = append(out.AllyHeroIDs, p.HeroID)
			}
		} else {
			out.EnemyHeroes = append(out.EnemyHeroes, dir.HeroName(p.HeroID))
			out.EnemyHeroIDs = append(out.EnemyHeroIDs, p.HeroID)
		}
	}

	out.Mistakes, out.Suggestions = detectMistakes(
		&match, player, out.EnemyHeroes, summary.netWorthDiff, summary.ctx, teamTowerDamage)

	team := make([]TeamEntry, 0, len(detail.Players))
	for i := range detail.Players {
		p := &detail.Players[i]
		id := int64(0)
		if p.AccountID != nil {
			id = *p.AccountID
		}
		team = append(team, TeamEntry{
			AccountID:  id,
			PlayerSlot: p.PlayerSlot,
			GoldPerMin: p.GoldPerMin,
			LastHits:   p.LastHits,
		})
	}
	out.Position1 = IsPosition1(
		player.LaneRole, match.PlayerSlot, match.Duration,
		match.GoldPerMin, match.LastHits, accountID, team)

	out.PickRound, out.PickIndex = pickRound(detail.PicksBans, match.HeroID, isRadiant)
	out.InventoryTimeline = BuildInventoryTimeline(player, detail.Duration, dir)

	return out
}

// AnalyzeUnparsed analyzes a match known to lack detailed player data.
// Equivalent to Analyze with a nil detail.
func AnalyzeUnparsed(match model.RecentMatch, dir Resolver) *model.MatchAnalysis {
	return Analyze(match, nil, 0, nil, dir)
}

// fillUnparsed sets the placeholder fields for a match without detailed
// player data. Lane and draft facts stay unknown; aggregate stats and the
// overall benchmark notes still apply.
func fillUnparsed(out *model.MatchAnalysis, match *model.RecentMatch, bench *model.Benchmarks) *model.MatchAnalysis {
	out.Parsed = false
	out.LaneResult = "unknown (match not parsed)"
	out.LaneOpponentHero = "unknown"
	out.LaneMatchup = "unknown"
	out.PickRound = "unknown"
	out.PickIndex = -1
	out.LaningDetails = []string{"No parsed data for this match; request a parse to unlock lane analysis"}
	out.BenchmarkNotes = append(out.BenchmarkNotes, buildBenchmarkNotes(match, bench)...)
	out.Mistakes = []string{"No major mistakes spotted"}
	out.Suggestions = []string{"Keep the current pace and decision-making"}
	return out
}

// proWinRateNote adds context from pro pick data when the resolver carries
// it.
func proWinRateNote(dir Resolver, heroID int, heroName string) (string, bool) {
	wr, ok := dir.(winRateResolver)
	if !ok {
		return "", false
	}
	rate, known := wr.HeroWinRate(heroID)
	if !known {
		return "", false
	}
	return fmt.Sprintf("Pro win rate on %s: %.0f%%", heroName, rate*100), true
}

// findPlayer locates the subject's roster entry by account id, falling back
// to the player slot for anonymous accounts.
func findPlayer(detail *model.MatchDetail, accountID int64, playerSlot int) *model.PlayerDetail {
	if detail == nil {
		return nil
	}
	for i := range detail.Players {
		p := &detail.Players[i]
		if p.AccountID != nil && *p.AccountID == accountID {
			return p
		}
	}
	for i := range detail.Players {
		p := &detail.Players[i]
		if p.PlayerSlot == playerSlot {
			return p
		}
	}
	return nil
}

// pickRound locates the subject's pick in the draft and maps its order to a
// pick round. Returns ("unknown", -1) when the draft log is missing or does
// not contain the pick.
func pickRound(picksBans []model.PickBan, heroID int, isRadiant bool) (string, int) {
	var picks []model.PickBan
	for _, pb := range picksBans {
		if pb.IsPick {
			picks = append(picks, pb)
		}
	}
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Order < picks[j].Order })

	team := 1
	if isRadiant {
		team = 0
	}
	for idx, pick := range picks {
		if pick.HeroID != heroID || pick.Team != team {
			continue
		}
		switch {
		case idx <= 1:
			return "round 1", idx + 1
		case idx <= 5:
			return "round 2", idx + 1
		default:
			return "round 3", idx + 1
		}
	}
	return "unknown", -1
}

// ratePerformance scores the match on KDA, farm, and hero damage.
func ratePerformance(match *model.RecentMatch) string {
	deaths := match.Deaths
	if deaths < 1 {
		deaths = 1
	}
	kda := float64(match.Kills+match.Assists) / float64(deaths)
	csPerMin := float64(match.LastHits) / float64(match.DurationMinutes())

	score := 0
	switch {
	case kda >= 3:
		score += 2
	case kda >= 2:
		score++
	}
	switch {
	case csPerMin >= 6:
		score += 2
	case csPerMin >= 4:
		score++
	}
	if match.HeroDamage > match.Duration*350 {
		score++
	}

	switch {
	case score >= 4:
		return "excellent"
	case score >= 2:
		return "good"
	default:
		return "needs improvement"
	}
}

// buildStatistics assembles the ordered stat block shown in reports.
func buildStatistics(match *model.RecentMatch) []model.StatLine {
	return []model.StatLine{
		{Label: "KDA", Value: fmt.Sprintf("%d/%d/%d", match.Kills, match.Deaths, match.Assists)},
		{Label: "LH/DN", Value: fmt.Sprintf("%d/%d", match.LastHits, match.Denies)},
		{Label: "GPM/XPM", Value: fmt.Sprintf("%d/%d", match.GoldPerMin, match.XPPerMin)},
		{Label: "Duration", Value: fmt.Sprintf("%d:%02d", match.Duration/60, match.Duration%60)},
		{Label: "Level", Value: fmt.Sprintf("%d", match.Level)},
	}
}
