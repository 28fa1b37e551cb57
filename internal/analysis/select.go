package analysis

import "github.com/nicoag/go-dota-insights/internal/model"

// Select trims a batch of analyses to the requested size. With pos1Only set
// it keeps only position-1 games, preserving order, before truncating.
func Select(analyses []*model.MatchAnalysis, desired int, pos1Only bool) []*model.MatchAnalysis {
	if desired <= 0 {
		return nil
	}
	if pos1Only {
		var filtered []*model.MatchAnalysis
		for _, a := range analyses {
			if a.Position1 {
				filtered = append(filtered, a)
			}
		}
		analyses = filtered
	}
	if len(analyses) > desired {
		analyses = analyses[:desired]
	}
	return analyses
}

// Summarize rolls a batch of analyses up into win and parse counts.
func Summarize(analyses []*model.MatchAnalysis) model.AnalysisSummary {
	s := model.AnalysisSummary{TotalMatches: len(analyses)}
	for _, a := range analyses {
		if a.Won {
			s.Wins++
		}
		if a.Parsed {
			s.ParsedMatches++
		} else {
			s.UnparsedMatches++
		}
	}
	if s.TotalMatches > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalMatches)
	}
	return s
}
