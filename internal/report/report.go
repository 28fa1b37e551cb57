// Package report renders analyses for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/nicoag/go-dota-insights/internal/model"
)

var (
	win  = color.New(color.FgGreen).SprintFunc()
	loss = color.New(color.FgRed).SprintFunc()
	head = color.New(color.Bold).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

// PrintSummary prints the batch roll-up header.
func PrintSummary(w io.Writer, s model.AnalysisSummary) {
	fmt.Fprintf(w, "\nMatches: %d  |  Wins: %d  |  Win rate: %.0f%%  |  Parsed: %d/%d\n\n",
		s.TotalMatches, s.Wins, s.WinRate*100, s.ParsedMatches, s.TotalMatches)
}

// PrintMatchTable prints the per-match overview table to stdout.
func PrintMatchTable(analyses []*model.MatchAnalysis) {
	PrintMatchTableTo(os.Stdout, analyses)
}

// PrintMatchTableTo writes the overview table to the provided writer.
func PrintMatchTableTo(w io.Writer, analyses []*model.MatchAnalysis) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("MATCH", "HERO", "RESULT", "KDA", "GPM/XPM", "LANE", "RATING", "POS1")

	for _, a := range analyses {
		result := a.Result
		if a.Won {
			result = win(result)
		} else {
			result = loss(result)
		}
		kda := "-"
		for _, s := range a.Statistics {
			if s.Label == "KDA" {
				kda = s.Value
			}
		}
		gpmXPM := "-"
		for _, s := range a.Statistics {
			if s.Label == "GPM/XPM" {
				gpmXPM = s.Value
			}
		}
		pos1 := ""
		if a.Position1 {
			pos1 = "yes"
		}
		table.Append(
			strconv.FormatInt(a.MatchID, 10),
			a.HeroName,
			result,
			kda,
			gpmXPM,
			laneSummary(a),
			a.PerformanceRating,
			pos1,
		)
	}
	table.Render()
}

// laneSummary compresses the lane result for the overview column.
func laneSummary(a *model.MatchAnalysis) string {
	if !a.Parsed {
		return "unparsed"
	}
	if i := strings.Index(a.LaneResult, " ("); i > 0 {
		return a.LaneResult[:i]
	}
	return a.LaneResult
}

// PrintMatchDetail prints the full analysis for one match.
func PrintMatchDetail(w io.Writer, a *model.MatchAnalysis) {
	result := a.Result
	if a.Won {
		result = win(result)
	} else {
		result = loss(result)
	}
	fmt.Fprintf(w, "\n%s  %s  (match %d)\n", head(a.HeroName), result, a.MatchID)
	if a.PickRound != "unknown" {
		fmt.Fprintf(w, "Drafted in %s (pick %d)\n", a.PickRound, a.PickIndex)
	}
	fmt.Fprintf(w, "Performance: %s\n\n", a.PerformanceRating)

	for _, s := range a.Statistics {
		fmt.Fprintf(w, "  %-10s %s\n", s.Label, s.Value)
	}

	fmt.Fprintf(w, "\n%s\n", head("Laning"))
	fmt.Fprintf(w, "  Result: %s\n", a.LaneResult)
	for _, line := range a.LaningDetails {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if len(a.BenchmarkNotes) > 0 {
		fmt.Fprintf(w, "\n%s\n", head("Benchmarks"))
		for _, note := range a.BenchmarkNotes {
			fmt.Fprintf(w, "  %s\n", note)
		}
	}

	fmt.Fprintf(w, "\n%s\n", head("Mistakes"))
	for i, m := range a.Mistakes {
		fmt.Fprintf(w, "  - %s\n", m)
		if i < len(a.Suggestions) {
			fmt.Fprintf(w, "    %s\n", dim(a.Suggestions[i]))
		}
	}

	if len(a.InventoryTimeline) > 0 {
		last := a.InventoryTimeline[len(a.InventoryTimeline)-1]
		names := make([]string, 0, len(last.Items))
		for _, it := range last.Items {
			names = append(names, it.Name)
		}
		fmt.Fprintf(w, "\n%s\n  %s\n", head("Final items"), strings.Join(names, ", "))
	}
	fmt.Fprintln(w)
}
