package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nicoag/go-dota-insights/internal/analysis"
	"github.com/nicoag/go-dota-insights/internal/pipeline"
	"github.com/nicoag/go-dota-insights/internal/report"
)

var (
	analyzeCount        int
	analyzeFetchLimit   int
	analyzePos1Only     bool
	analyzeRequestParse bool
	analyzeCacheOnly    bool
	analyzeNoBenchmarks bool
	analyzeJSON         bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <account_id>",
	Short: "Analyze a player's recent ranked matches",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeCount, "count", "n", 10, "number of analyses to show")
	analyzeCmd.Flags().IntVar(&analyzeFetchLimit, "fetch-limit", 0, "matches to pull from the history (default: count)")
	analyzeCmd.Flags().BoolVar(&analyzePos1Only, "pos1-only", false, "keep only position-1 games")
	analyzeCmd.Flags().BoolVar(&analyzeRequestParse, "request-parse", false, "ask OpenDota to parse unparsed matches")
	analyzeCmd.Flags().BoolVar(&analyzeCacheOnly, "cache-only", false, "serve entirely from the local cache")
	analyzeCmd.Flags().BoolVar(&analyzeNoBenchmarks, "no-benchmarks", false, "skip hero benchmark comparison")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit JSON instead of tables")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	accountID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("account id must be an integer: %q", args[0])
	}

	fetchLimit := analyzeFetchLimit
	if analyzePos1Only && fetchLimit == 0 {
		// Position-1 games are a fraction of the history; fetch extra.
		fetchLimit = analyzeCount * 4
	}

	d, err := openDeps(pipeline.Options{
		Count:        analyzeCount,
		FetchLimit:   fetchLimit,
		Pos1Only:     analyzePos1Only,
		RequestParse: analyzeRequestParse,
		CacheOnly:    analyzeCacheOnly,
		NoBenchmarks: analyzeNoBenchmarks,
	})
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.dir.EnsureLoaded(ctx); err != nil {
		return fmt.Errorf("load constants: %w", err)
	}

	analyses, err := d.analyzer.AnalyzeRecent(ctx, accountID)
	if err != nil {
		return err
	}
	if len(analyses) == 0 {
		fmt.Fprintln(os.Stdout, "No matches to analyze.")
		return nil
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analyses)
	}

	report.PrintSummary(os.Stdout, analysis.Summarize(analyses))
	report.PrintMatchTable(analyses)
	fmt.Fprintf(os.Stdout, "\nRun 'dotainsights show %d <match_id>' for a full breakdown.\n", accountID)
	return nil
}
