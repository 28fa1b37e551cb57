package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nicoag/go-dota-insights/internal/pipeline"
	"github.com/nicoag/go-dota-insights/internal/report"
)

var (
	showCacheOnly    bool
	showNoBenchmarks bool
	showJSON         bool
)

var showCmd = &cobra.Command{
	Use:   "show <account_id> <match_id>",
	Short: "Show the full analysis for one match",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showCacheOnly, "cache-only", false, "serve entirely from the local cache")
	showCmd.Flags().BoolVar(&showNoBenchmarks, "no-benchmarks", false, "skip hero benchmark comparison")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "emit JSON instead of text")
}

func runShow(cmd *cobra.Command, args []string) error {
	accountID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("account id must be an integer: %q", args[0])
	}
	matchID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("match id must be an integer: %q", args[1])
	}

	d, err := openDeps(pipeline.Options{
		Count:        1,
		CacheOnly:    showCacheOnly,
		NoBenchmarks: showNoBenchmarks,
	})
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.dir.EnsureLoaded(ctx); err != nil {
		return fmt.Errorf("load constants: %w", err)
	}

	out, err := d.analyzer.AnalyzeMatch(ctx, accountID, matchID)
	if err != nil {
		return err
	}

	if showJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	report.PrintMatchDetail(os.Stdout, out)
	return nil
}
