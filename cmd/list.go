package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nicoag/go-dota-insights/internal/pipeline"
)

var listCount int

var listCmd = &cobra.Command{
	Use:   "list <account_id>",
	Short: "List a player's recent ranked matches without full analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVarP(&listCount, "count", "n", 20, "number of matches to list")
}

func runList(cmd *cobra.Command, args []string) error {
	accountID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("account id must be an integer: %q", args[0])
	}

	d, err := openDeps(pipeline.Options{Count: listCount, NoBenchmarks: true})
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	if err := d.dir.EnsureLoaded(ctx); err != nil {
		return fmt.Errorf("load constants: %w", err)
	}

	matches, err := d.client.RecentMatches(ctx, accountID, listCount)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No ranked matches found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-7s  %-8s  %-9s  %s\n",
		"MATCH", "HERO", "RESULT", "KDA", "GPM/XPM", "DURATION")
	for _, m := range matches {
		result := "Defeat"
		if m.Won() {
			result = "Victory"
		}
		fmt.Fprintf(os.Stdout, "%-12d  %-20s  %-7s  %-8s  %-9s  %d:%02d\n",
			m.MatchID,
			d.dir.HeroName(m.HeroID),
			result,
			fmt.Sprintf("%d/%d/%d", m.Kills, m.Deaths, m.Assists),
			fmt.Sprintf("%d/%d", m.GoldPerMin, m.XPPerMin),
			m.Duration/60, m.Duration%60)
	}
	return nil
}
