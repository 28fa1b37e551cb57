package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nicoag/go-dota-insights/internal/pipeline"
)

var refreshLimit int

var refreshCmd = &cobra.Command{
	Use:   "refresh <account_id>",
	Short: "Warm the local cache for a player",
	Long:  "Refetch the constants directories and the player's match history so later runs can use --cache-only.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefresh,
}

func init() {
	refreshCmd.Flags().IntVar(&refreshLimit, "limit", 50, "matches to prefetch")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	accountID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("account id must be an integer: %q", args[0])
	}

	d, err := openDeps(pipeline.Options{Count: refreshLimit, FetchLimit: refreshLimit})
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
	fmt.Fprintf(os.Stdout, "Cached %d matches for account %d.\n", len(analyses), accountID)
	return nil
}
