package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicoag/go-dota-insights/internal/pipeline"
	"github.com/nicoag/go-dota-insights/internal/server"
)

var (
	serveAddr       string
	serveCount      int
	serveFetchLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analyses over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&serveCount, "count", 10, "default analyses per request")
	serveCmd.Flags().IntVar(&serveFetchLimit, "fetch-limit", 20, "matches to pull per player")
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr := viper.GetString("server.addr"); addr != "" && !cmd.Flags().Changed("addr") {
		serveAddr = addr
	}

	d, err := openDeps(pipeline.Options{Count: serveCount, FetchLimit: serveFetchLimit})
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.dir.EnsureLoaded(context.Background()); err != nil {
		return fmt.Errorf("load constants: %w", err)
	}

	return server.New(d.analyzer, d.log).Run(serveAddr)
}
