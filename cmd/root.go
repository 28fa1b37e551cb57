package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicoag/go-dota-insights/internal/constants"
	"github.com/nicoag/go-dota-insights/internal/opendota"
	"github.com/nicoag/go-dota-insights/internal/pipeline"
	"github.com/nicoag/go-dota-insights/internal/storage"
)

var (
	cachePath string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "dotainsights",
	Short: "Dota 2 post-match analysis tool",
	Long:  "Fetch a player's recent matches from OpenDota and break down laning, farm, drafting, and mistakes.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaultCache := filepath.Join(mustUserHome(), ".dotainsights", "cache.db")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", defaultCache, "path to SQLite response cache")
	rootCmd.PersistentFlags().String("api-key", "", "OpenDota API key (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key"))

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(serveCmd)
}

// initConfig reads ~/.dotainsights/config.yaml and DOTAINSIGHTS_* env vars.
func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join(mustUserHome(), ".dotainsights"))
	viper.SetEnvPrefix("dotainsights")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		}
	}
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// newLogger builds the shared logger.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// deps is the wired dependency set shared by the subcommands.
type deps struct {
	log      *logrus.Logger
	client   *opendota.Client
	cache    *storage.Cache
	dir      *constants.Directory
	analyzer *pipeline.Analyzer
}

// openDeps wires the client, cache, constants directory, and pipeline.
func openDeps(opts pipeline.Options) (*deps, error) {
	log := newLogger()

	if v := viper.GetString("cache.path"); v != "" && !rootCmd.PersistentFlags().Changed("cache") {
		cachePath = v
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	cache, err := storage.Open(cachePath)
	if err != nil {
		return nil, err
	}

	client := opendota.NewClient(viper.GetString("api_key"), log)
	if base := viper.GetString("api.base_url"); base != "" {
		client.WithBaseURL(base)
	}
	dir := constants.NewDirectory(client, cache, log, opts.CacheOnly)
	analyzer := pipeline.New(client, cache, dir, log, opts)

	return &deps{log: log, client: client, cache: cache, dir: dir, analyzer: analyzer}, nil
}

// Close releases the cache handle.
func (d *deps) Close() {
	d.cache.Close()
}
