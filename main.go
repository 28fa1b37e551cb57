// Package main is the entry point for the dotainsights CLI tool, which fetches
// Dota 2 match data from OpenDota and produces per-match performance analyses.
package main

import "github.com/nicoag/go-dota-insights/cmd"

func main() {
	cmd.Execute()
}
