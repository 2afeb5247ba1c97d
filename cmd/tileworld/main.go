// tileworld draws an autotiled 2D world through a scrolling, zoomable
// viewport, in a desktop window or in the terminal.
//
// Usage:
//
//	tileworld [run]        - Open the world (default)
//	tileworld stats        - Show recorded frame statistics
//	tileworld atlas        - Inspect the tile sheets
//
// Global flags:
//
//	--config <path>  - Config file (default: search ~/.tileworld, ./configs)
//	--sprites <dir>  - Tile sheet directory
//	--db <path>      - Run statistics database
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig  string
	flagSprites string
	flagDBPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tileworld",
	Short: "Autotiled world renderer",
	Long: `tileworld fills a grid with dirt, grass and sky, picks each tile's
sprite from its four neighbors and draws the result through a viewport.

Examples:
  tileworld
  tileworld run --backend terminal --zoom 2
  tileworld stats
  tileworld atlas --sprites ./sprites`,
	SilenceUsage: true,
	RunE:         runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagSprites, "sprites", "", "Directory holding Tile_<Kind>.png sheets")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run statistics database")

	addRunFlags(rootCmd)
	addRunFlags(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(atlasCmd)
}
