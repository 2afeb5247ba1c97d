package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/samdwyer/tileworld/internal/storage"
)

var (
	flagStatsLimit   int
	flagStatsBackend string
	flagStatsClear   bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded frame statistics",
	Long: `List the most recent runs with their frame timing, then a summary
per backend.

Examples:
  tileworld stats
  tileworld stats --backend terminal --limit 5`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of runs to show")
	statsCmd.Flags().StringVar(&flagStatsBackend, "backend", "", "Only show runs of this backend")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete every recorded run")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// styled reports whether stdout is a terminal worth styling.
func styled() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func render(style lipgloss.Style, s string) string {
	if !styled() {
		return s
	}
	return style.Render(s)
}

func newTable(headers ...string) *table.Table {
	t := table.New().Headers(headers...)
	if !styled() {
		return t.Border(lipgloss.HiddenBorder())
	}
	return t.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("error opening statistics database: %w", err)
	}
	defer store.Close()

	if flagStatsClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Recorded runs deleted.")
		return nil
	}

	runs, err := store.RecentRuns(flagStatsBackend, flagStatsLimit)
	if err != nil {
		return err
	}

	fmt.Println(render(titleStyle, "Recent runs"))
	if len(runs) == 0 {
		fmt.Println()
		fmt.Println("No runs recorded yet.")
		fmt.Println(render(dimStyle, "Run 'tileworld' and close the window to record one."))
		return nil
	}

	t := newTable("Date", "Backend", "Mode", "World", "Frames", "Avg frame", "Avg FPS", "Target", "Overruns")
	for _, r := range runs {
		t.Row(
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Backend,
			r.Mode,
			fmt.Sprintf("%dx%d", r.WorldWidth, r.WorldHeight),
			strconv.Itoa(r.Frames),
			r.AvgFrameTime.String(),
			fmt.Sprintf("%.1f", r.AvgFPS),
			strconv.Itoa(r.TargetFPS),
			strconv.Itoa(r.Overruns),
		)
	}
	fmt.Println(t)

	sums, err := store.Summaries()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(render(titleStyle, "By backend"))
	st := newTable("Backend", "Runs", "Frames", "Avg FPS", "Avg frame", "Last run")
	for _, s := range sums {
		st.Row(
			s.Backend,
			strconv.Itoa(s.Runs),
			strconv.FormatInt(s.Frames, 10),
			fmt.Sprintf("%.1f", s.AvgFPS),
			s.AvgFrameTime.String(),
			s.LastRun.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(st)
	return nil
}
