package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/beetlebugorg/geosvg/internal/bounds"
	"github.com/beetlebugorg/geosvg/internal/source"
)

var (
	boundsSerial  bool
	boundsWorkers int
	boundsStrict  bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"})
)

var boundsCmd = &cobra.Command{
	Use:   "bounds FILES|DIRS...",
	Short: "Show name, CRS, extent and feature count of layers",
	Long: `Scan layers in parallel and print their metadata without drawing them.
The last line is the union of all extents that share the first layer's CRS.

Directories are searched for .geojson and .json files.

Examples:
  geosvg bounds data/
  geosvg bounds --strict a.geojson b.geojson   # Stop at the first unreadable file`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBounds,
}

func init() {
	rootCmd.AddCommand(boundsCmd)

	boundsCmd.Flags().BoolVar(&boundsSerial, "serial", false, "scan one file at a time")
	boundsCmd.Flags().IntVarP(&boundsWorkers, "workers", "w", 0, "worker count (default one per CPU)")
	boundsCmd.Flags().BoolVar(&boundsStrict, "strict", false, "fail on the first unreadable file")
}

func runBounds(cmd *cobra.Command, args []string) error {
	opts := source.DefaultScanOptions()
	opts.Parallel = !boundsSerial
	if boundsWorkers > 0 {
		opts.Workers = boundsWorkers
	}
	opts.SkipErrors = !boundsStrict
	opts.ErrorLog = os.Stderr
	if verbose {
		opts.Progress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rscanned %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	paths, err := source.Discover(args)
	if err != nil {
		return err
	}
	summaries, errs := source.ScanAll(paths, source.Files{}, opts)
	if boundsStrict && len(errs) > 0 {
		return errs[0]
	}
	if len(summaries) == 0 {
		return fmt.Errorf("no readable layers among %d files", len(paths))
	}

	printSummaries(cmd.OutOrStdout(), summaries)
	return nil
}

func printSummaries(w io.Writer, summaries []source.Summary) {
	header := []string{"NAME", "CRS", "FEATURES", "BOUNDS"}
	rows := make([][]string, 0, len(summaries)+1)

	var total bounds.Partial
	for _, s := range summaries {
		crsName := s.CRS
		if crsName == "" {
			crsName = "-"
		}
		rows = append(rows, []string{s.Name, crsName, strconv.Itoa(s.Features), boxText(s.Bounds)})
		if s.CRS == summaries[0].CRS {
			total = bounds.Extend(total, s.Bounds)
		}
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], len(c))
		}
	}

	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = headerStyle.Width(widths[i] + 2).Render(h)
	}
	fmt.Fprintln(w, strings.Join(cells, ""))
	for _, r := range rows {
		fmt.Fprintln(w, row(r, widths))
	}
	if len(summaries) > 1 {
		fmt.Fprintln(w, dimStyle.Render(row([]string{"(all)", "", "", boxText(total)}, widths)))
	}
}

func row(cells []string, widths []int) string {
	var sb strings.Builder
	for i, c := range cells {
		fmt.Fprintf(&sb, "%-*s", widths[i]+2, c)
	}
	return strings.TrimRight(sb.String(), " ")
}

func boxText(p bounds.Partial) string {
	b, ok := bounds.Validate(p)
	if !ok {
		return "unknown"
	}
	return b.String()
}
