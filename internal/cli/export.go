package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popcon/pkg/chart"
	"github.com/matzehuels/popcon/pkg/export"
	"github.com/matzehuels/popcon/pkg/series"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	chartFlags
	output string
	format string
	points int
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the loaded series as JSON or Parquet rows",
		Long: `Export every present value of the loaded dataset as one row of
(date, package, value, rank), ordered by date and then by rank.`,
		Example: `  popcon export -o popcon.parquet
  popcon export -f json --points 100 -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			po, err := c.chartOptions(cmd, &opts.chartFlags)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			ds, err := runner.LoadDataset(cmd.Context(), po)
			if err != nil {
				return err
			}
			if opts.points > 0 {
				ds = series.Resample(ds, opts.points)
			}
			noiseFloor := po.NoiseFloor
			if noiseFloor == 0 {
				noiseFloor = series.DefaultNoiseFloor
			}
			m, err := chart.Build(ds, noiseFloor)
			if err != nil {
				return err
			}
			rows := export.Rows(ds, m.Order)

			if err := writeExport(cmd.OutOrStdout(), opts.output, opts.format, rows); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Exported %d rows", len(rows)))
			if opts.output != "-" {
				printFile(exportPath(opts.output, opts.format))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default popcon.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", export.FormatParquet, "export format: json, parquet")
	cmd.Flags().IntVar(&opts.points, "points", 0, "downsample to N days (0 keeps every day)")
	addChartFlags(cmd, &opts.chartFlags)

	return cmd
}

// exportPath returns the file an export is written to.
func exportPath(output, format string) string {
	if output == "" {
		return appName + "." + format
	}
	return output
}

// writeExport writes rows to stdout when output is "-", or to a file.
func writeExport(stdout io.Writer, output, format string, rows []export.Row) error {
	if output == "-" {
		return export.Write(stdout, format, rows)
	}

	path := exportPath(output, format)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := export.Write(w, format, rows); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
