package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popcon/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chartFlags
	output string // output file path, "-" for stdout
	format string // png or json
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the popularity chart to a PNG or JSON file",
		Long: `Render the popularity chart of the snapshot directory.

The chart plots every package of the latest snapshot on a logarithmic scale,
ranked by its most recent value, with a decade grid and a legend.`,
		Example: `  popcon render -d stats -o popcon.png
  popcon render --percent --width 1600 --height 900
  popcon render -f json -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			po, err := c.chartOptions(cmd, &opts.chartFlags)
			if err != nil {
				return err
			}
			po.Format = opts.format
			if po.Format != pipeline.FormatPNG && po.Format != pipeline.FormatJSON {
				return fmt.Errorf("invalid format: %q (must be png or json)", po.Format)
			}
			return c.runRender(cmd, po, opts.output, opts.noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default popcon.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatPNG, "output format: png, json")
	addChartFlags(cmd, &opts.chartFlags)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts pipeline.Options, output string, noCache bool) error {
	result, err := c.execute(cmd, opts, noCache, "Rendering chart...")
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := cmd.OutOrStdout().Write(result.Artifact)
		return err
	}
	if output == "" {
		output = appName + "." + opts.Format
	}
	if err := os.WriteFile(output, result.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered chart")
	printStats(result.Stats.Snapshots, result.Stats.Packages, result.CacheInfo.ChartHit)
	printFile(output)
	printNextStep("Serve it live", appName+" serve -d "+opts.DataDir)
	return nil
}

// urlCommand creates the url command.
func (c *CLI) urlCommand() *cobra.Command {
	var opts chartFlags

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the remote chart service URL of the chart",
		Long: `Print a URL that makes the remote chart service draw the chart.

The series are encoded with the simple (1) or extended (2) symbol alphabet
and the y axis is placed around a reference value so that its gridlines
land on decades.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			po, err := c.chartOptions(cmd, &opts)
			if err != nil {
				return err
			}
			po.Format = pipeline.FormatURL
			result, err := c.execute(cmd, po, opts.noCache, "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(result.Artifact))
			return nil
		},
	}

	addChartFlags(cmd, &opts)
	return cmd
}

// execute runs the pipeline, showing a spinner when message is not empty.
func (c *CLI) execute(cmd *cobra.Command, opts pipeline.Options, noCache bool, message string) (*pipeline.Result, error) {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	var spinner *Spinner
	if message != "" {
		spinner = newSpinner(ctx, cmd.ErrOrStderr(), message)
		spinner.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Render failed")
		} else {
			spinner.Stop()
		}
	}
	return result, err
}
