package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/popcon/pkg/chart"
)

// rankOpts holds the command-line flags for the rank command.
type rankOpts struct {
	chartFlags
	limit       int
	interactive bool
}

// rankCommand creates the rank command.
func (c *CLI) rankCommand() *cobra.Command {
	var opts rankOpts

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "List packages in legend order",
		Long: `List the packages of the chart in legend order: by their most recent
value, highest first, with the color each one is drawn in.`,
		Example: `  popcon rank -d stats --limit 10
  popcon rank --percent --interactive`,
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

			m, err := runner.Model(cmd.Context(), po)
			if err != nil {
				return err
			}
			entries := rankEntries(m, opts.limit)

			if opts.interactive {
				model := NewRankListModel(entries, m.Percent, len(m.Dataset.Days))
				_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rankTable(entries, m.Percent, 0, -1))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "show at most N packages (0 for all)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the ranking interactively")
	addChartFlags(cmd, &opts.chartFlags)

	return cmd
}

// rankEntries lists the ranked packages of m, at most limit when limit > 0.
func rankEntries(m *chart.Model, limit int) []RankEntry {
	n := len(m.Order)
	if limit > 0 && limit < n {
		n = limit
	}
	entries := make([]RankEntry, n)
	for rank := range n {
		name := m.Order[rank]
		entries[rank] = RankEntry{
			Rank:  rank,
			Name:  name,
			Last:  m.Last[name],
			Color: "#" + m.Hex(rank),
			Days:  m.Series(rank).PresentCount(),
		}
	}
	return entries
}
