package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popcon/internal/config"
	"github.com/matzehuels/popcon/internal/server"
	"github.com/matzehuels/popcon/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	chartFlags
	addr string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts over HTTP",
		Long: `Serve the chart page, the raster chart, the remote chart URL and the
chart model over HTTP. Charts are re-rendered when a new snapshot appears
in the data directory.`,
		Example: `  popcon serve -d stats --addr :8080
  curl 'http://localhost:8080/graph.png?size=800x600&percent=true'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			po, err := c.chartOptions(cmd, &opts.chartFlags)
			if err != nil {
				return err
			}
			addr := opts.addr
			if !cmd.Flags().Changed("addr") && c.config().Server.Addr != "" {
				addr = c.config().Server.Addr
			}

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			runner, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Serving %s", StyleLink.Render(publicURL(c.config().Server.BaseURL, addr)))
			return server.New(runner, po, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", config.DefaultAddr, "listen address")
	addChartFlags(cmd, &opts.chartFlags)

	return cmd
}

// publicURL returns the URL the page is reachable at: base when set,
// otherwise derived from the listen address.
func publicURL(base, addr string) string {
	if base != "" {
		return strings.TrimSuffix(base, "/") + "/"
	}
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host + "/"
}
