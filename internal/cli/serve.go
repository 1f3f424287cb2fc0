package cli

import (
	"github.com/spf13/cobra"
)

func newServeCommand(opts *options) *cobra.Command {
	var (
		fromSnapshot bool
		address      string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report, articles and term counts over HTTP",
		Long: `Load the dataset once (from the API, or from the latest snapshot with
--from-snapshot) and serve it read-only:

  GET /api/report     full coverage report
  GET /api/articles   flattened records (?limit=N)
  GET /api/terms      headline terms (?k=N&year=YYYY&months=2,3,4)
  GET /api/health     readiness
  GET /metrics        Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				opts.cfg.Server.Address = address
			}
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context(), fromSnapshot)
		},
	}
	cmd.Flags().BoolVar(&fromSnapshot, "from-snapshot", false, "load the latest stored snapshot instead of calling the API")
	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides server.address)")
	return cmd
}
