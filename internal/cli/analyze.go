package cli

import (
	"coverage/internal/analysis"
	"coverage/internal/report"
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCommand(opts *options) *cobra.Command {
	var (
		asJSON bool
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Collect articles from the API and print the coverage report",
		Long: `Collect every page of search results for the configured keyword,
flatten them into a table and print the coverage report.

With --save the collected table is stored as a snapshot in PostgreSQL
(database.enabled must be true) so that "coverage report" and
"coverage serve --from-snapshot" can reuse it without calling the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.Collect(cmd.Context())
			if err != nil {
				return fmt.Errorf("collection failed: %w", err)
			}
			rep := a.Analyze(c)
			if err := opts.print(cmd, rep, asJSON); err != nil {
				return err
			}
			if save {
				id, err := a.Save(cmd.Context(), c)
				if err != nil {
					return fmt.Errorf("failed to save snapshot: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot saved: %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "store the collected table as a snapshot")
	return cmd
}

func (o *options) print(cmd *cobra.Command, rep *analysis.Report, asJSON bool) error {
	if asJSON {
		return report.WriteJSON(cmd.OutOrStdout(), rep)
	}
	return o.renderer(cmd).Render(rep)
}
