package cli

import (
	"coverage/storage"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCommand(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report for the latest stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.Latest(cmd.Context())
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no snapshot for keyword %q, run \"coverage analyze --save\" first", opts.cfg.API.Keyword)
			}
			if err != nil {
				return fmt.Errorf("failed to load snapshot: %w", err)
			}
			return opts.print(cmd, a.Analyze(c), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
