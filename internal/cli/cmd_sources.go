package cli

import (
	"github.com/spf13/cobra"

	"github.com/odysseus0/headlines/internal/opml"
)

func newSourcesCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured sources and their fallback feed URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch getOutput() {
			case OutputJSON:
				return writeJSON(out, app.cfg.Sources)
			case OutputOPML:
				return opml.WriteSources(out, app.cfg.Sources)
			default:
				writeSourcesTable(out, app.cfg.Sources)
			}
			return nil
		},
	}
}
