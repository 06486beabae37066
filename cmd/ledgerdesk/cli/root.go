package cli

import "github.com/spf13/cobra"

// NewRootCommand assembles the ledgerdesk CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerdesk",
		Short:         "LedgerDesk bookkeeping dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newAccessCommand())
	root.AddCommand(newJobsCommand())
	return root
}
