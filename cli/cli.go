package cli

import (
	"github.com/spf13/cobra"
)

const VERSION = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "simple-ledger",
		Short:        "Proof-of-work ledger node with longest valid chain consensus",
		SilenceUsage: true,
	}
	root.AddCommand(newNodeCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("simple-ledger %s\n", VERSION)
		},
	}
}

func Run() error {
	return newRootCmd().Execute()
}
