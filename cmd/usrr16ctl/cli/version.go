package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X github.com/arloliu/go-usrr16/cmd/usrr16ctl/cli.version=x.y.z"
var version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the usrr16ctl version",
		Args:  cobra.NoArgs,
		// the version does not need a config file
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "usrr16ctl version %s\n", version)
		},
	}
}
