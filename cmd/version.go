package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/p4x/internal/buildinfo"
	"github.com/thiagokokada/p4x/internal/p4/backend"
)

// versioner is implemented by backends able to report the p4 revision.
type versioner interface {
	Version() (backend.Version, error)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the p4x version and the p4 revision in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "p4x %s\n", buildinfo.String())
			be, err := a.env.openBackend(a.cfg)
			if err != nil {
				fmt.Fprintf(out, "p4  unavailable: %v\n", err)
				return nil
			}
			if v, ok := be.(versioner); ok {
				ver, err := v.Version()
				if err != nil {
					fmt.Fprintf(out, "p4  unavailable: %v\n", err)
					return nil
				}
				fmt.Fprintf(out, "p4  %s\n", ver)
			}
			return nil
		},
	}
}
