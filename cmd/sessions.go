package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List cached sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			rows, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tCLIENT\tUSER\tUPDATED")
			for _, row := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					row.Key,
					orDash(row.ClientInfo.ClientName),
					orDash(row.ClientInfo.UserName),
					row.UpdatedAt.Local().Format(time.DateTime),
				)
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(newSessionsPruneCmd(a))
	return cmd
}

func newSessionsPruneCmd(a *app) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete sessions not used recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive, got %s", olderThan)
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			n, err := st.Prune(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d session(s)\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "delete sessions last updated before this long ago")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
