package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or edit remembered positions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered positions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, e := range a.history.Entries() {
			fmt.Fprintf(tw, "%s\t%s\n", e.Key, e.Position)
		}
		return tw.Flush()
	},
}

var historySetCmd = &cobra.Command{
	Use:   "set NAME POSITION",
	Short: "Remember a position for a full name (empty POSITION forgets it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return a.history.Remember(args[0], args[1])
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historySetCmd)
}
