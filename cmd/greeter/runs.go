package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/skufinskiy/itnelep-tools/pkg/greeting"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse archived compose runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the latest runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		store, err := a.openArchive(true)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(runsLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tORGANIZATION\tCOMPOSED")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\n", r.ID, r.CreatedAt.Local().Format(time.DateTime),
				r.Organization, r.Composed, r.Leaders)
		}
		return tw.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Print the greetings of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		store, err := a.openArchive(true)
		if err != nil {
			return err
		}
		defer store.Close()

		gs, err := store.Greetings(args[0])
		if err != nil {
			return err
		}
		var blocks []string
		var texts []string
		for i, g := range gs {
			if g.Text != "" {
				texts = append(texts, g.Text)
			}
			if i == len(gs)-1 || gs[i+1].Leader != g.Leader {
				if len(texts) > 0 {
					blocks = append(blocks, greeting.Block(g.Title, texts))
				}
				texts = nil
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), greeting.JoinBlocks(blocks))
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to list (0 for all)")
	runsCmd.AddCommand(runsListCmd, runsShowCmd)
}
