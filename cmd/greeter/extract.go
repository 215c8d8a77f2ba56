package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractInput inputFlags

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Show the people found in the notes and how leaders match them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		snap, err := extractInput.fetch(cmd.Context(), a)
		if err != nil {
			return err
		}
		sess := a.engine.LoadCards(snap.Notes, snap.Leaders, snap.Backups)
		out := cmd.OutOrStdout()

		writeCandidates(out, sess)
		fmt.Fprintln(out)
		for i, l := range sess.Leaders() {
			fmt.Fprintf(out, "%s %s\n", titleStyle.Render(fmt.Sprintf("#%d", i+1)), oneLine(l.Label))
			if l.Person == nil {
				fmt.Fprintf(out, "  %s\n", dimStyle.Render(unresolvedHint(l.Match)))
				continue
			}
			fmt.Fprintf(out, "  -> %s (score %d)\n", l.Person.DisplayName, l.Match.Score)
			if pos, src := sess.Position(i); pos != "" {
				fmt.Fprintf(out, "  position: %s %s\n", pos, dimStyle.Render("("+string(src)+")"))
			}
			writeContext(out, sess.Context(i), l.Person.Line)
		}
		return nil
	},
}

func init() {
	extractInput.register(extractCmd)
}
