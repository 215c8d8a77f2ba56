package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var abbreviateCmd = &cobra.Command{
	Use:   "abbreviate [title...]",
	Short: "Shorten job titles with the configured rules",
	Long: `Shorten job titles. Without arguments titles are read from stdin, one per line.

Examples:
  greeter abbreviate "Заместитель генерального директора"
  cat titles.txt | greeter abbreviate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		titles := args
		if len(titles) == 0 {
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				if t := strings.TrimSpace(sc.Text()); t != "" {
					titles = append(titles, t)
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
		}
		for _, t := range titles {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t, a.engine.Abbreviate(t))
		}
		return nil
	},
}
