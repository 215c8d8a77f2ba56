// Command greeter turns staff notes and leader labels into greeting
// scripts for outreach calls.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	logLevel string
	version  = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "greeter",
	Short: "Compose outreach greetings from staff notes",
	Long: `greeter extracts people from free-text staff notes, resolves each leader
label to one of them and renders five greeting scripts per leader.

Examples:
  # Greetings from a saved company page, names in the dative case
  greeter greet --source html --from page.html --org "ООО Ромашка" --case dative

  # Same from a directory holding notes.txt and leaders.txt
  greeter greet --from ./acme --org "ООО Ромашка" --xlsx greetings.xlsx

  # Run the HTTP API
  greeter serve`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "greeter.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
	rootCmd.AddCommand(greetCmd, extractCmd, abbreviateCmd, historyCmd, runsCmd, serveCmd)
}
