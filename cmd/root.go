// Package cmd wires the concierge commands.
package cmd

import "github.com/spf13/cobra"

const app = "concierge"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "concierge bridges a conversational assistant to the candidate database",
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
}
