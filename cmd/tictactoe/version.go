package main

import (
	"ctchen222/tictactoe/internal/telemetry"
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tictactoe",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tictactoe version %s\n", telemetry.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
