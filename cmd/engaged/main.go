package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "engaged",
	Short: "Community engagement tracker",
	Long: `engaged observes message events in registered channels, accrues points
per user per channel per month, provisions weekly double-point charge
windows, and grants recognition roles to each channel's monthly leaders.`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
