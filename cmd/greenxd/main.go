package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "greenxd <command>",
	Short: "GreenX Hackathon site server",
	Long: "greenxd serves the GreenX Hackathon event page. Problem statements and\n" +
		"submission links stay hidden until their deadlines pass in IST.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
