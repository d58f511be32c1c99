package cmd

import (
	"fmt"
	"log"
	"os"

	"tubemp3/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tubemp3",
	Short: "tubemp3 is a streaming YouTube-to-MP3 conversion service.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting tubemp3 server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
