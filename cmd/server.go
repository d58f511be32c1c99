package cmd

import (
	"tubemp3/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the tubemp3 HTTP server",
	Long:  `Start the HTTP API for resolving, streaming and converting remote audio sources to MP3.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
