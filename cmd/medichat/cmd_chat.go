package main

import (
	"medichat/internal/tui"

	"github.com/spf13/cobra"
)

var chatAddr string

func init() {
	chatCmd.Flags().StringVar(&chatAddr, "addr", "localhost:8003", "backend host:port")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open a terminal chat session against a running backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(chatAddr)
	},
}
