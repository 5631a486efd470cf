package cmd

import (
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Build the report once and deliver it immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		return buildAndSendReport(cfg)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
