package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pivolan/etl_reporter/analyzer"
	"github.com/pivolan/etl_reporter/etl"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [source]",
	Short: "Compute the KPI bundle for one CSV file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.ScheduleSource
		if len(args) > 0 {
			source = args[0]
		}

		pipeline, err := etl.NewPipeline(cfg.DataDir, cfg.OutputDir)
		if err != nil {
			return err
		}
		table, err := pipeline.Extract(source)
		if err != nil {
			return err
		}

		bundle := analyzer.Analyze(table)
		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(bundle)
		}
		fmt.Println(analyzer.FormatBundle(bundle))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit the KPI bundle as JSON instead of tables")
	rootCmd.AddCommand(analyzeCmd)
}
