package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pivolan/etl_reporter/domain/models"
	"github.com/pivolan/etl_reporter/etl"
)

var (
	runFilters         string
	runTransformations []string
	runFormat          string
)

var runCmd = &cobra.Command{
	Use:   "run [source]",
	Short: "Run the full ETL cycle over one CSV file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.ScheduleSource
		if len(args) > 0 {
			source = args[0]
		}

		var filters models.FilterSpec
		if runFilters != "" {
			if err := json.Unmarshal([]byte(runFilters), &filters); err != nil {
				return fmt.Errorf("parse filters: %w", err)
			}
		}
		ops, err := etl.ParseTransformations(runTransformations)
		if err != nil {
			return err
		}

		pipeline, err := etl.NewPipeline(cfg.DataDir, cfg.OutputDir)
		if err != nil {
			return err
		}
		if _, err := pipeline.Extract(source); err != nil {
			return err
		}
		if _, _, err := pipeline.Transform(filters, ops); err != nil {
			return err
		}
		files, err := pipeline.Load(runFormat)
		if err != nil {
			return err
		}

		summary := pipeline.Summary()
		fmt.Printf("Processed %d of %d rows across %d columns\n",
			summary.ProcessedRows, summary.OriginalRows, summary.Columns)
		for kind, path := range files {
			fmt.Printf("  %s: %s\n", kind, path)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFilters, "filters", "", `filter spec as JSON, e.g. '{"Sales":{"min":1000}}'`)
	runCmd.Flags().StringSliceVar(&runTransformations, "transform", nil, "transformations in order: normalize, standardize, log_transform")
	runCmd.Flags().StringVar(&runFormat, "format", etl.FormatExcel, "output format: excel, csv or json")
	rootCmd.AddCommand(runCmd)
}
