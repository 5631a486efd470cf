package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pivolan/etl_reporter/config"
)

var (
	envFile string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "etl_reporter",
	Short: "CSV ETL pipeline with adaptive analysis and scheduled reporting",
	Long: `etl_reporter ingests CSV files, classifies their columns, runs a
filter/transform/clean pipeline, derives charts and KPIs, and sends the
resulting report on a schedule.`,
}

// Execute is the entry point called by main.main().
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to .env file (default is ./.env)")
}

func loadConfig() {
	c, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	cfg = c
}
