package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pivolan/etl_reporter/etl"
	"github.com/pivolan/etl_reporter/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := etl.NewPipeline(cfg.DataDir, cfg.OutputDir)
		if err != nil {
			return err
		}
		return web.NewServer(cfg, pipeline).ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
