package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pivolan/etl_reporter/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the report job on the configured cadence",
	RunE: func(cmd *cobra.Command, args []string) error {
		cadence := schedule.Cadence{
			Every: cfg.ScheduleEvery,
			Day:   cfg.ScheduleDay,
			At:    cfg.ScheduleAt,
		}
		sched, err := schedule.New(cadence, func() {
			if err := buildAndSendReport(cfg); err != nil {
				log.Printf("[schedule] report job failed: %v", err)
			}
		})
		if err != nil {
			return err
		}

		sched.Start()
		log.Printf("[schedule] running %s reports, press Ctrl+C to stop", cfg.ScheduleEvery)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		sched.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
