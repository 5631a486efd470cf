package cmd

import (
	"fmt"
	"log"

	"github.com/pivolan/etl_reporter/analyzer"
	"github.com/pivolan/etl_reporter/config"
	"github.com/pivolan/etl_reporter/etl"
	"github.com/pivolan/etl_reporter/notify"
)

// buildAndSendReport runs the full pipeline over the configured source
// and delivers the report through every configured notifier. Used by
// both the send command and the scheduler job.
func buildAndSendReport(cfg *config.Config) error {
	pipeline, err := etl.NewPipeline(cfg.DataDir, cfg.OutputDir)
	if err != nil {
		return err
	}
	result, err := pipeline.RunFull(cfg.ScheduleSource, nil, nil)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	bundle := analyzer.Analyze(pipeline.Processed())
	summary := reportSummary(result.Summary.OriginalRows, result.Summary.ProcessedRows, bundle)

	attachments := []string{}
	if path, ok := result.OutputFiles[etl.FormatExcel]; ok {
		attachments = append(attachments, path)
	}
	if result.DashboardPath != "" {
		attachments = append(attachments, result.DashboardPath)
	}

	for _, notifier := range buildNotifiers(cfg) {
		if err := notifier.Send(summary, attachments); err != nil {
			return err
		}
	}
	return nil
}

func buildNotifiers(cfg *config.Config) []notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.SenderEmail != "" && len(cfg.ReceiverEmails) > 0 {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg))
	}
	if cfg.TgToken != "" && cfg.TgChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg)
		if err != nil {
			log.Printf("[report] telegram notifier unavailable: %v", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	if len(notifiers) == 0 {
		log.Printf("[report] no notifiers configured, report stays on disk")
	}
	return notifiers
}

func reportSummary(originalRows, processedRows int, bundle *analyzer.KPIBundle) string {
	summary := fmt.Sprintf("Rows processed: %d of %d\n", processedRows, originalRows)
	if bundle.Insights != nil {
		summary += analyzer.FormatInsights(bundle.Insights)
	}
	return summary
}
