package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries every knob the pipeline, web server, scheduler and
// notifiers need. It is built once in main (or a test) and passed down;
// no process-wide mutable state.
type Config struct {
	DataDir   string `envconfig:"DATA_DIR" default:"data"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"reports"`

	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8005"`

	// Sample sources the web boundary may auto-load when no run happened yet.
	SampleFiles []string `envconfig:"SAMPLE_FILES" default:"sample_detailed.csv,sample.csv"`

	SMTPHost       string   `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort       int      `envconfig:"SMTP_PORT" default:"587"`
	SenderEmail    string   `envconfig:"SENDER_EMAIL"`
	SenderPassword string   `envconfig:"SENDER_PASSWORD"`
	ReceiverEmails []string `envconfig:"RECEIVER_EMAILS"`
	EmailSubject   string   `envconfig:"EMAIL_SUBJECT" default:"Weekly Data Report"`

	TgToken  string `envconfig:"TG_TOKEN"`
	TgChatID int64  `envconfig:"TG_CHAT_ID"`

	// Schedule defaults mirror the original weekly report: Monday 08:00.
	ScheduleEvery  string `envconfig:"SCHEDULE_EVERY" default:"weekly"`
	ScheduleDay    string `envconfig:"SCHEDULE_DAY" default:"monday"`
	ScheduleAt     string `envconfig:"SCHEDULE_AT" default:"08:00"`
	ScheduleSource string `envconfig:"SCHEDULE_SOURCE" default:"sample.csv"`
}

// Load reads an optional .env file and then the process environment.
// A missing .env is not an error; explicit env vars always win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		return nil, fmt.Errorf("smtp port out of range: %d", cfg.SMTPPort)
	}
	return cfg, nil
}
