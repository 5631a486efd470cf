package notify

import (
	"fmt"
	"log"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/pivolan/etl_reporter/config"
)

const emailAttempts = 3

var emailRetryBase = 2 * time.Second

// EmailNotifier sends the weekly report over SMTP with STARTTLS.
// Transient delivery failures are retried with exponential backoff.
type EmailNotifier struct {
	cfg  *config.Config
	dial func(m *gomail.Message) error
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.SenderPassword)
	return &EmailNotifier{
		cfg: cfg,
		dial: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

func (n *EmailNotifier) Send(summary string, attachments []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.SenderEmail)
	m.SetHeader("To", n.cfg.ReceiverEmails...)
	m.SetHeader("Subject", n.cfg.EmailSubject)
	m.SetBody("text/plain", emailBody(summary))
	for _, path := range attachments {
		m.Attach(path)
	}

	var err error
	for attempt := 1; attempt <= emailAttempts; attempt++ {
		if err = n.dial(m); err == nil {
			log.Printf("[notify] report emailed to %d recipients", len(n.cfg.ReceiverEmails))
			return nil
		}
		log.Printf("[notify] email attempt %d/%d failed: %v", attempt, emailAttempts, err)
		if attempt < emailAttempts {
			time.Sleep(emailRetryBase << (attempt - 1))
		}
	}
	return fmt.Errorf("send email after %d attempts: %w", emailAttempts, err)
}

func emailBody(summary string) string {
	return fmt.Sprintf("Hi,\n\nPlease find attached the weekly report.\n\nSummary:\n%s\n\nRegards,\nETL Reporter", summary)
}
