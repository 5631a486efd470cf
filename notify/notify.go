// Package notify delivers finished reports over email and Telegram.
package notify

// Notifier sends a report summary with its file attachments to a
// configured destination.
type Notifier interface {
	Send(summary string, attachments []string) error
}
