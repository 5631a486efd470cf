package notify

import (
	"fmt"
	"log"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/etl_reporter/config"
)

// TelegramNotifier posts the summary as a message and the report files
// as document uploads to a single chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(cfg *config.Config) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TgToken)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: cfg.TgChatID}, nil
}

func (n *TelegramNotifier) Send(summary string, attachments []string) error {
	msg := tgbotapi.NewMessage(n.chatID, summary)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	for _, path := range attachments {
		doc := tgbotapi.NewDocumentUpload(n.chatID, path)
		doc.Caption = filepath.Base(path)
		if _, err := n.api.Send(doc); err != nil {
			log.Printf("[notify] could not upload %s to telegram: %v", path, err)
		}
	}
	return nil
}
