package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BotAPI is the part of *tgbotapi.BotAPI the bot uses for sending.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Transport delivers plain-text messages. It makes a single attempt per
// message; callers decide what a failure means.
type Transport struct {
	bot BotAPI
	log *zap.Logger
}

// NewTransport wraps a bot client.
func NewTransport(bot BotAPI, log *zap.Logger) *Transport {
	return &Transport{bot: bot, log: log}
}

// SendMessage sends a plain text message to the given chat.
func (t *Transport) SendMessage(chatID int64, text string) error {
	return t.send(tgbotapi.NewMessage(chatID, text))
}

// Reply sends text to chatID as a reply to messageID.
func (t *Transport) Reply(chatID int64, messageID int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = messageID
	return t.send(msg)
}

func (t *Transport) send(msg tgbotapi.MessageConfig) error {
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", msg.ChatID, err)
	}
	t.log.Debug("message sent", zap.Int64("chatID", msg.ChatID), zap.Int("replyTo", msg.ReplyToMessageID))
	return nil
}
