package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
)

// handleCommand serves the private-chat commands. The test commands run the
// production reminder and reset paths against the group chat.
func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd := msg.Command()
	r.log.Info("command received", zap.String("command", cmd), zap.Int64("chatID", chatID))

	switch cmd {
	case "start", "help":
		r.reply(chatID, helpText)
	case "status":
		r.reply(chatID, r.engine.StatusReport())
	case "test_morning":
		r.reply(chatID, testMorningText)
		r.engine.OnReminderDue(domain.Morning)
	case "test_evening":
		r.reply(chatID, testEveningText)
		r.engine.OnReminderDue(domain.Evening)
	case "test_reset":
		r.reply(chatID, testResetText)
		r.engine.OnResetDue()
	default:
		r.reply(chatID, unknownCommandText)
	}
}

func (r *Router) reply(chatID int64, text string) {
	if err := r.tr.SendMessage(chatID, text); err != nil {
		r.log.Error("reply failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}
