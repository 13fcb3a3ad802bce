package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/reminder"
)

// Engine is what the router drives.
type Engine interface {
	HandleInbound(in reminder.Inbound)
	OnReminderDue(s domain.Slot)
	OnResetDue()
	StatusReport() string
}

// Router wires Telegram updates to the engine. Group text goes through the
// interpreter pipeline; commands are only honored in private chats.
type Router struct {
	tr          *Transport
	engine      Engine
	selfID      int64
	groupChatID int64
	log         *zap.Logger
}

// NewRouter creates a new Telegram router. selfID is the bot's own user ID,
// used to recognize replies to the bot.
func NewRouter(tr *Transport, engine Engine, selfID, groupChatID int64, log *zap.Logger) *Router {
	return &Router{
		tr:          tr,
		engine:      engine,
		selfID:      selfID,
		groupChatID: groupChatID,
		log:         log,
	}
}

// HandleUpdate routes a single update to appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	if msg.IsCommand() {
		if !msg.Chat.IsPrivate() {
			return
		}
		r.handleCommand(ctx, msg)
		return
	}

	if msg.Chat.ID != r.groupChatID || strings.TrimSpace(msg.Text) == "" {
		return
	}
	r.engine.HandleInbound(reminder.Inbound{
		ChatID:       msg.Chat.ID,
		MessageID:    msg.MessageID,
		Text:         msg.Text,
		SenderName:   senderName(msg),
		SentAt:       msg.Time().UTC(),
		IsReplyToBot: r.isReplyToBot(msg),
	})
}

func (r *Router) isReplyToBot(msg *tgbotapi.Message) bool {
	parent := msg.ReplyToMessage
	return parent != nil && parent.From != nil && parent.From.ID == r.selfID
}

func senderName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return "someone"
	}
	if msg.From.FirstName != "" {
		return msg.From.FirstName
	}
	return msg.From.UserName
}
