package reminder

import (
	"time"

	"go.uber.org/zap"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/interpreter"
)

// Inbound is a text message seen in the monitored chat.
type Inbound struct {
	ChatID       int64
	MessageID    int
	Text         string
	SenderName   string
	SentAt       time.Time // UTC
	IsReplyToBot bool
}

// HandleInbound answers status queries and logs confirmations. Messages from
// other chats and unrelated chatter are ignored.
func (e *Engine) HandleInbound(in Inbound) {
	if in.ChatID != e.cfg.ChatID {
		e.log.Debug("message from unmonitored chat ignored", zap.Int64("chatID", in.ChatID))
		return
	}

	local := in.SentAt.In(e.cfg.Location)
	res := e.classify.Classify(in.Text, in.IsReplyToBot, local.Hour())
	e.rec.Inbound(res.Intent.String())

	switch res.Intent {
	case interpreter.StatusQuery:
		e.log.Debug("status requested", zap.String("by", in.SenderName))
		e.send(in.MessageID, e.StatusReport())

	case interpreter.Confirmation:
		if res.Inferred {
			e.log.Debug("slot inferred from hour",
				zap.String("slot", res.Slot.String()),
				zap.Int("hour", local.Hour()),
			)
		}
		e.confirm(res.Slot, in.SenderName, domain.FormatClock(in.SentAt, e.cfg.Location), in.MessageID)

	default:
		// Unrelated chatter.
	}
}
