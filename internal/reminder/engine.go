// Package reminder drives the daily dose cycle: reminders, follow-ups,
// confirmations and the midnight reset.
package reminder

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/interpreter"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/ledger"
)

// Job names registered with the Scheduler.
const (
	JobMorningReminder = "daily_morning_reminder"
	JobEveningReminder = "daily_evening_reminder"
	JobReset           = "daily_reset"
)

// FollowUpJob names the one-shot follow-up timer of a slot.
func FollowUpJob(s domain.Slot) string {
	return s.String() + "_follow_up"
}

func reminderJob(s domain.Slot) string {
	if s == domain.Evening {
		return JobEveningReminder
	}
	return JobMorningReminder
}

// Scheduler fires named callbacks.
type Scheduler interface {
	ScheduleDaily(name string, at domain.TimeOfDay, fn func()) error
	ScheduleOnce(name string, delay time.Duration, fn func())
	Cancel(name string) bool
}

// Sender delivers text to a chat. Reply addresses the text to a message.
type Sender interface {
	SendMessage(chatID int64, text string) error
	Reply(chatID int64, messageID int, text string) error
}

// Classifier turns an inbound text into an intent.
type Classifier interface {
	Classify(text string, isReplyToBot bool, localHour int) interpreter.Result
}

// Recorder observes engine events.
type Recorder interface {
	ReminderSent(s domain.Slot)
	FollowUpSent(s domain.Slot)
	Confirmed(s domain.Slot, applied bool)
	Inbound(intent string)
	Reset()
	SendFailed()
}

// Config is the fixed daily schedule of the monitored chat.
type Config struct {
	ChatID        int64
	Location      *time.Location
	MorningAt     domain.TimeOfDay
	EveningAt     domain.TimeOfDay
	ResetAt       domain.TimeOfDay
	FollowUpDelay time.Duration
}

// Deps are the collaborators of an Engine. Recorder may be nil.
type Deps struct {
	Ledger     *ledger.Ledger
	Scheduler  Scheduler
	Sender     Sender
	Classifier Classifier
	Recorder   Recorder
	Logger     *zap.Logger
}

// Engine serializes every state transition behind one mutex. Messages are
// sent after the transition is committed and outside the lock, so a failed
// send never rolls back the ledger.
type Engine struct {
	cfg      Config
	ledger   *ledger.Ledger
	sched    Scheduler
	sender   Sender
	classify Classifier
	rec      Recorder
	log      *zap.Logger

	mu sync.Mutex
}

// New creates an Engine.
func New(cfg Config, d Deps) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	rec := d.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cfg:      cfg,
		ledger:   d.Ledger,
		sched:    d.Scheduler,
		sender:   d.Sender,
		classify: d.Classifier,
		rec:      rec,
		log:      log,
	}
}

// Register installs the two daily reminders and the daily reset.
func (e *Engine) Register() error {
	if err := e.sched.ScheduleDaily(JobMorningReminder, e.cfg.MorningAt, func() { e.OnReminderDue(domain.Morning) }); err != nil {
		return err
	}
	if err := e.sched.ScheduleDaily(JobEveningReminder, e.cfg.EveningAt, func() { e.OnReminderDue(domain.Evening) }); err != nil {
		return err
	}
	if err := e.sched.ScheduleDaily(JobReset, e.cfg.ResetAt, e.OnResetDue); err != nil {
		return err
	}
	e.log.Info("daily jobs registered", zap.Stringer("schedule", e.cfg))
	return nil
}

func (e *Engine) reminderAt(s domain.Slot) domain.TimeOfDay {
	if s == domain.Evening {
		return e.cfg.EveningAt
	}
	return e.cfg.MorningAt
}

// OnReminderDue reminds the chat about a pending dose and arms its follow-up.
// A dose already logged today is left alone.
func (e *Engine) OnReminderDue(s domain.Slot) {
	e.mu.Lock()
	if _, ok := e.ledger.Query(s); ok {
		e.mu.Unlock()
		e.log.Info("reminder skipped, dose already logged", zap.String("slot", s.String()))
		return
	}
	e.sched.ScheduleOnce(FollowUpJob(s), e.cfg.FollowUpDelay, func() { e.OnFollowUpDue(s) })
	e.mu.Unlock()

	e.log.Info("sending reminder", zap.String("slot", s.String()), zap.String("job", reminderJob(s)))
	if e.send(0, reminderText(s, e.reminderAt(s))) {
		e.rec.ReminderSent(s)
	}
}

// OnFollowUpDue nags once more if the dose is still pending.
func (e *Engine) OnFollowUpDue(s domain.Slot) {
	e.mu.Lock()
	_, logged := e.ledger.Query(s)
	e.mu.Unlock()
	if logged {
		e.log.Debug("follow-up skipped, dose already logged", zap.String("slot", s.String()))
		return
	}

	e.log.Info("sending follow-up", zap.String("slot", s.String()))
	if e.send(0, followUpText(s)) {
		e.rec.FollowUpSent(s)
	}
}

// OnConfirm logs a dose for slot and acknowledges it in the chat.
func (e *Engine) OnConfirm(s domain.Slot, who, whenLocal string) {
	e.confirm(s, who, whenLocal, 0)
}

// confirm runs the confirmation transition. A non-zero replyTo addresses the
// acknowledgment to the confirming message.
func (e *Engine) confirm(s domain.Slot, who, whenLocal string, replyTo int) {
	e.mu.Lock()
	applied, rec := e.ledger.Confirm(s, who, whenLocal)
	if applied {
		e.sched.Cancel(FollowUpJob(s))
	}
	e.mu.Unlock()

	e.rec.Confirmed(s, applied)
	if !applied {
		e.log.Info("dose already logged",
			zap.String("slot", s.String()),
			zap.String("by", rec.ConfirmedBy),
			zap.String("attempted_by", who),
		)
		e.send(replyTo, alreadyLoggedText(s, rec))
		return
	}
	e.log.Info("dose confirmed", zap.String("slot", s.String()), zap.String("by", who), zap.String("at", whenLocal))
	e.send(replyTo, confirmedText(s, rec))
}

// OnResetDue starts a new day: both doses become pending and any armed
// follow-up is dropped so it cannot fire against the fresh state.
func (e *Engine) OnResetDue() {
	e.mu.Lock()
	e.ledger.Reset()
	for _, s := range domain.Slots() {
		e.sched.Cancel(FollowUpJob(s))
	}
	e.mu.Unlock()

	e.rec.Reset()
	e.log.Info("all statuses reset for the new day")
	e.send(0, newDayText)
}

// StatusReport renders both slots.
func (e *Engine) StatusReport() string {
	return statusText(e.ledger.Snapshot())
}

// send delivers text to the monitored chat and reports success. Failures are
// logged and counted, never retried.
func (e *Engine) send(replyTo int, text string) bool {
	var err error
	if replyTo != 0 {
		err = e.sender.Reply(e.cfg.ChatID, replyTo, text)
	} else {
		err = e.sender.SendMessage(e.cfg.ChatID, text)
	}
	if err != nil {
		e.rec.SendFailed()
		e.log.Error("send failed", zap.Error(err), zap.Int64("chatID", e.cfg.ChatID))
		return false
	}
	return true
}

// String describes the configured schedule, for startup logs.
func (c Config) String() string {
	return fmt.Sprintf("morning=%s evening=%s reset=%s follow_up=%s tz=%s",
		c.MorningAt, c.EveningAt, c.ResetAt, c.FollowUpDelay, c.Location)
}

type nopRecorder struct{}

func (nopRecorder) ReminderSent(domain.Slot)    {}
func (nopRecorder) FollowUpSent(domain.Slot)    {}
func (nopRecorder) Confirmed(domain.Slot, bool) {}
func (nopRecorder) Inbound(string)              {}
func (nopRecorder) Reset()                      {}
func (nopRecorder) SendFailed()                 {}
