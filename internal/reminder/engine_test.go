package reminder

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/interpreter"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/ledger"
)

const testChatID int64 = -100123

type oneShot struct {
	delay time.Duration
	fn    func()
}

type fakeScheduler struct {
	mu        sync.Mutex
	daily     map[string]domain.TimeOfDay
	dailyFns  map[string]func()
	once      map[string]oneShot
	cancelled []string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		daily:    make(map[string]domain.TimeOfDay),
		dailyFns: make(map[string]func()),
		once:     make(map[string]oneShot),
	}
}

func (f *fakeScheduler) ScheduleDaily(name string, at domain.TimeOfDay, fn func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.daily[name] = at
	f.dailyFns[name] = fn
	return nil
}

func (f *fakeScheduler) ScheduleOnce(name string, delay time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.once[name] = oneShot{delay: delay, fn: fn}
}

func (f *fakeScheduler) Cancel(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, name)
	_, ok := f.once[name]
	delete(f.once, name)
	return ok
}

func (f *fakeScheduler) armed(name string) (oneShot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.once[name]
	return o, ok
}

type sent struct {
	chatID  int64
	replyTo int
	text    string
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []sent
	err  error
}

func (f *fakeSender) SendMessage(chatID int64, text string) error {
	return f.record(chatID, 0, text)
}

func (f *fakeSender) Reply(chatID int64, messageID int, text string) error {
	return f.record(chatID, messageID, text)
}

func (f *fakeSender) record(chatID int64, replyTo int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, sent{chatID: chatID, replyTo: replyTo, text: text})
	return nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.msgs))
	for _, m := range f.msgs {
		out = append(out, m.text)
	}
	return out
}

type countingRecorder struct {
	nopRecorder
	mu           sync.Mutex
	sendFailures int
	applied      int
	rejected     int
}

func (c *countingRecorder) SendFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendFailures++
}

func (c *countingRecorder) Confirmed(_ domain.Slot, applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if applied {
		c.applied++
	} else {
		c.rejected++
	}
}

type fixture struct {
	engine *Engine
	ledger *ledger.Ledger
	sched  *fakeScheduler
	sender *fakeSender
	rec    *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := domain.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	f := &fixture{
		ledger: ledger.New(),
		sched:  newFakeScheduler(),
		sender: &fakeSender{},
		rec:    &countingRecorder{},
	}
	f.engine = New(Config{
		ChatID:        testChatID,
		Location:      loc,
		MorningAt:     domain.NewTimeOfDay(10, 0),
		EveningAt:     domain.NewTimeOfDay(19, 30),
		ResetAt:       domain.NewTimeOfDay(0, 5),
		FollowUpDelay: 30 * time.Minute,
	}, Deps{
		Ledger:     f.ledger,
		Scheduler:  f.sched,
		Sender:     f.sender,
		Classifier: interpreter.New(interpreter.DefaultPhrases(), nil),
		Recorder:   f.rec,
		Logger:     zap.NewNop(),
	})
	return f
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Register())

	assert.Equal(t, map[string]domain.TimeOfDay{
		JobMorningReminder: domain.NewTimeOfDay(10, 0),
		JobEveningReminder: domain.NewTimeOfDay(19, 30),
		JobReset:           domain.NewTimeOfDay(0, 5),
	}, f.sched.daily)

	f.sched.dailyFns[JobEveningReminder]()
	assert.Equal(t, []string{"🌙 Reminder (7:30 PM): Time for the evening medicine!"}, f.sender.texts())
	_, ok := f.sched.armed("evening_follow_up")
	assert.True(t, ok)
}

func TestReminderFollowUpConfirmScenario(t *testing.T) {
	f := newFixture(t)

	f.engine.OnReminderDue(domain.Morning)
	require.Equal(t, []string{"☀️ Reminder (10:00 AM): Time for the morning medicine!"}, f.sender.texts())
	assert.Equal(t, testChatID, f.sender.msgs[0].chatID)

	followUp, ok := f.sched.armed("morning_follow_up")
	require.True(t, ok, "follow-up must be armed")
	assert.Equal(t, 30*time.Minute, followUp.delay)

	f.engine.OnConfirm(domain.Morning, "Asha", "10:05 AM")
	_, ok = f.sched.armed("morning_follow_up")
	assert.False(t, ok, "confirmation must cancel the follow-up")
	assert.Contains(t, f.sched.cancelled, "morning_follow_up")

	// A follow-up that was already firing when the cancel landed stays silent.
	followUp.fn()
	assert.Equal(t, []string{
		"☀️ Reminder (10:00 AM): Time for the morning medicine!",
		"✅ Morning medicine confirmed by Asha at 10:05 AM.",
	}, f.sender.texts())
}

func TestFollowUpSentWhilePending(t *testing.T) {
	f := newFixture(t)

	f.engine.OnReminderDue(domain.Evening)
	followUp, ok := f.sched.armed("evening_follow_up")
	require.True(t, ok)

	followUp.fn()
	assert.Equal(t, []string{
		"🌙 Reminder (7:30 PM): Time for the evening medicine!",
		"⏰ Follow-Up: The evening medicine has not been marked as taken yet.",
	}, f.sender.texts())
}

func TestReminderSkippedWhenAlreadyLogged(t *testing.T) {
	f := newFixture(t)
	f.engine.OnConfirm(domain.Evening, "Ravi", "06:50 PM")

	f.engine.OnReminderDue(domain.Evening)
	_, ok := f.sched.armed("evening_follow_up")
	assert.False(t, ok)
	assert.Equal(t, []string{"🌙 Evening medicine confirmed by Ravi at 06:50 PM."}, f.sender.texts())
}

func TestReminderReplacesFollowUp(t *testing.T) {
	f := newFixture(t)
	f.engine.OnReminderDue(domain.Morning)
	f.engine.OnReminderDue(domain.Morning)

	assert.Len(t, f.sched.once, 1)
	_, ok := f.sched.armed("morning_follow_up")
	assert.True(t, ok)
}

func TestSecondConfirmationReportsFirst(t *testing.T) {
	f := newFixture(t)

	f.engine.OnConfirm(domain.Morning, "Asha", "10:05 AM")
	f.engine.OnConfirm(domain.Morning, "Ravi", "10:40 AM")

	assert.Equal(t, []string{
		"✅ Morning medicine confirmed by Asha at 10:05 AM.",
		"FYI, the morning dose was already logged by Asha at 10:05 AM.",
	}, f.sender.texts())

	rec, ok := f.ledger.Query(domain.Morning)
	require.True(t, ok)
	assert.Equal(t, domain.DoseRecord{ConfirmedBy: "Asha", ConfirmedAt: "10:05 AM"}, rec)
	assert.Equal(t, 1, f.rec.applied)
	assert.Equal(t, 1, f.rec.rejected)
}

func TestResetClearsAndCancelsFollowUps(t *testing.T) {
	t.Run("nothing armed", func(t *testing.T) {
		f := newFixture(t)
		f.engine.OnConfirm(domain.Morning, "Asha", "10:05 AM")
		f.sched.cancelled = nil

		f.engine.OnResetDue()

		assert.ElementsMatch(t, []string{"morning_follow_up", "evening_follow_up"}, f.sched.cancelled)
		assert.Equal(t, domain.DayState{}, f.ledger.Snapshot())
		assert.Equal(t, "🌅 New Day! All medicine reminders have been reset.", f.sender.texts()[1])
	})

	t.Run("both armed", func(t *testing.T) {
		f := newFixture(t)
		f.engine.OnReminderDue(domain.Morning)
		f.engine.OnReminderDue(domain.Evening)
		require.Len(t, f.sched.once, 2)

		f.engine.OnResetDue()
		assert.Empty(t, f.sched.once)

		f.engine.OnConfirm(domain.Morning, "Meera", "09:55 AM")
		rec, ok := f.ledger.Query(domain.Morning)
		require.True(t, ok)
		assert.Equal(t, "Meera", rec.ConfirmedBy)
	})
}

func TestSendFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	f.sender.err = errors.New("telegram down")

	f.engine.OnReminderDue(domain.Morning)
	_, ok := f.sched.armed("morning_follow_up")
	assert.True(t, ok, "follow-up armed even though the reminder was not delivered")

	f.engine.OnConfirm(domain.Morning, "Asha", "10:05 AM")
	_, ok = f.ledger.Query(domain.Morning)
	assert.True(t, ok)
	_, ok = f.sched.armed("morning_follow_up")
	assert.False(t, ok)

	f.engine.OnResetDue()
	_, ok = f.ledger.Query(domain.Morning)
	assert.False(t, ok)

	assert.Equal(t, 3, f.rec.sendFailures)
	assert.Empty(t, f.sender.texts())
}

func TestStatusReport(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Today's Medicine Status:\n\n☀️ Morning: ⏰ Pending\n🌙 Evening: ⏰ Pending", f.engine.StatusReport())

	f.engine.OnConfirm(domain.Morning, "Asha", "10:05 AM")
	assert.Equal(t, "Today's Medicine Status:\n\n☀️ Morning: ✅ Given by Asha at 10:05 AM\n🌙 Evening: ⏰ Pending", f.engine.StatusReport())
}

func TestConcurrentEventsKeepInvariant(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slot := domain.Slots()[i%2]
			switch i % 4 {
			case 0:
				f.engine.OnReminderDue(slot)
			case 1:
				f.engine.OnConfirm(slot, "Asha", "10:05 AM")
			case 2:
				f.engine.OnFollowUpDue(slot)
			default:
				f.engine.OnResetDue()
			}
		}(i)
	}
	wg.Wait()

	for _, slot := range domain.Slots() {
		if _, logged := f.ledger.Query(slot); logged {
			_, armed := f.sched.armed(FollowUpJob(slot))
			assert.False(t, armed, "%s: logged dose must not have a pending follow-up", slot)
		}
	}
}
