package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
)

// Scheduler runs named daily jobs in a fixed location and named one-shot
// timers. A name holds at most one pending callback of each kind.
//
// Callbacks run on their own goroutines and never under the scheduler lock,
// so they may call back into the scheduler (e.g. Cancel).
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
	log  *zap.Logger

	mu    sync.Mutex
	daily map[string]cron.EntryID
	once  map[string]*time.Timer
}

// New creates a Scheduler evaluating daily times in loc. Call Start to begin
// firing daily jobs; one-shot timers run as soon as they are scheduled.
func New(loc *time.Location, log *zap.Logger) *Scheduler {
	cl := cronLogger{log: log.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		loc:   loc,
		log:   log,
		daily: make(map[string]cron.EntryID),
		once:  make(map[string]*time.Timer),
	}
}

// ScheduleDaily registers fn to run every day at the given local time,
// replacing any daily job already registered under name.
func (s *Scheduler) ScheduleDaily(name string, at domain.TimeOfDay, fn func()) error {
	spec := fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.daily[name]; ok {
		s.cron.Remove(id)
		delete(s.daily, name)
	}
	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("schedule %q at %s: %w", name, at, err)
	}
	s.daily[name] = id
	s.log.Debug("daily job registered", zap.String("job", name), zap.String("at", at.String()))
	return nil
}

// ScheduleOnce runs fn once after delay. A pending one-shot with the same
// name is stopped first.
func (s *Scheduler) ScheduleOnce(name string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.once[name]; ok {
		prev.Stop()
		delete(s.once, name)
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		// A replaced timer that was already firing must not drop its successor.
		if s.once[name] == t {
			delete(s.once, name)
		}
		s.mu.Unlock()
		fn()
	})
	s.once[name] = t
	s.log.Debug("one-shot armed", zap.String("job", name), zap.Duration("delay", delay))
}

// Cancel removes every pending callback registered under name and reports
// whether there was any. Cancelling an unknown name is a no-op.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	if t, ok := s.once[name]; ok {
		t.Stop()
		delete(s.once, name)
		found = true
	}
	if id, ok := s.daily[name]; ok {
		s.cron.Remove(id)
		delete(s.daily, name)
		found = true
	}
	if found {
		s.log.Debug("job cancelled", zap.String("job", name))
	}
	return found
}

// Pending reports whether anything is registered under name.
func (s *Scheduler) Pending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, once := s.once[name]
	_, daily := s.daily[name]
	return once || daily
}

// Next returns the next fire time of the daily job registered under name.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.daily[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	e := s.cron.Entry(id)
	if !e.Valid() {
		return time.Time{}, false
	}
	return e.Schedule.Next(time.Now().In(s.loc)), true
}

// Start begins firing daily jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("tz", s.loc.String()))
}

// Stop halts daily jobs, waits for running ones to finish and drops every
// pending one-shot.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	for name, t := range s.once {
		t.Stop()
		delete(s.once, name)
	}
	s.mu.Unlock()
	s.log.Info("scheduler stopping")
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
