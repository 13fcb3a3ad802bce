// Package ledger holds today's dose records.
package ledger

import (
	"sync"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
)

// Ledger keeps one record-or-absence per slot. A record, once set, stays
// until Reset. The zero value is ready to use with both slots pending.
type Ledger struct {
	mu      sync.Mutex
	morning *domain.DoseRecord
	evening *domain.DoseRecord
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) slot(s domain.Slot) **domain.DoseRecord {
	if s == domain.Evening {
		return &l.evening
	}
	return &l.morning
}

// Confirm logs the dose for slot if it is still pending. When the slot was
// already logged it returns applied=false and the existing record untouched.
func (l *Ledger) Confirm(s domain.Slot, who, whenLocal string) (applied bool, rec domain.DoseRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.slot(s)
	if *p != nil {
		return false, **p
	}
	rec = domain.DoseRecord{ConfirmedBy: who, ConfirmedAt: whenLocal}
	*p = &rec
	return true, rec
}

// Query returns the record for slot, if logged today.
func (l *Ledger) Query(s domain.Slot) (domain.DoseRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.slot(s)
	if *p == nil {
		return domain.DoseRecord{}, false
	}
	return **p, true
}

// Reset marks both slots pending.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.morning, l.evening = nil, nil
}

// Snapshot copies both slots in one read.
func (l *Ledger) Snapshot() domain.DayState {
	l.mu.Lock()
	defer l.mu.Unlock()

	var d domain.DayState
	if l.morning != nil {
		r := *l.morning
		d.Morning = &r
	}
	if l.evening != nil {
		r := *l.evening
		d.Evening = &r
	}
	return d
}
