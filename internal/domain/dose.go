package domain

// Slot identifies one of the two daily doses.
type Slot int

const (
	Morning Slot = iota
	Evening
)

// Slots lists every slot in day order.
func Slots() []Slot {
	return []Slot{Morning, Evening}
}

// String returns the lower-case slot name used in texts and job names.
func (s Slot) String() string {
	if s == Evening {
		return "evening"
	}
	return "morning"
}

// Title returns the capitalized slot name.
func (s Slot) Title() string {
	if s == Evening {
		return "Evening"
	}
	return "Morning"
}

// DoseRecord tells who logged a dose and at what local time of day.
type DoseRecord struct {
	ConfirmedBy string
	ConfirmedAt string // e.g. "10:05 AM"
}

// DayState is today's state of both doses. A nil field means pending.
type DayState struct {
	Morning *DoseRecord
	Evening *DoseRecord
}

// Get returns the record stored for slot, if any.
func (d DayState) Get(s Slot) (DoseRecord, bool) {
	r := d.Morning
	if s == Evening {
		r = d.Evening
	}
	if r == nil {
		return DoseRecord{}, false
	}
	return *r, true
}
