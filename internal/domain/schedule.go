package domain

// Confirmations without a slot keyword are attributed to the morning dose
// inside [MorningFrom, MorningTo) local hours and to the evening dose otherwise.
const (
	MorningFromHour = 5
	MorningToHour   = 17
)

// InWindow returns true if local time (minutes since midnight) is inside active window.
// Supports wrap-around windows like 22:00–02:00 (fromM > toM).
func InWindow(localM, fromM, toM int) bool {
	if fromM == toM {
		return false // zero-length window
	}
	if fromM < toM {
		return localM >= fromM && localM < toM
	}
	// wrap: [from..1440) U [0..to)
	return localM >= fromM || localM < toM
}

// SlotForHour infers which dose a keyword-less confirmation refers to.
func SlotForHour(hour int) Slot {
	if InWindow(hour*60, MorningFromHour*60, MorningToHour*60) {
		return Morning
	}
	return Evening
}
