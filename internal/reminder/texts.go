package reminder

import (
	"fmt"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
)

// Outbound texts, in English.
const (
	newDayText    = "🌅 New Day! All medicine reminders have been reset."
	statusTitle   = "Today's Medicine Status:"
	pendingStatus = "⏰ Pending"
)

func slotIcon(s domain.Slot) string {
	if s == domain.Evening {
		return "🌙"
	}
	return "☀️"
}

func reminderText(s domain.Slot, at domain.TimeOfDay) string {
	return fmt.Sprintf("%s Reminder (%s): Time for the %s medicine!", slotIcon(s), at.Kitchen(), s)
}

func followUpText(s domain.Slot) string {
	return fmt.Sprintf("⏰ Follow-Up: The %s medicine has not been marked as taken yet.", s)
}

func confirmedText(s domain.Slot, r domain.DoseRecord) string {
	icon := "✅"
	if s == domain.Evening {
		icon = "🌙"
	}
	return fmt.Sprintf("%s %s medicine confirmed by %s at %s.", icon, s.Title(), r.ConfirmedBy, r.ConfirmedAt)
}

func alreadyLoggedText(s domain.Slot, r domain.DoseRecord) string {
	return fmt.Sprintf("FYI, the %s dose was already logged by %s at %s.", s, r.ConfirmedBy, r.ConfirmedAt)
}

func slotStatus(d domain.DayState, s domain.Slot) string {
	r, ok := d.Get(s)
	if !ok {
		return pendingStatus
	}
	return fmt.Sprintf("✅ Given by %s at %s", r.ConfirmedBy, r.ConfirmedAt)
}

func statusText(d domain.DayState) string {
	return fmt.Sprintf("%s\n\n%s Morning: %s\n%s Evening: %s",
		statusTitle,
		slotIcon(domain.Morning), slotStatus(d, domain.Morning),
		slotIcon(domain.Evening), slotStatus(d, domain.Evening),
	)
}
