// Package interpreter classifies group chat messages into status queries,
// dose confirmations, or noise.
package interpreter

import (
	"strings"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
)

// Intent is what an inbound message asks for.
type Intent int

const (
	Unrelated Intent = iota
	StatusQuery
	Confirmation
)

func (i Intent) String() string {
	switch i {
	case StatusQuery:
		return "status_query"
	case Confirmation:
		return "confirmation"
	default:
		return "unrelated"
	}
}

// Result of classifying one message. Slot and Inferred are only meaningful
// for Confirmation; Inferred is set when the slot came from the hour.
type Result struct {
	Intent   Intent
	Slot     domain.Slot
	Inferred bool
}

var (
	morningKeyword = []string{"morning"}
	eveningKeyword = []string{"evening"}
)

// Interpreter applies phrase sets through a Matcher.
type Interpreter struct {
	phrases Phrases
	match   Matcher
}

// New creates an Interpreter. A nil matcher means SubstringMatcher.
func New(p Phrases, m Matcher) *Interpreter {
	if m == nil {
		m = SubstringMatcher{}
	}
	return &Interpreter{
		phrases: Phrases{Status: normalize(p.Status), Confirm: normalize(p.Confirm)},
		match:   m,
	}
}

// Classify inspects text. Status queries win over confirmations, and a
// confirmation only counts when the message replies to the bot.
func (in *Interpreter) Classify(text string, isReplyToBot bool, localHour int) Result {
	text = strings.ToLower(text)

	if in.match.Match(text, in.phrases.Status) {
		return Result{Intent: StatusQuery}
	}
	if !isReplyToBot || !in.match.Match(text, in.phrases.Confirm) {
		return Result{Intent: Unrelated}
	}

	switch {
	case in.match.Match(text, morningKeyword):
		return Result{Intent: Confirmation, Slot: domain.Morning}
	case in.match.Match(text, eveningKeyword):
		return Result{Intent: Confirmation, Slot: domain.Evening}
	default:
		return Result{Intent: Confirmation, Slot: domain.SlotForHour(localHour), Inferred: true}
	}
}
