// Package metrics exports bot activity counters to Prometheus.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
)

const namespace = "medbot"

// Metrics implements reminder.Recorder.
type Metrics struct {
	reminders     *prometheus.CounterVec
	confirmations *prometheus.CounterVec
	inbound       *prometheus.CounterVec
	resets        prometheus.Counter
	sendFailures  prometheus.Counter
}

// New registers the bot collectors with reg. A nil reg means the default
// registerer. Collectors already registered by an earlier call are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Reminder and follow-up messages sent, by slot.",
		}, []string{"slot", "kind"}),
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_total",
			Help:      "Dose confirmations, by slot and whether they were applied.",
		}, []string{"slot", "outcome"}),
		inbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_messages_total",
			Help:      "Group messages seen, by classified intent.",
		}, []string{"intent"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Daily resets performed.",
		}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Outbound messages the transport failed to deliver.",
		}),
	}

	var err error
	if m.reminders, err = register(reg, m.reminders); err != nil {
		return nil, err
	}
	if m.confirmations, err = register(reg, m.confirmations); err != nil {
		return nil, err
	}
	if m.inbound, err = register(reg, m.inbound); err != nil {
		return nil, err
	}
	if m.resets, err = register(reg, m.resets); err != nil {
		return nil, err
	}
	if m.sendFailures, err = register(reg, m.sendFailures); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

func (m *Metrics) ReminderSent(s domain.Slot) {
	m.reminders.WithLabelValues(s.String(), "reminder").Inc()
}

func (m *Metrics) FollowUpSent(s domain.Slot) {
	m.reminders.WithLabelValues(s.String(), "follow_up").Inc()
}

func (m *Metrics) Confirmed(s domain.Slot, applied bool) {
	outcome := "already_logged"
	if applied {
		outcome = "applied"
	}
	m.confirmations.WithLabelValues(s.String(), outcome).Inc()
}

func (m *Metrics) Inbound(intent string) {
	m.inbound.WithLabelValues(intent).Inc()
}

func (m *Metrics) Reset() {
	m.resets.Inc()
}

func (m *Metrics) SendFailed() {
	m.sendFailures.Inc()
}
