package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/domain"
	"github.com/Vatsalbirla317/Medicine-Tracker-Bot/internal/interpreter"
)

var (
	ErrInvalidChatID   = errors.New("GROUP_CHAT_ID must be a non-zero chat id")
	ErrInvalidFollowUp = errors.New("FOLLOW_UP_DELAY must be positive")
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken    string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	GroupChatID int64  `envconfig:"GROUP_CHAT_ID" required:"true"`

	LocalTZ       string        `envconfig:"LOCAL_TZ" default:"Asia/Kolkata"`
	MorningAt     string        `envconfig:"MORNING_AT" default:"10:00"`
	EveningAt     string        `envconfig:"EVENING_AT" default:"19:30"`
	ResetAt       string        `envconfig:"RESET_AT" default:"00:05"`
	FollowUpDelay time.Duration `envconfig:"FOLLOW_UP_DELAY" default:"30m"`

	PhrasesFile string `envconfig:"PHRASES_FILE"`                   // YAML; empty = built-in phrases
	MatchMode   string `envconfig:"MATCH_MODE" default:"substring"` // substring|token
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`       // debug|info|warn|error
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`      // json|console
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`      // healthz + metrics
}

// Schedule is the parsed daily timetable.
type Schedule struct {
	Location      *time.Location
	MorningAt     domain.TimeOfDay
	EveningAt     domain.TimeOfDay
	ResetAt       domain.TimeOfDay
	FollowUpDelay time.Duration
}

// Load reads environment variables into Config and validates them.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values envconfig cannot.
func (c Config) Validate() error {
	if c.GroupChatID == 0 {
		return ErrInvalidChatID
	}
	if _, err := c.Schedule(); err != nil {
		return err
	}
	if _, err := interpreter.MatcherFor(c.MatchMode); err != nil {
		return fmt.Errorf("MATCH_MODE: %w", err)
	}
	return nil
}

// Schedule parses the timezone and the daily times.
func (c Config) Schedule() (Schedule, error) {
	loc, err := domain.LoadLocation(c.LocalTZ)
	if err != nil {
		return Schedule{}, fmt.Errorf("LOCAL_TZ: %w", err)
	}
	morning, err := domain.ParseTimeOfDay(c.MorningAt)
	if err != nil {
		return Schedule{}, fmt.Errorf("MORNING_AT: %w", err)
	}
	evening, err := domain.ParseTimeOfDay(c.EveningAt)
	if err != nil {
		return Schedule{}, fmt.Errorf("EVENING_AT: %w", err)
	}
	reset, err := domain.ParseTimeOfDay(c.ResetAt)
	if err != nil {
		return Schedule{}, fmt.Errorf("RESET_AT: %w", err)
	}
	if c.FollowUpDelay <= 0 {
		return Schedule{}, ErrInvalidFollowUp
	}
	return Schedule{
		Location:      loc,
		MorningAt:     morning,
		EveningAt:     evening,
		ResetAt:       reset,
		FollowUpDelay: c.FollowUpDelay,
	}, nil
}
