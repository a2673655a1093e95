package models

import (
	"fmt"
	"os"
	"path/filepath"
)

// BuiltinAlarm names the alarm sound bundled into the binary
const BuiltinAlarm = "builtin:alarm"

// DefaultMaxAttempts is the number of alert rounds before a cycle gives up
const DefaultMaxAttempts = 10

// Config holds application configuration
type Config struct {
	MaxAttempts        int            `json:"max_attempts"`         // alert rounds per cycle
	LogFile            string         `json:"log_file"`             // medication log path
	SoundCandidates    []string       `json:"sound_candidates"`     // tried in order
	Slots              []ReminderSlot `json:"slots"`                // reminder slots
	ConfirmHoldSeconds int            `json:"confirm_hold_seconds"` // 0 = plain button
	PinDay             bool           `json:"pin_day"`              // keep the start-of-cycle day across midnight
	NoSound            bool           `json:"no_sound"`             // never play audible alerts
}

// DefaultSoundCandidates returns the alarm sounds tried before the bundled one
func DefaultSoundCandidates() []string {
	return []string{
		"/usr/share/sounds/freedesktop/stereo/complete.oga",
		"/usr/share/sounds/freedesktop/stereo/dialog-information.oga",
		"/usr/share/sounds/sound-icons/piano-3.wav",
		"/usr/share/sounds/sound-icons/chord-7.wav",
		BuiltinAlarm,
	}
}

// DefaultLogFile returns ~/med_log.json, or med_log.json if there is no home directory
func DefaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "med_log.json"
	}
	return filepath.Join(home, "med_log.json")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:     DefaultMaxAttempts,
		LogFile:         DefaultLogFile(),
		SoundCandidates: DefaultSoundCandidates(),
		Slots:           DefaultSlots(),
	}
}

// Slot returns the slot with the given key
func (c *Config) Slot(key string) (ReminderSlot, bool) {
	for _, s := range c.Slots {
		if s.Key == key {
			return s, true
		}
	}
	return ReminderSlot{}, false
}

// Validate checks the configuration for values a cycle cannot run with
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file must not be empty")
	}
	if c.ConfirmHoldSeconds < 0 {
		return fmt.Errorf("confirm_hold_seconds must not be negative")
	}

	seen := make(map[string]bool)
	for _, s := range c.Slots {
		if s.Key == "" {
			return fmt.Errorf("slot with empty key")
		}
		if seen[s.Key] {
			return fmt.Errorf("duplicate slot %q", s.Key)
		}
		seen[s.Key] = true
		if len(s.Medicines) == 0 {
			return fmt.Errorf("slot %q has no medicines", s.Key)
		}
	}

	return nil
}
