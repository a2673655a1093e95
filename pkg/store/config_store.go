package store

import (
	"encoding/json"
	"log"

	"fyne.io/fyne/v2"
	"github.com/borgmon/med-reminder/pkg/models"
)

// ConfigStore handles configuration persistence using Fyne preferences
type ConfigStore struct {
	app fyne.App
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(app fyne.App) *ConfigStore {
	return &ConfigStore{app: app}
}

// Load loads configuration from preferences, falling back to defaults
func (cs *ConfigStore) Load() *models.Config {
	prefs := cs.app.Preferences()
	defaults := models.DefaultConfig()

	config := &models.Config{
		MaxAttempts:        prefs.IntWithFallback("max_attempts", defaults.MaxAttempts),
		LogFile:            prefs.StringWithFallback("log_file", defaults.LogFile),
		ConfirmHoldSeconds: prefs.IntWithFallback("confirm_hold_seconds", 0),
		PinDay:             prefs.BoolWithFallback("pin_day", false),
		NoSound:            prefs.BoolWithFallback("no_sound", false),
		SoundCandidates:    defaults.SoundCandidates,
		Slots:              defaults.Slots,
	}

	// Sound candidates are stored as a JSON list; an empty list is honoured
	if soundsJSON := prefs.String("sound_candidates"); soundsJSON != "" {
		var sounds []string
		if err := json.Unmarshal([]byte(soundsJSON), &sounds); err != nil {
			log.Printf("Ignoring invalid sound_candidates preference: %v", err)
		} else {
			config.SoundCandidates = sounds
		}
	}

	// Extra or overridden slots are merged over the built-in ones
	if slotsJSON := prefs.String("slots"); slotsJSON != "" {
		var slots []models.ReminderSlot
		if err := json.Unmarshal([]byte(slotsJSON), &slots); err != nil {
			log.Printf("Ignoring invalid slots preference: %v", err)
		} else {
			config.Slots = models.MergeSlots(defaults.Slots, slots)
		}
	}

	return config
}

// Save saves configuration to preferences
func (cs *ConfigStore) Save(config *models.Config) {
	prefs := cs.app.Preferences()

	prefs.SetInt("max_attempts", config.MaxAttempts)
	prefs.SetString("log_file", config.LogFile)
	prefs.SetInt("confirm_hold_seconds", config.ConfirmHoldSeconds)
	prefs.SetBool("pin_day", config.PinDay)
	prefs.SetBool("no_sound", config.NoSound)

	if soundsJSON, err := json.Marshal(config.SoundCandidates); err == nil {
		prefs.SetString("sound_candidates", string(soundsJSON))
	}

	if slotsJSON, err := json.Marshal(config.Slots); err == nil {
		prefs.SetString("slots", string(slotsJSON))
	}
}
