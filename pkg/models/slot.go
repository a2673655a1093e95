package models

import (
	"sort"
	"strings"
	"time"
)

// DayKeyLayout formats a local calendar date as a sortable key.
const DayKeyLayout = "2006-01-02"

// DefaultSlotKey is used when no slot is given on the command line.
const DefaultSlotKey = "morning"

// ReminderSlot is a named set of medicines that must all be taken at one time of day
type ReminderSlot struct {
	Key       string   `json:"key"`
	Title     string   `json:"title"`
	Medicines []string `json:"medicines"`
}

// Required returns the number of medicines that must be confirmed
func (s ReminderSlot) Required() int {
	return len(s.Medicines)
}

// DisplayTitle returns the slot title, deriving one from the key if none is set
func (s ReminderSlot) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return strings.ToUpper(s.Key) + " MEDICATION TIME!"
}

// DefaultSlots returns the built-in morning and afternoon slots
func DefaultSlots() []ReminderSlot {
	return []ReminderSlot{
		{
			Key:   "morning",
			Title: "🌅 MORNING MEDICATION TIME!",
			Medicines: []string{
				"Elvanse 20mg",
				"Escitalopram 5mg",
				"Dexamfetamine 5mg",
			},
		},
		{
			Key:       "afternoon",
			Title:     "🌆 AFTERNOON MEDICATION TIME!",
			Medicines: []string{"Dexamfetamine 5mg (afternoon dose)"},
		},
	}
}

// MergeSlots overlays configured slots on top of base, matching by key.
// Order follows base, with new keys appended in overlay order.
func MergeSlots(base, overlay []ReminderSlot) []ReminderSlot {
	result := make([]ReminderSlot, 0, len(base)+len(overlay))
	index := make(map[string]int)

	for _, s := range base {
		index[s.Key] = len(result)
		result = append(result, s)
	}
	for _, s := range overlay {
		if i, ok := index[s.Key]; ok {
			result[i] = s
			continue
		}
		index[s.Key] = len(result)
		result = append(result, s)
	}

	return result
}

// SlotKeys returns the sorted keys of the given slots
func SlotKeys(slots []ReminderSlot) []string {
	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		keys = append(keys, s.Key)
	}
	sort.Strings(keys)
	return keys
}

// DayKeyFor returns the local calendar date of t as a DayKey
func DayKeyFor(t time.Time) string {
	return t.Local().Format(DayKeyLayout)
}
