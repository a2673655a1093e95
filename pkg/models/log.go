package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeTakenLayouts are accepted when reading time_taken. The zone-less forms
// are what older logs contain and are read as local time.
var timeTakenLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// LogEntry records the confirmation of one slot on one day
type LogEntry struct {
	Medicines     []string  // Medicines the user checked off
	TimeTaken     time.Time // When the confirmation happened
	ReminderCount int       // Attempt index at which confirmation occurred

	// Extra keeps fields written by newer versions so a rewrite does not drop them
	Extra map[string]json.RawMessage
}

// DailyLog maps DayKey to slot key to entry
type DailyLog map[string]map[string]LogEntry

// Entry returns the entry for (day, slot), if any
func (l DailyLog) Entry(day, slot string) (LogEntry, bool) {
	slots, ok := l[day]
	if !ok {
		return LogEntry{}, false
	}
	entry, ok := slots[slot]
	return entry, ok
}

// Set stores entry under (day, slot), replacing any previous entry
func (l DailyLog) Set(day, slot string, entry LogEntry) {
	if l[day] == nil {
		l[day] = make(map[string]LogEntry)
	}
	l[day][slot] = entry
}

type logEntryWire struct {
	Medicines     []string `json:"medicines"`
	TimeTaken     string   `json:"time_taken"`
	ReminderCount int      `json:"reminder_count"`
}

var knownEntryFields = map[string]bool{
	"medicines":      true,
	"time_taken":     true,
	"reminder_count": true,
}

// MarshalJSON writes the entry with its on-disk field names
func (e LogEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.Extra)+3)
	for k, v := range e.Extra {
		if !knownEntryFields[k] {
			out[k] = v
		}
	}

	medicines := e.Medicines
	if medicines == nil {
		medicines = []string{}
	}

	fields := map[string]any{
		"medicines":      medicines,
		"time_taken":     e.TimeTaken.Format(time.RFC3339Nano),
		"reminder_count": e.ReminderCount,
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = raw
	}

	return json.Marshal(out)
}

// UnmarshalJSON reads an entry, keeping unknown fields in Extra
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var wire logEntryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*e = LogEntry{
		Medicines:     wire.Medicines,
		ReminderCount: wire.ReminderCount,
	}

	if wire.TimeTaken != "" {
		t, err := parseTimeTaken(wire.TimeTaken)
		if err != nil {
			return err
		}
		e.TimeTaken = t
	}

	for k, v := range all {
		if knownEntryFields[k] {
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]json.RawMessage)
		}
		e.Extra[k] = v
	}

	return nil
}

func parseTimeTaken(value string) (time.Time, error) {
	for _, layout := range timeTakenLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time_taken %q", value)
}
