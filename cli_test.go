package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
	"github.com/borgmon/med-reminder/pkg/reminder"
	"github.com/borgmon/med-reminder/pkg/store"
)

// setupTestReminder returns a MedReminder backed by in-memory preferences,
// with its output captured and the log in a temp dir.
func setupTestReminder(t *testing.T) (*MedReminder, *bytes.Buffer, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "med_log.json")
	a := test.NewTempApp(t)
	a.Preferences().SetString("log_file", logFile)
	out := &bytes.Buffer{}
	return &MedReminder{app: a, configStore: store.NewConfigStore(a), out: out}, out, logFile
}

func runCLI(t *testing.T, mr *MedReminder, args ...string) error {
	t.Helper()
	return newCLIApp(mr).Run(append([]string{"med-reminder"}, args...))
}

func recordMorning(t *testing.T, logFile, day string, medicines []string, attempt int) {
	t.Helper()
	ts, err := time.ParseInLocation(models.DayKeyLayout, day, time.Local)
	require.NoError(t, err)
	ls := store.NewLogStore(logFile, store.WithClock(func() time.Time { return ts.Add(8*time.Hour + 5*time.Minute) }))
	_, err = ls.Record(day, "morning", medicines, attempt)
	require.NoError(t, err)
}

func TestSlotsCommand(t *testing.T) {
	mr, out, _ := setupTestReminder(t)

	require.NoError(t, runCLI(t, mr, "slots"))
	assert.Contains(t, out.String(), "morning: 🌅 MORNING MEDICATION TIME!")
	assert.Contains(t, out.String(), "  • Escitalopram 5mg")
	assert.Contains(t, out.String(), "afternoon: 🌆 AFTERNOON MEDICATION TIME!")
}

func TestStatusCommand(t *testing.T) {
	mr, out, logFile := setupTestReminder(t)
	recordMorning(t, logFile, "2026-03-01", models.DefaultSlots()[0].Medicines, 1)

	require.NoError(t, runCLI(t, mr, "status", "--day", "2026-03-01"))
	assert.Contains(t, out.String(), "Medication status for 2026-03-01:")
	assert.Contains(t, out.String(), "morning: ✅ taken at 08:05 (3/3, reminder #2)")
	assert.Contains(t, out.String(), "afternoon: ❌ not taken (0/1)")
}

func TestStatusCommand_Incomplete(t *testing.T) {
	mr, out, logFile := setupTestReminder(t)
	recordMorning(t, logFile, "2026-03-01", []string{"Elvanse 20mg"}, 0)

	require.NoError(t, runCLI(t, mr, "status", "--day", "2026-03-01"))
	assert.Contains(t, out.String(), "morning: ⚠️ incomplete (1/3)")
}

func TestStatusCommand_LogFileFlag(t *testing.T) {
	mr, out, _ := setupTestReminder(t)
	other := filepath.Join(t.TempDir(), "other.json")
	recordMorning(t, other, "2026-03-01", models.DefaultSlots()[0].Medicines, 0)

	require.NoError(t, runCLI(t, mr, "--log-file", other, "status", "--day", "2026-03-01"))
	assert.Contains(t, out.String(), "morning: ✅ taken")
}

func TestStatusCommand_CorruptLog(t *testing.T) {
	mr, _, logFile := setupTestReminder(t)
	require.NoError(t, os.WriteFile(logFile, []byte("{not json"), 0o644))

	err := runCLI(t, mr, "status", "--day", "2026-03-01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCorruptLog))
}

func TestStatusCommand_BadDay(t *testing.T) {
	mr, _, _ := setupTestReminder(t)

	err := runCLI(t, mr, "status", "--day", "March 1st")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestRemind_UnknownSlot(t *testing.T) {
	mr, _, _ := setupTestReminder(t)

	err := runCLI(t, mr, "evening")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidSlot))
}

func TestRemind_InvalidMaxAttempts(t *testing.T) {
	mr, _, _ := setupTestReminder(t)

	err := runCLI(t, mr, "--max-attempts", "0", "morning")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestExportCommand(t *testing.T) {
	mr, out, logFile := setupTestReminder(t)
	recordMorning(t, logFile, "2026-03-01", models.DefaultSlots()[0].Medicines, 0)
	recordMorning(t, logFile, "2026-03-02", models.DefaultSlots()[0].Medicines, 3)
	path := filepath.Join(t.TempDir(), "history.ics")

	require.NoError(t, runCLI(t, mr, "export", "--out", path, "--from", "2026-03-02"))
	assert.Contains(t, out.String(), "Exported 1 doses to "+path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cal, err := ical.NewDecoder(f).Decode()
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
}

func TestExportCommand_NothingToExport(t *testing.T) {
	mr, out, _ := setupTestReminder(t)
	path := filepath.Join(t.TempDir(), "history.ics")

	require.NoError(t, runCLI(t, mr, "export", "--out", path))
	assert.Contains(t, out.String(), "nothing exported")
	assert.NoFileExists(t, path)
}

func TestLookupSlot(t *testing.T) {
	cfg := models.DefaultConfig()

	slot, err := lookupSlot(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "morning", slot.Key)

	slot, err = lookupSlot(cfg, "afternoon")
	require.NoError(t, err)
	assert.Equal(t, 1, slot.Required())

	_, err = lookupSlot(cfg, "bedtime")
	assert.True(t, errors.Is(err, errors.ErrInvalidSlot))
}

func TestReport(t *testing.T) {
	mr, out, _ := setupTestReminder(t)
	slot := models.DefaultSlots()[0]

	require.NoError(t, mr.report(slot, reminder.Result{Outcome: reminder.OutcomeConfirmed}, nil))
	assert.Empty(t, out.String())

	require.NoError(t, mr.report(slot, reminder.Result{}, errors.NewCorruptLog("/tmp/med_log.json", nil)))
	assert.Contains(t, out.String(), "Cannot read the medication log")

	out.Reset()
	require.NoError(t, mr.report(slot, reminder.Result{}, context.Canceled))
	assert.Equal(t, "Reminders cancelled.\n", out.String())

	err := mr.report(slot, reminder.Result{}, errors.NewInternal("saving log", nil))
	assert.True(t, errors.Is(err, errors.ErrInternal))
}

func TestAutostartEntry(t *testing.T) {
	entry := autostartEntry("/usr/local/bin/med-reminder", models.DefaultSlots()[1])
	assert.Equal(t, "med-reminder-afternoon", entry.Name)
	assert.Equal(t, []string{"/usr/local/bin/med-reminder", "afternoon"}, entry.Exec)
	assert.True(t, strings.Contains(entry.DisplayName, "afternoon"))
}

func TestTrayStatus(t *testing.T) {
	slot := models.DefaultSlots()[0]
	assert.Equal(t, "morning: snoozed", trayStatus(slot, reminder.StateWaiting))
	assert.Equal(t, "morning: waiting for you", trayStatus(slot, reminder.StateAwaitingConfirmation))
	assert.Equal(t, "morning: done", trayStatus(slot, reminder.StateStopped))
	assert.Equal(t, "morning: checking", trayStatus(slot, reminder.StateChecking))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "Dexamfe...", truncateString("Dexamfetamine 5mg", 10))
}

func TestConfigSet(t *testing.T) {
	mr, out, _ := setupTestReminder(t)

	require.NoError(t, runCLI(t, mr, "config", "set", "max_attempts", "4"))
	require.NoError(t, runCLI(t, mr, "config", "set", "no_sound", "true"))
	require.NoError(t, runCLI(t, mr, "config", "set", "sound_candidates", "/tmp/a.wav, builtin:alarm"))
	assert.Contains(t, out.String(), "max_attempts set to 4")

	cfg := mr.configStore.Load()
	assert.Equal(t, 4, cfg.MaxAttempts)
	assert.True(t, cfg.NoSound)
	assert.Equal(t, []string{"/tmp/a.wav", models.BuiltinAlarm}, cfg.SoundCandidates)
}

func TestConfigSet_Rejected(t *testing.T) {
	mr, _, _ := setupTestReminder(t)

	for _, args := range [][]string{
		{"config", "set", "max_attempts", "zero"},
		{"config", "set", "max_attempts", "0"},
		{"config", "set", "pin_day", "maybe"},
		{"config", "set", "volume", "11"},
		{"config", "set", "max_attempts"},
	} {
		err := runCLI(t, mr, args...)
		require.Error(t, err, args)
		assert.True(t, errors.Is(err, errors.ErrInvalidConfig), args)
	}
	assert.Equal(t, models.DefaultMaxAttempts, mr.configStore.Load().MaxAttempts)
}

func TestConfigSet_FlagsAreNotSaved(t *testing.T) {
	mr, _, _ := setupTestReminder(t)

	require.NoError(t, runCLI(t, mr, "--max-attempts", "2", "config", "set", "pin_day", "true"))

	cfg := mr.configStore.Load()
	assert.True(t, cfg.PinDay)
	assert.Equal(t, models.DefaultMaxAttempts, cfg.MaxAttempts)
}

func TestConfigShow(t *testing.T) {
	mr, out, logFile := setupTestReminder(t)

	require.NoError(t, runCLI(t, mr, "config", "show"))
	assert.Contains(t, out.String(), "max_attempts = 10\n")
	assert.Contains(t, out.String(), "log_file = "+logFile+"\n")
	assert.Contains(t, out.String(), "no_sound = false\n")
}

func TestConfigSlotAddAndRemove(t *testing.T) {
	mr, out, _ := setupTestReminder(t)

	require.NoError(t, runCLI(t, mr, "config", "slot", "add", "--title", "Bedtime", "bedtime", "Melatonin 2mg", "Magnesium"))
	assert.Contains(t, out.String(), "Slot bedtime now has 2 medicines")

	slot, ok := mr.configStore.Load().Slot("bedtime")
	require.True(t, ok)
	assert.Equal(t, "Bedtime", slot.Title)
	assert.Equal(t, []string{"Melatonin 2mg", "Magnesium"}, slot.Medicines)

	out.Reset()
	require.NoError(t, runCLI(t, mr, "slots"))
	assert.Contains(t, out.String(), "bedtime: Bedtime")

	require.NoError(t, runCLI(t, mr, "config", "slot", "remove", "bedtime"))
	_, ok = mr.configStore.Load().Slot("bedtime")
	assert.False(t, ok)
}

func TestConfigSlotAdd_OverridesBuiltin(t *testing.T) {
	mr, _, _ := setupTestReminder(t)

	require.NoError(t, runCLI(t, mr, "config", "slot", "add", "afternoon", "Dexamfetamine 10mg"))

	cfg := mr.configStore.Load()
	slot, ok := cfg.Slot("afternoon")
	require.True(t, ok)
	assert.Equal(t, []string{"Dexamfetamine 10mg"}, slot.Medicines)
	assert.Len(t, cfg.Slots, 2)
}

func TestConfigSlotRemove_Rejected(t *testing.T) {
	mr, _, _ := setupTestReminder(t)

	err := runCLI(t, mr, "config", "slot", "remove", "morning")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	err = runCLI(t, mr, "config", "slot", "remove", "bedtime")
	assert.True(t, errors.Is(err, errors.ErrInvalidSlot))

	err = runCLI(t, mr, "config", "slot", "add", "bedtime")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
