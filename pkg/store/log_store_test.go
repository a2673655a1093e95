package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestLogStore(t *testing.T) *LogStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "med_log.json")
	return NewLogStore(path, WithClock(fixedClock(time.Date(2026, 5, 4, 8, 30, 0, 0, time.Local))))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	ls := newTestLogStore(t)

	log, err := ls.Load()
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.Empty(t, log)
}

func TestLoad_CorruptFile(t *testing.T) {
	ls := newTestLogStore(t)
	require.NoError(t, os.WriteFile(ls.Path(), []byte(`{"2026-05-04": {`), 0o644))

	_, err := ls.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCorruptLog))
}

func TestLoad_EmptyFileIsCorrupt(t *testing.T) {
	ls := newTestLogStore(t)
	require.NoError(t, os.WriteFile(ls.Path(), []byte("  \n"), 0o644))

	_, err := ls.Load()
	assert.True(t, errors.Is(err, errors.ErrCorruptLog))
}

func TestLoad_NullDocument(t *testing.T) {
	ls := newTestLogStore(t)
	require.NoError(t, os.WriteFile(ls.Path(), []byte("null"), 0o644))

	log, err := ls.Load()
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestRecord_WritesOnDiskFormat(t *testing.T) {
	ls := newTestLogStore(t)

	entry, err := ls.Record("2026-05-04", "morning", []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.ReminderCount)

	data, err := os.ReadFile(ls.Path())
	require.NoError(t, err)

	var raw map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	got := raw["2026-05-04"]["morning"]
	assert.Equal(t, []any{"a", "b", "c"}, got["medicines"])
	assert.Equal(t, float64(2), got["reminder_count"])
	assert.NotEmpty(t, got["time_taken"])
}

func TestRecord_OverwritesSamePair(t *testing.T) {
	ls := newTestLogStore(t)

	_, err := ls.Record("2026-05-04", "morning", []string{"a"}, 0)
	require.NoError(t, err)
	_, err = ls.Record("2026-05-04", "afternoon", []string{"x"}, 1)
	require.NoError(t, err)
	_, err = ls.Record("2026-05-03", "morning", []string{"old"}, 4)
	require.NoError(t, err)

	_, err = ls.Record("2026-05-04", "morning", []string{"a", "b", "c"}, 3)
	require.NoError(t, err)

	log, err := ls.Load()
	require.NoError(t, err)
	require.Len(t, log, 2)
	require.Len(t, log["2026-05-04"], 2)

	morning, _ := log.Entry("2026-05-04", "morning")
	assert.Equal(t, []string{"a", "b", "c"}, morning.Medicines)
	assert.Equal(t, 3, morning.ReminderCount)

	afternoon, _ := log.Entry("2026-05-04", "afternoon")
	assert.Equal(t, []string{"x"}, afternoon.Medicines)

	previous, _ := log.Entry("2026-05-03", "morning")
	assert.Equal(t, []string{"old"}, previous.Medicines)
	assert.Equal(t, 4, previous.ReminderCount)
}

func TestRecord_RefusesToOverwriteCorruptLog(t *testing.T) {
	ls := newTestLogStore(t)
	garbage := []byte("not json at all")
	require.NoError(t, os.WriteFile(ls.Path(), garbage, 0o644))

	_, err := ls.Record("2026-05-04", "morning", []string{"a"}, 0)
	require.True(t, errors.Is(err, errors.ErrCorruptLog))

	data, err := os.ReadFile(ls.Path())
	require.NoError(t, err)
	assert.Equal(t, garbage, data)
}

func TestRecord_NoTempFilesLeft(t *testing.T) {
	ls := newTestLogStore(t)

	_, err := ls.Record("2026-05-04", "morning", []string{"a"}, 0)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(ls.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "med_log.json", entries[0].Name())
}

func TestRecord_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "med_log.json")
	ls := NewLogStore(path)

	_, err := ls.Record("2026-05-04", "morning", []string{"a"}, 0)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestRecord_KeepsUnknownFields(t *testing.T) {
	ls := newTestLogStore(t)
	existing := `{"2026-05-04": {"morning": {"medicines": ["a"], "time_taken": "2026-05-04T07:00:00", "reminder_count": 0, "note": "late"}}}`
	require.NoError(t, os.WriteFile(ls.Path(), []byte(existing), 0o644))

	_, err := ls.Record("2026-05-04", "morning", []string{"a", "b"}, 1)
	require.NoError(t, err)

	data, err := os.ReadFile(ls.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"note": "late"`)
}
