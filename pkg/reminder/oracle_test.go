package reminder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/borgmon/med-reminder/pkg/models"
	"github.com/borgmon/med-reminder/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsComplete(t *testing.T) {
	log := models.DailyLog{}
	log.Set("2026-05-04", "morning", models.LogEntry{Medicines: []string{"a", "b", "c"}})
	log.Set("2026-05-04", "afternoon", models.LogEntry{Medicines: []string{"a"}})

	tests := []struct {
		name     string
		day      string
		slot     string
		required int
		want     bool
	}{
		{"all confirmed", "2026-05-04", "morning", 3, true},
		{"partial", "2026-05-04", "afternoon", 2, false},
		{"more required than logged", "2026-05-04", "morning", 4, false},
		{"other day", "2026-05-05", "morning", 3, false},
		{"unknown slot", "2026-05-04", "evening", 1, false},
		{"nothing required", "2026-05-04", "evening", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComplete(log, tt.day, tt.slot, tt.required))
		})
	}
}

func TestIsComplete_AgreesWithRecord(t *testing.T) {
	ls := store.NewLogStore(filepath.Join(t.TempDir(), "med_log.json"))
	slots := models.DefaultSlots()
	days := []string{"2026-05-04", "2026-05-05"}

	// morning fully confirmed on the first day, afternoon only partially
	_, err := ls.Record(days[0], "morning", slots[0].Medicines, 0)
	require.NoError(t, err)
	_, err = ls.Record(days[0], "afternoon", nil, 0)
	require.NoError(t, err)

	log, err := ls.Load()
	require.NoError(t, err)

	assert.True(t, IsComplete(log, days[0], "morning", slots[0].Required()))
	assert.False(t, IsComplete(log, days[0], "afternoon", slots[1].Required()))
	for _, s := range slots {
		assert.False(t, IsComplete(log, days[1], s.Key, s.Required()))
	}
}

func TestIsComplete_EmptyLog(t *testing.T) {
	assert.False(t, IsComplete(models.DailyLog{}, models.DayKeyFor(time.Now()), "morning", 3))
	assert.False(t, IsComplete(nil, "2026-05-04", "morning", 3))
}
