package reminder

import (
	"testing"

	"github.com/borgmon/med-reminder/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestEscalate_Table(t *testing.T) {
	normalSilent := models.AlertPolicy{Urgency: models.UrgencyNormal, PlaySound: false, WaitSeconds: 300}
	normalSound := models.AlertPolicy{Urgency: models.UrgencyNormal, PlaySound: true, WaitSeconds: 300}
	critical := models.AlertPolicy{Urgency: models.UrgencyCritical, PlaySound: true, WaitSeconds: 180}
	criticalFast := models.AlertPolicy{Urgency: models.UrgencyCritical, PlaySound: true, WaitSeconds: 60}

	want := []models.AlertPolicy{
		normalSilent,
		normalSound, normalSound,
		critical, critical, critical,
		criticalFast, criticalFast, criticalFast, criticalFast,
	}

	for i := 0; i < models.DefaultMaxAttempts; i++ {
		assert.Equal(t, want[i], Escalate(i), "attempt %d", i)
	}
	assert.Equal(t, criticalFast, Escalate(250))
	assert.Equal(t, normalSilent, Escalate(-1))
}

func TestEscalate_FirstFourAttempts(t *testing.T) {
	var urgencies []models.Urgency
	var sounds []bool
	var waits []int
	for i := 0; i <= 3; i++ {
		p := Escalate(i)
		urgencies = append(urgencies, p.Urgency)
		sounds = append(sounds, p.PlaySound)
		waits = append(waits, p.WaitSeconds)
	}

	assert.Equal(t, []models.Urgency{models.UrgencyNormal, models.UrgencyNormal, models.UrgencyNormal, models.UrgencyCritical}, urgencies)
	assert.Equal(t, []bool{false, true, true, true}, sounds)
	assert.Equal(t, []int{300, 300, 300, 180}, waits)
}

func TestEscalate_WaitNeverGrows(t *testing.T) {
	prev := Escalate(0).WaitSeconds
	for i := 1; i < 50; i++ {
		wait := Escalate(i).WaitSeconds
		assert.LessOrEqual(t, wait, prev, "attempt %d", i)
		prev = wait
	}
}
