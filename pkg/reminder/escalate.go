package reminder

import "github.com/borgmon/med-reminder/pkg/models"

// Escalate returns the alert policy for a 0-based attempt index.
//
//	i = 0      normal,   silent, 300s
//	1 <= i < 3 normal,   sound,  300s
//	3 <= i < 6 critical, sound,  180s
//	i >= 6     critical, sound,   60s
//
// Negative indices are treated as 0.
func Escalate(attempt int) models.AlertPolicy {
	switch {
	case attempt <= 0:
		return models.AlertPolicy{Urgency: models.UrgencyNormal, PlaySound: false, WaitSeconds: 300}
	case attempt < 3:
		return models.AlertPolicy{Urgency: models.UrgencyNormal, PlaySound: true, WaitSeconds: 300}
	case attempt < 6:
		return models.AlertPolicy{Urgency: models.UrgencyCritical, PlaySound: true, WaitSeconds: 180}
	default:
		return models.AlertPolicy{Urgency: models.UrgencyCritical, PlaySound: true, WaitSeconds: 60}
	}
}
