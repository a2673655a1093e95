package reminder

import "github.com/borgmon/med-reminder/pkg/models"

// IsComplete reports whether slot was fully confirmed on day. Partial
// confirmations never count.
func IsComplete(log models.DailyLog, day, slot string, required int) bool {
	if required <= 0 {
		return false
	}
	entry, ok := log.Entry(day, slot)
	if !ok {
		return false
	}
	return len(entry.Medicines) == required
}
