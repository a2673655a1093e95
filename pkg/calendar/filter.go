package calendar

import (
	"log"
	"sort"
	"time"

	"github.com/borgmon/med-reminder/pkg/models"
)

// Dose is one confirmed slot on one day
type Dose struct {
	Day           string
	Slot          string
	Medicines     []string
	TimeTaken     time.Time
	ReminderCount int
}

// Range limits an export to DayKeys between From and To, inclusive. Empty
// bounds are open.
type Range struct {
	From string
	To   string
}

func (r Range) contains(day string) bool {
	if r.From != "" && day < r.From {
		return false
	}
	if r.To != "" && day > r.To {
		return false
	}
	return true
}

// Doses flattens the log into doses within r, ordered by day then slot
func Doses(dailyLog models.DailyLog, r Range) []Dose {
	doses := []Dose{}
	filtered := 0

	for day, slots := range dailyLog {
		if _, err := time.ParseInLocation(models.DayKeyLayout, day, time.Local); err != nil {
			log.Printf("  [FILTERED] [Bad day key] - %q", day)
			filtered++
			continue
		}
		if !r.contains(day) {
			filtered++
			continue
		}

		for slot, entry := range slots {
			if len(entry.Medicines) == 0 {
				log.Printf("  [FILTERED] [No medicines] - %s/%s", day, slot)
				filtered++
				continue
			}
			doses = append(doses, Dose{
				Day:           day,
				Slot:          slot,
				Medicines:     entry.Medicines,
				TimeTaken:     takenAt(day, entry.TimeTaken),
				ReminderCount: entry.ReminderCount,
			})
		}
	}

	sort.Slice(doses, func(i, j int) bool {
		if doses[i].Day != doses[j].Day {
			return doses[i].Day < doses[j].Day
		}
		return doses[i].Slot < doses[j].Slot
	})

	if filtered > 0 {
		log.Printf("Export: %d doses selected, %d filtered", len(doses), filtered)
	}
	return doses
}

// takenAt falls back to local midnight of the day when no time was logged
func takenAt(day string, t time.Time) time.Time {
	if !t.IsZero() {
		return t
	}
	midnight, _ := time.ParseInLocation(models.DayKeyLayout, day, time.Local)
	return midnight
}
