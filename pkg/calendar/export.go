package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const productID = "-//borgmon//med-reminder//EN"

// doseDuration is the length given to each exported dose event
const doseDuration = 5 * time.Minute

// DoseUID returns a stable UID for a (day, slot) dose so re-exports update
// instead of duplicating events in a calendar client
func DoseUID(day, slot string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("med-reminder:"+day+"/"+slot)).String()
}

// Summary returns the event title for a dose
func Summary(d Dose) string {
	return fmt.Sprintf("💊 %s medication taken", d.Slot)
}

// Description lists the medicines of a dose and how many reminders it took
func Description(d Dose) string {
	var b strings.Builder
	for _, med := range d.Medicines {
		b.WriteString("• " + med + "\n")
	}
	fmt.Fprintf(&b, "\nConfirmed on reminder #%d", d.ReminderCount+1)
	return b.String()
}

// NewCalendar builds a VCALENDAR with one VEVENT per dose
func NewCalendar(doses []Dose, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, d := range doses {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, DoseUID(d.Day, d.Slot))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, d.TimeTaken.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, d.TimeTaken.Add(doseDuration).UTC())
		event.Props.SetText(ical.PropSummary, Summary(d))
		event.Props.SetText(ical.PropDescription, Description(d))
		event.Props.SetText(ical.PropCategories, d.Slot)

		cal.Children = append(cal.Children, event.Component)
	}

	return cal
}

// Export writes doses as an iCalendar document
func Export(w io.Writer, doses []Dose, stamp time.Time) error {
	if len(doses) == 0 {
		return fmt.Errorf("no doses to export")
	}
	if err := ical.NewEncoder(w).Encode(NewCalendar(doses, stamp)); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}
