package reminder

// Confirmation is the outcome of one confirmation round: either every item
// was confirmed, or the user snoozed (or closed the window).
type Confirmation struct {
	confirmed bool
	items     []string
}

// Confirmed returns a confirmation carrying the checked items
func Confirmed(items []string) Confirmation {
	return Confirmation{confirmed: true, items: append([]string(nil), items...)}
}

// Snoozed returns a confirmation that asks for another round later
func Snoozed() Confirmation {
	return Confirmation{}
}

// IsConfirmed reports whether the user confirmed the slot
func (c Confirmation) IsConfirmed() bool {
	return c.confirmed
}

// Items returns the confirmed items, or nil for a snooze
func (c Confirmation) Items() []string {
	return c.items
}

func (c Confirmation) String() string {
	if c.confirmed {
		return "confirmed"
	}
	return "snoozed"
}
