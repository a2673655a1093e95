package models

import "time"

// Urgency is the notification urgency level
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// AlertPolicy is the alert intensity for one attempt
type AlertPolicy struct {
	Urgency     Urgency
	PlaySound   bool
	WaitSeconds int // pause before the next attempt
}

// Wait returns WaitSeconds as a duration
func (p AlertPolicy) Wait() time.Duration {
	return time.Duration(p.WaitSeconds) * time.Second
}

// NotificationTimeout returns how long the desktop notification stays visible
func (p AlertPolicy) NotificationTimeout() time.Duration {
	if p.Urgency == UrgencyCritical {
		return 30 * time.Second
	}
	return 10 * time.Second
}

// AttemptState tracks alert rounds for a single cycle. It is passed by value.
type AttemptState struct {
	Index int // 0-based attempt index
	Max   int // attempts allowed before giving up
}

// Next returns the state after a non-completing round
func (a AttemptState) Next() AttemptState {
	return AttemptState{Index: a.Index + 1, Max: a.Max}
}

// Exhausted reports whether no attempts remain
func (a AttemptState) Exhausted() bool {
	return a.Index >= a.Max
}

// Notification is a desktop notification request
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
}
