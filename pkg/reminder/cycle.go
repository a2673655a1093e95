package reminder

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
)

// NotificationTitle is the summary line of every reminder notification
const NotificationTitle = "Medication Reminder"

// LogStore reads and writes the medication log
type LogStore interface {
	Load() (models.DailyLog, error)
	Record(day, slot string, medicines []string, attempt int) (models.LogEntry, error)
}

// Notifier delivers a desktop notification
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Sounder plays an audible alert from the first usable candidate
type Sounder interface {
	PlayAlert(ctx context.Context, candidates []string) error
}

// Confirmer asks the user to confirm a slot. It blocks until the user answers.
type Confirmer interface {
	Solicit(ctx context.Context, slot models.ReminderSlot, attempt int) (Confirmation, error)
}

// State is a reminder cycle state
type State int

const (
	StateIdle State = iota
	StateChecking
	StateAlerting
	StateAwaitingConfirmation
	StateRecording
	StateWaiting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateAlerting:
		return "alerting"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	case StateRecording:
		return "recording"
	case StateWaiting:
		return "waiting"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome is why a cycle stopped
type Outcome string

const (
	OutcomeAlreadySatisfied Outcome = "already-satisfied"
	OutcomeConfirmed        Outcome = "confirmed"
	OutcomeExhausted        Outcome = "exhausted"
)

// Result summarises a finished cycle
type Result struct {
	Outcome  Outcome
	Day      string           // DayKey the cycle last evaluated
	Attempts int              // alert rounds issued
	Entry    *models.LogEntry // set when Outcome is OutcomeConfirmed
}

// Cycle drives the check, alert, confirm, record loop for one slot
type Cycle struct {
	Slot        models.ReminderSlot
	Store       LogStore
	Notifier    Notifier
	Sounder     Sounder // optional
	Confirmer   Confirmer
	Sounds      []string // sound candidates in priority order
	MaxAttempts int
	PinDay      bool // evaluate the day the cycle started, even after midnight
	NoSound     bool

	Now          func() time.Time
	Sleep        func(ctx context.Context, d time.Duration) error
	Logger       *log.Logger
	Out          io.Writer // user-facing status lines
	OnTransition func(from, to State)
}

// afterSnooze advances the attempt counter and picks the next state
func afterSnooze(attempts models.AttemptState) (models.AttemptState, State) {
	next := attempts.Next()
	if next.Exhausted() {
		return next, StateStopped
	}
	return next, StateWaiting
}

// NotificationBody renders the notification text for a slot
func NotificationBody(slot models.ReminderSlot) string {
	var b strings.Builder
	b.WriteString("🏥 MEDICATION TIME!\n\n")
	for i, med := range slot.Medicines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + med)
	}
	return b.String()
}

// Run executes the cycle until it reaches a terminal state. A CORRUPT_LOG
// error or a cancelled context ends the cycle early with an error.
func (c *Cycle) Run(ctx context.Context) (Result, error) {
	c.setDefaults()

	if c.MaxAttempts < 1 {
		return Result{}, errors.NewInvalidConfig(fmt.Sprintf("max attempts must be at least 1, got %d", c.MaxAttempts))
	}
	if c.Slot.Required() == 0 {
		return Result{}, errors.NewInvalidConfig(fmt.Sprintf("slot %q has no medicines", c.Slot.Key))
	}

	startDay := models.DayKeyFor(c.Now())
	attempts := models.AttemptState{Max: c.MaxAttempts}

	var (
		result    Result
		confirmed []string
		firstPass = true
	)

	state := StateIdle
	c.transition(&state, StateChecking)

	for {
		switch state {
		case StateChecking:
			day := c.dayKey(startDay)
			result.Day = day

			dailyLog, err := c.Store.Load()
			if err != nil {
				return result, err
			}

			if IsComplete(dailyLog, day, c.Slot.Key, c.Slot.Required()) {
				if firstPass {
					c.status("Medications already taken today!")
				} else {
					c.status("Medications were taken - stopping reminders!")
				}
				result.Outcome = OutcomeAlreadySatisfied
				c.transition(&state, StateStopped)
				continue
			}

			if firstPass {
				c.status("Starting medication reminder cycle...")
				firstPass = false
			}
			c.transition(&state, StateAlerting)

		case StateAlerting:
			policy := Escalate(attempts.Index)
			c.status(fmt.Sprintf("Reminder #%d", attempts.Index+1))
			c.alert(ctx, policy)
			result.Attempts = attempts.Index + 1
			c.transition(&state, StateAwaitingConfirmation)

		case StateAwaitingConfirmation:
			conf, err := c.Confirmer.Solicit(ctx, c.Slot, attempts.Index)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return result, ctxErr
				}
				if errors.IsFatal(err) {
					return result, err
				}
				if !errors.Is(err, errors.ErrInteractionClosed) {
					c.Logger.Printf("Confirmation failed, treating as snooze: %v", err)
				}
				conf = Snoozed()
			}

			if conf.IsConfirmed() && len(conf.Items()) != c.Slot.Required() {
				c.Logger.Printf("Ignoring partial confirmation: %d of %d medications", len(conf.Items()), c.Slot.Required())
				conf = Snoozed()
			}

			if conf.IsConfirmed() {
				confirmed = conf.Items()
				c.transition(&state, StateRecording)
				continue
			}

			var next State
			attempts, next = afterSnooze(attempts)
			if next == StateStopped {
				c.status("Maximum reminders reached. Please take your medication!")
				result.Outcome = OutcomeExhausted
			}
			c.transition(&state, next)

		case StateRecording:
			day := c.dayKey(startDay)
			entry, err := c.Store.Record(day, c.Slot.Key, confirmed, attempts.Index)
			if err != nil {
				return result, err
			}
			c.status("Medications taken successfully!")
			result.Day = day
			result.Entry = &entry
			result.Outcome = OutcomeConfirmed
			c.transition(&state, StateStopped)

		case StateWaiting:
			wait := Escalate(attempts.Index).Wait()
			c.status(fmt.Sprintf("Waiting %s before next reminder...", formatWait(wait)))
			if err := c.Sleep(ctx, wait); err != nil {
				return result, err
			}
			c.transition(&state, StateChecking)

		case StateStopped:
			return result, nil

		default:
			return result, errors.NewInternal(fmt.Sprintf("unexpected cycle state %s", state), nil)
		}
	}
}

func (c *Cycle) setDefaults() {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Sleep == nil {
		c.Sleep = SleepContext
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
}

func (c *Cycle) dayKey(startDay string) string {
	if c.PinDay {
		return startDay
	}
	return models.DayKeyFor(c.Now())
}

func (c *Cycle) transition(state *State, to State) {
	from := *state
	*state = to
	if c.OnTransition != nil {
		c.OnTransition(from, to)
	}
}

// alert delivers the notification and, if the policy asks for it, the sound.
// Failures are logged and never stop the cycle.
func (c *Cycle) alert(ctx context.Context, policy models.AlertPolicy) {
	n := models.Notification{
		Title:   NotificationTitle,
		Body:    NotificationBody(c.Slot),
		Urgency: policy.Urgency,
		Timeout: policy.NotificationTimeout(),
	}
	if c.Notifier != nil {
		if err := c.Notifier.Notify(ctx, n); err != nil {
			c.Logger.Printf("Notification failed: %v", err)
		}
	}

	if !policy.PlaySound || c.NoSound || c.Sounder == nil {
		return
	}
	if err := c.Sounder.PlayAlert(ctx, c.Sounds); err != nil && !stderrors.Is(err, context.Canceled) {
		c.Logger.Printf("Alarm sound failed: %v", err)
	}
}

func (c *Cycle) status(line string) {
	fmt.Fprintln(c.Out, line)
}

func formatWait(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return d.String()
}

// SleepContext waits for d or until ctx is done
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
