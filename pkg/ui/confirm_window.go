package ui

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
	"github.com/borgmon/med-reminder/pkg/platform"
	"github.com/borgmon/med-reminder/pkg/reminder"
)

const refocusInterval = 2 * time.Second

var (
	colorLightBlue = color.NRGBA{R: 0xad, G: 0xd8, B: 0xe6, A: 0xff}
	colorOrange    = color.NRGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
	colorRed       = color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

// backgroundFor returns the window colour for a zero-based attempt index
func backgroundFor(attempt int) color.Color {
	switch {
	case attempt > 3:
		return colorRed
	case attempt > 1:
		return colorOrange
	default:
		return colorLightBlue
	}
}

// answer is what the user did with one round
type answer struct {
	conf reminder.Confirmation
	err  error
}

// ConfirmWindow asks the user to confirm a slot in a fyne window. One window
// is reused across rounds and hidden between them, so the app keeps running
// while the cycle waits.
type ConfirmWindow struct {
	app  fyne.App
	hold time.Duration

	mu        sync.Mutex
	win       fyne.Window
	shown     bool
	pending   func(answer)
	checklist *Checklist
	stopFocus chan struct{}
}

// NewConfirmWindow creates a ConfirmWindow. holdSeconds > 0 requires the
// confirm button to be held down.
func NewConfirmWindow(app fyne.App, holdSeconds int) *ConfirmWindow {
	return &ConfirmWindow{
		app:  app,
		hold: time.Duration(holdSeconds) * time.Second,
	}
}

// Solicit implements reminder.Confirmer. It must not be called from the UI goroutine.
func (cw *ConfirmWindow) Solicit(ctx context.Context, slot models.ReminderSlot, attempt int) (reminder.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return reminder.Snoozed(), err
	}

	result := make(chan answer, 1)
	var once sync.Once
	deliver := func(a answer) {
		once.Do(func() { result <- a })
	}

	fyne.Do(func() {
		cw.open(ctx, slot, attempt, deliver)
	})

	select {
	case a := <-result:
		cw.hide()
		if a.err != nil {
			log.Printf("Reminder #%d for %s: %v", attempt+1, slot.Key, a.err)
			return reminder.Snoozed(), a.err
		}
		log.Printf("Reminder #%d for %s: %s", attempt+1, slot.Key, a.conf)
		return a.conf, nil
	case <-ctx.Done():
		cw.hide()
		return reminder.Snoozed(), ctx.Err()
	}
}

// open shows the round unless ctx ended while the call was queued on the UI goroutine
func (cw *ConfirmWindow) open(ctx context.Context, slot models.ReminderSlot, attempt int, deliver func(answer)) {
	if ctx.Err() != nil {
		return
	}
	window := cw.ensureWindow()

	checklist := NewChecklist(slot.Medicines, cw.hold)
	checklist.OnConfirm = func(items []string) {
		deliver(answer{conf: reminder.Confirmed(items)})
	}
	checklist.OnSnooze = func() {
		deliver(answer{conf: reminder.Snoozed()})
	}
	checklist.OnIncomplete = func(message string) {
		fyne.Do(func() {
			dialog.ShowInformation("Incomplete", message, window)
		})
	}

	window.SetContent(buildContent(slot, attempt, checklist))
	window.CenterOnScreen()

	stopFocus := make(chan struct{})
	cw.mu.Lock()
	// Solicit hides only once ctx is done
	if ctx.Err() != nil {
		cw.mu.Unlock()
		return
	}
	cw.shown = true
	cw.pending = deliver
	cw.checklist = checklist
	cw.stopFocus = stopFocus
	cw.mu.Unlock()

	window.Show()
	window.RequestFocus()
	platform.ActivateApp()

	go keepInFront(window, stopFocus)
}

// ensureWindow returns the shared window, creating it on first use
func (cw *ConfirmWindow) ensureWindow() fyne.Window {
	cw.mu.Lock()
	window := cw.win
	cw.mu.Unlock()
	if window != nil {
		return window
	}

	window = cw.app.NewWindow("Medication Reminder")

	// Closing the window ends the round early; the cycle snoozes
	window.SetCloseIntercept(func() {
		cw.dismiss()
		window.Hide()
	})
	window.SetOnClosed(func() {
		cw.mu.Lock()
		if cw.win == window {
			cw.win = nil
		}
		cw.mu.Unlock()
		cw.dismiss()
	})

	cw.mu.Lock()
	cw.win = window
	cw.mu.Unlock()
	return window
}

// dismiss answers the open round as closed by the user
func (cw *ConfirmWindow) dismiss() {
	cw.mu.Lock()
	deliver := cw.pending
	cw.pending = nil
	cw.shown = false
	if cw.stopFocus != nil {
		close(cw.stopFocus)
		cw.stopFocus = nil
	}
	cw.mu.Unlock()

	if deliver != nil {
		deliver(answer{err: errors.NewInteractionClosed()})
	}
}

// hide ends the round without answering it again
func (cw *ConfirmWindow) hide() {
	cw.mu.Lock()
	window := cw.win
	cw.pending = nil
	cw.shown = false
	if cw.stopFocus != nil {
		close(cw.stopFocus)
		cw.stopFocus = nil
	}
	cw.mu.Unlock()

	if window != nil {
		fyne.Do(window.Hide)
	}
}

// Close destroys the shared window
func (cw *ConfirmWindow) Close() {
	cw.mu.Lock()
	window := cw.win
	cw.win = nil
	cw.mu.Unlock()

	if window != nil {
		fyne.Do(window.Close)
	}
}

// currentChecklist returns the checklist of the open round, if any
func (cw *ConfirmWindow) currentChecklist() *Checklist {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if !cw.shown {
		return nil
	}
	return cw.checklist
}

// window returns the confirmation window while a round is open
func (cw *ConfirmWindow) window() fyne.Window {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if !cw.shown {
		return nil
	}
	return cw.win
}

// keepInFront pulls the window back to the front whenever another app takes focus
func keepInFront(window fyne.Window, stop <-chan struct{}) {
	ticker := time.NewTicker(refocusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if platform.IsAppActive() {
				continue
			}
			log.Println("Confirmation window lost focus, bringing it back")
			fyne.Do(func() {
				platform.ActivateApp()
				window.RequestFocus()
			})
		}
	}
}

func buildContent(slot models.ReminderSlot, attempt int, checklist *Checklist) fyne.CanvasObject {
	bg := canvas.NewRectangle(backgroundFor(attempt))

	title := canvas.NewText(slot.DisplayTitle(), color.Black)
	title.TextSize = 24
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	counter := widget.NewLabel(fmt.Sprintf("Reminder #%d", attempt+1))
	counter.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(
		container.NewPadded(title),
		counter,
		widget.NewSeparator(),
		checklist.Content(),
	)

	return container.NewStack(bg, container.NewPadded(container.NewCenter(content)))
}
