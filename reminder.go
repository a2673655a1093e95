package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"fyne.io/fyne/v2"

	"github.com/borgmon/med-reminder/pkg/audio"
	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
	"github.com/borgmon/med-reminder/pkg/notify"
	"github.com/borgmon/med-reminder/pkg/platform"
	"github.com/borgmon/med-reminder/pkg/reminder"
	"github.com/borgmon/med-reminder/pkg/store"
	"github.com/borgmon/med-reminder/pkg/ui"
)

// configStore persists the configuration between runs
type configStore interface {
	Load() *models.Config
	Save(config *models.Config)
}

// MedReminder wires the reminder cycle to the desktop
type MedReminder struct {
	app         fyne.App
	configStore configStore
	out         io.Writer

	cancel context.CancelFunc
}

func (mr *MedReminder) newCycle(cfg *models.Config, slot models.ReminderSlot, confirmer reminder.Confirmer) *reminder.Cycle {
	return &reminder.Cycle{
		Slot:        slot,
		Store:       store.NewLogStore(cfg.LogFile),
		Notifier:    notify.New(),
		Sounder:     audio.NewPlayer(os.Stdout),
		Confirmer:   confirmer,
		Sounds:      cfg.SoundCandidates,
		MaxAttempts: cfg.MaxAttempts,
		PinDay:      cfg.PinDay,
		NoSound:     cfg.NoSound,
		Out:         mr.out,
		OnTransition: func(_, to reminder.State) {
			mr.updateSystemTrayMenu(slot, to)
		},
	}
}

// runCycle runs one reminder cycle on a worker goroutine while the fyne
// event loop owns the main goroutine
func (mr *MedReminder) runCycle(ctx context.Context, cfg *models.Config, slot models.ReminderSlot) (reminder.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	mr.cancel = cancel

	confirmer := ui.NewConfirmWindow(mr.app, cfg.ConfirmHoldSeconds)
	cycle := mr.newCycle(cfg, slot, confirmer)

	var (
		result  reminder.Result
		runErr  error
		started atomic.Bool
	)
	done := make(chan struct{})

	mr.app.Lifecycle().SetOnStarted(func() {
		platform.SetActivationPolicy()
		started.Store(true)

		go func() {
			defer close(done)
			result, runErr = cycle.Run(ctx)
			confirmer.Close()
			fyne.Do(mr.app.Quit)
		}()
	})

	// Stop the cycle if the app is quit from the tray or the window manager
	mr.app.Lifecycle().SetOnStopped(cancel)

	mr.setupSystemTray(slot)
	mr.app.Run()

	cancel()
	if !started.Load() {
		return result, errors.NewInternal("desktop app stopped before the reminder started", nil)
	}
	<-done
	return result, runErr
}

// report turns the end of a cycle into a final status line. Only unexpected
// failures are returned as errors.
func (mr *MedReminder) report(slot models.ReminderSlot, result reminder.Result, err error) error {
	switch {
	case err == nil:
		log.Printf("Reminder cycle for %s on %s finished: %s after %d reminders", slot.Key, result.Day, result.Outcome, result.Attempts)
		return nil
	case errors.Is(err, errors.ErrCorruptLog):
		fmt.Fprintf(mr.out, "Cannot read the medication log, stopping reminders: %v\n", err)
		return nil
	case stderrors.Is(err, context.Canceled):
		fmt.Fprintln(mr.out, "Reminders cancelled.")
		return nil
	}
	return err
}

func (mr *MedReminder) quit() {
	if mr.cancel != nil {
		mr.cancel()
	}
	mr.app.Quit()
}
