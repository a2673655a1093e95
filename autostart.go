package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"

	"github.com/borgmon/med-reminder/pkg/models"
)

// autostartEntry describes the login entry that runs the reminder for a slot
func autostartEntry(execPath string, slot models.ReminderSlot) *autostart.App {
	return &autostart.App{
		Name:        "med-reminder-" + slot.Key,
		DisplayName: "Medication Reminder (" + slot.Key + ")",
		Exec:        []string{execPath, slot.Key},
	}
}

func executablePath() (string, error) {
	// Get the executable path
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}

	// Resolve symlinks if any
	return filepath.EvalSymlinks(execPath)
}

func setupAutostart(slot models.ReminderSlot, enable bool) error {
	execPath, err := executablePath()
	if err != nil {
		return err
	}

	app := autostartEntry(execPath, slot)

	if enable {
		if !app.IsEnabled() {
			if err := app.Enable(); err != nil {
				log.Printf("Failed to enable autostart for %s: %v", slot.Key, err)
				return err
			}
			log.Printf("Autostart enabled for %s", slot.Key)
		}
	} else {
		if app.IsEnabled() {
			if err := app.Disable(); err != nil {
				log.Printf("Failed to disable autostart for %s: %v", slot.Key, err)
				return err
			}
			log.Printf("Autostart disabled for %s", slot.Key)
		}
	}

	return nil
}

// autostartEnabled reports whether a login entry exists for the slot
func autostartEnabled(slot models.ReminderSlot) bool {
	execPath, err := executablePath()
	if err != nil {
		return false
	}
	return autostartEntry(execPath, slot).IsEnabled()
}
