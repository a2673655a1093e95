package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"github.com/borgmon/med-reminder/pkg/models"
	"github.com/borgmon/med-reminder/pkg/reminder"
)

func (mr *MedReminder) setupSystemTray(slot models.ReminderSlot) {
	if desk, ok := mr.app.(desktop.App); ok {
		desk.SetSystemTrayMenu(mr.trayMenu(slot, reminder.StateIdle))
		desk.SetSystemTrayIcon(theme.WarningIcon())
	}
}

// updateSystemTrayMenu shows the cycle state in the tray. Safe to call from any goroutine.
func (mr *MedReminder) updateSystemTrayMenu(slot models.ReminderSlot, state reminder.State) {
	desk, ok := mr.app.(desktop.App)
	if !ok {
		return
	}
	menu := mr.trayMenu(slot, state)
	fyne.Do(func() {
		desk.SetSystemTrayMenu(menu)
	})
}

func (mr *MedReminder) trayMenu(slot models.ReminderSlot, state reminder.State) *fyne.Menu {
	headerItem := fyne.NewMenuItem(trayStatus(slot, state), nil)
	headerItem.Disabled = true

	menuItems := []*fyne.MenuItem{headerItem}
	for _, med := range slot.Medicines {
		item := fyne.NewMenuItem("  "+truncateString(med, 35), nil)
		item.Disabled = true
		menuItems = append(menuItems, item)
	}

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		mr.quit()
	}))

	return fyne.NewMenu("Medication Reminder", menuItems...)
}

// trayStatus describes the cycle state for the tray header
func trayStatus(slot models.ReminderSlot, state reminder.State) string {
	switch state {
	case reminder.StateWaiting:
		return fmt.Sprintf("%s: snoozed", slot.Key)
	case reminder.StateAlerting, reminder.StateAwaitingConfirmation:
		return fmt.Sprintf("%s: waiting for you", slot.Key)
	case reminder.StateStopped:
		return fmt.Sprintf("%s: done", slot.Key)
	}
	return fmt.Sprintf("%s: checking", slot.Key)
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
