package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/med-reminder/pkg/ui/components"
)

const (
	confirmLabel = "✅ Taken All"
	snoozeLabel  = "😴 Snooze 5min"
)

// Checklist shows one checkbox per medicine with confirm and snooze buttons
type Checklist struct {
	medicines []string
	checks    []*widget.Check
	hold      time.Duration

	OnConfirm    func(items []string)
	OnSnooze     func()
	OnIncomplete func(message string)

	confirmButton fyne.CanvasObject
	snoozeButton  *widget.Button
}

// NewChecklist creates a checklist for the given medicines. A positive hold
// turns the confirm button into a hold-to-confirm button.
func NewChecklist(medicines []string, hold time.Duration) *Checklist {
	c := &Checklist{
		medicines: append([]string(nil), medicines...),
		hold:      hold,
	}

	for _, med := range c.medicines {
		c.checks = append(c.checks, widget.NewCheck(med, nil))
	}

	if hold > 0 {
		seconds := int(hold.Round(time.Second) / time.Second)
		c.confirmButton = components.NewHoldButton(fmt.Sprintf("%s (Hold %ds)", confirmLabel, seconds), hold, c.confirm)
	} else {
		button := widget.NewButton(confirmLabel, c.confirm)
		button.Importance = widget.HighImportance
		c.confirmButton = button
	}

	c.snoozeButton = widget.NewButton(snoozeLabel, func() {
		if c.OnSnooze != nil {
			c.OnSnooze()
		}
	})

	return c
}

// validateSelection returns a warning when fewer than required items are checked
func validateSelection(checked []string, required int) (string, bool) {
	if required > 0 && len(checked) == required {
		return "", true
	}
	return fmt.Sprintf("Please check all %d medications", required), false
}

// Checked returns the checked medicines in display order
func (c *Checklist) Checked() []string {
	var checked []string
	for i, check := range c.checks {
		if check.Checked {
			checked = append(checked, c.medicines[i])
		}
	}
	return checked
}

func (c *Checklist) confirm() {
	checked := c.Checked()
	if msg, ok := validateSelection(checked, len(c.medicines)); !ok {
		if c.OnIncomplete != nil {
			c.OnIncomplete(msg)
		}
		return
	}
	if c.OnConfirm != nil {
		c.OnConfirm(checked)
	}
}

// Content builds the checklist layout
func (c *Checklist) Content() fyne.CanvasObject {
	items := container.NewVBox()
	for _, check := range c.checks {
		items.Add(check)
	}

	buttons := container.NewHBox(c.confirmButton, c.snoozeButton)

	return container.NewVBox(
		items,
		widget.NewSeparator(),
		container.NewCenter(buttons),
	)
}
