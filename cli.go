package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/borgmon/med-reminder/pkg/calendar"
	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
	"github.com/borgmon/med-reminder/pkg/reminder"
	"github.com/borgmon/med-reminder/pkg/store"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(mr *MedReminder) *cli.App {
	app := &cli.App{
		Name:      "med-reminder",
		Usage:     "Escalating medication reminder",
		Version:   Version,
		ArgsUsage: "[slot]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-file", Usage: "Medication log path (default ~/med_log.json)"},
			&cli.IntFlag{Name: "max-attempts", Usage: "Alert rounds before giving up"},
			&cli.BoolFlag{Name: "no-sound", Usage: "Never play the alarm sound"},
			&cli.BoolFlag{Name: "pin-day", Usage: "Keep checking the start day after midnight"},
		},
		Action: mr.remindAction,
		Commands: []*cli.Command{
			statusCmd(mr),
			slotsCmd(mr),
			exportCmd(mr),
			autostartCmd(mr),
			configCmd(mr),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// loadConfig loads the persisted configuration and applies per-run flag overrides.
func (mr *MedReminder) loadConfig(c *cli.Context) (*models.Config, error) {
	cfg := mr.configStore.Load()
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewInvalidConfig(err.Error())
	}
	return cfg, nil
}

// applyFlags overrides config values with explicitly set global flags.
func applyFlags(c *cli.Context, cfg *models.Config) {
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("max-attempts") {
		cfg.MaxAttempts = c.Int("max-attempts")
	}
	if c.IsSet("no-sound") {
		cfg.NoSound = c.Bool("no-sound")
	}
	if c.IsSet("pin-day") {
		cfg.PinDay = c.Bool("pin-day")
	}
}

// lookupSlot resolves a slot key, defaulting to the morning slot.
func lookupSlot(cfg *models.Config, key string) (models.ReminderSlot, error) {
	if key == "" {
		key = models.DefaultSlotKey
	}
	slot, ok := cfg.Slot(key)
	if !ok {
		return models.ReminderSlot{}, errors.NewInvalidSlot(key, models.SlotKeys(cfg.Slots))
	}
	return slot, nil
}

// remindAction runs a reminder cycle for one slot.
func (mr *MedReminder) remindAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return errors.NewInvalidConfig(fmt.Sprintf("expected at most one slot, got %d arguments", c.NArg()))
	}

	cfg, err := mr.loadConfig(c)
	if err != nil {
		return err
	}
	slot, err := lookupSlot(cfg, c.Args().First())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := mr.runCycle(ctx, cfg, slot)
	return mr.report(slot, result, err)
}

// statusCmd creates the status command.
func statusCmd(mr *MedReminder) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show which slots have been taken on a day",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day to show (YYYY-MM-DD, default today)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := mr.loadConfig(c)
			if err != nil {
				return err
			}

			day := c.String("day")
			if day == "" {
				day = models.DayKeyFor(time.Now())
			} else if err := validateDay(day); err != nil {
				return err
			}

			dailyLog, err := store.NewLogStore(cfg.LogFile).Load()
			if err != nil {
				return err
			}

			fmt.Fprintf(mr.out, "Medication status for %s:\n", day)
			for _, slot := range cfg.Slots {
				fmt.Fprintf(mr.out, "  %s: %s\n", slot.Key, slotStatus(dailyLog, day, slot))
			}
			return nil
		},
	}
}

// slotStatus describes one slot's completion on a day
func slotStatus(dailyLog models.DailyLog, day string, slot models.ReminderSlot) string {
	entry, ok := dailyLog.Entry(day, slot.Key)
	if !ok {
		return fmt.Sprintf("❌ not taken (0/%d)", slot.Required())
	}
	if !reminder.IsComplete(dailyLog, day, slot.Key, slot.Required()) {
		return fmt.Sprintf("⚠️ incomplete (%d/%d)", len(entry.Medicines), slot.Required())
	}
	return fmt.Sprintf("✅ taken at %s (%d/%d, reminder #%d)",
		entry.TimeTaken.Local().Format("15:04"), len(entry.Medicines), slot.Required(), entry.ReminderCount+1)
}

// slotsCmd creates the slots command.
func slotsCmd(mr *MedReminder) *cli.Command {
	return &cli.Command{
		Name:  "slots",
		Usage: "List the configured reminder slots",
		Action: func(c *cli.Context) error {
			cfg, err := mr.loadConfig(c)
			if err != nil {
				return err
			}
			for _, slot := range cfg.Slots {
				fmt.Fprintf(mr.out, "%s: %s\n", slot.Key, slot.DisplayTitle())
				for _, med := range slot.Medicines {
					fmt.Fprintf(mr.out, "  • %s\n", med)
				}
			}
			return nil
		},
	}
}

// exportCmd creates the export command.
func exportCmd(mr *MedReminder) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the medication history as an iCalendar file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "Output .ics file"},
			&cli.StringFlag{Name: "from", Usage: "First day to include (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "Last day to include (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := mr.loadConfig(c)
			if err != nil {
				return err
			}

			r := calendar.Range{From: c.String("from"), To: c.String("to")}
			for _, day := range []string{r.From, r.To} {
				if day == "" {
					continue
				}
				if err := validateDay(day); err != nil {
					return err
				}
			}

			dailyLog, err := store.NewLogStore(cfg.LogFile).Load()
			if err != nil {
				return err
			}

			doses := calendar.Doses(dailyLog, r)
			if len(doses) == 0 {
				fmt.Fprintln(mr.out, "No doses logged in that range, nothing exported.")
				return nil
			}

			path := c.String("out")
			f, err := os.Create(path)
			if err != nil {
				return errors.NewInternal("creating export file", err)
			}
			if err := calendar.Export(f, doses, time.Now()); err != nil {
				f.Close()
				return errors.NewInternal("writing export file", err)
			}
			if err := f.Close(); err != nil {
				return errors.NewInternal("closing export file", err)
			}

			fmt.Fprintf(mr.out, "Exported %d doses to %s\n", len(doses), path)
			return nil
		},
	}
}

// autostartCmd creates the autostart command.
func autostartCmd(mr *MedReminder) *cli.Command {
	toggle := func(enable bool) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := mr.loadConfig(c)
			if err != nil {
				return err
			}
			slot, err := lookupSlot(cfg, c.Args().First())
			if err != nil {
				return err
			}
			if err := setupAutostart(slot, enable); err != nil {
				return errors.NewInternal("updating autostart entry", err)
			}

			state := "disabled"
			if enable {
				state = "enabled"
			}
			fmt.Fprintf(mr.out, "Autostart %s for %s\n", state, slot.Key)
			return nil
		}
	}

	return &cli.Command{
		Name:  "autostart",
		Usage: "Run a reminder slot automatically at login",
		Subcommands: []*cli.Command{
			{
				Name:      "enable",
				Usage:     "Register a login entry for a slot",
				ArgsUsage: "[slot]",
				Action:    toggle(true),
			},
			{
				Name:      "disable",
				Usage:     "Remove the login entry for a slot",
				ArgsUsage: "[slot]",
				Action:    toggle(false),
			},
			{
				Name:  "list",
				Usage: "Show which slots start at login",
				Action: func(c *cli.Context) error {
					cfg, err := mr.loadConfig(c)
					if err != nil {
						return err
					}
					for _, slot := range cfg.Slots {
						state := "off"
						if autostartEnabled(slot) {
							state = "on"
						}
						fmt.Fprintf(mr.out, "%s: %s\n", slot.Key, state)
					}
					return nil
				},
			},
		},
	}
}

// validateDay checks a DayKey given on the command line.
func validateDay(day string) error {
	if _, err := time.ParseInLocation(models.DayKeyLayout, day, time.Local); err != nil {
		return errors.NewInvalidConfig(fmt.Sprintf("invalid day %q, expected YYYY-MM-DD", day))
	}
	return nil
}
