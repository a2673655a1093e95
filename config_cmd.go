package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
)

// configKeys lists the settings accepted by "config set", in display order
var configKeys = []string{"max_attempts", "log_file", "confirm_hold_seconds", "pin_day", "no_sound", "sound_candidates"}

// configCmd creates the config command.
// It edits the stored configuration; global flags are per-run and never saved.
func configCmd(mr *MedReminder) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change the stored configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the stored settings",
				Action: func(c *cli.Context) error {
					cfg := mr.configStore.Load()
					for _, key := range configKeys {
						value, _ := configValue(cfg, key)
						fmt.Fprintf(mr.out, "%s = %s\n", key, value)
					}
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "Change one setting",
				ArgsUsage: "<key> <value>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return errors.NewInvalidConfig("usage: config set <key> <value>")
					}
					key, value := c.Args().Get(0), c.Args().Get(1)

					cfg := mr.configStore.Load()
					if err := setConfigValue(cfg, key, value); err != nil {
						return err
					}
					if err := mr.saveConfig(cfg); err != nil {
						return err
					}
					fmt.Fprintf(mr.out, "%s set to %s\n", key, value)
					return nil
				},
			},
			{
				Name:  "slot",
				Usage: "Add, override or remove reminder slots",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Add a slot, or replace the medicines of an existing one",
						ArgsUsage: "<key> <medicine>...",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Window title for the slot"},
						},
						Action: func(c *cli.Context) error {
							if c.NArg() < 2 {
								return errors.NewInvalidConfig("usage: config slot add <key> <medicine>...")
							}
							args := c.Args().Slice()
							slot := models.ReminderSlot{Key: args[0], Title: c.String("title"), Medicines: args[1:]}

							cfg := mr.configStore.Load()
							cfg.Slots = models.MergeSlots(cfg.Slots, []models.ReminderSlot{slot})
							if err := mr.saveConfig(cfg); err != nil {
								return err
							}
							fmt.Fprintf(mr.out, "Slot %s now has %d medicines\n", slot.Key, slot.Required())
							return nil
						},
					},
					{
						Name:      "remove",
						Usage:     "Remove an added slot",
						ArgsUsage: "<key>",
						Action: func(c *cli.Context) error {
							key := c.Args().First()
							cfg := mr.configStore.Load()
							if _, ok := cfg.Slot(key); !ok {
								return errors.NewInvalidSlot(key, models.SlotKeys(cfg.Slots))
							}
							for _, builtin := range models.DefaultSlots() {
								if builtin.Key == key {
									return errors.NewInvalidConfig(fmt.Sprintf("slot %q is built in and cannot be removed", key))
								}
							}

							kept := cfg.Slots[:0]
							for _, s := range cfg.Slots {
								if s.Key != key {
									kept = append(kept, s)
								}
							}
							cfg.Slots = kept
							if err := mr.saveConfig(cfg); err != nil {
								return err
							}
							fmt.Fprintf(mr.out, "Slot %s removed\n", key)
							return nil
						},
					},
				},
			},
		},
	}
}

// saveConfig validates cfg before persisting it
func (mr *MedReminder) saveConfig(cfg *models.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.NewInvalidConfig(err.Error())
	}
	mr.configStore.Save(cfg)
	return nil
}

func configValue(cfg *models.Config, key string) (string, bool) {
	switch key {
	case "max_attempts":
		return strconv.Itoa(cfg.MaxAttempts), true
	case "log_file":
		return cfg.LogFile, true
	case "confirm_hold_seconds":
		return strconv.Itoa(cfg.ConfirmHoldSeconds), true
	case "pin_day":
		return strconv.FormatBool(cfg.PinDay), true
	case "no_sound":
		return strconv.FormatBool(cfg.NoSound), true
	case "sound_candidates":
		return strings.Join(cfg.SoundCandidates, ","), true
	}
	return "", false
}

// setConfigValue parses value into the setting named by key
func setConfigValue(cfg *models.Config, key, value string) error {
	invalid := func(err error) error {
		return errors.NewInvalidConfig(fmt.Sprintf("invalid value %q for %s: %v", value, key, err))
	}

	switch key {
	case "max_attempts", "confirm_hold_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		if key == "max_attempts" {
			cfg.MaxAttempts = n
		} else {
			cfg.ConfirmHoldSeconds = n
		}
	case "pin_day", "no_sound":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalid(err)
		}
		if key == "pin_day" {
			cfg.PinDay = b
		} else {
			cfg.NoSound = b
		}
	case "log_file":
		cfg.LogFile = value
	case "sound_candidates":
		// An empty value leaves only the terminal bell
		cfg.SoundCandidates = nil
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.SoundCandidates = append(cfg.SoundCandidates, s)
			}
		}
	default:
		return errors.NewInvalidConfig(fmt.Sprintf("unknown setting %q, expected one of %s", key, strings.Join(configKeys, ", ")))
	}
	return nil
}
