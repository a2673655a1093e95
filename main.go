package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"

	"github.com/borgmon/med-reminder/pkg/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

const appID = "com.borgmon.med-reminder"

func main() {
	a := app.NewWithID(appID)

	mr := &MedReminder{
		app:         a,
		configStore: store.NewConfigStore(a),
		out:         os.Stdout,
	}

	if err := newCLIApp(mr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
