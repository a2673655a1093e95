package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/godbus/dbus/v5"

	"github.com/borgmon/med-reminder/pkg/errors"
	"github.com/borgmon/med-reminder/pkg/models"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"
	notifyCall = busName + ".Notify"

	appName = "med-reminder"
	appIcon = "dialog-warning"
)

// Backend delivers a notification through one mechanism
type Backend interface {
	Send(ctx context.Context, n models.Notification) error
}

// Notifier sends desktop notifications and falls back to printing on the
// console when the desktop backend is unavailable
type Notifier struct {
	backend Backend
	out     io.Writer
}

// New creates a Notifier using the freedesktop D-Bus backend
func New() *Notifier {
	return NewWithBackend(&DBusBackend{}, os.Stdout)
}

// NewWithBackend creates a Notifier with an explicit backend and console writer.
// A nil backend means console output only.
func NewWithBackend(backend Backend, out io.Writer) *Notifier {
	return &Notifier{backend: backend, out: out}
}

// Notify delivers n. If the backend fails, the message is printed instead and
// the NOTIFICATION_UNAVAILABLE error is returned for logging.
func (nt *Notifier) Notify(ctx context.Context, n models.Notification) error {
	if nt.backend != nil {
		err := nt.backend.Send(ctx, n)
		if err == nil {
			return nil
		}
		nt.printConsole(n)
		return errors.NewNotificationUnavailable(err)
	}

	nt.printConsole(n)
	return nil
}

func (nt *Notifier) printConsole(n models.Notification) {
	fmt.Fprintln(nt.out, "Desktop notifications not available - showing console message")
	fmt.Fprintf(nt.out, "*** %s ***\n", n.Body)
}

// DBusBackend talks to org.freedesktop.Notifications on the session bus
type DBusBackend struct{}

// urgencyHint maps an urgency to the freedesktop "urgency" hint byte
func urgencyHint(u models.Urgency) byte {
	if u == models.UrgencyCritical {
		return 2
	}
	return 1
}

// Send implements Backend
func (b *DBusBackend) Send(ctx context.Context, n models.Notification) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connecting to session bus: %w", err)
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgencyHint(n.Urgency)),
	}

	obj := conn.Object(busName, dbus.ObjectPath(objectPath))
	call := obj.CallWithContext(ctx, notifyCall, 0,
		appName,
		uint32(0),
		appIcon,
		n.Title,
		n.Body,
		[]string{},
		hints,
		int32(n.Timeout.Milliseconds()),
	)
	if call.Err != nil {
		return fmt.Errorf("sending notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		log.Printf("Notification sent but reply was unreadable: %v", err)
	}

	return nil
}
