//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

int appIsActive() {
    return [NSApp isActive] ? 1 : 0;
}

void bringAppToFront() {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// IsAppActive reports whether the reminder currently has focus
func IsAppActive() bool {
	return C.appIsActive() == 1
}

// ActivateApp raises the reminder above other applications so the
// confirmation window is not hidden behind them
func ActivateApp() {
	C.bringAppToFront()
}
