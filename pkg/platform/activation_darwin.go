//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

int
setAccessoryPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
    return 0;
}
*/
import "C"
import "log"

// SetActivationPolicy keeps the reminder out of the Dock so only its
// confirmation window shows up
func SetActivationPolicy() {
	log.Println("Setting accessory activation policy")
	C.setAccessoryPolicy()
}
