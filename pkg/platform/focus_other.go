//go:build !darwin

package platform

// IsAppActive reports true; other platforms give no cheap way to ask
func IsAppActive() bool {
	return true
}

// ActivateApp does nothing outside macOS. The window manager raises new
// windows with focus on its own.
func ActivateApp() {}

// SetActivationPolicy does nothing outside macOS
func SetActivationPolicy() {}
