// Package platform wraps the host's desktop notification service.
package platform

// AppName is the application name reported to notification services.
const AppName = "PDF Annotations"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image the notification should show.
	IconPath string
	// Timeout in milliseconds; zero uses the platform default.
	TimeoutMillis int32
}
