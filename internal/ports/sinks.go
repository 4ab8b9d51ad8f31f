package ports

import "context"

// Launcher starts applications and opens URLs on the host system.
// It is a privileged sink invoked exclusively by the action performer.
type Launcher interface {
	// Launch starts the application or file at the given path.
	Launch(ctx context.Context, path string) error

	// OpenURL opens the URL in the default browser.
	OpenURL(ctx context.Context, url string) error
}

// Clipboard reads and writes the system clipboard.
// It is a privileged sink invoked exclusively by the action performer.
type Clipboard interface {
	// Read returns the current clipboard text.
	Read(ctx context.Context) (string, error)

	// Write replaces the clipboard contents with text.
	Write(ctx context.Context, text string) error
}

// Notifier shows user-visible notifications.
// It is a privileged sink invoked exclusively by the action performer.
type Notifier interface {
	// Show displays a notification with the given title and message.
	Show(ctx context.Context, title, message string) error
}

// UsageStore tracks how often result entities are acted on. Counts are
// incremented only by the action performer after a successful side effect
// and read by the ranking engine as its frequency signal.
type UsageStore interface {
	// Increment adds one use to the entity's count.
	Increment(ctx context.Context, entityID string) error

	// Snapshot returns the current counts keyed by entity ID.
	Snapshot(ctx context.Context) (map[string]uint64, error)

	// Close releases store resources.
	Close() error
}
