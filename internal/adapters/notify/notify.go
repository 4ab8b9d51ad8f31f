// Package notify adapts notification delivery to the notifier port.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/glintlauncher/glint/internal/ports"
)

// System shows desktop notifications via the host's notification command.
// Platforms without one fall back to the logger.
type System struct {
	goos   string
	logger ports.Logger
}

// NewSystem creates a notifier for the current OS.
func NewSystem(logger ports.Logger) *System {
	return &System{goos: runtime.GOOS, logger: logger}
}

// Show implements ports.Notifier.
func (s *System) Show(ctx context.Context, title, message string) error {
	switch s.goos {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		return run(ctx, "osascript", "-e", script)
	case "linux":
		return run(ctx, "notify-send", title, message)
	default:
		s.logger.Info(ctx, "notification",
			ports.F("title", title), ports.F("message", message))
		return nil
	}
}

func run(ctx context.Context, name string, args ...string) error {
	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("showing notification: %w", err)
	}
	return nil
}

// Logger is a notifier that only logs, for headless and test use.
type Logger struct {
	logger ports.Logger
}

// NewLogger creates a log-only notifier.
func NewLogger(logger ports.Logger) *Logger {
	return &Logger{logger: logger}
}

// Show implements ports.Notifier.
func (l *Logger) Show(ctx context.Context, title, message string) error {
	l.logger.Info(ctx, "notification",
		ports.F("title", title), ports.F("message", message))
	return nil
}

var (
	_ ports.Notifier = (*System)(nil)
	_ ports.Notifier = (*Logger)(nil)
)
