// Package system adapts host OS facilities (launching programs and
// opening URLs) to the launcher port.
package system

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/glintlauncher/glint/internal/ports"
)

// Launcher starts applications and opens URLs via the host's opener
// command.
type Launcher struct {
	goos string
}

// NewLauncher creates a launcher for the current OS.
func NewLauncher() *Launcher {
	return &Launcher{goos: runtime.GOOS}
}

// Launch implements ports.Launcher.
func (l *Launcher) Launch(ctx context.Context, path string) error {
	name, args := l.openCommand(path)
	if name == "" {
		return fmt.Errorf("launching is not supported on %s", l.goos)
	}
	if err := exec.CommandContext(ctx, name, args...).Start(); err != nil {
		return fmt.Errorf("launching %s: %w", path, err)
	}
	return nil
}

// OpenURL implements ports.Launcher.
func (l *Launcher) OpenURL(ctx context.Context, url string) error {
	name, args := l.openCommand(url)
	if name == "" {
		return fmt.Errorf("opening URLs is not supported on %s", l.goos)
	}
	if err := exec.CommandContext(ctx, name, args...).Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}

// openCommand returns the OS opener invocation for a target.
func (l *Launcher) openCommand(target string) (string, []string) {
	switch l.goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "linux":
		return "xdg-open", []string{target}
	default:
		return "", nil
	}
}

var _ ports.Launcher = (*Launcher)(nil)
