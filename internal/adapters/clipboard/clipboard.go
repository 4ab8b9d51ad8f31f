// Package clipboard adapts the system clipboard to the launcher's
// clipboard port.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/glintlauncher/glint/internal/ports"
)

// System talks to the host clipboard.
type System struct{}

// NewSystem creates a system clipboard adapter.
func NewSystem() *System {
	return &System{}
}

// Read implements ports.Clipboard.
func (s *System) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return text, nil
}

// Write implements ports.Clipboard.
func (s *System) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

var _ ports.Clipboard = (*System)(nil)
