// Package capability provides capability-based permission management for
// plugins. A capability names a privilege a plugin must be granted before
// the action performer will execute an intent on its behalf.
package capability

import (
	"errors"
	"fmt"
	"strings"
)

// Capability errors.
var (
	ErrInvalid    = errors.New("invalid capability")
	ErrNotGranted = errors.New("capability not granted")
)

// Capability represents a single named privilege.
// Format: "category:action" (e.g. "clipboard:write") or a bare category
// for coarse privileges (e.g. "network", "shell").
type Capability struct {
	category string
	action   string
	raw      string
}

// The capability vocabulary. Bare capabilities have no action part.
var (
	CapClipboardRead  = Capability{"clipboard", "read", "clipboard:read"}
	CapClipboardWrite = Capability{"clipboard", "write", "clipboard:write"}
	CapFilesRead      = Capability{"fs", "read", "fs:read"}
	CapFilesWrite     = Capability{"fs", "write", "fs:write"}
	CapNetwork        = Capability{"network", "", "network"}
	CapShell          = Capability{"shell", "", "shell"}
	CapNotification   = Capability{"notification", "", "notification"}
)

// All returns every known capability.
func All() []Capability {
	return []Capability{
		CapClipboardRead,
		CapClipboardWrite,
		CapFilesRead,
		CapFilesWrite,
		CapNetwork,
		CapShell,
		CapNotification,
	}
}

// Parse parses a capability string against the known vocabulary.
func Parse(s string) (Capability, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Capability{}, fmt.Errorf("%w: empty capability", ErrInvalid)
	}
	for _, c := range All() {
		if c.raw == s {
			return c, nil
		}
	}
	return Capability{}, fmt.Errorf("%w: unknown capability %q", ErrInvalid, s)
}

// MustParse parses a capability or panics.
func MustParse(s string) Capability {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Category returns the capability category.
func (c Capability) Category() string {
	return c.category
}

// Action returns the capability action, empty for bare capabilities.
func (c Capability) Action() string {
	return c.action
}

// String returns the string representation.
func (c Capability) String() string {
	return c.raw
}

// IsZero returns true if the capability is empty.
func (c Capability) IsZero() bool {
	return c.raw == ""
}

// IsDangerous returns true if granting this capability carries elevated risk.
func (c Capability) IsDangerous() bool {
	switch c {
	case CapShell, CapNetwork, CapFilesWrite:
		return true
	default:
		return false
	}
}

// Describe returns a human-readable description of the capability.
func Describe(c Capability) string {
	switch c {
	case CapClipboardRead:
		return "Read the system clipboard"
	case CapClipboardWrite:
		return "Write to the system clipboard"
	case CapFilesRead:
		return "Read files"
	case CapFilesWrite:
		return "Write files"
	case CapNetwork:
		return "Access the network"
	case CapShell:
		return "Execute shell commands and launch programs"
	case CapNotification:
		return "Show system notifications"
	default:
		return fmt.Sprintf("Access to %s", c.raw)
	}
}
