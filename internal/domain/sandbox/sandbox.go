// Package sandbox provides isolated execution of untrusted plugin code.
//
// The execution context receives no ambient capability: a plugin cannot
// touch the clipboard, filesystem, shell, network, or notifications. It
// may only return data, candidates carrying serializable action intents
// that describe what it wants done. Permission checks happen later, in the
// trusted action performer, not here.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glintlauncher/glint/internal/domain/result"
)

// ErrClosed indicates the sandbox runtime has been shut down.
var ErrClosed = errors.New("sandbox runtime closed")

// Code classifies a sandbox failure.
type Code string

// Failure codes.
const (
	// CodeTimeout means the plugin did not resolve within its wall-clock
	// budget and was forcibly aborted.
	CodeTimeout Code = "timeout"

	// CodeException means the plugin threw or the entry point is broken.
	CodeException Code = "exception"

	// CodeBadResult means the plugin resolved but its return value is not
	// a JSON-serializable candidate list.
	CodeBadResult Code = "bad-result"
)

// Error is a structured sandbox failure. Uncaught plugin errors are
// converted to this type at the boundary and never propagate as live
// exceptions into host code.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("sandbox %s: %s", e.Code, e.Message)
}

// AsError unwraps a sandbox Error from err, if present.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsTimeout reports whether err is a sandbox timeout.
func IsTimeout(err error) bool {
	se, ok := AsError(err)
	return ok && se.Code == CodeTimeout
}

// Module is one plugin's executable entry point: plain source text, never
// a live code reference.
type Module struct {
	// PluginID identifies the owning plugin.
	PluginID string

	// EntryPath is the file the source was read from, used in messages.
	EntryPath string

	// Source is the JS module text exporting onSearch(query).
	Source string
}

// Sandbox executes plugin modules in isolation. Implementations guarantee
// wall-clock timeouts, all-or-nothing results per invocation, and crash
// containment; a cancelled context aborts execution without it counting
// as a plugin failure.
type Sandbox interface {
	// Execute runs the module's onSearch entry for the query. It returns
	// the decoded candidates, or a *Error describing the failure. Context
	// cancellation is reported as the context's error.
	Execute(ctx context.Context, mod Module, query result.Query, timeout time.Duration) ([]result.Candidate, error)

	// Validate checks that the module compiles without executing it.
	Validate(mod Module) error

	// Close releases runtime resources.
	Close() error
}
