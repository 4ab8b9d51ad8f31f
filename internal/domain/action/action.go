// Package action executes action intents on behalf of selected results.
// This is the trusted side of the plugin boundary: every intent arrives as
// plain data, and permission checks happen here, immediately before the
// side effect.
package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/glintlauncher/glint/internal/domain/capability"
	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/ports"
)

// ErrPermissionDenied indicates the originating plugin lacks the
// capability the intent requires.
var ErrPermissionDenied = errors.New("permission denied")

// ExecutionError wraps a sink failure while carrying out an intent.
type ExecutionError struct {
	Intent intent.Type
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing %s intent: %v", e.Intent, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsExecutionError returns true if the error is a sink execution failure.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr)
}

// Origin describes where a result came from, for permission purposes.
type Origin struct {
	// Trusted marks results from built-in providers. Trusted origins are
	// exempt from launch and open-url capability checks; everything a
	// built-in provider emits was produced by launcher code.
	Trusted bool

	// Granted holds the originating plugin's approved capabilities.
	// Ignored for trusted origins.
	Granted *capability.Set

	// EntityID is the usage-tracking key credited on success. Empty
	// disables usage tracking for this execution.
	EntityID string
}

// TrustedOrigin returns the origin for built-in provider results.
func TrustedOrigin(entityID string) Origin {
	return Origin{Trusted: true, EntityID: entityID}
}

// PluginOrigin returns the origin for a plugin's results.
func PluginOrigin(granted *capability.Set, entityID string) Origin {
	return Origin{Granted: granted, EntityID: entityID}
}

// Performer carries out intents against the system sinks.
type Performer struct {
	launcher  ports.Launcher
	clipboard ports.Clipboard
	notifier  ports.Notifier
	usage     ports.UsageStore
	logger    ports.Logger
}

// NewPerformer creates an action performer.
func NewPerformer(launcher ports.Launcher, clipboard ports.Clipboard, notifier ports.Notifier, usage ports.UsageStore, logger ports.Logger) *Performer {
	return &Performer{
		launcher:  launcher,
		clipboard: clipboard,
		notifier:  notifier,
		usage:     usage,
		logger:    logger,
	}
}

// Perform executes an intent after checking the origin's permissions.
// Returns ErrPermissionDenied when the origin lacks the required
// capability, or an ExecutionError when the sink fails.
func (p *Performer) Perform(ctx context.Context, in intent.Intent, origin Origin) error {
	if in == nil {
		return fmt.Errorf("%w: nil intent", intent.ErrMalformed)
	}

	if err := p.authorize(in, origin); err != nil {
		return err
	}

	if err := p.execute(ctx, in); err != nil {
		return &ExecutionError{Intent: in.Type(), Err: err}
	}

	p.creditUsage(ctx, origin)
	return nil
}

// authorize checks the origin's capabilities against the intent.
func (p *Performer) authorize(in intent.Intent, origin Origin) error {
	required := in.RequiredCapability()
	if required.IsZero() {
		return nil
	}

	// Built-in providers only emit intents the launcher itself produced;
	// trusted origins hold every capability implicitly.
	if origin.Trusted {
		return nil
	}

	if !origin.Granted.Has(required) {
		return fmt.Errorf("%w: %s intent requires %q", ErrPermissionDenied, in.Type(), required)
	}
	return nil
}

// execute dispatches the intent to its sink.
func (p *Performer) execute(ctx context.Context, in intent.Intent) error {
	switch v := in.(type) {
	case intent.Launch:
		return p.launcher.Launch(ctx, v.Path)
	case intent.OpenURL:
		return p.launcher.OpenURL(ctx, v.URL)
	case intent.ClipboardWrite:
		return p.clipboard.Write(ctx, v.Text)
	case intent.Notify:
		return p.notifier.Show(ctx, v.Title, v.Message)
	case intent.Popup, intent.None:
		// Popups render in the display layer; none does nothing. Both are
		// successful no-ops here.
		return nil
	default:
		return fmt.Errorf("%w: %T", intent.ErrUnknownType, in)
	}
}

// creditUsage bumps the origin's usage counter. Failures are logged, never
// surfaced; ranking degrades gracefully without the increment.
func (p *Performer) creditUsage(ctx context.Context, origin Origin) {
	if origin.EntityID == "" {
		return
	}
	if err := p.usage.Increment(ctx, origin.EntityID); err != nil {
		p.logger.Warn(ctx, "usage increment failed",
			ports.F("entity", origin.EntityID), ports.F("error", err.Error()))
	}
}
