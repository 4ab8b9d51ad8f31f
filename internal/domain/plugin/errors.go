package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrNilPlugin indicates a nil plugin was provided.
	ErrNilPlugin = errors.New("plugin cannot be nil")
	// ErrEmptyPluginID indicates a plugin ID was empty.
	ErrEmptyPluginID = errors.New("plugin id cannot be empty")
	// ErrManifestNotFound indicates plugin.json was not found.
	ErrManifestNotFound = errors.New("plugin.json not found")
	// ErrNotRegistered indicates the plugin is not in the registry.
	ErrNotRegistered = errors.New("plugin not registered")
	// ErrCrashed indicates the plugin has been quarantined after repeated failures.
	ErrCrashed = errors.New("plugin is crashed")
)

// PluginExistsError indicates a plugin is already registered.
type PluginExistsError struct {
	ID string
}

func (e *PluginExistsError) Error() string {
	return fmt.Sprintf("plugin %q already registered", e.ID)
}

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string

	// Warnings are non-fatal findings, surfaced but never blocking.
	Warnings []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// Add adds an error message to the collection.
func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

// Addf adds a formatted error message to the collection.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Warnf adds a formatted warning message to the collection.
func (e *ValidationError) Warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// DiscoveryError represents an error loading a specific plugin.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("loading plugin at %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// DiscoveryResult captures both successful loads and errors.
type DiscoveryResult struct {
	Plugins []*Plugin
	Errors  []DiscoveryError
}

// HasErrors returns true if there were errors during discovery.
func (r *DiscoveryResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// EntryPathError indicates a manifest entry path escapes the plugin
// directory or names a suspicious file type.
type EntryPathError struct {
	Entry  string
	Reason string
}

func (e *EntryPathError) Error() string {
	return fmt.Sprintf("invalid entry path %q: %s", e.Entry, e.Reason)
}

// ManifestSizeError indicates a manifest or entry file exceeds the size limit.
type ManifestSizeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *ManifestSizeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, exceeds limit of %d bytes", e.Path, e.Size, e.Limit)
}

// IsPluginExists returns true if the error indicates a plugin already exists.
func IsPluginExists(err error) bool {
	var existsErr *PluginExistsError
	return errors.As(err, &existsErr)
}

// IsValidationError returns true if the error is a validation error.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsEntryPathError returns true if the error indicates a bad entry path.
func IsEntryPathError(err error) bool {
	var entryErr *EntryPathError
	return errors.As(err, &entryErr)
}
