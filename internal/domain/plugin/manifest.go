// Package plugin provides plugin discovery, validation, lifecycle
// management, and search hosting. Plugins are JavaScript modules described
// by a plugin.json manifest; their code only ever runs inside the sandbox,
// and everything in this package treats them as untrusted input.
package plugin

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/glintlauncher/glint/internal/domain/capability"
)

const (
	// ManifestFileName is the manifest file expected in every plugin directory.
	ManifestFileName = "plugin.json"

	minIDLength = 3
	maxIDLength = 50

	// permissionWarningThreshold flags manifests asking for unusually
	// broad access.
	permissionWarningThreshold = 5
)

// Plugin IDs are lowercase alphanumeric plus hyphens, starting with a letter.
var idPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// reservedIDs may not be claimed by third-party plugins.
var reservedIDs = map[string]bool{
	"system": true,
	"core":   true,
	"admin":  true,
	"root":   true,
}

// reservedTriggers belong to the launcher itself.
var reservedTriggers = map[string]bool{
	"help:":     true,
	"about:":    true,
	"settings:": true,
}

// suspiciousExtensions are executable file types that must never appear as
// a plugin entry point.
var suspiciousExtensions = map[string]bool{
	".exe": true,
	".bat": true,
	".cmd": true,
	".sh":  true,
	".ps1": true,
	".com": true,
	".scr": true,
}

// Manifest describes a plugin's metadata, declared permissions, and entry
// point, as read from plugin.json.
type Manifest struct {
	// ID is the unique plugin identifier (e.g. "emoji-picker").
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Version is the semantic version (e.g. "1.0.0").
	Version string `json:"version"`
	// Description is a brief description of the plugin.
	Description string `json:"description,omitempty"`
	// Author is the plugin author.
	Author string `json:"author,omitempty"`
	// Permissions lists the capabilities the plugin requests.
	Permissions []string `json:"permissions,omitempty"`
	// Triggers are query prefixes that route a search to this plugin
	// (e.g. "emoji:"). A plugin without triggers sees every query.
	Triggers []string `json:"triggers,omitempty"`
	// Entry is the JS entry file, relative to the plugin directory.
	Entry string `json:"entry"`
	// TimeoutMs overrides the sandbox execution budget, in milliseconds.
	TimeoutMs int `json:"timeoutMs,omitempty"`
}

// Timeout returns the manifest's execution budget, or zero if unset so the
// sandbox default applies.
func (m *Manifest) Timeout() time.Duration {
	if m.TimeoutMs <= 0 {
		return 0
	}
	return time.Duration(m.TimeoutMs) * time.Millisecond
}

// RequestedCapabilities parses the manifest's permission strings. The
// manifest must have passed Validate first; unknown permissions are skipped.
func (m *Manifest) RequestedCapabilities() *capability.Set {
	s := capability.NewSet()
	for _, p := range m.Permissions {
		if c, err := capability.Parse(p); err == nil {
			s.Add(c)
		}
	}
	return s
}

// Validate checks a manifest against the plugin contract. It collects all
// failures rather than stopping at the first, and records non-fatal
// warnings alongside.
func Validate(m *Manifest) error {
	ve := &ValidationError{}

	validateID(m.ID, ve)

	if m.Name == "" {
		ve.Add("name is required")
	}

	if m.Version == "" {
		ve.Add("version is required. Example: version: 1.0.0")
	} else if !semver.IsValid("v" + m.Version) {
		ve.Addf("version %q is not valid semantic versioning. Examples: 1.0.0, 1.2.3-beta.1", m.Version)
	}

	validateEntry(m.Entry, ve)
	validatePermissions(m.Permissions, ve)
	validateTriggers(m.Triggers, ve)

	if m.TimeoutMs < 0 {
		ve.Addf("timeoutMs must not be negative, got %d", m.TimeoutMs)
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateID(id string, ve *ValidationError) {
	if id == "" {
		ve.Add("id is required. Example: id: my-plugin")
		return
	}
	if len(id) < minIDLength || len(id) > maxIDLength {
		ve.Addf("id %q must be between %d and %d characters", id, minIDLength, maxIDLength)
	}
	if !idPattern.MatchString(id) {
		ve.Addf("id %q must be lowercase alphanumeric with hyphens, starting with a letter", id)
	}
	if reservedIDs[id] {
		ve.Addf("id %q is reserved", id)
	}
}

func validateEntry(entry string, ve *ValidationError) {
	if entry == "" {
		ve.Add("entry is required. Example: entry: index.js")
		return
	}
	if strings.Contains(entry, "..") {
		ve.Addf("entry %q must not contain path traversal", entry)
	}
	if strings.HasPrefix(entry, "/") || strings.HasPrefix(entry, "\\") || filepath.IsAbs(entry) {
		ve.Addf("entry %q must be relative to the plugin directory", entry)
	}
	if ext := strings.ToLower(filepath.Ext(entry)); suspiciousExtensions[ext] {
		ve.Addf("entry %q has a disallowed file type %s", entry, ext)
	}
}

func validatePermissions(perms []string, ve *ValidationError) {
	seen := make(map[string]bool, len(perms))
	for _, p := range perms {
		if seen[p] {
			ve.Addf("permission %q is declared more than once", p)
			continue
		}
		seen[p] = true
		if _, err := capability.Parse(p); err != nil {
			ve.Addf("unknown permission %q", p)
		}
	}
	if len(seen) > permissionWarningThreshold {
		ve.Warnf("plugin requests %d permissions; review whether all are needed", len(seen))
	}
}

func validateTriggers(triggers []string, ve *ValidationError) {
	seen := make(map[string]bool, len(triggers))
	for _, t := range triggers {
		if t == "" {
			ve.Add("trigger must not be empty")
			continue
		}
		if !strings.HasSuffix(t, ":") {
			ve.Addf("trigger %q must end with a colon. Example: emoji:", t)
		}
		lower := strings.ToLower(t)
		if reservedTriggers[lower] {
			ve.Addf("trigger %q is reserved", t)
		}
		if seen[lower] {
			ve.Addf("trigger %q is declared more than once", t)
		}
		seen[lower] = true
	}
}
