package plugin

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/glintlauncher/glint/internal/domain/capability"
)

// Status is a plugin's runtime lifecycle state.
type Status string

const (
	// StatusLoaded means the plugin is registered but not yet enabled.
	StatusLoaded Status = "loaded"
	// StatusEnabled means the plugin participates in searches.
	StatusEnabled Status = "enabled"
	// StatusDisabled means the user turned the plugin off.
	StatusDisabled Status = "disabled"
	// StatusCrashed means the plugin was quarantined after repeated failures.
	StatusCrashed Status = "crashed"
)

// DefaultFailureThreshold is the number of consecutive execution failures
// after which a plugin is quarantined.
const DefaultFailureThreshold = 3

// Plugin represents a loaded plugin and its runtime state.
type Plugin struct {
	// Manifest contains the plugin metadata.
	Manifest Manifest
	// Path is the plugin's directory.
	Path string
	// Source is the entry module's JS text.
	Source string
	// Status is the current lifecycle state.
	Status Status
	// Granted holds the capabilities the user approved for this plugin.
	Granted *capability.Set
	// ConsecutiveFailures counts execution failures since the last success.
	ConsecutiveFailures int
	// LastExecution is the duration of the most recent sandbox invocation.
	LastExecution time.Duration
	// LoadedAt is when the plugin was loaded.
	LoadedAt time.Time
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string {
	return p.Manifest.ID
}

// String returns a human-readable plugin description.
func (p *Plugin) String() string {
	return fmt.Sprintf("%s@%s", p.Manifest.ID, p.Manifest.Version)
}

// Clone returns a deep copy of the plugin.
func (p *Plugin) Clone() *Plugin {
	clone := *p
	clone.Manifest.Permissions = append([]string(nil), p.Manifest.Permissions...)
	clone.Manifest.Triggers = append([]string(nil), p.Manifest.Triggers...)
	clone.Granted = p.Granted.Clone()
	return &clone
}

// Registry manages installed plugins with thread-safe access. It is the
// single writer of plugin runtime state; readers only ever see deep copies,
// so no caller can observe a partially applied transition.
type Registry struct {
	mu               sync.RWMutex
	plugins          map[string]*Plugin
	failureThreshold int
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithFailureThreshold overrides the consecutive-failure quarantine limit.
func WithFailureThreshold(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.failureThreshold = n
		}
	}
}

// NewRegistry creates a new plugin registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		plugins:          make(map[string]*Plugin),
		failureThreshold: DefaultFailureThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a plugin to the registry in the loaded state.
// Returns ErrNilPlugin if plugin is nil, ErrEmptyPluginID if the ID is
// empty, or PluginExistsError if the ID is already taken.
func (r *Registry) Register(p *Plugin) error {
	if p == nil {
		return ErrNilPlugin
	}
	if p.Manifest.ID == "" {
		return ErrEmptyPluginID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[p.Manifest.ID]; exists {
		return &PluginExistsError{ID: p.Manifest.ID}
	}

	stored := p.Clone()
	if stored.Status == "" {
		stored.Status = StatusLoaded
	}
	if stored.Granted == nil {
		stored.Granted = capability.NewSet()
	}
	if stored.LoadedAt.IsZero() {
		stored.LoadedAt = time.Now()
	}
	r.plugins[p.Manifest.ID] = stored
	return nil
}

// Get returns a deep copy of a plugin by ID.
func (r *Registry) Get(id string) (*Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// List returns deep copies of all registered plugins, sorted by ID.
func (r *Registry) List() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		plugins = append(plugins, p.Clone())
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.ID < plugins[j].Manifest.ID
	})
	return plugins
}

// Enabled returns deep copies of all enabled plugins, sorted by ID.
// Crashed and disabled plugins are excluded.
func (r *Registry) Enabled() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]*Plugin, 0)
	for _, p := range r.plugins {
		if p.Status == StatusEnabled {
			plugins = append(plugins, p.Clone())
		}
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.ID < plugins[j].Manifest.ID
	})
	return plugins
}

// Remove removes a plugin from the registry.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[id]; exists {
		delete(r.plugins, id)
		return true
	}
	return false
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Enable moves a plugin into the enabled state. Enabling a crashed plugin
// lifts the quarantine and resets its failure count.
func (r *Registry) Enable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	p.Status = StatusEnabled
	p.ConsecutiveFailures = 0
	return nil
}

// Disable moves a plugin into the disabled state.
func (r *Registry) Disable(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	p.Status = StatusDisabled
	return nil
}

// Grant approves a capability for a plugin. The capability must be one the
// plugin's manifest declares.
func (r *Registry) Grant(id string, c capability.Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	if !p.Manifest.RequestedCapabilities().Has(c) {
		return fmt.Errorf("%w: plugin %s does not declare %s", capability.ErrInvalid, id, c)
	}
	p.Granted.Add(c)
	return nil
}

// Revoke withdraws a capability grant from a plugin.
func (r *Registry) Revoke(id string, c capability.Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	p.Granted.Remove(c)
	return nil
}

// GrantAll approves every capability the plugin's manifest declares.
func (r *Registry) GrantAll(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	p.Granted = p.Manifest.RequestedCapabilities()
	return nil
}

// RecordSuccess resets a plugin's failure streak after a successful
// sandbox execution and records how long it took.
func (r *Registry) RecordSuccess(id string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok {
		return
	}
	p.ConsecutiveFailures = 0
	p.LastExecution = elapsed
}

// RecordFailure increments a plugin's failure streak. When the streak
// reaches the threshold the plugin transitions to crashed; the transition
// happens exactly once per streak. Returns true if this call quarantined
// the plugin.
func (r *Registry) RecordFailure(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plugins[id]
	if !ok || p.Status != StatusEnabled {
		return false
	}
	p.ConsecutiveFailures++
	if p.ConsecutiveFailures >= r.failureThreshold {
		p.Status = StatusCrashed
		return true
	}
	return false
}
