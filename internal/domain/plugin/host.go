package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/domain/sandbox"
	"github.com/glintlauncher/glint/internal/domain/search"
	"github.com/glintlauncher/glint/internal/ports"
)

// HostState represents the host's lifecycle state.
type HostState string

const (
	// HostStopped indicates the host is not running.
	HostStopped HostState = "stopped"
	// HostLoading indicates plugin discovery is in progress.
	HostLoading HostState = "loading"
	// HostReady indicates all discovered plugins loaded cleanly.
	HostReady HostState = "ready"
	// HostDegraded indicates the host is serving but some plugins failed to load.
	HostDegraded HostState = "degraded"
)

// Event types for the host state machine.
const (
	eventLoad     = "LOAD"
	eventLoaded   = "LOADED"
	eventDegraded = "DEGRADED"
	eventStop     = "STOP"
)

// hostContext is the statekit context type for the host machine.
type hostContext struct {
	LoadedCount int
	ErrorCount  int
}

// Host runs discovered plugins as a single search provider. Every enabled
// plugin whose triggers match the query executes concurrently in the
// sandbox; crashes and timeouts are recorded against the plugin and a
// quarantined plugin stops participating immediately.
type Host struct {
	registry    *Registry
	sandbox     sandbox.Sandbox
	loader      *Loader
	logger      ports.Logger
	execTimeout time.Duration

	mu     sync.Mutex
	interp *statekit.Interpreter[hostContext]
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithExecutionTimeout sets the default execution budget for plugins whose
// manifest does not declare one.
func WithExecutionTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		if d > 0 {
			h.execTimeout = d
		}
	}
}

// NewHost creates a plugin host.
func NewHost(registry *Registry, sb sandbox.Sandbox, loader *Loader, logger ports.Logger, opts ...HostOption) *Host {
	h := &Host{
		registry: registry,
		sandbox:  sb,
		loader:   loader,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// buildHostMachine constructs the lifecycle state machine.
func buildHostMachine() (*statekit.Interpreter[hostContext], error) {
	machine, err := statekit.NewMachine[hostContext]("plugin-host").
		WithInitial(statekit.StateID(HostStopped)).
		WithContext(hostContext{}).
		State(statekit.StateID(HostStopped)).
		On(eventLoad).Target(statekit.StateID(HostLoading)).Done().
		State(statekit.StateID(HostLoading)).
		On(eventLoaded).Target(statekit.StateID(HostReady)).
		On(eventDegraded).Target(statekit.StateID(HostDegraded)).
		On(eventStop).Target(statekit.StateID(HostStopped)).Done().
		State(statekit.StateID(HostReady)).
		On(eventLoad).Target(statekit.StateID(HostLoading)).
		On(eventStop).Target(statekit.StateID(HostStopped)).Done().
		State(statekit.StateID(HostDegraded)).
		On(eventLoad).Target(statekit.StateID(HostLoading)).
		On(eventStop).Target(statekit.StateID(HostStopped)).Done().
		Build()
	if err != nil {
		return nil, err
	}
	return statekit.NewInterpreter(machine), nil
}

// Start discovers plugins, validates them in the sandbox, and enables the
// ones that load cleanly. Discovery failures leave the host degraded but
// serving.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.interp == nil {
		interp, err := buildHostMachine()
		if err != nil {
			return fmt.Errorf("building host state machine: %w", err)
		}
		interp.Start()
		h.interp = interp
	}
	h.interp.Send(statekit.Event{Type: eventLoad})

	discovered, err := h.loader.Discover(ctx)
	if err != nil {
		h.interp.Send(statekit.Event{Type: eventStop})
		return fmt.Errorf("discovering plugins: %w", err)
	}

	loadErrors := len(discovered.Errors)
	for _, de := range discovered.Errors {
		h.logger.Warn(ctx, "plugin failed to load",
			ports.F("path", de.Path), ports.F("error", de.Err.Error()))
	}

	for _, p := range discovered.Plugins {
		if err := h.sandbox.Validate(sandbox.Module{
			PluginID:  p.ID(),
			EntryPath: p.Manifest.Entry,
			Source:    p.Source,
		}); err != nil {
			loadErrors++
			h.logger.Warn(ctx, "plugin entry does not compile",
				ports.F("plugin", p.ID()), ports.F("error", err.Error()))
			continue
		}

		if err := h.registry.Register(p); err != nil {
			if !IsPluginExists(err) {
				loadErrors++
				h.logger.Warn(ctx, "plugin registration failed",
					ports.F("plugin", p.ID()), ports.F("error", err.Error()))
			}
			continue
		}
		if err := h.registry.Enable(p.ID()); err != nil {
			loadErrors++
			continue
		}
		h.logger.Info(ctx, "plugin enabled",
			ports.F("plugin", p.String()),
			ports.F("triggers", strings.Join(p.Manifest.Triggers, ",")))
	}

	if loadErrors > 0 {
		h.interp.Send(statekit.Event{Type: eventDegraded})
	} else {
		h.interp.Send(statekit.Event{Type: eventLoaded})
	}
	return nil
}

// Stop shuts the host down and releases the sandbox.
func (h *Host) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.interp != nil {
		h.interp.Send(statekit.Event{Type: eventStop})
		h.interp.Stop()
		h.interp = nil
	}
	return h.sandbox.Close()
}

// State returns the host's lifecycle state.
func (h *Host) State() HostState {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.interp == nil {
		return HostStopped
	}
	return HostState(h.interp.State().Value)
}

// ID implements search.Provider.
func (h *Host) ID() string {
	return "plugins"
}

// Triggers returns the union of all enabled plugins' triggers, sorted.
func (h *Host) Triggers() []string {
	set := make(map[string]struct{})
	for _, p := range h.registry.Enabled() {
		for _, t := range p.Manifest.Triggers {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	triggers := make([]string, 0, len(set))
	for t := range set {
		triggers = append(triggers, t)
	}
	sort.Strings(triggers)
	return triggers
}

// Search executes every matching enabled plugin concurrently and merges
// their candidates. Per-plugin failures are recorded and never propagate;
// context cancellation aborts execution without counting as a failure.
func (h *Host) Search(ctx context.Context, query result.Query) ([]result.Candidate, error) {
	enabled := h.registry.Enabled()
	if len(enabled) == 0 {
		return nil, nil
	}

	type slot struct {
		candidates []result.Candidate
	}
	slots := make([]slot, len(enabled))

	var wg sync.WaitGroup
	for i, p := range enabled {
		pluginQuery, ok := matchQuery(p, query)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(i int, p *Plugin, q result.Query) {
			defer wg.Done()
			slots[i].candidates = h.executeOne(ctx, p, q)
		}(i, p, pluginQuery)
	}
	wg.Wait()

	var merged []result.Candidate
	for _, s := range slots {
		merged = append(merged, s.candidates...)
	}
	return merged, nil
}

// executeOne runs a single plugin in the sandbox and updates its crash
// bookkeeping.
func (h *Host) executeOne(ctx context.Context, p *Plugin, query result.Query) []result.Candidate {
	mod := sandbox.Module{
		PluginID:  p.ID(),
		EntryPath: p.Manifest.Entry,
		Source:    p.Source,
	}

	budget := p.Manifest.Timeout()
	if budget <= 0 {
		budget = h.execTimeout
	}

	start := time.Now()
	candidates, err := h.sandbox.Execute(ctx, mod, query, budget)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// A superseded or shut-down query is not the plugin's fault.
			// Deadline expiry is: the plugin was still running when its
			// slot closed, so it counts toward quarantine.
			return nil
		}
		quarantined := h.registry.RecordFailure(p.ID())
		h.logger.Warn(ctx, "plugin execution failed",
			ports.F("plugin", p.ID()),
			ports.F("error", err.Error()),
			ports.F("elapsed", elapsed.String()))
		if quarantined {
			h.logger.Error(ctx, "plugin quarantined after repeated failures",
				ports.F("plugin", p.ID()))
		}
		return nil
	}

	h.registry.RecordSuccess(p.ID(), elapsed)
	return candidates
}

// matchQuery decides whether a plugin sees the query. Plugins with triggers
// only match when the query starts with one (case-insensitive); the trigger
// prefix is stripped before the plugin sees the text. Trigger-less plugins
// see every query unchanged.
func matchQuery(p *Plugin, query result.Query) (result.Query, bool) {
	if len(p.Manifest.Triggers) == 0 {
		return query, true
	}

	lower := strings.ToLower(query.Text)
	for _, t := range p.Manifest.Triggers {
		t = strings.ToLower(t)
		if strings.HasPrefix(lower, t) {
			stripped := query
			stripped.Text = strings.TrimSpace(query.Text[len(t):])
			return stripped, true
		}
	}
	return result.Query{}, false
}

// Ensure Host implements the search provider contracts.
var (
	_ search.Provider        = (*Host)(nil)
	_ search.TriggerProvider = (*Host)(nil)
)
