package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/glintlauncher/glint/internal/domain/intent"
	"github.com/glintlauncher/glint/internal/domain/result"
	"github.com/glintlauncher/glint/internal/ports"
)

const (
	// DefaultTimeout bounds a plugin invocation when the manifest does
	// not declare its own budget.
	DefaultTimeout = 3 * time.Second

	// maxCandidates caps how many results one invocation may return.
	maxCandidates = 50

	entryFunction = "onSearch"
)

// Interpreter is an in-process, capability-stripped JS sandbox. Each
// invocation runs in a fresh VM so plugins cannot retain state or observe
// each other; compiled programs are cached per module source.
type Interpreter struct {
	logger ports.Logger

	mu       sync.Mutex
	programs map[string]*goja.Program
	closed   bool
}

// NewInterpreter creates a new JS sandbox.
func NewInterpreter(logger ports.Logger) *Interpreter {
	return &Interpreter{
		logger:   logger,
		programs: make(map[string]*goja.Program),
	}
}

// Execute runs the module's onSearch entry with the given wall-clock budget.
func (s *Interpreter) Execute(ctx context.Context, mod Module, query result.Query, timeout time.Duration) ([]result.Candidate, error) {
	prog, err := s.program(mod)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vm := goja.New()
	s.installConsole(vm, mod.PluginID)

	type outcome struct {
		val goja.Value
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		val, err := runEntry(vm, prog, query)
		done <- outcome{val: val, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		vm.Interrupt("canceled")
		<-done
		return nil, ctx.Err()
	case <-timer.C:
		vm.Interrupt("timeout")
		<-done
		return nil, &Error{Code: CodeTimeout, Message: fmt.Sprintf("plugin %s exceeded %s", mod.PluginID, timeout)}
	case out := <-done:
		if out.err != nil {
			return nil, &Error{Code: CodeException, Message: exceptionMessage(out.err)}
		}
		return decodeCandidates(mod.PluginID, out.val)
	}
}

// Validate compiles the module without executing it.
func (s *Interpreter) Validate(mod Module) error {
	_, err := s.program(mod)
	return err
}

// Close releases the program cache.
func (s *Interpreter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.programs = nil
	return nil
}

// program returns the cached compiled program for the module, compiling
// on first use.
func (s *Interpreter) program(mod Module) (*goja.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if prog, ok := s.programs[mod.PluginID]; ok {
		return prog, nil
	}

	name := mod.EntryPath
	if name == "" {
		name = mod.PluginID
	}
	prog, err := goja.Compile(name, mod.Source, false)
	if err != nil {
		return nil, &Error{Code: CodeException, Message: fmt.Sprintf("compile %s: %v", name, err)}
	}
	s.programs[mod.PluginID] = prog
	return prog, nil
}

// installConsole exposes a log-only console object. It is the single host
// binding plugins receive; everything else in the VM is pure computation.
func (s *Interpreter) installConsole(vm *goja.Runtime, pluginID string) {
	logger := s.logger
	if logger == nil {
		return
	}
	log := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		logger.Debug(context.Background(), strings.Join(parts, " "), ports.F("plugin", pluginID))
		return goja.Undefined()
	}
	console := vm.NewObject()
	_ = console.Set("log", log)
	_ = console.Set("warn", log)
	_ = console.Set("error", log)
	_ = vm.Set("console", console)
}

// runEntry evaluates the module and calls onSearch(query).
func runEntry(vm *goja.Runtime, prog *goja.Program, query result.Query) (goja.Value, error) {
	if _, err := vm.RunProgram(prog); err != nil {
		return nil, err
	}

	fn, ok := goja.AssertFunction(vm.Get(entryFunction))
	if !ok {
		return nil, fmt.Errorf("module does not define %s(query)", entryFunction)
	}

	arg := vm.ToValue(map[string]interface{}{
		"text":     query.Text,
		"issuedAt": query.IssuedAt.UnixMilli(),
	})
	return fn(goja.Undefined(), arg)
}

// rawCandidate is the JSON shape a plugin returns from onSearch.
type rawCandidate struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Subtitle     string          `json:"subtitle"`
	Icon         string          `json:"icon"`
	Score        float64         `json:"score"`
	ActionIntent json.RawMessage `json:"actionIntent"`
}

// decodeCandidates converts the plugin's return value into candidates.
// The round trip through JSON is the trust-boundary enforcement: function
// values and live references cannot survive it, and any failure discards
// the whole invocation (all-or-nothing).
func decodeCandidates(pluginID string, val goja.Value) ([]result.Candidate, error) {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, nil
	}

	data, err := json.Marshal(val.Export())
	if err != nil {
		return nil, &Error{Code: CodeBadResult, Message: fmt.Sprintf("result is not JSON-serializable: %v", err)}
	}

	var raws []rawCandidate
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &Error{Code: CodeBadResult, Message: fmt.Sprintf("result is not a candidate array: %v", err)}
	}
	if len(raws) > maxCandidates {
		raws = raws[:maxCandidates]
	}

	candidates := make([]result.Candidate, 0, len(raws))
	for i, raw := range raws {
		if strings.TrimSpace(raw.Title) == "" {
			return nil, &Error{Code: CodeBadResult, Message: fmt.Sprintf("candidate %d has no title", i)}
		}

		in := intent.Intent(intent.None{})
		if len(raw.ActionIntent) > 0 {
			decoded, err := intent.Unmarshal(raw.ActionIntent)
			if err != nil {
				return nil, &Error{Code: CodeBadResult, Message: fmt.Sprintf("candidate %d: %v", i, err)}
			}
			in = decoded
		}

		id := raw.ID
		if id == "" {
			id = fmt.Sprintf("%s/%d", pluginID, i)
		}

		candidates = append(candidates, result.Candidate{
			ID:       id,
			Title:    raw.Title,
			Subtitle: raw.Subtitle,
			Icon:     raw.Icon,
			Kind:     result.KindPlugin,
			RawScore: clampScore(raw.Score),
			SourceID: pluginID,
			Intent:   in,
		})
	}
	return candidates, nil
}

func clampScore(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

func exceptionMessage(err error) string {
	var ex *goja.Exception
	if ok := asGojaException(err, &ex); ok {
		return ex.Value().String()
	}
	return err.Error()
}

func asGojaException(err error, target **goja.Exception) bool {
	for err != nil {
		if ex, ok := err.(*goja.Exception); ok {
			*target = ex
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Ensure Interpreter implements Sandbox.
var _ Sandbox = (*Interpreter)(nil)
