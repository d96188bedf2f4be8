package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Tool execution errors. The Chinese text is part of the tool contract:
// it lands in action records and flows through to rendered answers.
var (
	ErrToolNotFound    = errors.New("工具不存在")
	ErrToolFuncMissing = errors.New("工具执行函数未注册")
	ErrMissingParam    = errors.New("缺少必需参数")
	ErrToolTimeout     = errors.New("工具执行超时")
)

// DefaultToolTimeout bounds a single tool execution when neither the
// tool nor the registry overrides it.
const DefaultToolTimeout = 30 * time.Second

// ToolFunc executes a tool. Results that are not already a string map are
// wrapped by the registry as {"result": value}.
type ToolFunc func(ctx context.Context, params map[string]any) (any, error)

// ToolInfo describes a registered tool. Parameters follows the OpenAI
// function-parameters schema shape so planner prompts can enumerate
// argument names and types.
type ToolInfo struct {
	Name           string
	Description    string
	Parameters     map[string]any
	RequiredParams []string
	Timeout        time.Duration
	Category       string
	Tags           []string
}

// ParamSummary renders the parameter names and types for prompt text,
// e.g. "city(string), days(integer)". Names are sorted for stable output.
func (t *ToolInfo) ParamSummary() string {
	props, _ := t.Parameters["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		typ := "string"
		if spec, ok := props[name].(map[string]any); ok {
			if s, ok := spec["type"].(string); ok {
				typ = s
			}
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", name, typ))
	}
	return strings.Join(parts, ", ")
}

// Registry holds the tools available to the agent. All methods are safe
// for concurrent use.
type Registry struct {
	mu             sync.RWMutex
	tools          map[string]*ToolInfo
	funcs          map[string]ToolFunc
	order          []string
	defaultTimeout time.Duration
	log            *slog.Logger
}

// NewRegistry creates an empty registry. A non-positive timeout falls
// back to DefaultToolTimeout.
func NewRegistry(defaultTimeout time.Duration) *Registry {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultToolTimeout
	}
	return &Registry{
		tools:          make(map[string]*ToolInfo),
		funcs:          make(map[string]ToolFunc),
		defaultTimeout: defaultTimeout,
		log:            slog.With("component", "tool_registry"),
	}
}

// Register adds a tool. Duplicate names are rejected and reported false.
// fn may be nil to register metadata first; Execute then fails until a
// function is bound.
func (r *Registry) Register(info ToolInfo, fn ToolFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[info.Name]; exists {
		r.log.Warn("Tool already registered", "tool", info.Name)
		return false
	}
	if info.Timeout <= 0 {
		info.Timeout = r.defaultTimeout
	}

	r.tools[info.Name] = &info
	if fn != nil {
		r.funcs[info.Name] = fn
	}
	r.order = append(r.order, info.Name)

	r.log.Debug("Tool registered", "tool", info.Name, "category", info.Category)
	return true
}

// BindFunc attaches an execution function to an already-registered tool.
func (r *Registry) BindFunc(name string, fn ToolFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return false
	}
	r.funcs[name] = fn
	return true
}

// Get returns the tool metadata by name.
func (r *Registry) Get(name string) (*ToolInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Names returns tool names in registration order. Rule-based planning
// scans this list, so registration order decides rule matches.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// List returns tool metadata in registration order.
func (r *Registry) List() []*ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute runs a tool by name, enforcing required parameters and the
// tool's timeout. Non-map results are wrapped as {"result": value}.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (map[string]any, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	fn := r.funcs[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrToolFuncMissing, name)
	}
	for _, required := range tool.RequiredParams {
		if _, present := params[required]; !present {
			return nil, fmt.Errorf("%w: %s", ErrMissingParam, required)
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, tool.Timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := fn(execCtx, params)
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-execCtx.Done():
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			r.log.Warn("Tool execution timed out", "tool", name, "timeout", tool.Timeout)
			return nil, fmt.Errorf("%w: %s", ErrToolTimeout, name)
		}
		return nil, execCtx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		return wrapResult(out.value), nil
	}
}

// wrapResult normalizes a tool return value into a string map.
func wrapResult(value any) map[string]any {
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return map[string]any{"result": value}
}
