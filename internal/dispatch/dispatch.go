// ABOUTME: The single entry point all tool operations pass through
// ABOUTME: Validates arguments, hardens paths, applies timeouts, and normalizes outcomes

package dispatch

import (
	"context"
	"sort"
	"time"

	"github.com/deskmote/deskmote/internal/capture"
	"github.com/deskmote/deskmote/internal/log"
	"github.com/deskmote/deskmote/internal/scope"
)

// Handler executes one tool operation. Returned errors are classified at the
// dispatch boundary; handlers never talk to the caller directly.
type Handler func(ctx context.Context, call *Call) (*Payload, error)

// Tool couples an operation name with its declared argument schema, its
// execution ceiling, and its handler.
type Tool struct {
	Name        string
	Description string
	Args        []ArgSpec
	// Timeout bounds the handler's wall-clock time; zero means no ceiling.
	Timeout time.Duration
	Handler Handler
}

// Call is one validated tool invocation.
type Call struct {
	Tool string
	Args map[string]any
	// Client is the opaque identity of the issuing client, supplied by the
	// transport.
	Client string
}

// Payload is a successful result: text and/or a frame reference.
type Payload struct {
	Text  string
	Frame *capture.Frame
}

// Result is the tagged outcome of a dispatch: exactly one of Payload or
// Failure is set.
type Result struct {
	Payload *Payload
	Failure *Failure
}

// OK reports whether the dispatch succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Dispatcher routes tool calls through the validation pipeline. It never
// panics or raises past Dispatch; every failure becomes a Result failure.
type Dispatcher struct {
	tools map[string]*Tool
	paths *scope.Scope
}

// NewDispatcher builds a Dispatcher over the given tools. paths guards every
// ArgPath argument; a nil scope means unconfined path validation.
func NewDispatcher(paths *scope.Scope, tools ...*Tool) *Dispatcher {
	if paths == nil {
		paths, _ = scope.New("")
	}
	m := make(map[string]*Tool, len(tools))
	for _, t := range tools {
		m[t.Name] = t
	}
	return &Dispatcher{tools: m, paths: paths}
}

// Tools returns the registered tools sorted by name.
func (d *Dispatcher) Tools() []*Tool {
	out := make([]*Tool, 0, len(d.tools))
	for _, t := range d.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch runs one tool call through the pipeline: schema validation, path
// hardening, execution ceiling, invocation, and outcome normalization.
func (d *Dispatcher) Dispatch(ctx context.Context, call *Call) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic in tool %q: %v", call.Tool, r)
			res = Result{Failure: Failf(KindInternal, "internal error in %s", call.Tool)}
		}
	}()

	tool, ok := d.tools[call.Tool]
	if !ok {
		return Result{Failure: Failf(KindValidation, "unknown tool %q", call.Tool)}
	}

	if call.Args == nil {
		call.Args = map[string]any{}
	}
	if fail := validateArgs(tool.Args, call.Args); fail != nil {
		return Result{Failure: fail}
	}
	if fail := d.hardenPaths(tool, call); fail != nil {
		return Result{Failure: fail}
	}

	if tool.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tool.Timeout)
		defer cancel()
	}

	payload, err := tool.Handler(ctx, call)
	if err != nil {
		fail := classify(err)
		log.Debug("tool %q failed (%s): %s", call.Tool, fail.Kind, fail.Message)
		return Result{Failure: fail}
	}
	if payload == nil {
		payload = &Payload{}
	}
	return Result{Payload: payload}
}

// hardenPaths resolves every ArgPath argument through the path scope and
// rewrites it in place, so handlers only ever see validated absolute paths.
func (d *Dispatcher) hardenPaths(tool *Tool, call *Call) *Failure {
	for _, a := range tool.Args {
		if a.Type != ArgPath {
			continue
		}
		raw, ok := call.Args[a.Name].(string)
		if !ok {
			continue
		}
		resolved, err := d.paths.Resolve(raw)
		if err != nil {
			return classify(err)
		}
		call.Args[a.Name] = resolved
	}
	return nil
}
