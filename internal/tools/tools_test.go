// ABOUTME: Shared test scaffolding: fake grabber, locator, and injector
// ABOUTME: Tests dispatch through a real Dispatcher so hardening and classification are exercised

package tools

import (
	"context"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/deskmote/deskmote/internal/capture"
	"github.com/deskmote/deskmote/internal/config"
	"github.com/deskmote/deskmote/internal/dispatch"
	"github.com/deskmote/deskmote/internal/scope"
)

type fakeGrabber struct {
	bounds image.Rectangle
}

func (g fakeGrabber) DisplayBounds() (image.Rectangle, error) {
	return g.bounds, nil
}

func (g fakeGrabber) Grab(_ context.Context, bounds image.Rectangle) (image.Image, error) {
	img := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, image.White)
		}
	}
	return img, nil
}

type fakeLocator struct {
	windows []capture.Window
	active  capture.Window
}

func (l fakeLocator) Locate(_ context.Context, title string) (image.Rectangle, error) {
	w, ok := capture.BestMatch(l.windows, title)
	if !ok {
		return image.Rectangle{}, fmt.Errorf("%q: %w", title, capture.ErrWindowNotFound)
	}
	return w.Bounds, nil
}

func (l fakeLocator) Active(context.Context) (capture.Window, error) {
	return l.active, nil
}

type injectorCall struct {
	op     string
	coords []int
	button string
	clicks int
	text   string
}

type fakeInjector struct {
	mu    sync.Mutex
	calls []injectorCall
	err   error
}

func (f *fakeInjector) record(c injectorCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeInjector) last(t *testing.T) injectorCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no injector calls recorded")
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeInjector) Click(_ context.Context, x, y int, button string, clicks int) error {
	return f.record(injectorCall{op: "click", coords: []int{x, y}, button: button, clicks: clicks})
}

func (f *fakeInjector) Move(_ context.Context, x, y int) error {
	return f.record(injectorCall{op: "move", coords: []int{x, y}})
}

func (f *fakeInjector) Drag(_ context.Context, x1, y1, x2, y2 int) error {
	return f.record(injectorCall{op: "drag", coords: []int{x1, y1, x2, y2}})
}

func (f *fakeInjector) Type(_ context.Context, text string) error {
	return f.record(injectorCall{op: "type", text: text})
}

var testWindows = []capture.Window{
	{Title: "Files", Bounds: image.Rect(0, 0, 400, 300)},
	{Title: "Text Editor", Bounds: image.Rect(100, 100, 700, 500)},
}

func newTestRegistry(t *testing.T, cfg *config.Config) (*Registry, *fakeInjector) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	loc := fakeLocator{
		windows: testWindows,
		active:  testWindows[1],
	}
	sched := capture.NewScheduler(capture.Options{
		Grabber: fakeGrabber{bounds: image.Rect(0, 0, 64, 48)},
		Locator: loc,
	})
	t.Cleanup(sched.Stop)

	files, err := scope.New(cfg.Files.Root)
	if err != nil {
		t.Fatalf("scope.New(%q): %v", cfg.Files.Root, err)
	}
	inj := &fakeInjector{}
	reg := NewRegistry(Options{
		Scheduler: sched,
		Locator:   loc,
		Injector:  inj,
		Files:     files,
		Config:    cfg,
	})
	return reg, inj
}

// dispatchTool runs one call through a real dispatcher built from the registry.
func dispatchTool(t *testing.T, reg *Registry, name string, args map[string]any) dispatch.Result {
	t.Helper()
	d := dispatch.NewDispatcher(reg.FileScope(), reg.All()...)
	return d.Dispatch(context.Background(), &dispatch.Call{Tool: name, Args: args})
}

func requireOK(t *testing.T, res dispatch.Result) *dispatch.Payload {
	t.Helper()
	if !res.OK() {
		t.Fatalf("call failed: %s: %s", res.Failure.Kind, res.Failure.Message)
	}
	return res.Payload
}

func requireFailure(t *testing.T, res dispatch.Result, kind dispatch.Kind) *dispatch.Failure {
	t.Helper()
	if res.OK() {
		t.Fatalf("expected %s failure, got success: %q", kind, res.Payload.Text)
	}
	if res.Failure.Kind != kind {
		t.Fatalf("failure kind = %s, want %s (message %q)", res.Failure.Kind, kind, res.Failure.Message)
	}
	return res.Failure
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
