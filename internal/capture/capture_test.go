// ABOUTME: Shared test fakes for the capture package
// ABOUTME: Synthetic grabber and scripted locator so tests never touch a real display

package capture

import (
	"context"
	"image"
	"image/color"
	"sync"
)

// fakeGrabber returns a synthetic gradient image for any requested bounds.
type fakeGrabber struct {
	bounds image.Rectangle
	err    error

	mu    sync.Mutex
	grabs int
}

func newFakeGrabber(w, h int) *fakeGrabber {
	return &fakeGrabber{bounds: image.Rect(0, 0, w, h)}
}

func (g *fakeGrabber) DisplayBounds() (image.Rectangle, error) {
	if g.err != nil {
		return image.Rectangle{}, g.err
	}
	return g.bounds, nil
}

func (g *fakeGrabber) Grab(_ context.Context, bounds image.Rectangle) (image.Image, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.mu.Lock()
	g.grabs++
	g.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img, nil
}

func (g *fakeGrabber) grabCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grabs
}

// fakeLocator resolves every title to a fixed rectangle, or fails with err.
type fakeLocator struct {
	mu     sync.Mutex
	bounds image.Rectangle
	err    error
	calls  int
}

func (l *fakeLocator) Locate(context.Context, string) (image.Rectangle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return image.Rectangle{}, l.err
	}
	return l.rect(), nil
}

func (l *fakeLocator) Active(context.Context) (Window, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return Window{}, l.err
	}
	return Window{Title: "active", Bounds: l.rect()}, nil
}

// rect returns the configured bounds, defaulting to a small window so zero
// value fakes still produce encodable frames.
func (l *fakeLocator) rect() image.Rectangle {
	if l.bounds.Empty() {
		return image.Rect(0, 0, 24, 24)
	}
	return l.bounds
}

func (l *fakeLocator) setErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *fakeLocator) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
