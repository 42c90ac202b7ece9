// ABOUTME: Frame and Source types for the capture engine
// ABOUTME: A Frame is an immutable encoded capture; it is superseded, never mutated

package capture

import (
	"image"
	"time"
)

// Source describes what a frame was captured from. The zero value means the
// full primary screen; a non-empty Window means the best-matching window with
// that title substring.
type Source struct {
	Window string
}

// IsScreen reports whether the source is the full screen.
func (s Source) IsScreen() bool {
	return s.Window == ""
}

func (s Source) String() string {
	if s.IsScreen() {
		return "screen"
	}
	return "window:" + s.Window
}

// Frame is one encoded capture plus its metadata. Frames are immutable after
// creation; the scheduler replaces the published frame wholesale on each tick.
type Frame struct {
	Bounds     image.Rectangle
	Data       []byte
	Format     string
	Quality    int
	CapturedAt time.Time
	Source     Source
}

// Width returns the captured region width in pixels.
func (f *Frame) Width() int {
	return f.Bounds.Dx()
}

// Height returns the captured region height in pixels.
func (f *Frame) Height() int {
	return f.Bounds.Dy()
}
