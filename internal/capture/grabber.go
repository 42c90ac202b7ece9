// ABOUTME: Grabber abstracts raw pixel acquisition for a screen rectangle
// ABOUTME: Production implementation uses kbinani/screenshot; tests inject synthetic grabbers

package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplay means no active display is available to capture.
var ErrNoDisplay = errors.New("no active display")

// Grabber produces raw pixels for a region of the screen.
type Grabber interface {
	// DisplayBounds returns the bounds of the primary display.
	DisplayBounds() (image.Rectangle, error)
	// Grab captures the raw pixels of the given screen rectangle.
	Grab(ctx context.Context, bounds image.Rectangle) (image.Image, error)
}

type screenGrabber struct{}

// NewScreenGrabber returns a Grabber backed by the OS screen capture facility.
func NewScreenGrabber() Grabber {
	return screenGrabber{}
}

func (screenGrabber) DisplayBounds() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() < 1 {
		return image.Rectangle{}, ErrNoDisplay
	}
	return screenshot.GetDisplayBounds(0), nil
}

func (screenGrabber) Grab(ctx context.Context, bounds image.Rectangle) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("empty capture bounds %v", bounds)
	}
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("capturing %v: %w", bounds, err)
	}
	return img, nil
}
