// ABOUTME: Capture tools: one-shot captures, auto-refresh control, latest frame, active window
// ABOUTME: All frame production flows through the shared scheduler and its buffer

package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/deskmote/deskmote/internal/capture"
	"github.com/deskmote/deskmote/internal/dispatch"
)

func frameText(f *capture.Frame) string {
	return fmt.Sprintf("captured %dx%d %s (quality %d) from %s at %s",
		f.Width(), f.Height(), f.Format, f.Quality, f.Source, f.CapturedAt.Format(time.RFC3339))
}

func (r *Registry) captureScreenTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "capture_screen",
		Description: "Capture the full screen and return the encoded image.",
		Args: []dispatch.ArgSpec{
			{Name: "quality", Type: dispatch.ArgInteger, Description: "Encoding quality 1-100 (default from config)"},
		},
		Timeout: captureTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			quality := intArg(call.Args, "quality", r.cfg.Capture.Quality)
			if !capture.ValidQuality(quality) {
				return nil, dispatch.Failf(dispatch.KindValidation, "quality %d out of range [1,100]", quality)
			}
			frame, err := r.scheduler.Capture(ctx, quality, capture.Source{})
			if err != nil {
				return nil, err
			}
			return &dispatch.Payload{Text: frameText(frame), Frame: frame}, nil
		},
	}
}

func (r *Registry) captureWindowTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "capture_window",
		Description: "Capture the best-matching visible window by title substring.",
		Args: []dispatch.ArgSpec{
			{Name: "title", Type: dispatch.ArgString, Description: "Window title substring (case-insensitive)", Required: true},
			{Name: "quality", Type: dispatch.ArgInteger, Description: "Encoding quality 1-100 (default from config)"},
		},
		Timeout: captureTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			title, err := requireString(call.Args, "title")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			quality := intArg(call.Args, "quality", r.cfg.Capture.Quality)
			if !capture.ValidQuality(quality) {
				return nil, dispatch.Failf(dispatch.KindValidation, "quality %d out of range [1,100]", quality)
			}
			frame, err := r.scheduler.Capture(ctx, quality, capture.Source{Window: title})
			if err != nil {
				return nil, err
			}
			return &dispatch.Payload{Text: frameText(frame), Frame: frame}, nil
		},
	}
}

func (r *Registry) startAutoRefreshTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "start_auto_refresh",
		Description: "Start (or replace) the periodic background capture session.",
		Args: []dispatch.ArgSpec{
			{Name: "interval", Type: dispatch.ArgNumber, Description: "Capture interval in seconds (> 0)", Required: true},
			{Name: "quality", Type: dispatch.ArgInteger, Description: "Encoding quality 1-100 (default from config)"},
			{Name: "title", Type: dispatch.ArgString, Description: "Window title substring; omit for full screen"},
		},
		Handler: func(_ context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			seconds := floatArg(call.Args, "interval", 0)
			if seconds <= 0 {
				return nil, dispatch.Failf(dispatch.KindValidation, "interval must be positive, got %v", seconds)
			}
			quality := intArg(call.Args, "quality", r.cfg.Capture.Quality)
			if !capture.ValidQuality(quality) {
				return nil, dispatch.Failf(dispatch.KindValidation, "quality %d out of range [1,100]", quality)
			}
			source := capture.Source{Window: stringArg(call.Args, "title", "")}

			interval := time.Duration(seconds * float64(time.Second))
			if err := r.scheduler.Start(interval, quality, source); err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			return &dispatch.Payload{
				Text: fmt.Sprintf("auto-refresh started: every %v, quality %d, source %s", interval, quality, source),
			}, nil
		},
	}
}

func (r *Registry) stopAutoRefreshTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "stop_auto_refresh",
		Description: "Stop the periodic capture session. A no-op when none is running.",
		Handler: func(context.Context, *dispatch.Call) (*dispatch.Payload, error) {
			r.scheduler.Stop()
			return &dispatch.Payload{Text: "auto-refresh stopped"}, nil
		},
	}
}

func (r *Registry) latestFrameTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "get_latest_frame",
		Description: "Return the most recently captured frame, if any.",
		Handler: func(context.Context, *dispatch.Call) (*dispatch.Payload, error) {
			frame := r.scheduler.Latest()
			if frame == nil {
				return &dispatch.Payload{Text: "no frame captured yet"}, nil
			}
			return &dispatch.Payload{Text: frameText(frame), Frame: frame}, nil
		},
	}
}

func (r *Registry) activeWindowTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "get_active_window_info",
		Description: "Report the title and bounds of the currently focused window.",
		Timeout:     systemTimeout,
		Handler: func(ctx context.Context, _ *dispatch.Call) (*dispatch.Payload, error) {
			w, err := r.locator.Active(ctx)
			if err != nil {
				return nil, err
			}
			b := w.Bounds
			return &dispatch.Payload{
				Text: fmt.Sprintf("Active window: %q\nPosition: left=%d top=%d right=%d bottom=%d\nSize: %dx%d",
					w.Title, b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, b.Dx(), b.Dy()),
			}, nil
		},
	}
}
