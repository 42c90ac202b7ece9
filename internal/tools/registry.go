// ABOUTME: Builds the full tool set with shared collaborators injected
// ABOUTME: Every exposed operation is declared here; the dispatcher owns invocation

package tools

import (
	"time"

	"github.com/deskmote/deskmote/internal/capture"
	"github.com/deskmote/deskmote/internal/config"
	"github.com/deskmote/deskmote/internal/dispatch"
	"github.com/deskmote/deskmote/internal/scope"
)

// Execution ceilings per operation class. execute_command's 30 second ceiling
// is part of its contract; the others guard against wedged OS calls.
const (
	commandTimeout = 30 * time.Second
	captureTimeout = 15 * time.Second
	inputTimeout   = 10 * time.Second
	systemTimeout  = 10 * time.Second
)

// Registry assembles the tools exposed through the dispatcher.
type Registry struct {
	scheduler *capture.Scheduler
	locator   capture.Locator
	injector  Injector
	files     *scope.Scope
	cfg       *config.Config
}

// Options configure a Registry. Scheduler and Config are required; the rest
// default to production implementations.
type Options struct {
	Scheduler *capture.Scheduler
	Locator   capture.Locator
	Injector  Injector
	Files     *scope.Scope
	Config    *config.Config
}

// NewRegistry creates a Registry with defaults for unset collaborators.
func NewRegistry(opts Options) *Registry {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = capture.NewScheduler(capture.Options{
			Codec: &capture.Codec{
				MaxWidth:  opts.Config.Capture.MaxWidth,
				MaxHeight: opts.Config.Capture.MaxHeight,
			},
		})
	}
	if opts.Locator == nil {
		opts.Locator = capture.NewSystemLocator()
	}
	if opts.Injector == nil {
		opts.Injector = NewSystemInjector()
	}
	if opts.Files == nil {
		opts.Files, _ = scope.New(opts.Config.Files.Root)
	}
	return &Registry{
		scheduler: opts.Scheduler,
		locator:   opts.Locator,
		injector:  opts.Injector,
		files:     opts.Files,
		cfg:       opts.Config,
	}
}

// FileScope returns the scope guarding file-accepting tools; the dispatcher
// uses it to harden path arguments.
func (r *Registry) FileScope() *scope.Scope {
	return r.files
}

// Close stops any running auto-refresh session.
func (r *Registry) Close() {
	r.scheduler.Stop()
}

// All returns every tool the server exposes.
func (r *Registry) All() []*dispatch.Tool {
	return []*dispatch.Tool{
		r.captureScreenTool(),
		r.captureWindowTool(),
		r.startAutoRefreshTool(),
		r.stopAutoRefreshTool(),
		r.latestFrameTool(),
		r.activeWindowTool(),
		r.clickTool(),
		r.rightClickTool(),
		r.doubleClickTool(),
		r.moveMouseTool(),
		r.dragMouseTool(),
		r.sendKeysTool(),
		r.listProcessesTool(),
		r.killProcessTool(),
		r.executeCommandTool(),
		r.launchAppTool(),
		r.listDirectoryTool(),
		r.readFileTool(),
		r.systemInfoTool(),
	}
}
