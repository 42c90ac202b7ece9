// ABOUTME: Application launcher: well-known names map to executables, with config overrides
// ABOUTME: Unmapped names are treated as direct executables

package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/deskmote/deskmote/internal/dispatch"
)

// wellKnownApps maps friendly names to platform executables.
func wellKnownApps() map[string]string {
	if runtime.GOOS == "windows" {
		return map[string]string{
			"notepad":    "notepad.exe",
			"chrome":     "chrome.exe",
			"edge":       "msedge.exe",
			"firefox":    "firefox.exe",
			"explorer":   "explorer.exe",
			"calc":       "calc.exe",
			"calculator": "calc.exe",
			"word":       "winword.exe",
			"excel":      "excel.exe",
			"powershell": "powershell.exe",
			"cmd":        "cmd.exe",
		}
	}
	return map[string]string{
		"chrome":     "google-chrome",
		"firefox":    "firefox",
		"files":      "xdg-open",
		"calc":       "gnome-calculator",
		"calculator": "gnome-calculator",
		"terminal":   "x-terminal-emulator",
		"editor":     "gedit",
	}
}

// resolveApp maps name through config overrides, then the built-in table,
// falling back to the name itself as a direct executable.
func (r *Registry) resolveApp(name string) string {
	key := strings.ToLower(name)
	if exe, ok := r.cfg.Apps[key]; ok {
		return exe
	}
	if exe, ok := wellKnownApps()[key]; ok {
		return exe
	}
	return name
}

func (r *Registry) launchAppTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "launch_app",
		Description: "Launch an application by well-known name or executable.",
		Args: []dispatch.ArgSpec{
			{Name: "name", Type: dispatch.ArgString, Description: "Application name (e.g. \"chrome\") or executable", Required: true},
		},
		Timeout: systemTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			name, err := requireString(call.Args, "name")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			executable := r.resolveApp(name)

			cmd := exec.Command(executable)
			if err := cmd.Start(); err != nil {
				if errors.Is(err, exec.ErrNotFound) {
					return nil, dispatch.Failf(dispatch.KindNotFound, "executable %q not found", executable)
				}
				return nil, fmt.Errorf("launching %q: %w", executable, err)
			}
			// The application outlives the request; detach rather than wait.
			if err := cmd.Process.Release(); err != nil {
				return nil, fmt.Errorf("detaching %q: %w", executable, err)
			}
			return &dispatch.Payload{Text: fmt.Sprintf("launched %q (%s)", name, executable)}, nil
		},
	}
}
