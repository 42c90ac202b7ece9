// ABOUTME: Process tools: listing sorted by memory use and targeted termination
// ABOUTME: Built on gopsutil; termination failures keep their distinct kinds

package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/deskmote/deskmote/internal/dispatch"
)

// processListLimit bounds the listing to the biggest consumers.
const processListLimit = 20

type processEntry struct {
	pid  int32
	name string
	rss  uint64
}

func (r *Registry) listProcessesTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "list_processes",
		Description: "List running processes ordered by memory usage, largest first.",
		Timeout:     systemTimeout,
		Handler: func(ctx context.Context, _ *dispatch.Call) (*dispatch.Payload, error) {
			procs, err := process.ProcessesWithContext(ctx)
			if err != nil {
				return nil, fmt.Errorf("enumerating processes: %w", err)
			}

			entries := make([]processEntry, 0, len(procs))
			for _, p := range procs {
				name, err := p.NameWithContext(ctx)
				if err != nil {
					// Raced with process exit or access denied; skip it.
					continue
				}
				var rss uint64
				if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
					rss = mem.RSS
				}
				entries = append(entries, processEntry{pid: p.Pid, name: name, rss: rss})
			}

			sort.Slice(entries, func(i, j int) bool {
				if entries[i].rss != entries[j].rss {
					return entries[i].rss > entries[j].rss
				}
				return entries[i].pid < entries[j].pid
			})
			if len(entries) > processListLimit {
				entries = entries[:processListLimit]
			}
			return &dispatch.Payload{Text: formatProcessTable(entries)}, nil
		},
	}
}

func formatProcessTable(entries []processEntry) string {
	if len(entries) == 0 {
		return "no processes visible"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-32s %12s\n", "PID", "NAME", "MEMORY (MB)")
	for _, e := range entries {
		name := runewidth.Truncate(e.name, 32, "…")
		fmt.Fprintf(&b, "%-8d %s %12.2f\n",
			e.pid, runewidth.FillRight(name, 32), float64(e.rss)/(1024*1024))
	}
	return b.String()
}

func (r *Registry) killProcessTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "kill_process",
		Description: "Terminate a process by PID.",
		Args: []dispatch.ArgSpec{
			{Name: "pid", Type: dispatch.ArgInteger, Description: "Process ID to terminate", Required: true},
		},
		Timeout: systemTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			pid, err := requireInt(call.Args, "pid")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			if pid <= 0 {
				return nil, dispatch.Failf(dispatch.KindValidation, "pid must be positive, got %d", pid)
			}

			p, err := process.NewProcessWithContext(ctx, int32(pid))
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindNotFound, "no process with pid %d", pid)
			}
			name, _ := p.NameWithContext(ctx)

			if err := p.KillWithContext(ctx); err != nil {
				switch {
				case errors.Is(err, process.ErrorProcessNotRunning):
					return nil, dispatch.Failf(dispatch.KindNotFound, "no process with pid %d", pid)
				case errors.Is(err, fs.ErrPermission):
					return nil, dispatch.Failf(dispatch.KindPermission, "not allowed to terminate pid %d", pid)
				}
				return nil, fmt.Errorf("terminating pid %d: %w", pid, err)
			}
			if name == "" {
				name = "process"
			}
			return &dispatch.Payload{Text: fmt.Sprintf("terminated %s (pid %d)", name, pid)}, nil
		},
	}
}
