// ABOUTME: System information tool: host, CPU, memory, and root disk summary
// ABOUTME: Partial data is reported rather than failing the whole call on one probe

package tools

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sync/errgroup"

	"github.com/deskmote/deskmote/internal/dispatch"
)

type systemInfo struct {
	Hostname      string  `json:"hostname,omitempty"`
	OS            string  `json:"os"`
	Platform      string  `json:"platform,omitempty"`
	UptimeSeconds uint64  `json:"uptime_seconds,omitempty"`
	CPUCount      int     `json:"cpu_count,omitempty"`
	MemTotal      uint64  `json:"mem_total_bytes,omitempty"`
	MemAvailable  uint64  `json:"mem_available_bytes,omitempty"`
	MemUsedPct    float64 `json:"mem_used_percent,omitempty"`
	DiskTotal     uint64  `json:"disk_total_bytes,omitempty"`
	DiskFree      uint64  `json:"disk_free_bytes,omitempty"`
	DiskUsedPct   float64 `json:"disk_used_percent,omitempty"`
}

func rootVolume() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

func (r *Registry) systemInfoTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "get_system_info",
		Description: "Report host, CPU, memory, and root disk information.",
		Timeout:     systemTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			info := systemInfo{OS: runtime.GOOS}

			// Each probe fills its own fields; a failed probe leaves them
			// at their zero value rather than failing the call.
			var g errgroup.Group
			g.Go(func() error {
				if hi, err := host.InfoWithContext(ctx); err == nil {
					info.Hostname = hi.Hostname
					info.Platform = fmt.Sprintf("%s %s", hi.Platform, hi.PlatformVersion)
					info.UptimeSeconds = hi.Uptime
				}
				return nil
			})
			g.Go(func() error {
				if n, err := cpu.CountsWithContext(ctx, true); err == nil {
					info.CPUCount = n
				}
				return nil
			})
			g.Go(func() error {
				if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
					info.MemTotal = vm.Total
					info.MemAvailable = vm.Available
					info.MemUsedPct = vm.UsedPercent
				}
				return nil
			})
			g.Go(func() error {
				if du, err := disk.UsageWithContext(ctx, rootVolume()); err == nil {
					info.DiskTotal = du.Total
					info.DiskFree = du.Free
					info.DiskUsedPct = du.UsedPercent
				}
				return nil
			})
			_ = g.Wait()

			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("encoding system info: %w", err)
			}
			return &dispatch.Payload{Text: string(out)}, nil
		},
	}
}
