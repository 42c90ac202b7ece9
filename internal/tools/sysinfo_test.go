// ABOUTME: Tests for get_system_info payload shape
// ABOUTME: Probes real host facts, so assertions stay loose: presence, not values

package tools

import (
	"runtime"
	"testing"
)

func TestSystemInfo(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t, nil)

	payload := requireOK(t, dispatchTool(t, reg, "get_system_info", nil))

	var info systemInfo
	if err := json.Unmarshal([]byte(payload.Text), &info); err != nil {
		t.Fatalf("decoding %q: %v", payload.Text, err)
	}
	if info.OS != runtime.GOOS {
		t.Errorf("os = %q, want %q", info.OS, runtime.GOOS)
	}
	if info.CPUCount <= 0 {
		t.Errorf("cpu_count = %d, want positive", info.CPUCount)
	}
	if info.MemTotal == 0 {
		t.Error("mem_total_bytes should be populated")
	}
}
