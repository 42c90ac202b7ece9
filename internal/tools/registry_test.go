// ABOUTME: Tests for registry assembly: the advertised tool set and its schemas
// ABOUTME: Guards against duplicate names and tools missing handlers or descriptions

package tools

import (
	"testing"
)

func TestRegistryAll(t *testing.T) {
	t.Parallel()
	reg, _ := newTestRegistry(t, nil)

	all := reg.All()
	want := []string{
		"capture_screen", "capture_window", "start_auto_refresh", "stop_auto_refresh",
		"get_latest_frame", "get_active_window_info",
		"click", "right_click", "double_click", "move_mouse", "drag_mouse", "send_keys",
		"list_processes", "kill_process", "execute_command", "launch_app",
		"list_directory", "read_file", "get_system_info",
	}
	if len(all) != len(want) {
		t.Fatalf("got %d tools, want %d", len(all), len(want))
	}

	seen := make(map[string]bool)
	for i, tool := range all {
		if tool.Name != want[i] {
			t.Errorf("tool[%d] = %q, want %q", i, tool.Name, want[i])
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool name %q", tool.Name)
		}
		seen[tool.Name] = true
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
		if tool.Handler == nil {
			t.Errorf("tool %q has no handler", tool.Name)
		}
	}
}

func TestNewRegistryDefaults(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})
	if reg.scheduler == nil || reg.locator == nil || reg.injector == nil || reg.files == nil || reg.cfg == nil {
		t.Fatal("NewRegistry must fill every collaborator")
	}
	if reg.FileScope() == nil {
		t.Fatal("FileScope must not be nil")
	}
}
