// ABOUTME: Tests for list_directory and read_file against a temp-dir scope
// ABOUTME: Covers ordering, root confinement, read ceilings, and invalid UTF-8

package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deskmote/deskmote/internal/config"
	"github.com/deskmote/deskmote/internal/dispatch"
)

func newFSRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Files.Root = root
	reg, _ := newTestRegistry(t, cfg)
	return reg, root
}

func TestListDirectoryOrdersDirectoriesFirst(t *testing.T) {
	t.Parallel()
	reg, root := newFSRegistry(t)

	if err := os.Mkdir(filepath.Join(root, "zsub"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.txt", "a.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	payload := requireOK(t, dispatchTool(t, reg, "list_directory", map[string]any{"path": root}))
	zsub := strings.Index(payload.Text, "zsub")
	a := strings.Index(payload.Text, "a.txt")
	b := strings.Index(payload.Text, "b.txt")
	if zsub < 0 || a < 0 || b < 0 {
		t.Fatalf("listing missing entries:\n%s", payload.Text)
	}
	if !(zsub < a && a < b) {
		t.Errorf("want directory first then files by name, got:\n%s", payload.Text)
	}
	if !strings.Contains(payload.Text, "(3 entries)") {
		t.Errorf("listing should report the entry count:\n%s", payload.Text)
	}
}

func TestListDirectoryRejectsFiles(t *testing.T) {
	t.Parallel()
	reg, root := newFSRegistry(t)

	file := filepath.Join(root, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	res := dispatchTool(t, reg, "list_directory", map[string]any{"path": file})
	requireFailure(t, res, dispatch.KindValidation)
}

func TestListDirectoryOutsideRoot(t *testing.T) {
	t.Parallel()
	reg, _ := newFSRegistry(t)

	res := dispatchTool(t, reg, "list_directory", map[string]any{"path": "/etc"})
	requireFailure(t, res, dispatch.KindValidation)
}

func TestListDirectoryTraversal(t *testing.T) {
	t.Parallel()
	reg, root := newFSRegistry(t)

	res := dispatchTool(t, reg, "list_directory", map[string]any{"path": filepath.Join(root, "..", "elsewhere")})
	requireFailure(t, res, dispatch.KindValidation)
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	reg, root := newFSRegistry(t)

	path := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(path, []byte("h\xffllo"), 0o644); err != nil {
		t.Fatal(err)
	}
	payload := requireOK(t, dispatchTool(t, reg, "read_file", map[string]any{"path": path}))
	if payload.Text != "h�llo" {
		t.Errorf("text = %q, want invalid bytes replaced", payload.Text)
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()
	reg, root := newFSRegistry(t)

	res := dispatchTool(t, reg, "read_file", map[string]any{"path": filepath.Join(root, "absent.txt")})
	requireFailure(t, res, dispatch.KindNotFound)
}

func TestReadFileTooLarge(t *testing.T) {
	t.Parallel()
	reg, root := newFSRegistry(t)

	path := filepath.Join(root, "big.bin")
	if err := os.WriteFile(path, make([]byte, maxReadBytes+1), 0o644); err != nil {
		t.Fatal(err)
	}
	res := dispatchTool(t, reg, "read_file", map[string]any{"path": path})
	f := requireFailure(t, res, dispatch.KindValidation)
	if !strings.Contains(f.Message, "limited") {
		t.Errorf("message = %q, want it to name the read limit", f.Message)
	}
}

func TestReadFileRejectsDirectories(t *testing.T) {
	t.Parallel()
	reg, root := newFSRegistry(t)

	res := dispatchTool(t, reg, "read_file", map[string]any{"path": root})
	requireFailure(t, res, dispatch.KindValidation)
}
