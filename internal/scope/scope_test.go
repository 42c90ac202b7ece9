// ABOUTME: Tests for path resolution: traversal rejection, root confinement, type checks
// ABOUTME: Uses t.TempDir sandboxes for filesystem-backed cases

package scope

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveRejectsTraversal(t *testing.T) {
	t.Parallel()

	s, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, path := range []string{"../etc/passwd", "/tmp/../etc", "a/../../b"} {
		if _, err := s.Resolve(path); !errors.Is(err, ErrTraversal) {
			t.Errorf("Resolve(%q) = %v, want ErrTraversal", path, err)
		}
	}
}

func TestResolveRejectsEmpty(t *testing.T) {
	t.Parallel()

	s, _ := New("")
	if _, err := s.Resolve(""); err == nil {
		t.Error("Resolve(\"\") succeeded, want error")
	}
}

func TestRootConfinement(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inside := filepath.Join(root, "file.txt")
	if got, err := s.Resolve(inside); err != nil || got != inside {
		t.Errorf("Resolve(%q) = %q, %v", inside, got, err)
	}

	if _, err := s.Resolve("/etc/passwd"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Resolve outside root = %v, want ErrOutsideRoot", err)
	}

	// A sibling directory sharing the root's name prefix must not pass.
	if _, err := s.Resolve(root + "x/file"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Resolve prefix-sibling = %v, want ErrOutsideRoot", err)
	}
}

func TestResolveDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, _ := New("")
	if _, err := s.ResolveDir(dir); err != nil {
		t.Errorf("ResolveDir(%q) = %v", dir, err)
	}
	if _, err := s.ResolveDir(file); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("ResolveDir on file = %v, want ErrNotDirectory", err)
	}
	if _, err := s.ResolveDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("ResolveDir on missing path succeeded")
	}
}

func TestResolveFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(file, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, _ := New("")
	abs, size, err := s.ResolveFile(file)
	if err != nil {
		t.Fatalf("ResolveFile: %v", err)
	}
	if abs != file || size != 5 {
		t.Errorf("ResolveFile = %q, %d; want %q, 5", abs, size, file)
	}
	if _, _, err := s.ResolveFile(dir); !errors.Is(err, ErrNotFile) {
		t.Errorf("ResolveFile on dir = %v, want ErrNotFile", err)
	}
}

func TestExpandPathSpaces(t *testing.T) {
	t.Parallel()

	got := ExpandPath("a b")
	if got != "a b" {
		t.Errorf("ExpandPath narrow no-break space = %q, want %q", got, "a b")
	}
}
