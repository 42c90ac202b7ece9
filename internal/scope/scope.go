// ABOUTME: Path validation for file-accepting tools: normalization, traversal rejection, root confinement
// ABOUTME: Every requested path becomes a validated absolute path before any filesystem access

package scope

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrOutsideRoot means the resolved path escapes the configured root directory.
	ErrOutsideRoot = errors.New("path is outside the allowed root")
	// ErrTraversal means the requested path contains ".." components.
	ErrTraversal = errors.New("path contains traversal components")
	// ErrNotDirectory means the path exists but is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")
	// ErrNotFile means the path exists but is not a regular file.
	ErrNotFile = errors.New("path is not a regular file")
)

// Scope validates requested filesystem paths. A Scope with an empty root
// accepts any absolute path that survives normalization and traversal checks;
// a rooted Scope additionally confines resolution under root.
type Scope struct {
	root string
}

// New creates a Scope. root may be empty for unconfined access.
func New(root string) (*Scope, error) {
	if root == "" {
		return &Scope{}, nil
	}
	abs, err := filepath.Abs(ExpandPath(root))
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", root, err)
	}
	return &Scope{root: filepath.Clean(abs)}, nil
}

// Root returns the configured root, or "" when unconfined.
func (s *Scope) Root() string {
	return s.root
}

// Resolve normalizes and validates a requested path into an absolute path.
// The input is checked for traversal components before resolution so a
// caller-supplied ".." can never climb out of the intended location.
func (s *Scope) Resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New("path must not be empty")
	}
	expanded := ExpandPath(path)
	if containsTraversal(expanded) {
		return "", fmt.Errorf("%q: %w", path, ErrTraversal)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", path, err)
	}
	abs = filepath.Clean(abs)

	if s.root != "" && !within(abs, s.root) {
		return "", fmt.Errorf("%q: %w", path, ErrOutsideRoot)
	}
	return abs, nil
}

// ResolveDir resolves path and verifies it is an existing directory.
func (s *Scope) ResolveDir(path string) (string, error) {
	abs, err := s.Resolve(path)
	if err != nil {
		return "", err
	}
	info, err := statAnyForm(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q: %w", abs, ErrNotDirectory)
	}
	return abs, nil
}

// ResolveFile resolves path and verifies it is an existing regular file.
// The file's size is returned so callers can enforce read ceilings without
// a second stat.
func (s *Scope) ResolveFile(path string) (string, int64, error) {
	abs, err := s.Resolve(path)
	if err != nil {
		return "", 0, err
	}
	info, err := statAnyForm(abs)
	if err != nil {
		return "", 0, err
	}
	if !info.Mode().IsRegular() {
		return "", 0, fmt.Errorf("%q: %w", abs, ErrNotFile)
	}
	return abs, info.Size(), nil
}

// statAnyForm stats the path, retrying with NFC/NFD Unicode variants so that
// paths typed in one normalization form still match files created in another.
func statAnyForm(abs string) (fs.FileInfo, error) {
	info, err := os.Stat(abs)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, variant := range []string{norm.NFC.String(abs), norm.NFD.String(abs)} {
		if variant == abs {
			continue
		}
		if vi, verr := os.Stat(variant); verr == nil {
			return vi, nil
		}
	}
	return nil, err
}

// ExpandPath expands a leading "~" to the user home directory and replaces
// Unicode space characters with ASCII spaces.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return normalizeSpaces(path)
}

// normalizeSpaces replaces non-ASCII Unicode space characters with U+0020.
func normalizeSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isUnicodeSpace(r) {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isUnicodeSpace(r rune) bool {
	switch {
	case r == ' ':
		return true
	case r >= ' ' && r <= ' ':
		return true
	case r == ' ', r == ' ', r == '　':
		return true
	}
	return false
}

func containsTraversal(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

func within(abs, root string) bool {
	if abs == root {
		return true
	}
	return strings.HasPrefix(abs, root+string(filepath.Separator))
}
