// ABOUTME: Filesystem tools: directory listing and bounded file reads
// ABOUTME: Path arguments arrive pre-hardened by the dispatcher; handlers re-verify kind and existence

package tools

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/deskmote/deskmote/internal/dispatch"
)

// maxReadBytes caps read_file so a tool call can never return more than 1 MiB.
const maxReadBytes = 1 << 20

func (r *Registry) listDirectoryTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "list_directory",
		Description: "List the entries of a directory.",
		Args: []dispatch.ArgSpec{
			{Name: "path", Type: dispatch.ArgPath, Description: "Directory to list", Required: true},
		},
		Timeout: systemTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			path, err := requireString(call.Args, "path")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			abs, err := r.files.ResolveDir(path)
			if err != nil {
				return nil, err
			}
			entries, err := os.ReadDir(abs)
			if err != nil {
				return nil, fmt.Errorf("reading directory %q: %w", abs, err)
			}
			return &dispatch.Payload{Text: formatDirListing(abs, entries)}, nil
		},
	}
}

// formatDirListing renders entries as an aligned table, directories first,
// each group sorted by name.
func formatDirListing(abs string, entries []os.DirEntry) string {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d entries)\n", abs, len(entries))
	for _, e := range entries {
		kind := "file"
		size := ""
		if e.IsDir() {
			kind = "dir"
		} else if info, err := e.Info(); err == nil {
			size = fmt.Sprintf("%d", info.Size())
		}
		name := runewidth.Truncate(e.Name(), 48, "…")
		fmt.Fprintf(&b, "%s %s %s\n", runewidth.FillRight(kind, 5), runewidth.FillRight(name, 48), size)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Registry) readFileTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "read_file",
		Description: "Read a text file, up to 1 MiB.",
		Args: []dispatch.ArgSpec{
			{Name: "path", Type: dispatch.ArgPath, Description: "File to read", Required: true},
		},
		Timeout: systemTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			path, err := requireString(call.Args, "path")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			abs, size, err := r.files.ResolveFile(path)
			if err != nil {
				return nil, err
			}
			// Reject oversized files before reading a byte of them.
			if size > maxReadBytes {
				return nil, dispatch.Failf(dispatch.KindValidation,
					"file is %d bytes; read_file is limited to %d bytes", size, maxReadBytes)
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				return nil, fmt.Errorf("reading %q: %w", abs, err)
			}
			return &dispatch.Payload{Text: strings.ToValidUTF8(string(data), "�")}, nil
		},
	}
}
