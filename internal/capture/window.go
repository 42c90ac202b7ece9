// ABOUTME: Window location: resolves a title substring to a screen rectangle
// ABOUTME: Lists top-level windows via wmctrl/xdotool or PowerShell and ranks matches

package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrWindowNotFound means no visible window matched the requested title.
var ErrWindowNotFound = errors.New("no matching window")

// Window is one visible top-level window.
type Window struct {
	Title  string
	Bounds image.Rectangle
}

// Locator resolves window titles to screen rectangles.
type Locator interface {
	// Locate returns the bounds of the best-matching visible window.
	// Matching is a case-insensitive substring match; see BestMatch for the
	// tie-break rule.
	Locate(ctx context.Context, title string) (image.Rectangle, error)
	// Active returns the currently focused window.
	Active(ctx context.Context) (Window, error)
}

type systemLocator struct{}

// NewSystemLocator returns a Locator backed by the platform window manager.
func NewSystemLocator() Locator {
	return systemLocator{}
}

func (systemLocator) Locate(ctx context.Context, title string) (image.Rectangle, error) {
	windows, err := listWindows(ctx)
	if err != nil {
		return image.Rectangle{}, err
	}
	w, ok := BestMatch(windows, title)
	if !ok {
		return image.Rectangle{}, fmt.Errorf("%q: %w", title, ErrWindowNotFound)
	}
	return w.Bounds, nil
}

// BestMatch selects the window whose title best matches query. Candidates are
// the windows whose titles contain query case-insensitively; among them the
// highest fuzzy match score wins, and equal scores go to the candidate listed
// last (the window manager enumerates bottom-up, so that is the upper window).
func BestMatch(windows []Window, query string) (Window, bool) {
	lower := strings.ToLower(query)
	var candidates []Window
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.Title), lower) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return Window{}, false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}

	titles := make([]string, len(candidates))
	for i, w := range candidates {
		titles[i] = w.Title
	}
	matches := fuzzy.Find(query, titles)
	if len(matches) == 0 {
		return candidates[len(candidates)-1], true
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Score > best.Score || (m.Score == best.Score && m.Index > best.Index) {
			best = m
		}
	}
	return candidates[best.Index], true
}

// listWindows enumerates visible top-level windows with their geometry.
func listWindows(ctx context.Context) ([]Window, error) {
	if runtime.GOOS == "windows" {
		return listWindowsPowershell(ctx)
	}
	return listWindowsWmctrl(ctx)
}

// listWindowsWmctrl parses `wmctrl -lG`:
//
//	0x03600007  0 3840 24 1855 1028 host Title words here
func listWindowsWmctrl(ctx context.Context) ([]Window, error) {
	out, err := exec.CommandContext(ctx, "wmctrl", "-lG").Output()
	if err != nil {
		return nil, fmt.Errorf("listing windows: %w", err)
	}
	var windows []Window
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 8 {
			continue
		}
		x, err1 := strconv.Atoi(fields[2])
		y, err2 := strconv.Atoi(fields[3])
		w, err3 := strconv.Atoi(fields[4])
		h, err4 := strconv.Atoi(fields[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		windows = append(windows, Window{
			Title:  strings.Join(fields[7:], " "),
			Bounds: image.Rect(x, y, x+w, y+h),
		})
	}
	return windows, nil
}

const enumWindowsScript = `
Add-Type @"
using System;
using System.Runtime.InteropServices;
using System.Text;
public class Win32 {
    [StructLayout(LayoutKind.Sequential)]
    public struct RECT { public int Left; public int Top; public int Right; public int Bottom; }
    [DllImport("user32.dll")]
    public static extern bool EnumWindows(EnumWindowsProc lpEnumFunc, IntPtr lParam);
    [DllImport("user32.dll")]
    public static extern int GetWindowText(IntPtr hWnd, StringBuilder lpString, int nMaxCount);
    [DllImport("user32.dll")]
    public static extern bool IsWindowVisible(IntPtr hWnd);
    [DllImport("user32.dll")]
    public static extern bool GetWindowRect(IntPtr hWnd, out RECT rect);
    public delegate bool EnumWindowsProc(IntPtr hWnd, IntPtr lParam);
}
"@
$callback = {
    param([IntPtr]$hwnd, [IntPtr]$lParam)
    if ([Win32]::IsWindowVisible($hwnd)) {
        $sb = New-Object System.Text.StringBuilder 512
        [Win32]::GetWindowText($hwnd, $sb, 512) | Out-Null
        $title = $sb.ToString()
        if ($title.Length -gt 0) {
            $rect = New-Object Win32+RECT
            [Win32]::GetWindowRect($hwnd, [ref]$rect) | Out-Null
            Write-Output "$($rect.Left)|$($rect.Top)|$($rect.Right)|$($rect.Bottom)|$title"
        }
    }
    return $true
}
[Win32]::EnumWindows($callback, [IntPtr]::Zero) | Out-Null
`

// listWindowsPowershell enumerates windows via user32. EnumWindows walks the
// Z-order top-down, so the output is reversed to keep the bottom-up ordering
// BestMatch expects.
func listWindowsPowershell(ctx context.Context) ([]Window, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", enumWindowsScript)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("listing windows: %w", err)
	}
	var windows []Window
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		parts := strings.SplitN(strings.TrimRight(scanner.Text(), "\r"), "|", 5)
		if len(parts) != 5 {
			continue
		}
		left, err1 := strconv.Atoi(parts[0])
		top, err2 := strconv.Atoi(parts[1])
		right, err3 := strconv.Atoi(parts[2])
		bottom, err4 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		windows = append(windows, Window{
			Title:  parts[4],
			Bounds: image.Rect(left, top, right, bottom),
		})
	}
	for i, j := 0, len(windows)-1; i < j; i, j = i+1, j-1 {
		windows[i], windows[j] = windows[j], windows[i]
	}
	return windows, nil
}

func (systemLocator) Active(ctx context.Context) (Window, error) {
	if runtime.GOOS == "windows" {
		return activeWindowPowershell(ctx)
	}
	return activeWindowXdotool(ctx)
}

func activeWindowXdotool(ctx context.Context) (Window, error) {
	name, err := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowname").Output()
	if err != nil {
		return Window{}, fmt.Errorf("querying active window: %w", err)
	}
	geom, err := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowgeometry", "--shell").Output()
	if err != nil {
		return Window{}, fmt.Errorf("querying active window geometry: %w", err)
	}

	vals := map[string]int{}
	scanner := bufio.NewScanner(strings.NewReader(string(geom)))
	for scanner.Scan() {
		key, val, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			vals[key] = n
		}
	}
	x, y := vals["X"], vals["Y"]
	return Window{
		Title:  strings.TrimSpace(string(name)),
		Bounds: image.Rect(x, y, x+vals["WIDTH"], y+vals["HEIGHT"]),
	}, nil
}

const foregroundWindowScript = `
Add-Type @"
using System;
using System.Runtime.InteropServices;
using System.Text;
public class Win32 {
    [StructLayout(LayoutKind.Sequential)]
    public struct RECT { public int Left; public int Top; public int Right; public int Bottom; }
    [DllImport("user32.dll")]
    public static extern IntPtr GetForegroundWindow();
    [DllImport("user32.dll")]
    public static extern int GetWindowText(IntPtr hWnd, StringBuilder lpString, int nMaxCount);
    [DllImport("user32.dll")]
    public static extern bool GetWindowRect(IntPtr hWnd, out RECT rect);
}
"@
$hwnd = [Win32]::GetForegroundWindow()
$sb = New-Object System.Text.StringBuilder 512
[Win32]::GetWindowText($hwnd, $sb, 512) | Out-Null
$rect = New-Object Win32+RECT
[Win32]::GetWindowRect($hwnd, [ref]$rect) | Out-Null
Write-Output "$($rect.Left)|$($rect.Top)|$($rect.Right)|$($rect.Bottom)|$($sb.ToString())"
`

func activeWindowPowershell(ctx context.Context) (Window, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", foregroundWindowScript)
	out, err := cmd.Output()
	if err != nil {
		return Window{}, fmt.Errorf("querying active window: %w", err)
	}
	parts := strings.SplitN(strings.TrimSpace(string(out)), "|", 5)
	if len(parts) != 5 {
		return Window{}, fmt.Errorf("unexpected active window output %q", strings.TrimSpace(string(out)))
	}
	left, _ := strconv.Atoi(parts[0])
	top, _ := strconv.Atoi(parts[1])
	right, _ := strconv.Atoi(parts[2])
	bottom, _ := strconv.Atoi(parts[3])
	return Window{Title: parts[4], Bounds: image.Rect(left, top, right, bottom)}, nil
}
