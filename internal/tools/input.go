// ABOUTME: Input injection tools: mouse clicks, movement, drag, and keystrokes
// ABOUTME: Backed by xdotool on X11 and PowerShell on Windows; tests inject fakes

package tools

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/deskmote/deskmote/internal/dispatch"
)

// Injector performs input injection. Coordinates are screen-absolute pixels.
type Injector interface {
	Click(ctx context.Context, x, y int, button string, clicks int) error
	Move(ctx context.Context, x, y int) error
	Drag(ctx context.Context, x1, y1, x2, y2 int) error
	Type(ctx context.Context, text string) error
}

type systemInjector struct{}

// NewSystemInjector returns an Injector backed by the platform input facility.
func NewSystemInjector() Injector {
	return systemInjector{}
}

func (systemInjector) Click(ctx context.Context, x, y int, button string, clicks int) error {
	if runtime.GOOS == "windows" {
		return clickPowershell(ctx, x, y, button, clicks)
	}
	buttonNum := map[string]string{"left": "1", "middle": "2", "right": "3"}[button]
	if buttonNum == "" {
		buttonNum = "1"
	}
	if err := run(ctx, "xdotool", "mousemove", strconv.Itoa(x), strconv.Itoa(y)); err != nil {
		return err
	}
	args := []string{"click"}
	if clicks > 1 {
		args = append(args, "--repeat", strconv.Itoa(clicks), "--delay", "100")
	}
	args = append(args, buttonNum)
	return run(ctx, "xdotool", args...)
}

func (systemInjector) Move(ctx context.Context, x, y int) error {
	if runtime.GOOS == "windows" {
		return movePowershell(ctx, x, y)
	}
	return run(ctx, "xdotool", "mousemove", strconv.Itoa(x), strconv.Itoa(y))
}

func (i systemInjector) Drag(ctx context.Context, x1, y1, x2, y2 int) error {
	if runtime.GOOS == "windows" {
		return dragPowershell(ctx, x1, y1, x2, y2)
	}
	steps := [][]string{
		{"mousemove", strconv.Itoa(x1), strconv.Itoa(y1)},
		{"mousedown", "1"},
		{"mousemove", strconv.Itoa(x2), strconv.Itoa(y2)},
		{"mouseup", "1"},
	}
	for _, s := range steps {
		if err := run(ctx, "xdotool", s...); err != nil {
			return err
		}
	}
	return nil
}

func (systemInjector) Type(ctx context.Context, text string) error {
	if runtime.GOOS == "windows" {
		return typePowershell(ctx, text)
	}
	// Inject cluster by cluster so multi-codepoint graphemes (emoji,
	// combining marks) arrive as single keystroke units.
	for _, cluster := range graphemes(text) {
		if err := run(ctx, "xdotool", "type", "--delay", "10", "--", cluster); err != nil {
			return err
		}
	}
	return nil
}

// graphemes splits text into user-perceived characters.
func graphemes(text string) []string {
	var out []string
	for len(text) > 0 {
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(text, -1)
		out = append(out, cluster)
		text = rest
	}
	return out
}

func run(ctx context.Context, name string, args ...string) error {
	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

const mouseOpsType = `
Add-Type -AssemblyName System.Windows.Forms
Add-Type @"
using System;
using System.Runtime.InteropServices;
public class MouseOps {
    [DllImport("user32.dll")]
    public static extern void mouse_event(int dwFlags, int dx, int dy, int dwData, int dwExtraInfo);
    public const int LeftDown = 0x02; public const int LeftUp = 0x04;
    public const int RightDown = 0x08; public const int RightUp = 0x10;
    public const int MiddleDown = 0x20; public const int MiddleUp = 0x40;
}
"@
`

func powershell(ctx context.Context, script string) error {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("powershell: %w", err)
	}
	return nil
}

func clickPowershell(ctx context.Context, x, y int, button string, clicks int) error {
	down, up := "[MouseOps]::LeftDown", "[MouseOps]::LeftUp"
	switch button {
	case "right":
		down, up = "[MouseOps]::RightDown", "[MouseOps]::RightUp"
	case "middle":
		down, up = "[MouseOps]::MiddleDown", "[MouseOps]::MiddleUp"
	}
	script := mouseOpsType + fmt.Sprintf(`
[System.Windows.Forms.Cursor]::Position = New-Object System.Drawing.Point(%d, %d)
Start-Sleep -Milliseconds 50
for ($i = 0; $i -lt %d; $i++) {
    [MouseOps]::mouse_event(%s, 0, 0, 0, 0)
    [MouseOps]::mouse_event(%s, 0, 0, 0, 0)
    Start-Sleep -Milliseconds 100
}
`, x, y, clicks, down, up)
	return powershell(ctx, script)
}

func movePowershell(ctx context.Context, x, y int) error {
	script := fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
[System.Windows.Forms.Cursor]::Position = New-Object System.Drawing.Point(%d, %d)
`, x, y)
	return powershell(ctx, script)
}

func dragPowershell(ctx context.Context, x1, y1, x2, y2 int) error {
	script := mouseOpsType + fmt.Sprintf(`
[System.Windows.Forms.Cursor]::Position = New-Object System.Drawing.Point(%d, %d)
[MouseOps]::mouse_event([MouseOps]::LeftDown, 0, 0, 0, 0)
Start-Sleep -Milliseconds 100
[System.Windows.Forms.Cursor]::Position = New-Object System.Drawing.Point(%d, %d)
Start-Sleep -Milliseconds 100
[MouseOps]::mouse_event([MouseOps]::LeftUp, 0, 0, 0, 0)
`, x1, y1, x2, y2)
	return powershell(ctx, script)
}

// sendKeysSpecials are characters SendKeys treats as control syntax.
const sendKeysSpecials = "+^%~(){}[]"

// sendKeysEscape wraps SendKeys control characters in braces so they arrive
// as literal text.
func sendKeysEscape(text string) string {
	var b strings.Builder
	for _, cluster := range graphemes(text) {
		if len(cluster) == 1 && strings.ContainsAny(cluster, sendKeysSpecials) {
			b.WriteString("{" + cluster + "}")
		} else {
			b.WriteString(cluster)
		}
	}
	return b.String()
}

func typePowershell(ctx context.Context, text string) error {
	escaped := strings.ReplaceAll(sendKeysEscape(text), "'", "''")
	script := fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
[System.Windows.Forms.SendKeys]::SendWait('%s')
`, escaped)
	return powershell(ctx, script)
}

func (r *Registry) mouseTool(name, description, button string, clicks int) *dispatch.Tool {
	return &dispatch.Tool{
		Name:        name,
		Description: description,
		Args: []dispatch.ArgSpec{
			{Name: "x", Type: dispatch.ArgInteger, Description: "Screen-absolute X coordinate", Required: true},
			{Name: "y", Type: dispatch.ArgInteger, Description: "Screen-absolute Y coordinate", Required: true},
		},
		Timeout: inputTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			x, err := requireInt(call.Args, "x")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			y, err := requireInt(call.Args, "y")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			if clicks == 0 {
				if err := r.injector.Move(ctx, x, y); err != nil {
					return nil, err
				}
				return &dispatch.Payload{Text: fmt.Sprintf("moved mouse to (%d, %d)", x, y)}, nil
			}
			if err := r.injector.Click(ctx, x, y, button, clicks); err != nil {
				return nil, err
			}
			return &dispatch.Payload{Text: fmt.Sprintf("%s at (%d, %d)", name, x, y)}, nil
		},
	}
}

func (r *Registry) clickTool() *dispatch.Tool {
	return r.mouseTool("click", "Left-click at the given screen coordinates.", "left", 1)
}

func (r *Registry) rightClickTool() *dispatch.Tool {
	return r.mouseTool("right_click", "Right-click at the given screen coordinates.", "right", 1)
}

func (r *Registry) doubleClickTool() *dispatch.Tool {
	return r.mouseTool("double_click", "Double-click at the given screen coordinates.", "left", 2)
}

func (r *Registry) moveMouseTool() *dispatch.Tool {
	return r.mouseTool("move_mouse", "Move the mouse cursor to the given screen coordinates.", "", 0)
}

func (r *Registry) dragMouseTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "drag_mouse",
		Description: "Drag with the left button from one point to another.",
		Args: []dispatch.ArgSpec{
			{Name: "x1", Type: dispatch.ArgInteger, Description: "Drag start X", Required: true},
			{Name: "y1", Type: dispatch.ArgInteger, Description: "Drag start Y", Required: true},
			{Name: "x2", Type: dispatch.ArgInteger, Description: "Drag end X", Required: true},
			{Name: "y2", Type: dispatch.ArgInteger, Description: "Drag end Y", Required: true},
		},
		Timeout: inputTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			coords := make([]int, 4)
			for i, key := range []string{"x1", "y1", "x2", "y2"} {
				n, err := requireInt(call.Args, key)
				if err != nil {
					return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
				}
				coords[i] = n
			}
			if err := r.injector.Drag(ctx, coords[0], coords[1], coords[2], coords[3]); err != nil {
				return nil, err
			}
			return &dispatch.Payload{
				Text: fmt.Sprintf("dragged from (%d, %d) to (%d, %d)", coords[0], coords[1], coords[2], coords[3]),
			}, nil
		},
	}
}

func (r *Registry) sendKeysTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "send_keys",
		Description: "Type text into the currently focused window.",
		Args: []dispatch.ArgSpec{
			{Name: "text", Type: dispatch.ArgString, Description: "Text to type", Required: true},
		},
		Timeout: inputTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			text, err := requireString(call.Args, "text")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			if err := r.injector.Type(ctx, text); err != nil {
				return nil, err
			}
			return &dispatch.Payload{Text: fmt.Sprintf("typed %d characters", len(graphemes(text)))}, nil
		},
	}
}
