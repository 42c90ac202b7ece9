// ABOUTME: Command execution tool: runs a shell command under the 30 second ceiling
// ABOUTME: Captures stdout/stderr separately with an output cap; reports the exit code

package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/deskmote/deskmote/internal/dispatch"
)

var errOutputLimit = errors.New("output limit exceeded")

// limitedWriter stops accepting data after limit bytes so a chatty command
// cannot balloon the result payload.
type limitedWriter struct {
	w        io.Writer
	limit    int
	written  int
	exceeded bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	remaining := lw.limit - lw.written
	if remaining <= 0 {
		lw.exceeded = true
		return 0, errOutputLimit
	}
	if len(p) > remaining {
		n, err := lw.w.Write(p[:remaining])
		lw.written += n
		lw.exceeded = true
		if err != nil {
			return n, err
		}
		return n, errOutputLimit
	}
	n, err := lw.w.Write(p)
	lw.written += n
	return n, err
}

// commandResult is the normalized execute_command payload.
type commandResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// shellCommand builds the platform shell invocation for a command string.
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	shell := "/bin/sh"
	if path, err := exec.LookPath("bash"); err == nil {
		shell = path
	}
	return exec.CommandContext(ctx, shell, "-c", command)
}

func (r *Registry) executeCommandTool() *dispatch.Tool {
	return &dispatch.Tool{
		Name:        "execute_command",
		Description: "Execute a shell command and return stdout, stderr, and the exit code. Limited to 30 seconds.",
		Args: []dispatch.ArgSpec{
			{Name: "command", Type: dispatch.ArgString, Description: "Command line to execute", Required: true},
		},
		Timeout: commandTimeout,
		Handler: func(ctx context.Context, call *dispatch.Call) (*dispatch.Payload, error) {
			command, err := requireString(call.Args, "command")
			if err != nil {
				return nil, dispatch.Failf(dispatch.KindValidation, "%s", err.Error())
			}
			return r.runCommand(ctx, command)
		},
	}
}

func (r *Registry) runCommand(ctx context.Context, command string) (*dispatch.Payload, error) {
	cmd := shellCommand(ctx, command)
	setProcGroup(cmd)
	// Take out the whole process group on timeout so a command's children
	// cannot outlive the ceiling.
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}

	var stdout, stderr bytes.Buffer
	outW := &limitedWriter{w: &stdout, limit: r.cfg.Exec.MaxOutputBytes}
	errW := &limitedWriter{w: &stderr, limit: r.cfg.Exec.MaxOutputBytes}
	cmd.Stdout = outW
	cmd.Stderr = errW

	runErr := cmd.Run()

	if ctx.Err() != nil {
		// The ceiling killed the command; report it as a timeout, not output.
		return nil, fmt.Errorf("command terminated: %w", ctx.Err())
	}

	result := commandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if outW.exceeded || errW.exceeded {
		result.Stderr += "\n... [output truncated: limit exceeded]"
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else if !outW.exceeded && !errW.exceeded {
			return nil, fmt.Errorf("executing command: %w", runErr)
		}
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding command result: %w", err)
	}
	return &dispatch.Payload{Text: string(text)}, nil
}
