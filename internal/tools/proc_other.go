// ABOUTME: Process teardown for platforms without Unix process groups
// ABOUTME: Falls back to killing the spawned process itself

//go:build !unix

package tools

import "os/exec"

func setProcGroup(cmd *exec.Cmd) {}

// killProcGroup kills the spawned process; child processes it started are the
// platform's problem here.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process != nil {
		return cmd.Process.Kill()
	}
	return nil
}
