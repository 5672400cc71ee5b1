//go:build unix

package pipeline

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts cmd in its own process group so that cancelling the
// step also stops the tools the shell spawned (dbt, edr).
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
