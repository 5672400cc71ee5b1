//go:build !unix

package pipeline

import "os/exec"

// setProcessGroup is a no-op here; only the shell itself is killed on cancel.
func setProcessGroup(cmd *exec.Cmd) {}
