//go:build windows

package solver

import (
	"os/exec"
	"syscall"
)

// hideConsole keeps the solver subprocess from opening a visible console
// window.
func hideConsole(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
