//go:build !windows

package solver

import "os/exec"

// hideConsole is a no-op outside Windows; there is no console window to
// suppress.
func hideConsole(cmd *exec.Cmd) {}
