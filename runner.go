//==============================================================================
// runner: Synchronous spawning of the external solver process
// 01   Initial version


// The runner blocks until the external solver exits or spawning itself
// fails. Cancellation is expressed only through the time limit passed to the
// solver's own CLI; a solver that ignores its time limit is not killed here.

package solver

import (
	"os/exec"
	"runtime"
	"time"
)

//==============================================================================

// runOutcome records how one solver process invocation ended. A spawn error
// means the process could never be created and is kept distinct from the
// solver's own exit status.
type runOutcome struct {
	exitCode int     // exit status of the solver process
	spawnErr error   // OS-level failure to create the process, nil if spawned
	elapsed  float64 // wall-clock seconds between spawn and exit
}

//==============================================================================

// runProcess spawns the solver described by the invocation and waits for it
// to finish. Process output is suppressed at the OS level for both styles of
// invocation: the solver's own log file is authoritative, and solvers that
// only talk to the console are invoked with shell redirection into their log
// file. On Windows the subprocess console window is hidden. Spawn failures
// are reported in the outcome, never as a panic or error return.
func runProcess(inv invocation) runOutcome {
	var outcome runOutcome

	var cmd *exec.Cmd
	if inv.shell {
		// Shell style: one command string, for solvers whose CLI needs
		// redirection or a specific working directory.
		if runtime.GOOS == "windows" {
			cmd = exec.Command("cmd.exe", "/C", inv.cmdLine)
		} else {
			cmd = exec.Command("/bin/sh", "-c", inv.cmdLine)
		}
	} else {
		cmd = exec.Command(inv.exePath, inv.args...)
	}

	if inv.workDir != "" {
		cmd.Dir = inv.workDir
	}

	// Stdout and stderr are left nil so the OS connects them to the null
	// device; nothing the solver prints reaches the hosting process.
	hideConsole(cmd)

	log(pINFO, "Spawning solver: %s\n", inv.exePath)
	startTime := time.Now()

	if err := cmd.Start(); err != nil {
		outcome.spawnErr = err
		log(pERR, "ERROR: Failed to spawn solver: %s\n", err)
		return outcome
	}

	err := cmd.Wait()
	outcome.elapsed = time.Since(startTime).Seconds()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			outcome.exitCode = exitErr.ExitCode()
		} else {
			// The process started but could not be waited on. Treat it the
			// same as a failure to spawn, since no exit status exists.
			outcome.spawnErr = err
			return outcome
		}
	}

	log(pINFO, "Solver exited with status %d after %.3f seconds.\n",
		outcome.exitCode, outcome.elapsed)

	return outcome
}

//============================ END OF FILE =====================================
