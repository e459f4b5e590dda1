//==============================================================================
// adapter: Common interface implemented by the per-solver adapters
// 01   Initial version


// Each supported solver differs in how it is detected, how its command line
// is constructed, and how its output is parsed. Those differences live in one
// adapter implementation per solver; everything else in the bridge is solver
// agnostic and works through this interface.

package solver

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

//==============================================================================
// ADAPTER INTERFACE
//==============================================================================

// solverAdapter is implemented once per supported solver. The registry holds
// one adapter per identifier and consults it during scans; the session uses
// it to construct the invocation and to parse the solver's output.
type solverAdapter interface {

	// id returns the solver identifier the adapter implements.
	id() string

	// detect inspects the scan directories and returns a fully populated
	// descriptor if the solver executable is found. The second return value
	// reports whether detection succeeded.
	detect(dirs []string, outDir string) (*SolverDescriptor, bool)

	// buildInvocation constructs the process invocation for one request.
	// The request has already been validated and clamped by the session.
	buildInvocation(desc *SolverDescriptor, req *SolveRequest) invocation

	// parseOutput reads the solver log and solution artifacts and fills in
	// the status, objective, messages, and timing of the result, plus the
	// sparse name/value pairs found. It must tolerate missing and malformed
	// artifacts and must never panic.
	parseOutput(desc *SolverDescriptor, out runOutcome, rslt *SolveResult, vals map[string]float64)
}

// adapterCatalogue returns one adapter instance per supported solver, keyed
// by solver identifier.
func adapterCatalogue() map[string]solverAdapter {
	return map[string]solverAdapter{
		SolverGurobi:  gurobiAdapter{},
		SolverCplex:   cplexAdapter{},
		SolverMosek:   mosekAdapter{},
		SolverScip:    scipAdapter{},
		SolverLpSolve: lpSolveAdapter{},
	}
}

//==============================================================================
// PROCESS INVOCATION
//==============================================================================

// invocation describes how one solver process is to be spawned. Exactly one
// of args or cmdLine is populated: args for solvers accepting a plain
// argument vector, cmdLine for solvers whose CLI needs shell features such
// as output redirection or a specific working directory.
type invocation struct {
	exePath string   // full path of the solver executable
	args    []string // argument vector, argv style
	cmdLine string   // single command line, shell style
	shell   bool     // true if cmdLine is to be run through the shell
	workDir string   // working directory for the process, "" to inherit
}

//==============================================================================
// PLACEHOLDER SUBSTITUTION
//==============================================================================

// Placeholders recognized in descriptor argument and command templates. The
// session substitutes the per-call values before spawning the solver.
const (
	phExe         = "{EXE}"
	phModel       = "{MODEL}"
	phSolverModel = "{SOLVERMODEL}"
	phSoln        = "{SOLN}"
	phLog         = "{LOG}"
	phTimeout     = "{TIMEOUT}"
	phIntTol      = "{INTTOL}"
	phMipGap      = "{MIPGAP}"
)

// expandTemplate substitutes the placeholder values of one request into a
// single template string.
func expandTemplate(tmpl string, desc *SolverDescriptor, req *SolveRequest) string {
	repl := strings.NewReplacer(
		phExe, desc.ExePath,
		phModel, desc.FileUserModel,
		phSolverModel, desc.FileSolverModel,
		phSoln, desc.FileSoln,
		phLog, desc.FileLog,
		phTimeout, strconv.Itoa(req.TimeoutSeconds),
		phIntTol, strconv.FormatFloat(req.IntTolerance, 'g', -1, 64),
		phMipGap, strconv.FormatFloat(req.MipGap, 'g', -1, 64),
	)

	return repl.Replace(tmpl)
}

// expandArgs substitutes the placeholder values of one request into the
// argument template of a descriptor and returns the resulting vector.
func expandArgs(desc *SolverDescriptor, req *SolveRequest) []string {
	args := make([]string, len(desc.ArgTemplate))
	for i := 0; i < len(desc.ArgTemplate); i++ {
		args[i] = expandTemplate(desc.ArgTemplate[i], desc, req)
	}

	return args
}

//==============================================================================
// DETECTION HELPERS
//==============================================================================

// exeName appends the Windows executable extension to a base name when
// running on Windows, and returns the base name unchanged elsewhere.
func exeName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// isExecutable reports whether the path exists, is a regular file, and may
// be executed. On Windows the executable bits are not meaningful and the
// extension check performed by exeName suffices.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}

	return info.Mode().Perm()&0111 != 0
}

// SolverPathEnvVar names the environment variable that may hold extra
// directories (list-separated, in the platform convention) to be searched
// for solver executables in addition to the PATH entries.
const SolverPathEnvVar = "SOLVER_PATH"

// extraPathDirs returns the directories listed in the SolverPathEnvVar
// environment variable, or nil if the variable is not set.
func extraPathDirs() []string {
	value := os.Getenv(SolverPathEnvVar)
	if value == "" {
		return nil
	}

	return filepath.SplitList(value)
}

// findByFragment looks for an executable in the scan directories whose path
// contains the characteristic fragment of a solver, then in the directories
// listed in the extra-paths environment variable (searched unconditionally).
// The second return value reports whether the executable was found.
func findByFragment(dirs []string, fragment string, base string) (string, bool) {
	for i := 0; i < len(dirs); i++ {
		if !strings.Contains(strings.ToLower(dirs[i]), fragment) {
			continue
		}
		path := filepath.Join(dirs[i], exeName(base))
		if isExecutable(path) {
			return path, true
		}
	}

	return findInDirs(extraPathDirs(), base)
}

// findInDirs returns the full path of the first directory in the list that
// holds an executable with the given base name. The second return value
// reports whether the executable was found.
func findInDirs(dirs []string, base string) (string, bool) {
	for i := 0; i < len(dirs); i++ {
		if dirs[i] == "" {
			continue
		}
		path := filepath.Join(dirs[i], exeName(base))
		if isExecutable(path) {
			return path, true
		}
	}

	return "", false
}

//============================ END OF FILE =====================================
