//==============================================================================
// scip: Adapter for the SCIP optimization suite
// 01   Initial version


// SCIP accepts its whole batch of commands as -c arguments, so it is spawned
// with a plain argument vector. Status and timing are read from its log; the
// solution file holds the objective on its second line, followed by
// name/value rows.

package solver

import (
	"path/filepath"
	"strconv"
	"strings"
)

type scipAdapter struct{}

func (a scipAdapter) id() string { return SolverScip }

//==============================================================================

// detect looks for the scip executable in scan directories whose path
// contains the characteristic "scip" fragment, or in the extra directories
// named by the SOLVER_PATH environment variable.
func (a scipAdapter) detect(dirs []string, outDir string) (*SolverDescriptor, bool) {
	path, found := findByFragment(dirs, "scip", "scip")
	if !found {
		return nil, false
	}

	return &SolverDescriptor{
		ID:              SolverScip,
		Name:            "SCIP",
		ExePath:         path,
		ModelExt:        ".lp",
		FileUserModel:   filepath.Join(outDir, "usr_model.lp"),
		FileSolverModel: filepath.Join(outDir, "solver_model.lp"),
		FileSoln:        filepath.Join(outDir, "model.soln"),
		FileLog:         filepath.Join(outDir, "solver.log"),
		ArgTemplate: []string{
			"-c", "read {MODEL}",
			"-c", "set limits time {TIMEOUT}",
			"-c", "set numerics feastol {INTTOL}",
			"-c", "set limits gap {MIPGAP}",
			"-c", "optimize",
			"-c", "write problem {SOLVERMODEL}",
			"-c", "write solution {SOLN}",
			"-c", "quit",
			"-l", "{LOG}",
		},
	}, true
}

//==============================================================================

func (a scipAdapter) buildInvocation(desc *SolverDescriptor, req *SolveRequest) invocation {
	return invocation{
		exePath: desc.ExePath,
		args:    expandArgs(desc, req),
	}
}

//==============================================================================

// scipLogStatus translates the phrase of the "SCIP Status" log line to a
// normalized status code.
func scipLogStatus(phrase string) int {
	switch {
	case strings.Contains(phrase, "optimal solution found"):
		return StatusOptimal
	case strings.Contains(phrase, "infeasible"):
		return StatusInfeasible
	case strings.Contains(phrase, "unbounded"):
		return StatusUnbounded
	case strings.Contains(phrase, "time limit reached"):
		return StatusTimeout
	case strings.Contains(phrase, "gap limit reached"):
		return StatusSubOptimal
	}

	return StatusUnknown
}

//==============================================================================

// parseOutput reads status and timing from the log, and on a recognized
// success phrase parses the solution file: its second line holds the
// objective, and the lines after it are name/value pairs.
func (a scipAdapter) parseOutput(desc *SolverDescriptor, out runOutcome,
	rslt *SolveResult, vals map[string]float64) {

	logText := readTextFile(desc.FileLog)
	rslt.Messages = logMessages(logText)

	rslt.Status = StatusNoSolution
	logLines := strings.Split(logText, "\n")
	for i := 0; i < len(logLines); i++ {
		line := logLines[i]
		if strings.HasPrefix(line, "SCIP Status") {
			if pos := strings.Index(line, ":"); pos >= 0 {
				rslt.Status = scipLogStatus(strings.ToLower(line[pos+1:]))
			}
		} else if strings.HasPrefix(line, "Solving Time (sec)") {
			if value, ok := floatAfterColon(line); ok {
				rslt.Seconds = value
			}
		}
	}

	if rslt.Status != StatusOptimal && rslt.Status != StatusSubOptimal &&
		rslt.Status != StatusTimeout {
		return
	}

	data := readTextFile(desc.FileSoln)
	if data == "" || strings.Contains(data, "no solution available") {
		// The log promised a solution the solver never delivered; degrade
		// rather than report success with a fabricated vector.
		rslt.Status = StatusNoSolution
		return
	}

	lines := strings.Split(data, "\n")
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(strings.TrimRight(lines[i], "\r"))
		if trimmed == "" || strings.HasPrefix(trimmed, "solution status") {
			continue
		}
		if strings.HasPrefix(trimmed, "objective value") {
			if value, ok := floatAfterColon(trimmed); ok {
				rslt.ObjVal = value
			}
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		if value, err := strconv.ParseFloat(fields[1], 64); err == nil {
			vals[fields[0]] = value
		}
	}
}

//============================ END OF FILE =====================================
