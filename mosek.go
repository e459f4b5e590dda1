//==============================================================================
// mosek: Adapter for the MOSEK command-line optimizer
// 01   Initial version


// MOSEK is invoked through the shell because it writes its solution files
// relative to its working directory, which therefore must be the output
// directory. For an integer model the solution lands in a .int file; for a
// continuous one in a .bas file, so the parser tries both.

package solver

import (
	"path/filepath"
	"strconv"
	"strings"
)

type mosekAdapter struct{}

func (a mosekAdapter) id() string { return SolverMosek }

//==============================================================================

// detect looks for the mosek executable in scan directories whose path
// contains the characteristic "mosek" fragment, or in the extra directories
// named by the SOLVER_PATH environment variable.
func (a mosekAdapter) detect(dirs []string, outDir string) (*SolverDescriptor, bool) {
	path, found := findByFragment(dirs, "mosek", "mosek")
	if !found {
		return nil, false
	}

	return &SolverDescriptor{
		ID:            SolverMosek,
		Name:          "MOSEK",
		ExePath:       path,
		ModelExt:      ".lp",
		FileUserModel: filepath.Join(outDir, "usr_model.lp"),
		FileSoln:      filepath.Join(outDir, "usr_model.int"),
		FileSolnAlt:   filepath.Join(outDir, "usr_model.bas"),
		FileLog:       filepath.Join(outDir, "solver.log"),
		CmdTemplate: `"{EXE}" -d MSK_DPAR_OPTIMIZER_MAX_TIME {TIMEOUT}` +
			` -d MSK_DPAR_MIO_TOL_ABS_RELAX_INT {INTTOL}` +
			` -d MSK_DPAR_MIO_TOL_REL_GAP {MIPGAP} "{MODEL}" > "{LOG}"`,
		WorkDir: outDir,
	}, true
}

//==============================================================================

func (a mosekAdapter) buildInvocation(desc *SolverDescriptor, req *SolveRequest) invocation {
	return invocation{
		exePath: desc.ExePath,
		cmdLine: expandTemplate(desc.CmdTemplate, desc, req),
		shell:   true,
		workDir: desc.WorkDir,
	}
}

//==============================================================================

// mosekStatus translates the SOLUTION STATUS string of a MOSEK solution file
// to a normalized status code. The INFEASIBLE checks must precede the
// FEASIBLE ones, since the certificate statuses contain both words.
func mosekStatus(statusString string) int {
	switch {
	case strings.Contains(statusString, "NEAR_OPTIMAL"):
		return StatusSubOptimal
	case strings.Contains(statusString, "OPTIMAL"):
		return StatusOptimal
	case strings.Contains(statusString, "INFEASIBLE"):
		return StatusInfeasible
	case strings.Contains(statusString, "UNBOUNDED"):
		return StatusUnbounded
	case strings.Contains(statusString, "FEASIBLE"):
		return StatusSubOptimal
	}

	return StatusUnknown
}

//==============================================================================

// parseOutput reads the integer solution file, falling back to the basic
// solution file, and scans it for the status marker, the objective, and the
// fixed-format variable rows that follow the VARIABLES section marker.
func (a mosekAdapter) parseOutput(desc *SolverDescriptor, out runOutcome,
	rslt *SolveResult, vals map[string]float64) {

	logText := readTextFile(desc.FileLog)
	rslt.Messages = logMessages(logText)

	data := readTextFile(desc.FileSoln)
	if data == "" {
		data = readTextFile(desc.FileSolnAlt)
	}
	if data == "" {
		lower := strings.ToLower(logText)
		switch {
		case strings.Contains(lower, "license"):
			rslt.Status = StatusLicense
		case strings.Contains(lower, "infeasible"):
			rslt.Status = StatusInfeasible
		case strings.Contains(lower, "unbounded"):
			rslt.Status = StatusUnbounded
		case strings.Contains(lower, "max time"), strings.Contains(lower, "time limit"):
			rslt.Status = StatusTimeout
		default:
			rslt.Status = StatusNoSolution
		}
		return
	}

	rslt.Status = StatusNoSolution
	inVariables := false

	lines := strings.Split(data, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)

		if !inVariables {
			switch {
			case strings.HasPrefix(trimmed, "SOLUTION STATUS"):
				if pos := strings.Index(trimmed, ":"); pos >= 0 {
					rslt.Status = mosekStatus(strings.TrimSpace(trimmed[pos+1:]))
				}
			case strings.HasPrefix(trimmed, "PRIMAL OBJECTIVE"),
				strings.HasPrefix(trimmed, "OBJECTIVE"):
				if value, ok := floatAfterColon(trimmed); ok {
					rslt.ObjVal = value
				}
			case strings.HasPrefix(trimmed, "VARIABLES"):
				inVariables = true
			}
			continue
		}

		// Variable rows: INDEX NAME AT ACTIVITY [bounds...]. The section
		// ends at the constraints header or at a blank line.
		if trimmed == "" || strings.HasPrefix(trimmed, "CONSTRAINTS") {
			break
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 4 || strings.HasPrefix(fields[0], "INDEX") {
			continue
		}
		if value, err := strconv.ParseFloat(fields[3], 64); err == nil {
			vals[fields[1]] = value
		}
	}
}

//============================ END OF FILE =====================================
