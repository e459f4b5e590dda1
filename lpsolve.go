//==============================================================================
// lpsolve: Adapter for the LP_solve command-line solver
// 01   Initial version


// LP_solve is bundled with the hosting application and is therefore looked
// up in the working directory rather than on the PATH. It writes everything
// to its console, so the shell redirects that single stream into the log
// file, which then serves as both the message source and the solution.

package solver

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type lpSolveAdapter struct{}

func (a lpSolveAdapter) id() string { return SolverLpSolve }

//==============================================================================

// detect looks for the lp_solve executable in the working directory, where
// the hosting application bundles it.
func (a lpSolveAdapter) detect(dirs []string, outDir string) (*SolverDescriptor, bool) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, false
	}
	path := filepath.Join(workDir, exeName("lp_solve"))
	if !isExecutable(path) {
		return nil, false
	}

	return &SolverDescriptor{
		ID:            SolverLpSolve,
		Name:          "LP_solve",
		ExePath:       path,
		ModelExt:      ".lp",
		FileUserModel: filepath.Join(outDir, "usr_model.lp"),
		FileLog:       filepath.Join(outDir, "solver.log"),
		CmdTemplate: `"{EXE}" -S3 -time -e {INTTOL} -gr {MIPGAP}` +
			` -timeout {TIMEOUT} "{MODEL}" > "{LOG}"`,
		WorkDir: outDir,
	}, true
}

//==============================================================================

func (a lpSolveAdapter) buildInvocation(desc *SolverDescriptor, req *SolveRequest) invocation {
	return invocation{
		exePath: desc.ExePath,
		cmdLine: expandTemplate(desc.CmdTemplate, desc, req),
		shell:   true,
		workDir: desc.WorkDir,
	}
}

//==============================================================================

// parseOutput consumes the captured console dump. Success is marked by the
// "Value of objective function:" line; the variable rows follow the "Actual
// values of the variables:" header and run until the constraints section or
// the end of the stream. Elapsed time is accumulated from the "... N
// seconds" lines that -time produces.
func (a lpSolveAdapter) parseOutput(desc *SolverDescriptor, out runOutcome,
	rslt *SolveResult, vals map[string]float64) {

	text := readTextFile(desc.FileLog)
	rslt.Messages = logMessages(text)

	success := false
	inVariables := false
	var seconds float64

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)

		if value, ok := secondsBefore(trimmed); ok {
			seconds += value
		}

		if inVariables {
			if strings.HasPrefix(trimmed, "Actual values of the constraints") ||
				strings.HasPrefix(trimmed, "Dual value") {
				inVariables = false
				continue
			}
			fields := strings.Fields(trimmed)
			if len(fields) < 2 {
				continue
			}
			if value, err := strconv.ParseFloat(fields[1], 64); err == nil {
				vals[fields[0]] = value
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "Value of objective function:"):
			success = true
			if value, ok := floatAfterColon(trimmed); ok {
				rslt.ObjVal = value
			}
		case strings.HasPrefix(trimmed, "Actual values of the variables"):
			inVariables = true
		}
	}

	if seconds > 0 {
		rslt.Seconds = seconds
	}

	if success {
		rslt.Status = StatusOptimal
		return
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "infeasible"):
		rslt.Status = StatusInfeasible
	case strings.Contains(lower, "unbounded"):
		rslt.Status = StatusUnbounded
	case strings.Contains(lower, "timeout"):
		rslt.Status = StatusTimeout
	default:
		rslt.Status = StatusNoSolution
	}
}

//============================ END OF FILE =====================================
