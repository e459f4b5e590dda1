//==============================================================================
// cplex: Adapter for the IBM ILOG CPLEX interactive optimizer
// 01   Initial version


// CPLEX reads its instructions from a generated command file and is invoked
// through the shell with the output directory as working directory. Its
// solution file is XML, but it is scanned linearly for attribute tokens
// rather than unmarshalled, since only a handful of attributes matter and
// malformed files must degrade gracefully.

package solver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// cplexErrPat matches the coded error lines CPLEX writes to its log, e.g.
// "CPLEX Error  1016: Promotional version.".
var cplexErrPat = regexp.MustCompile(`CPLEX Error\s+(\d+):?\s*(.*)`)

type cplexAdapter struct{}

func (a cplexAdapter) id() string { return SolverCplex }

//==============================================================================

// detect looks for the cplex executable in scan directories whose path
// contains the characteristic "cplex" fragment, or in the extra directories
// named by the SOLVER_PATH environment variable.
func (a cplexAdapter) detect(dirs []string, outDir string) (*SolverDescriptor, bool) {
	path, found := findByFragment(dirs, "cplex", "cplex")
	if !found {
		return nil, false
	}

	return &SolverDescriptor{
		ID:              SolverCplex,
		Name:            "CPLEX",
		ExePath:         path,
		ModelExt:        ".lp",
		FileUserModel:   filepath.Join(outDir, "usr_model.lp"),
		FileSolverModel: filepath.Join(outDir, "solver_model.lp"),
		FileSoln:        filepath.Join(outDir, "model.sol"),
		FileLog:         filepath.Join(outDir, "solver.log"),
		CmdTemplate:     `"{EXE}" -f cplex_commands.txt`,
		WorkDir:         outDir,
	}, true
}

//==============================================================================

// writeCommandFile generates the command file instructing CPLEX to read the
// model, solve it, and write its artifacts. In case of failure, function
// returns an error.
func (a cplexAdapter) writeCommandFile(desc *SolverDescriptor, req *SolveRequest) error {
	cmdFile := filepath.Join(desc.WorkDir, "cplex_commands.txt")

	f, err := os.Create(cmdFile)
	if err != nil {
		return errors.Wrap(err, "Failed to create the CPLEX command file")
	}
	defer f.Close()

	fmt.Fprintln(f, "set logfile", desc.FileLog)
	fmt.Fprintln(f, "read", desc.FileUserModel, "lp")
	fmt.Fprintln(f, "set timelimit", req.TimeoutSeconds)
	fmt.Fprintln(f, "set mip tolerances integrality", req.IntTolerance)
	fmt.Fprintln(f, "set mip tolerances mipgap", req.MipGap)
	fmt.Fprintln(f, "optimize")
	fmt.Fprintln(f, "write", desc.FileSolverModel, "lp")
	fmt.Fprintln(f, "write", desc.FileSoln, "sol")
	fmt.Fprintln(f, "quit")

	return nil
}

//==============================================================================

func (a cplexAdapter) buildInvocation(desc *SolverDescriptor, req *SolveRequest) invocation {
	if err := a.writeCommandFile(desc, req); err != nil {
		// The spawn will fail to produce output and the parser will degrade
		// to a no-solution result; nothing more can be done here.
		log(pERR, "ERROR: %s\n", err)
	}

	return invocation{
		exePath: desc.ExePath,
		cmdLine: expandTemplate(desc.CmdTemplate, desc, req),
		shell:   true,
		workDir: desc.WorkDir,
	}
}

//==============================================================================

// cplexStatusMap translates the solutionStatusValue codes of the CPLEX
// solution file to the normalized status codes. The codes 1, 101, and 102
// (optimal, integer optimal, integer optimal within tolerance) count as
// success.
var cplexStatusMap = map[int]int{
	1:   StatusOptimal,
	101: StatusOptimal,
	102: StatusOptimal,
	103: StatusInfeasible,
	107: StatusTimeout, // time limit, feasible solution available
	108: StatusTimeout, // time limit, no feasible solution
	118: StatusUnbounded,
	119: StatusInfeasible, // infeasible or unbounded
}

//==============================================================================

// parseOutput checks the log for the documented failure patterns first, and
// only then scans the solution file for its header attributes and variable
// tokens.
func (a cplexAdapter) parseOutput(desc *SolverDescriptor, out runOutcome,
	rslt *SolveResult, vals map[string]float64) {

	logText := readTextFile(desc.FileLog)
	rslt.Messages = logMessages(logText)
	lower := strings.ToLower(logText)

	// The failure classification only stands when no solution file was
	// written; CPLEX logs mention infeasibility in passing even on runs that
	// end with a usable solution.
	failure := -1
	var failureMsg string
	if m := cplexErrPat.FindStringSubmatch(logText); m != nil {
		code, _ := strconv.Atoi(m[1])
		// 1016 is the promotional-version limit; 32201 is a licensing
		// failure. Both mean the installed license cannot solve this model.
		if code == 1016 || code == 32201 {
			failure = StatusLicense
		} else {
			failure = StatusUnknown
			failureMsg = strings.TrimSpace(m[0])
		}
	} else if strings.Contains(lower, "license") {
		failure = StatusLicense
	} else if strings.Contains(lower, "infeasible or unbounded") {
		failure = StatusInfeasible
	} else if strings.Contains(lower, "unbounded") {
		failure = StatusUnbounded
	}

	data := readTextFile(desc.FileSoln)
	if data == "" {
		if failure >= 0 {
			rslt.Status = failure
			rslt.Error = failureMsg
		} else {
			rslt.Status = StatusNoSolution
		}
		return
	}

	var statusValue = -1
	var statusString string

	lines := strings.Split(data, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if value, ok := attrValue(line, "objectiveValue"); ok {
			rslt.ObjVal, _ = strconv.ParseFloat(value, 64)
		}
		if value, ok := attrValue(line, "solutionStatusValue"); ok {
			statusValue, _ = strconv.Atoi(value)
		}
		if value, ok := attrValue(line, "solutionStatusString"); ok {
			statusString = value
		}

		if strings.Contains(line, "<variable") {
			name, okName := attrValue(line, "name")
			value, okValue := attrValue(line, "value")
			if okName && okValue {
				if parsed, err := strconv.ParseFloat(value, 64); err == nil {
					vals[name] = parsed
				}
			}
		}
	}

	status, ok := cplexStatusMap[statusValue]
	if !ok {
		rslt.Status = StatusUnknown
		if statusString != "" {
			rslt.Error = statusString
		}
		return
	}
	rslt.Status = status
}

//============================ END OF FILE =====================================
