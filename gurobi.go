//==============================================================================
// gurobi: Adapter for the Gurobi command-line solver
// 01   Initial version


// Gurobi is detected through its version-numbered installation directories,
// invoked as a plain argument vector (gurobi_cl takes key=value parameters),
// and reports its solution in a JSON result file.

package solver

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// gurobiVerPat matches the version-numbered directory names of Gurobi
// installations, e.g. ".../gurobi1003/linux64/bin".
var gurobiVerPat = regexp.MustCompile(`gurobi(\d+)`)

// gurobiRoots are the conventional installation roots globbed on macOS and
// Linux when no PATH entry points at a Gurobi installation.
var gurobiRoots = []string{
	"/opt/gurobi*/*/bin",
	"/Library/gurobi*/*/bin",
	"/usr/local/gurobi*/*/bin",
}

type gurobiAdapter struct{}

func (a gurobiAdapter) id() string { return SolverGurobi }

//==============================================================================

// detect looks for the gurobi_cl executable in the scan directories,
// preferring the highest version number when several version-numbered
// installations are present, and falls back to the conventional macOS/Linux
// installation roots.
func (a gurobiAdapter) detect(dirs []string, outDir string) (*SolverDescriptor, bool) {
	var bestPath string // executable of the highest version found so far
	var bestVer int     // that version number, -1 for an unversioned hit

	bestVer = -1
	candidates := dirs
	if runtime.GOOS != "windows" {
		for i := 0; i < len(gurobiRoots); i++ {
			if hits, err := filepath.Glob(gurobiRoots[i]); err == nil {
				candidates = append(candidates, hits...)
			}
		}
	}

	for i := 0; i < len(candidates); i++ {
		path := filepath.Join(candidates[i], exeName("gurobi_cl"))
		if !isExecutable(path) {
			continue
		}
		version := -1
		if m := gurobiVerPat.FindStringSubmatch(candidates[i]); m != nil {
			version, _ = strconv.Atoi(m[1])
		}
		if bestPath == "" || version > bestVer {
			bestPath = path
			bestVer = version
		}
	}

	if bestPath == "" {
		return nil, false
	}

	return &SolverDescriptor{
		ID:            SolverGurobi,
		Name:          "Gurobi",
		ExePath:       bestPath,
		ModelExt:      ".lp",
		FileUserModel: filepath.Join(outDir, "usr_model.lp"),
		FileSoln:      filepath.Join(outDir, "model.json"),
		FileLog:       filepath.Join(outDir, "solver.log"),
		ArgTemplate: []string{
			"TimeLimit={TIMEOUT}",
			"IntFeasTol={INTTOL}",
			"MIPGap={MIPGAP}",
			"JSONSolDetail=1",
			"LogFile={LOG}",
			"ResultFile={SOLN}",
			"{MODEL}",
		},
		Messages: map[int]string{
			StatusLicense: "Gurobi license expired or missing",
		},
	}, true
}

//==============================================================================

func (a gurobiAdapter) buildInvocation(desc *SolverDescriptor, req *SolveRequest) invocation {
	return invocation{
		exePath: desc.ExePath,
		args:    expandArgs(desc, req),
	}
}

//==============================================================================

// gurobiSolution mirrors the JSON result file written by gurobi_cl. Numeric
// fields arrive as JSON strings in some Gurobi versions, so json.Number is
// used throughout.
type gurobiSolution struct {
	SolutionInfo struct {
		Status  int         `json:"Status"`
		Runtime json.Number `json:"Runtime"`
		ObjVal  json.Number `json:"ObjVal"`
	} `json:"SolutionInfo"`
	Vars []struct {
		VarName string      `json:"VarName"`
		X       json.Number `json:"X"`
	} `json:"Vars"`
}

// gurobiStatusMap translates Gurobi's documented Status values to the
// normalized status codes.
var gurobiStatusMap = map[int]int{
	2:  StatusOptimal,    // OPTIMAL
	3:  StatusInfeasible, // INFEASIBLE
	4:  StatusInfeasible, // INF_OR_UNBD
	5:  StatusUnbounded,  // UNBOUNDED
	9:  StatusTimeout,    // TIME_LIMIT
	13: StatusSubOptimal, // SUBOPTIMAL
}

//==============================================================================

// parseOutput classifies the run from the exit status and the log, then
// decodes the JSON result file. A Gurobi process that exits with status 1
// before its log even mentions licensing has failed its license check.
func (a gurobiAdapter) parseOutput(desc *SolverDescriptor, out runOutcome,
	rslt *SolveResult, vals map[string]float64) {

	logText := readTextFile(desc.FileLog)
	rslt.Messages = logMessages(logText)

	if out.exitCode == 1 && !strings.Contains(strings.ToLower(logText), "license") {
		rslt.Status = StatusLicense
		return
	}

	data := readTextFile(desc.FileSoln)
	if data == "" {
		rslt.Status = StatusNoSolution
		return
	}

	var soln gurobiSolution
	if err := json.Unmarshal([]byte(data), &soln); err != nil {
		log(pWARN, "WARNING: Malformed Gurobi result file: %s\n", err)
		rslt.Status = StatusNoSolution
		return
	}

	status, ok := gurobiStatusMap[soln.SolutionInfo.Status]
	if !ok {
		rslt.Status = StatusUnknown
		return
	}
	rslt.Status = status

	if value, err := soln.SolutionInfo.ObjVal.Float64(); err == nil {
		rslt.ObjVal = value
	}
	if value, err := soln.SolutionInfo.Runtime.Float64(); err == nil {
		rslt.Seconds = value
	}

	// Variable names encode the 1-based column index (X1, X2, ...).
	for i := 0; i < len(soln.Vars); i++ {
		if value, err := soln.Vars[i].X.Float64(); err == nil {
			vals[soln.Vars[i].VarName] = value
		}
	}
}

//============================ END OF FILE =====================================
