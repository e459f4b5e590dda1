//==============================================================================
// solver: Data structures and utilities shared by the solver bridge
// 01   Initial version


// This file defines the canonical data model of the solver bridge: the solver
// descriptor built during registry scans, the per-call request and result
// structures, the normalized status codes, and the package logging utility.

package solver

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

//==============================================================================
// SOLVER IDENTIFIERS
//==============================================================================

// Identifiers of the solvers the bridge knows how to detect, invoke, and
// parse. They double as keys in the registry catalogue and as the values
// accepted in SolveRequest.SolverID.
const (
	SolverGurobi  = "gurobi"
	SolverCplex   = "cplex"
	SolverMosek   = "mosek"
	SolverScip    = "scip"
	SolverLpSolve = "lp_solve"
)

// solverPriority lists the solver identifiers in the fixed order used to pick
// the default solver when more than one is detected.
var solverPriority = []string{
	SolverGurobi, SolverCplex, SolverMosek, SolverScip, SolverLpSolve,
}

//==============================================================================
// STATUS CODES
//==============================================================================

// Normalized status codes shared by all solvers. StatusOptimal is zero so a
// successful result reports status 0 to the hosting server.
const (
	StatusOptimal     = 0 // solution reported and proven optimal
	StatusSubOptimal  = 1 // solution reported but not proven optimal
	StatusInfeasible  = 2 // solver proved the problem infeasible
	StatusUnbounded   = 3 // solver proved the problem unbounded
	StatusTimeout     = 4 // time limit reached before completion
	StatusLicense     = 5 // solver license expired or invalid
	StatusNoSolution  = 6 // artifacts missing or malformed, nothing usable
	StatusSpawnFailed = 7 // OS-level failure to start the solver process
	StatusNoSolver    = 8 // no solver installed, or unknown solver requested
	StatusUnknown     = 9 // solver failed in a way the tables do not cover
)

// statusText holds the default message for each normalized status code.
// Per-solver descriptors may override individual entries.
var statusText = map[int]string{
	StatusOptimal:     "",
	StatusSubOptimal:  "Solution is not proven optimal",
	StatusInfeasible:  "Problem is infeasible",
	StatusUnbounded:   "Problem is unbounded",
	StatusTimeout:     "Time limit reached",
	StatusLicense:     "Solver license expired or invalid",
	StatusNoSolution:  "No solution found",
	StatusSpawnFailed: "Failed to start solver",
	StatusNoSolver:    "No MILP solver",
	StatusUnknown:     "Unknown solver error",
}

// msgUnknownError is the fallback used when neither the descriptor table nor
// statusText has an entry for a status code.
const msgUnknownError = "Unknown solver error"

//==============================================================================
// SOLVER DESCRIPTOR
//==============================================================================

// SolverDescriptor records everything the bridge knows about one detected
// solver: where its executable lives, which on-disk artifacts it exchanges
// with the bridge, how its command line is constructed, and how its exit
// statuses translate to messages and usability. One descriptor is created per
// detected solver during the registry scan and is not modified afterwards,
// with the single exception of the Usable predicate, which callers may
// replace to resolve usability policy for non-optimal statuses.
type SolverDescriptor struct {
	ID              string            // solver identifier (SolverGurobi, ...)
	Name            string            // human-readable solver name
	ExePath         string            // full path of the solver executable
	ModelExt        string            // extension of the model file the solver reads
	FileUserModel   string            // model text as submitted by the caller
	FileSolverModel string            // model as rewritten by the solver (audit echo)
	FileSoln        string            // solution file written by the solver
	FileSolnAlt     string            // alternate solution file, "" if none
	FileLog         string            // solver log file
	ArgTemplate     []string          // argument vector with placeholders, argv style
	CmdTemplate     string            // single command line with placeholders, shell style
	WorkDir         string            // working directory for the solver process
	Messages        map[int]string    // status code to message, overrides statusText
	Usable          func(int) bool    // reports if a status still yields a usable solution
}

// StatusMessage returns the message associated with a normalized status code,
// consulting the per-solver table first, then the shared defaults, and
// finally falling back to the generic unknown-error message.
func (d *SolverDescriptor) StatusMessage(status int) string {
	if d != nil && d.Messages != nil {
		if msg, ok := d.Messages[status]; ok {
			return msg
		}
	}
	if msg, ok := statusText[status]; ok {
		return msg
	}
	return msgUnknownError
}

// defaultUsable is the usability predicate installed on every descriptor at
// scan time. Optimal and feasible-but-unproven statuses count as usable;
// everything else does not. The MOSEK and SCIP policies for interrupted runs
// are deliberately resolved here rather than per solver, and callers may
// replace the predicate on the descriptor to change the policy.
func defaultUsable(status int) bool {
	switch status {
	case StatusOptimal, StatusSubOptimal, StatusTimeout:
		return true
	}
	return false
}

//==============================================================================
// SOLVE REQUEST AND RESULT
//==============================================================================

// SolveRequest describes one block of constraints to be solved. It is created
// by the caller for a single Solve call and discarded afterwards.
type SolveRequest struct {
	Block          int     // block number within the longer run
	Round          string  // round identifier within the block
	ModelText      string  // model in the format expected by the solver
	ColumnCount    int     // number of decision variables in the model
	TimeoutSeconds int     // solver time limit, 0 or less for the default
	IntTolerance   float64 // integrality tolerance, 0 for the default
	MipGap         float64 // relative MIP gap, 0 for the default
	Diagnose       bool    // preserve artifacts in a diagnostic snapshot
	SolverID       string  // solver to use instead of the session default, "" for none
}

// SolveResult is the normalized outcome of one Solve call. It is owned by the
// caller and holds no references back into the session or registry.
// The X vector always has exactly ColumnCount entries, regardless of status.
type SolveResult struct {
	Block       int       // block number copied from the request
	Round       string    // round identifier copied from the request
	Status      int       // normalized status code
	Solution    bool      // true if X holds a usable solution
	Error       string    // mapped error message, "" on success
	Messages    []string  // raw solver messages, verbatim
	ObjVal      float64   // value of the objective function
	X           []float64 // dense solution vector, length == ColumnCount
	Seconds     float64   // elapsed solver time
	SolverModel string    // model as rewritten by the solver, for audit
}

// SolveReport is the wire shape of a result as consumed by the hosting
// server. The solution vector is serialized as decimal strings.
type SolveReport struct {
	Block    int        `json:"block"`
	Round    string     `json:"round"`
	Status   int        `json:"status"`
	Solution bool       `json:"solution"`
	Error    string     `json:"error"`
	Messages []string   `json:"messages"`
	Data     ReportData `json:"data"`
	Model    string     `json:"model"`
}

// ReportData carries the numeric payload of a solve report.
type ReportData struct {
	Block   int      `json:"block"`
	Round   string   `json:"round"`
	Seconds float64  `json:"seconds"`
	X       []string `json:"x"`
}

// Report converts the result into the wire shape consumed by the hosting
// server, serializing every solution value as a decimal string.
func (r *SolveResult) Report() SolveReport {
	x := make([]string, len(r.X))
	for i := 0; i < len(r.X); i++ {
		x[i] = strconv.FormatFloat(r.X[i], 'g', -1, 64)
	}

	return SolveReport{
		Block:    r.Block,
		Round:    r.Round,
		Status:   r.Status,
		Solution: r.Solution,
		Error:    r.Error,
		Messages: r.Messages,
		Data: ReportData{
			Block:   r.Block,
			Round:   r.Round,
			Seconds: r.Seconds,
			X:       x,
		},
		Model: r.SolverModel,
	}
}

//==============================================================================

// PrintResult prints the normalized result in a formatted manner. It is used
// by the exerciser executable and is handy when debugging solver behavior.
// The function accepts the result to be printed and returns no values.
func PrintResult(rslt *SolveResult) {

	fmt.Printf("\nBlock %d, round %s: status %d", rslt.Block, rslt.Round, rslt.Status)
	if rslt.Error != "" {
		fmt.Printf(" (%s)", rslt.Error)
	}
	fmt.Printf("\n")

	if rslt.Solution {
		fmt.Printf("OBJECTIVE FUNCTION = %f\n", rslt.ObjVal)
		fmt.Printf("Solved in %.3f seconds.\n\n", rslt.Seconds)
		fmt.Printf("%6s  %-10s %15s\n", "INDEX", "NAME", "VALUE")
		for i := 0; i < len(rslt.X); i++ {
			fmt.Printf("%6d  X%-9d %15e\n", i, i+1, rslt.X[i])
		}
	} else {
		fmt.Printf("WARNING: Result contains no usable solution.\n")
	}

	if len(rslt.Messages) > 0 {
		fmt.Printf("\nSolver messages:\n")
		for i := 0; i < len(rslt.Messages); i++ {
			fmt.Printf("  %s\n", rslt.Messages[i])
		}
	}
}

//==============================================================================
// LOGGING UTILITY
//==============================================================================

// Log levels controlling the verbosity of the package. Output is printed for
// all levels up to and including the level set via SetLogLevel.
const (
	pNONE = iota // no output at all
	pERR         // errors only
	pWARN        // errors and warnings
	pINFO        // errors, warnings, and informational messages
)

// logLevel is the current verbosity of the package.
var logLevel int = pERR

// log prints the formatted message if the current log level is at or above
// the level of the message.
func log(level int, format string, a ...interface{}) {
	if logLevel >= level && logLevel != pNONE {
		fmt.Printf(format, a...)
	}
}

//==============================================================================

// SetLogLevel changes the verbosity of the package to the level received.
// In case of failure, function returns an error.
func SetLogLevel(level int) error {
	if level < pNONE || level > pINFO {
		return errors.Errorf("Log level %d out of range", level)
	}
	logLevel = level

	return nil
}

//==============================================================================

// GetLogLevel passes the current verbosity of the package back to the caller
// via the argument list. In case of failure, function returns an error.
func GetLogLevel(level *int) error {
	if level == nil {
		return errors.New("GetLogLevel received a nil argument")
	}
	*level = logLevel

	return nil
}

//============================ END OF FILE =====================================
