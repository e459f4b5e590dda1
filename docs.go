// 01   Initial version of the solver bridge extracted as a separate module

/*
Package solver provides the bridge between an optimization-modeling host and
whichever external MILP solver is installed on the machine. It is intended for
two sets of users: (i) the hosting server process, which submits one block of
LP-format constraints at a time and consumes one normalized result, and (ii)
developers wanting easy Go access to locally installed solvers without linking
against any solver library.

Some of the main functions include:
	- scanning the environment for installed solver executables
	- building and validating per-call solve parameters (timeout, tolerances)
	- spawning the selected solver synchronously with solver-specific arguments
	- parsing five incompatible solver output formats into one result schema

Supported solvers are Gurobi, CPLEX, MOSEK, SCIP, and LP_solve. Solving is
fully delegated to the external executables; this package implements no MILP
algorithm of its own.

Solver Detection

The SolverRegistry scans the directories on the PATH (plus, on macOS and
Linux, the conventional Gurobi installation roots, and any directories listed
in the SOLVER_PATH environment variable) and records a descriptor for every
solver whose executable is found. LP_solve is special: it is expected to sit
in the working directory, where the hosting application bundles it. A missing
solver is logged and skipped; an empty catalogue is valid and produces a
dedicated "No MILP solver" result instead of a failure.

Solving a Block

A SolverSession wraps a registry and performs one synchronous solve per call.
The session validates the request, writes the model text to the solver's
input file, removes artifacts left behind by a previous run, spawns the
solver, and normalizes its output. For example, the code could include the
following:

	reg := solver.NewRegistry("solver_output")
	if err := reg.Scan(); err != nil {
		fmt.Println(err)
		return
	}

	ses := solver.NewSession(reg)
	rslt := ses.Solve(solver.SolveRequest{
		Block:       1,
		Round:       "a",
		ModelText:   modelText,
		ColumnCount: 3,
	})
	if rslt.Solution {
		fmt.Printf("objective = %f\n", rslt.ObjVal)
	}

Solve never returns an error and never panics: configuration problems, spawn
failures, solver-reported failures, and missing or malformed artifacts are
all folded into the returned SolveResult.

Result Normalization

Whatever sparse name/value pairs a solver reports are assembled into a dense
solution vector whose length always equals the column count of the request.
Columns the solver omitted default to 0, and any magnitude below the
session's integer tolerance is snapped to exactly 0. The raw solver messages
are preserved verbatim for diagnosis.

Tutorial and Function Exerciser

The executable provided with the package illustrates how the solver package
is used and contains exercisers to scan for solvers, solve a small sample
model, and display the normalized results.
*/
package solver
