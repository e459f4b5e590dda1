package solver

import (
	"os"
	"path/filepath"
	"testing"
)

// stubSolverRegistry registers a stub LP_solve-style solver whose executable
// is the given shell script, so a full Solve round trip can run without any
// real solver installed.
func stubSolverRegistry(t *testing.T, script string) (*SolverRegistry, string) {
	t.Helper()
	outDir := t.TempDir()

	scriptPath := filepath.Join(t.TempDir(), "stub_solver")
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("write stub solver: %v", err)
	}

	reg := NewRegistry(outDir)
	err := reg.Register(&SolverDescriptor{
		ID:            SolverLpSolve,
		Name:          "stub LP_solve",
		ExePath:       scriptPath,
		ModelExt:      ".lp",
		FileUserModel: filepath.Join(outDir, "usr_model.lp"),
		FileLog:       filepath.Join(outDir, "solver.log"),
		CmdTemplate:   `"{EXE}" "{MODEL}" > "{LOG}"`,
		WorkDir:       outDir,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return reg, outDir
}

const sampleModel = `/* trivial model */
min: X1 + X2 + X3;
c1: X1 + X2 + X3 >= 6;
`

// An always-optimal stub in LP_solve console format.
const optimalStubScript = `#!/bin/sh
echo "Value of objective function: 6.00000000"
echo ""
echo "Actual values of the variables:"
echo "X1                              6"
echo "X2                              0"
echo "X3                              0"
`

func TestSolveTrivialModelAgainstStub(t *testing.T) {
	if testingOnWindows(t) {
		return
	}
	reg, outDir := stubSolverRegistry(t, optimalStubScript)
	ses := NewSession(reg)

	req := SolveRequest{
		Block:       1,
		Round:       "a",
		ModelText:   sampleModel,
		ColumnCount: 3,
	}
	rslt := ses.Solve(req)

	if rslt.Status != StatusOptimal {
		t.Fatalf("status = %d (%s), want %d", rslt.Status, rslt.Error, StatusOptimal)
	}
	if !rslt.Solution {
		t.Fatalf("solution flag not set")
	}
	if rslt.ObjVal != 6 {
		t.Errorf("objective = %v, want 6", rslt.ObjVal)
	}
	if len(rslt.X) != 3 {
		t.Fatalf("vector length = %d, want 3", len(rslt.X))
	}
	if sum := rslt.X[0] + rslt.X[1] + rslt.X[2]; sum < 6 {
		t.Errorf("vector sum = %v, want >= 6", sum)
	}
	if rslt.Block != 1 || rslt.Round != "a" {
		t.Errorf("identifiers not threaded through: %+v", rslt)
	}

	// The model hand-off file must hold exactly the submitted text, and the
	// audit echo must round-trip it for a solver that does not rewrite.
	data, err := os.ReadFile(filepath.Join(outDir, "usr_model.lp"))
	if err != nil {
		t.Fatalf("model file not written: %v", err)
	}
	if string(data) != sampleModel {
		t.Errorf("model file differs from the submitted text")
	}
	if rslt.SolverModel != sampleModel {
		t.Errorf("audit echo differs from the submitted text")
	}

	// Idempotence: an identical request yields an identical result.
	again := ses.Solve(req)
	if again.Status != rslt.Status || again.ObjVal != rslt.ObjVal {
		t.Errorf("repeated solve differs: %+v vs %+v", again, rslt)
	}
	for i := range rslt.X {
		if again.X[i] != rslt.X[i] {
			t.Errorf("repeated vector differs at %d", i)
		}
	}
}

func TestSolveEmptyRegistry(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	reg := NewRegistry(outDir)
	ses := NewSession(reg)

	rslt := ses.Solve(SolveRequest{Block: 2, Round: "b", ColumnCount: 3})

	if rslt.Status != StatusNoSolver {
		t.Fatalf("status = %d, want %d", rslt.Status, StatusNoSolver)
	}
	if rslt.Solution {
		t.Errorf("solution flag set without a solver")
	}
	if rslt.Error != "No MILP solver" {
		t.Errorf("error = %q, want %q", rslt.Error, "No MILP solver")
	}
	if len(rslt.X) != 3 {
		t.Fatalf("vector length = %d, want 3", len(rslt.X))
	}
	for i, v := range rslt.X {
		if v != 0 {
			t.Errorf("x[%d] = %v, want 0", i, v)
		}
	}
	// Nothing may be written: not even the output directory is created.
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("files were written despite the empty registry")
	}
}

func TestSolveStubWritesNoSolution(t *testing.T) {
	if testingOnWindows(t) {
		return
	}
	// The stub exits 0 without printing anything, so the captured stream is
	// empty despite the apparently successful exit.
	reg, _ := stubSolverRegistry(t, "#!/bin/sh\nexit 0\n")
	ses := NewSession(reg)

	rslt := ses.Solve(SolveRequest{ModelText: sampleModel, ColumnCount: 3})

	if rslt.Status != StatusNoSolution {
		t.Fatalf("status = %d, want %d", rslt.Status, StatusNoSolution)
	}
	if rslt.Solution {
		t.Errorf("solution flag set for an empty solution")
	}
	if rslt.Error != "No solution found" {
		t.Errorf("error = %q, want %q", rslt.Error, "No solution found")
	}
	if len(rslt.X) != 3 {
		t.Fatalf("vector length = %d, want 3", len(rslt.X))
	}
	for i, v := range rslt.X {
		if v != 0 {
			t.Errorf("x[%d] = %v, want 0", i, v)
		}
	}
}

func TestSolveSnapsNearZeroToExactZero(t *testing.T) {
	if testingOnWindows(t) {
		return
	}
	script := `#!/bin/sh
echo "Value of objective function: 0.00000000"
echo ""
echo "Actual values of the variables:"
echo "X001                            3.2e-08"
`
	reg, _ := stubSolverRegistry(t, script)
	ses := NewSession(reg)

	// The default integer tolerance 5e-7 exceeds the reported magnitude.
	rslt := ses.Solve(SolveRequest{ModelText: sampleModel, ColumnCount: 1})

	if rslt.Status != StatusOptimal {
		t.Fatalf("status = %d, want %d", rslt.Status, StatusOptimal)
	}
	if rslt.X[0] != 0 {
		t.Errorf("x[0] = %v, want exactly 0", rslt.X[0])
	}
}

func TestSolveSpawnFailure(t *testing.T) {
	outDir := t.TempDir()
	reg := NewRegistry(outDir)
	err := reg.Register(&SolverDescriptor{
		ID:            SolverGurobi,
		Name:          "missing Gurobi",
		ExePath:       filepath.Join(outDir, "no_such_binary"),
		ModelExt:      ".lp",
		FileUserModel: filepath.Join(outDir, "usr_model.lp"),
		FileSoln:      filepath.Join(outDir, "model.json"),
		FileLog:       filepath.Join(outDir, "solver.log"),
		ArgTemplate:   []string{"TimeLimit={TIMEOUT}", "{MODEL}"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	ses := NewSession(reg)

	rslt := ses.Solve(SolveRequest{ModelText: sampleModel, ColumnCount: 3})

	if rslt.Status != StatusSpawnFailed {
		t.Fatalf("status = %d, want %d", rslt.Status, StatusSpawnFailed)
	}
	if rslt.Solution {
		t.Errorf("solution flag set after a spawn failure")
	}
	if len(rslt.X) != 3 {
		t.Fatalf("vector length = %d, want 3", len(rslt.X))
	}
	if len(rslt.Messages) == 0 {
		t.Errorf("spawn error not surfaced in the messages")
	}
}

func TestSolveUnknownOverrideKeepsDefault(t *testing.T) {
	if testingOnWindows(t) {
		return
	}
	reg, _ := stubSolverRegistry(t, optimalStubScript)
	ses := NewSession(reg)

	rslt := ses.Solve(SolveRequest{
		ModelText:   sampleModel,
		ColumnCount: 3,
		SolverID:    SolverCplex, // not registered; the default must stand
	})

	if rslt.Status != StatusOptimal {
		t.Fatalf("status = %d, want %d", rslt.Status, StatusOptimal)
	}
}

func TestSolveDiagnosticSnapshot(t *testing.T) {
	if testingOnWindows(t) {
		return
	}
	reg, outDir := stubSolverRegistry(t, optimalStubScript)
	ses := NewSession(reg)

	rslt := ses.Solve(SolveRequest{
		ModelText:   sampleModel,
		ColumnCount: 3,
		Diagnose:    true,
	})
	if rslt.Status != StatusOptimal {
		t.Fatalf("status = %d, want %d", rslt.Status, StatusOptimal)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	found := false
	for _, entry := range entries {
		if entry.IsDir() && len(entry.Name()) > 5 && entry.Name()[:5] == "diag-" {
			found = true
			// The snapshot must include the model hand-off file.
			if _, err := os.Stat(filepath.Join(outDir, entry.Name(), "usr_model.lp")); err != nil {
				t.Errorf("snapshot lacks the model file: %v", err)
			}
		}
	}
	if !found {
		t.Errorf("no diagnostic snapshot directory created")
	}
}

func TestClampRequest(t *testing.T) {
	req := SolveRequest{}
	clampRequest(&req)
	if req.TimeoutSeconds != 30 {
		t.Errorf("timeout default = %d, want 30", req.TimeoutSeconds)
	}
	if req.IntTolerance != 5e-7 {
		t.Errorf("tolerance default = %v, want 5e-7", req.IntTolerance)
	}
	if req.MipGap != 1e-4 {
		t.Errorf("gap default = %v, want 1e-4", req.MipGap)
	}

	req = SolveRequest{TimeoutSeconds: -3, IntTolerance: 1e-12, MipGap: 0.9}
	clampRequest(&req)
	if req.TimeoutSeconds != 30 {
		t.Errorf("negative timeout not defaulted: %d", req.TimeoutSeconds)
	}
	if req.IntTolerance != 1e-9 {
		t.Errorf("tolerance not clamped up: %v", req.IntTolerance)
	}
	if req.MipGap != 0.5 {
		t.Errorf("gap not clamped down: %v", req.MipGap)
	}

	req = SolveRequest{IntTolerance: 0.5, MipGap: -1}
	clampRequest(&req)
	if req.IntTolerance != 0.1 {
		t.Errorf("tolerance not clamped down: %v", req.IntTolerance)
	}
	if req.MipGap != 0 {
		t.Errorf("negative gap not clamped up to 0: %v", req.MipGap)
	}
}
