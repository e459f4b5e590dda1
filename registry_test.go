package solver

import (
	"os"
	"path/filepath"
	"testing"
)

// writeStubExecutable creates a do-nothing executable shell script.
func writeStubExecutable(t *testing.T, dir string, base string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, exeName(base))
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
	return path
}

func TestScanEmptyEnvironment(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv(SolverPathEnvVar, "")

	outDir := filepath.Join(t.TempDir(), "out")
	reg := NewRegistry(outDir)
	if err := reg.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if ids := reg.Solvers(); len(ids) != 0 {
		t.Skip("a real solver is installed on this machine: " + ids[0])
	}
	if best := reg.Best(); best != "" {
		t.Errorf("Best() = %q, want empty", best)
	}
}

func TestScanDetectsScipByPathFragment(t *testing.T) {
	if testingOnWindows(t) {
		return
	}
	base := t.TempDir()
	scipDir := filepath.Join(base, "scipoptsuite", "bin")
	writeStubExecutable(t, scipDir, "scip")
	t.Setenv("PATH", scipDir)
	t.Setenv(SolverPathEnvVar, "")

	reg := NewRegistry(filepath.Join(base, "out"))
	if err := reg.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	desc, ok := reg.Descriptor(SolverScip)
	if !ok {
		t.Fatalf("scip not detected via its path fragment")
	}
	if desc.Usable == nil {
		t.Errorf("descriptor has no usability predicate")
	}
	if desc.FileUserModel == "" || desc.FileLog == "" {
		t.Errorf("descriptor artifact paths not populated: %+v", desc)
	}
}

func TestScanDetectsSolverViaExtraPaths(t *testing.T) {
	if testingOnWindows(t) {
		return
	}
	base := t.TempDir()
	// The directory name carries no solver fragment; only the extra-paths
	// environment variable makes it eligible.
	plainDir := filepath.Join(base, "tools")
	writeStubExecutable(t, plainDir, "mosek")
	t.Setenv("PATH", filepath.Join(base, "empty"))
	t.Setenv(SolverPathEnvVar, plainDir)

	reg := NewRegistry(filepath.Join(base, "out"))
	if err := reg.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if _, ok := reg.Descriptor(SolverMosek); !ok {
		t.Fatalf("mosek not detected via %s", SolverPathEnvVar)
	}
}

func TestPreferredSolverFallsBackWhenMissing(t *testing.T) {
	if testingOnWindows(t) {
		return
	}
	base := t.TempDir()
	scipDir := filepath.Join(base, "scip", "bin")
	writeStubExecutable(t, scipDir, "scip")
	t.Setenv("PATH", scipDir)
	t.Setenv(SolverPathEnvVar, "")

	reg := NewRegistry(filepath.Join(base, "out"))
	if err := reg.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	reg.SetPreferred(SolverCplex)
	if best := reg.Best(); best != SolverScip {
		t.Errorf("Best() = %q, want %q", best, SolverScip)
	}

	reg.SetPreferred(SolverScip)
	if best := reg.Best(); best != SolverScip {
		t.Errorf("detected preference ignored: Best() = %q", best)
	}
}

func TestRegisterRejectsUnknownSolver(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	if err := reg.Register(&SolverDescriptor{ID: "minos"}); err == nil {
		t.Errorf("unsupported solver accepted")
	}
	if err := reg.Register(nil); err == nil {
		t.Errorf("nil descriptor accepted")
	}
}

func TestRegisterInstallsUsabilityDefault(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	desc := &SolverDescriptor{ID: SolverScip}
	if err := reg.Register(desc); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if desc.Usable == nil {
		t.Fatalf("usability predicate not installed")
	}
	if !desc.Usable(StatusOptimal) || desc.Usable(StatusInfeasible) {
		t.Errorf("default usability predicate misbehaves")
	}
}

func TestSetOutputDirRules(t *testing.T) {
	reg := NewRegistry("")
	var dir string
	if err := reg.GetOutputDir(&dir); err != nil {
		t.Fatalf("GetOutputDir: %v", err)
	}
	if dir == "" {
		t.Fatalf("no default output directory")
	}

	if err := reg.SetOutputDir(""); err == nil {
		t.Errorf("empty output directory accepted")
	}
	if err := reg.SetOutputDir(t.TempDir()); err != nil {
		t.Errorf("SetOutputDir before scan rejected: %v", err)
	}

	if err := reg.Register(&SolverDescriptor{ID: SolverScip}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.SetOutputDir(t.TempDir()); err == nil {
		t.Errorf("output directory change accepted after descriptors exist")
	}
}

func TestSolversReturnsPriorityOrder(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	// Register in reverse priority order; Solvers must still list them in
	// the fixed priority order.
	for _, id := range []string{SolverLpSolve, SolverScip, SolverGurobi} {
		if err := reg.Register(&SolverDescriptor{ID: id}); err != nil {
			t.Fatalf("Register(%s): %v", id, err)
		}
	}
	ids := reg.Solvers()
	want := []string{SolverGurobi, SolverScip, SolverLpSolve}
	if len(ids) != len(want) {
		t.Fatalf("Solvers() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Solvers() = %v, want %v", ids, want)
		}
	}
	if best := reg.Best(); best != SolverGurobi {
		t.Errorf("Best() = %q, want %q", best, SolverGurobi)
	}
}
