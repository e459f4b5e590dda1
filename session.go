//==============================================================================
// session: One synchronous solve per call against the active solver
// 01   Initial version


// The session owns the full life of one solve: it validates and clamps the
// request, resolves the active solver, writes the model hand-off file,
// removes artifacts of any previous run, spawns the solver, and normalizes
// its output. Solve never returns an error and never panics; every failure
// is folded into the structured result.

package solver

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

//==============================================================================
// TOLERANCE DEFAULTS AND BOUNDS
//==============================================================================

const (
	defTimeoutSeconds = 30   // solver time limit when none is requested
	defIntTolerance   = 5e-7 // integrality tolerance when none is requested
	minIntTolerance   = 1e-9
	maxIntTolerance   = 0.1
	defMipGap         = 1e-4 // relative MIP gap when none is requested
	maxMipGap         = 0.5
)

//==============================================================================

// SolverSession performs synchronous solves against the solvers of one
// registry. The active solver is an explicit field of the session, so
// multiple sessions (against separate registries and output directories) can
// coexist without cross-talk.
type SolverSession struct {
	reg      *SolverRegistry // catalogue the session draws solvers from
	solverID string          // active solver, "" when none is installed
	nearZero float64         // near-zero threshold of the most recent call
}

//==============================================================================

// NewSession returns a session whose active solver is the best solver of the
// registry. A registry with an empty catalogue yields a session that returns
// a "no solver" result for every call.
func NewSession(reg *SolverRegistry) *SolverSession {
	return &SolverSession{
		reg:      reg,
		solverID: reg.Best(),
	}
}

//==============================================================================

// clampRequest applies the defaults and bounds of the per-call parameters:
// timeout defaults to 30 seconds, the integrality tolerance to 5e-7 clamped
// to [1e-9, 0.1], and the MIP gap to 1e-4 clamped to [0, 0.5]. The clamped
// tolerance doubles as the near-zero threshold of the normalizer.
func clampRequest(req *SolveRequest) {
	if req.TimeoutSeconds <= 0 {
		req.TimeoutSeconds = defTimeoutSeconds
	}

	if req.IntTolerance == 0 {
		req.IntTolerance = defIntTolerance
	} else if req.IntTolerance < minIntTolerance {
		req.IntTolerance = minIntTolerance
	} else if req.IntTolerance > maxIntTolerance {
		req.IntTolerance = maxIntTolerance
	}

	if req.MipGap == 0 {
		req.MipGap = defMipGap
	} else if req.MipGap < 0 {
		req.MipGap = 0
	} else if req.MipGap > maxMipGap {
		req.MipGap = maxMipGap
	}
}

//==============================================================================

// removeStaleArtifacts deletes the log, solution, and solver-model files a
// previous run may have left behind, so the parser can never read stale
// output as if it belonged to the current run.
func removeStaleArtifacts(desc *SolverDescriptor) {
	stale := []string{
		desc.FileSolverModel, desc.FileSoln, desc.FileSolnAlt, desc.FileLog,
	}

	for i := 0; i < len(stale); i++ {
		if stale[i] == "" {
			continue
		}
		if _, err := os.Stat(stale[i]); err == nil {
			if err = os.Remove(stale[i]); err != nil {
				log(pWARN, "WARNING: Failed to remove stale file '%s': %s\n",
					stale[i], err)
			}
		}
	}
}

//==============================================================================

// Solve submits one block of constraints to the active solver and returns
// the normalized result. The call blocks for the full duration of the
// external process. All failures, from configuration problems to malformed
// solver output, are folded into the result; Solve never returns an error.
func (s *SolverSession) Solve(req SolveRequest) *SolveResult {

	rslt := &SolveResult{
		Block: req.Block,
		Round: req.Round,
	}

	clampRequest(&req)
	s.nearZero = req.IntTolerance

	// Resolve the active solver. An override is honored only if that solver
	// was actually detected; otherwise the session default stands.
	id := s.solverID
	if req.SolverID != "" {
		if _, ok := s.reg.Descriptor(req.SolverID); ok {
			id = req.SolverID
		} else {
			log(pWARN, "WARNING: Solver '%s' not available; using '%s'.\n",
				req.SolverID, id)
		}
	}

	if id == "" {
		// Nothing is spawned and no files are written.
		rslt.Status = StatusNoSolver
		rslt.Error = statusText[StatusNoSolver]
		rslt.X = make([]float64, req.ColumnCount)
		return rslt
	}

	desc, _ := s.reg.Descriptor(id)
	adapter := s.reg.adapters[id]

	// Write the model text to the solver's designated input path. This file
	// is the textual hand-off contract with the model compiler.
	if err := os.WriteFile(desc.FileUserModel, []byte(req.ModelText), 0644); err != nil {
		log(pERR, "ERROR: Failed to write model file: %s\n", err)
		rslt.Status = StatusSpawnFailed
		rslt.Error = desc.StatusMessage(StatusSpawnFailed)
		rslt.Messages = []string{err.Error()}
		rslt.X = make([]float64, req.ColumnCount)
		return rslt
	}

	removeStaleArtifacts(desc)

	out := runProcess(adapter.buildInvocation(desc, &req))
	if out.spawnErr != nil {
		rslt.Status = StatusSpawnFailed
		rslt.Error = desc.StatusMessage(StatusSpawnFailed)
		rslt.Messages = []string{out.spawnErr.Error()}
		rslt.X = make([]float64, req.ColumnCount)
		rslt.SolverModel = req.ModelText
		return rslt
	}
	rslt.Seconds = out.elapsed

	vals := make(map[string]float64)
	adapter.parseOutput(desc, out, rslt, vals)

	rslt.X = denseVector(vals, req.ColumnCount, s.nearZero)

	// A status the usability predicate accepts still needs at least one
	// reported value, except for a proven optimum (an all-zero vector can
	// be optimal).
	rslt.Solution = desc.Usable(rslt.Status) &&
		(rslt.Status == StatusOptimal || len(vals) > 0)

	if rslt.Status != StatusOptimal && rslt.Error == "" {
		rslt.Error = desc.StatusMessage(rslt.Status)
	}

	// Echo the model as the solver rewrote it, for audit. Solvers that do
	// not rewrite the model echo the submitted text unchanged.
	rslt.SolverModel = readTextFile(desc.FileSolverModel)
	if rslt.SolverModel == "" {
		rslt.SolverModel = req.ModelText
	}

	if req.Diagnose {
		if dir, err := snapshotArtifacts(s.reg.outDir, desc); err != nil {
			log(pWARN, "WARNING: %s\n", err)
		} else {
			rslt.Messages = append(rslt.Messages,
				"Diagnostic snapshot saved in "+dir)
		}
	}

	return rslt
}

//==============================================================================

// snapshotArtifacts copies the artifacts of the run just completed into a
// uniquely named subdirectory of the output directory, so they survive the
// next run's stale-file cleanup. It returns the snapshot directory.
// In case of failure, function returns an error.
func snapshotArtifacts(outDir string, desc *SolverDescriptor) (string, error) {
	dir := filepath.Join(outDir, "diag-"+uuid.NewString())

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "Failed to create the snapshot directory")
	}

	artifacts := []string{
		desc.FileUserModel, desc.FileSolverModel,
		desc.FileSoln, desc.FileSolnAlt, desc.FileLog,
	}
	for i := 0; i < len(artifacts); i++ {
		if artifacts[i] == "" {
			continue
		}
		if _, err := os.Stat(artifacts[i]); err != nil {
			continue
		}
		dest := filepath.Join(dir, filepath.Base(artifacts[i]))
		if err := copyFile(artifacts[i], dest); err != nil {
			return "", errors.Wrap(err, "Failed to copy a snapshot artifact")
		}
	}

	return dir, nil
}

//==============================================================================

// copyFile copies one file. In case of failure, function returns an error.
func copyFile(src string, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "Unable to open source file")
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "Unable to create destination file")
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return errors.Wrap(err, "Unable to copy file content")
	}

	return nil
}

//============================ END OF FILE =====================================
