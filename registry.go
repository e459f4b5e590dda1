//==============================================================================
// registry: Detection and cataloguing of installed solvers
// 01   Initial version


// The registry scans the environment once at startup, builds the catalogue
// of detected solvers, and selects the default solver by a fixed priority
// order. A solver that is not found is omitted from the catalogue; an empty
// catalogue is valid and later yields a dedicated "no solver" result.

package solver

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

//==============================================================================

// SolverRegistry holds the catalogue of detected solvers and the output
// directory under which all solver artifacts are written. One registry per
// set of artifact paths; callers wanting concurrent solves must use separate
// registries with separate output directories.
type SolverRegistry struct {
	outDir    string                       // directory for all solver artifacts
	preferred string                       // solver preferred by configuration, "" for none
	solvers   map[string]*SolverDescriptor // catalogue of detected solvers
	adapters  map[string]solverAdapter     // per-solver behavior implementations
}

//==============================================================================

// NewRegistry returns a registry whose solver artifacts will live in the
// given output directory. The catalogue is empty until Scan is called.
func NewRegistry(outDir string) *SolverRegistry {
	if outDir == "" {
		outDir = "solver_output"
	}

	return &SolverRegistry{
		outDir:   outDir,
		solvers:  make(map[string]*SolverDescriptor),
		adapters: adapterCatalogue(),
	}
}

//==============================================================================

// SetOutputDir changes the directory under which solver artifacts are
// written. It must be called before Scan, since descriptors record absolute
// artifact paths at detection time. In case of failure, function returns an
// error.
func (r *SolverRegistry) SetOutputDir(outDir string) error {
	if outDir == "" {
		return errors.New("Output directory may not be empty")
	}
	if len(r.solvers) > 0 {
		return errors.New("Output directory may not change after a scan")
	}
	r.outDir = outDir

	return nil
}

//==============================================================================

// GetOutputDir passes the current output directory back to the caller via
// the argument list. In case of failure, function returns an error.
func (r *SolverRegistry) GetOutputDir(outDir *string) error {
	if outDir == nil {
		return errors.New("GetOutputDir received a nil argument")
	}
	*outDir = r.outDir

	return nil
}

//==============================================================================

// scanDirs returns the directories inspected during a scan: every PATH
// entry followed by the extra directories named by the SOLVER_PATH
// environment variable. Solver-specific fallback locations (the Gurobi
// installation roots, the LP_solve working-directory convention) are handled
// by the individual adapters.
func scanDirs() []string {
	dirs := filepath.SplitList(os.Getenv("PATH"))

	return append(dirs, extraPathDirs()...)
}

//==============================================================================

// Scan inspects the environment for installed solver executables and
// rebuilds the catalogue. A solver that is not found or not executable is
// logged and omitted; detection failures are never fatal. The output
// directory is created if it does not yet exist.
// In case of failure, function returns an error.
func (r *SolverRegistry) Scan() error {

	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return errors.Wrap(err, "Scan failed to create the output directory")
	}

	absDir, err := filepath.Abs(r.outDir)
	if err != nil {
		return errors.Wrap(err, "Scan failed to resolve the output directory")
	}

	dirs := scanDirs()
	r.solvers = make(map[string]*SolverDescriptor)

	for i := 0; i < len(solverPriority); i++ {
		id := solverPriority[i]
		adapter := r.adapters[id]

		desc, found := adapter.detect(dirs, absDir)
		if !found {
			log(pINFO, "Solver %s not detected.\n", id)
			continue
		}

		if desc.Usable == nil {
			desc.Usable = defaultUsable
		}
		r.solvers[id] = desc
		log(pINFO, "Detected solver %s at '%s'.\n", desc.Name, desc.ExePath)
	}

	if len(r.solvers) == 0 {
		log(pWARN, "WARNING: No MILP solver detected.\n")
	}

	return nil
}

//==============================================================================

// Register adds a descriptor to the catalogue without scanning, e.g. for a
// solver installed in an unconventional location. The descriptor identifier
// must be one of the supported solvers, since it selects the adapter used
// for invocation and parsing. In case of failure, function returns an error.
func (r *SolverRegistry) Register(desc *SolverDescriptor) error {
	if desc == nil {
		return errors.New("Register received a nil descriptor")
	}
	if _, ok := r.adapters[desc.ID]; !ok {
		return errors.Errorf("Solver '%s' is not supported", desc.ID)
	}

	if desc.Usable == nil {
		desc.Usable = defaultUsable
	}
	r.solvers[desc.ID] = desc

	return nil
}

//==============================================================================

// Solvers returns the identifiers of all detected solvers in priority order.
func (r *SolverRegistry) Solvers() []string {
	var ids []string

	for i := 0; i < len(solverPriority); i++ {
		if _, ok := r.solvers[solverPriority[i]]; ok {
			ids = append(ids, solverPriority[i])
		}
	}

	return ids
}

//==============================================================================

// Descriptor passes the descriptor of the solver with the given identifier
// back to the caller. The second return value reports whether the solver is
// in the catalogue.
func (r *SolverRegistry) Descriptor(id string) (*SolverDescriptor, bool) {
	desc, ok := r.solvers[id]

	return desc, ok
}

//==============================================================================

// SetPreferred records the solver the configuration prefers over the
// computed default. The preference only takes effect if that solver was
// actually detected; otherwise Best logs a warning and falls back to the
// priority order.
func (r *SolverRegistry) SetPreferred(id string) {
	r.preferred = id
}

//==============================================================================

// Best returns the identifier of the solver to use by default: the preferred
// solver if it was detected, else the first detected solver in the fixed
// priority order, else the empty string when the catalogue is empty.
func (r *SolverRegistry) Best() string {
	if r.preferred != "" {
		if _, ok := r.solvers[r.preferred]; ok {
			return r.preferred
		}
		log(pWARN, "WARNING: Preferred solver '%s' not detected; using default.\n",
			r.preferred)
	}

	for i := 0; i < len(solverPriority); i++ {
		if _, ok := r.solvers[solverPriority[i]]; ok {
			return solverPriority[i]
		}
	}

	return ""
}

//============================ END OF FILE =====================================
