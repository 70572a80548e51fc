// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package band computes phonon band structures for unfolded (structurally
// disordered supercell) crystals: path traversal with cumulative
// reciprocal-space distance, per-point eigenstate solving through
// collaborator interfaces, ragged per-path accumulation, two streaming
// spectral-density side channels, and two persisted result formats.
package band

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/unfold-engine/internal/lattice"
	"github.com/pdiddy/unfold-engine/pkg/types"
)

// File names of the two spectral-density side channels. Downstream plotting
// tools read these by name.
const (
	AtomsStreamFile  = "spectral_functions_atoms.dat"
	IrrepsStreamFile = "spectral_functions_irs.dat"
)

// PathResult holds the accumulated per-point quantities of one path. Every
// slice has one entry per path point; within one path every point has the
// same band count, so each container is rectangular even though paths of
// different lengths make the whole structure ragged.
type PathResult struct {
	// Distances holds the cumulative reciprocal-space distance at each
	// point. Monotonically non-decreasing.
	Distances []float64

	// Frequencies, Weights: one row per point, one column per band.
	Frequencies [][]float64
	Weights     [][]float64

	// RotWeights resolve the weights per irreducible representation; per
	// point, per band, at least NumIrreps[point] meaningful columns.
	RotWeights [][][]float64

	// NumArms is the symmetry-arm count per point.
	NumArms []int

	// NumIrreps is the irreducible-representation count per point, at
	// most the band count.
	NumIrreps []int

	// IRLabels names the representations per point;
	// len(IRLabels[i]) == NumIrreps[i].
	IRLabels [][]string

	// PointGroup is the symbol reported for the path. Every point reports
	// one; the last point's value is the one retained.
	PointGroup string

	// Eigenvectors is per point, per band, per degree of freedom. Empty
	// unless eigenvector retention is enabled.
	Eigenvectors [][][]complex128

	// GroupVelocities is per point, per band. Empty unless a
	// group-velocity calculator is configured.
	GroupVelocities [][][3]float64
}

// BandStructure is the finalized result of one construction. It is
// immutable once Run returns.
type BandStructure struct {
	Paths   []types.Path
	Results []PathResult

	// SpecialPoints holds the cumulative distance at each path boundary:
	// len(SpecialPoints) == len(Paths)+1 and SpecialPoints[0] == 0.
	SpecialPoints []float64

	// NumAtoms and ReciprocalLattice describe the ideal primitive cell;
	// the text document and the dataset header carry them.
	NumAtoms          int
	ReciprocalLattice [3][3]float64

	HasEigenvectors    bool
	HasGroupVelocities bool
}

// NumBands returns the band count, which is fixed across all points and
// paths of one construction. Zero for an empty structure.
func (bs *BandStructure) NumBands() int {
	if len(bs.Results) == 0 || len(bs.Results[0].Frequencies) == 0 {
		return 0
	}
	return len(bs.Results[0].Frequencies[0])
}

// NumQPoints returns the total number of q-points over all paths.
func (bs *BandStructure) NumQPoints() int {
	n := 0
	for _, p := range bs.Paths {
		n += len(p)
	}
	return n
}

// Builder wires the collaborators and options of one band-structure
// construction.
type Builder struct {
	// Cell is the ideal primitive cell (not the supercell, not the
	// disordered cell); its lattice induces the distance metric.
	Cell lattice.Cell

	// Matrix is the supercell dynamical matrix.
	Matrix DynamicalMatrix

	// Solver extracts and unfolds eigenstates at each q-point.
	Solver EigenstateSolver

	// Density computes the two per-point spectral-density lines.
	Density DensityExtractor

	// GroupVelocity is optional; when nil no group velocities are
	// collected.
	GroupVelocity GroupVelocityCalculator

	Config types.BandConfig

	// OutDir receives the two spectral-density stream files. Empty means
	// the current directory.
	OutDir string

	// Progress receives per-path progress lines when Config.Verbose is
	// set. May be nil.
	Progress io.Writer
}

// Run traverses every configured path in order and returns the finalized
// band structure. The construction is one-shot and single-threaded: the
// distance accumulator and the two spectral streams span all paths, so a
// Builder must not be reused or run concurrently.
//
// If the dynamical matrix has NAC enabled, Run fails with
// ErrNACUnsupported before any point is solved and before any output file
// is created.
func (b *Builder) Run() (*BandStructure, error) {
	cfg := b.Config.Normalized()

	paths := cfg.Paths
	if len(paths) == 0 {
		return nil, errors.New("no q-point paths configured")
	}
	for i, p := range paths {
		if len(p) == 0 {
			return nil, fmt.Errorf("path %d is empty", i+1)
		}
	}

	if b.Matrix.IsNAC() {
		return nil, ErrNACUnsupported
	}

	recip, err := b.Cell.Reciprocal()
	if err != nil {
		return nil, fmt.Errorf("reciprocal lattice: %w", err)
	}
	walker := NewPathWalker(recip)

	dir := b.OutDir
	if dir == "" {
		dir = "."
	}
	atoms, err := os.Create(filepath.Join(dir, AtomsStreamFile))
	if err != nil {
		return nil, fmt.Errorf("creating atom spectral stream: %w", err)
	}
	defer atoms.Close()

	irreps, err := os.Create(filepath.Join(dir, IrrepsStreamFile))
	if err != nil {
		return nil, fmt.Errorf("creating irrep spectral stream: %w", err)
	}
	defer irreps.Close()

	ps := &pointSolver{
		matrix:  b.Matrix,
		solver:  b.Solver,
		density: b.Density,
		factor:  cfg.Factor,
	}

	bs := &BandStructure{
		Paths:              paths,
		SpecialPoints:      []float64{0},
		NumAtoms:           b.Cell.NumAtoms,
		ReciprocalLattice:  recip,
		HasEigenvectors:    cfg.WithEigenvectors,
		HasGroupVelocities: b.GroupVelocity != nil,
	}

	for i, path := range paths {
		if cfg.Verbose && b.Progress != nil {
			fmt.Fprintf(b.Progress, "path %d/%d: %d q-points\n", i+1, len(paths), len(path))
		}

		pr, err := b.solvePath(path, walker, ps, atoms, irreps, cfg)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i+1, err)
		}

		bs.Results = append(bs.Results, pr)
		bs.SpecialPoints = append(bs.SpecialPoints, walker.Distance())
	}

	return bs, nil
}

// solvePath traverses one path point by point, accumulating every returned
// quantity in point order.
func (b *Builder) solvePath(path types.Path, walker *PathWalker, ps *pointSolver, atoms, irreps io.Writer, cfg types.BandConfig) (PathResult, error) {
	// Group velocities are computed for the whole path in one batch and
	// matched to points by position afterwards. The collaborator must
	// return them in path order; the length check below is the only
	// alignment guarantee we can enforce.
	var gv [][][3]float64
	if b.GroupVelocity != nil {
		var err error
		gv, err = b.GroupVelocity.Calculate(path)
		if err != nil {
			return PathResult{}, fmt.Errorf("group velocities: %w", err)
		}
		if len(gv) != len(path) {
			return PathResult{}, fmt.Errorf("group velocities: got %d entries for %d q-points", len(gv), len(path))
		}
	}

	walker.Reset(path[0])

	var pr PathResult
	for i, q := range path {
		d := walker.Advance(q)

		res, err := ps.solve(q, d, atoms, irreps)
		if err != nil {
			return PathResult{}, fmt.Errorf("q-point %d %v: %w", i+1, q, err)
		}

		pr.Distances = append(pr.Distances, d)
		pr.Frequencies = append(pr.Frequencies, res.frequencies)
		pr.Weights = append(pr.Weights, res.weights)
		pr.RotWeights = append(pr.RotWeights, res.rotWeights)
		pr.NumArms = append(pr.NumArms, res.numArms)
		pr.NumIrreps = append(pr.NumIrreps, res.numIrreps)
		pr.IRLabels = append(pr.IRLabels, res.irLabels)
		pr.PointGroup = res.pointGroup

		if cfg.WithEigenvectors {
			pr.Eigenvectors = append(pr.Eigenvectors, res.eigenvectors)
		}
		if gv != nil {
			pr.GroupVelocities = append(pr.GroupVelocities, gv[i])
		}
	}

	return pr, nil
}
