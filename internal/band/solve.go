// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package band

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pdiddy/unfold-engine/pkg/types"
)

// ErrNACUnsupported is returned when the dynamical matrix has a
// non-analytic correction enabled. NAC is not implemented for unfolding;
// the whole construction aborts.
var ErrNACUnsupported = errors.New("non-analytic correction is not implemented for unfolding")

// DynamicalMatrix exposes the supercell dynamical-matrix state the engine
// inspects. Diagonalization itself belongs to the eigenstate solver.
type DynamicalMatrix interface {
	// IsNAC reports whether a non-analytic correction is enabled.
	IsNAC() bool
}

// Eigenstates holds one q-point's unfolded eigenstate data as returned by
// the solver. The metadata fields (PointGroup, NumArms, NumIrreps,
// IRLabels) are carried through without further validation.
type Eigenstates struct {
	// Eigenvalues of the dynamical matrix, one per band, arbitrary sign.
	Eigenvalues []float64

	// Eigenvectors has one row per band, each of length
	// degrees-of-freedom (3 × atoms).
	Eigenvectors [][]complex128

	// Weights are the unfolded atom-resolved partial weights, one per band.
	Weights []float64

	// RotWeights resolve the weights per irreducible representation; each
	// row has at least NumIrreps meaningful columns.
	RotWeights [][]float64

	// PointGroup is the point-group symbol of the q-point.
	PointGroup string

	// NumArms is the number of symmetry-equivalent arms in the q-point star.
	NumArms int

	// NumIrreps is the number of irreducible representations present.
	NumIrreps int

	// IRLabels name the representations; len(IRLabels) == NumIrreps.
	IRLabels []string
}

// EigenstateSolver diagonalizes the dynamical matrix at a q-point and
// unfolds the eigenstates onto the ideal primitive cell.
type EigenstateSolver interface {
	ExtractEigenstates(q types.QPoint) (Eigenstates, error)
}

// DensityExtractor converts per-point spectral weights into density curves.
// Calculate and Print form one logical operation: Print appends the most
// recently calculated density as one line to an open stream.
type DensityExtractor interface {
	// Calculate prepares the density for one q-point. weights has one row
	// per band; eigenvectors may be nil.
	Calculate(distance float64, narms int, frequencies []float64, weights [][]float64, eigenvectors [][]complex128)

	// Print appends the prepared density to w.
	Print(w io.Writer) error
}

// GroupVelocityCalculator computes group velocities for a whole path in one
// batch call, one 3-vector per band per point, indexed by point position.
type GroupVelocityCalculator interface {
	Calculate(path types.Path) ([][][3]float64, error)
}

// pointSolver handles one q-point at a time: eigenstate extraction,
// frequency conversion, and the two spectral-density side writes.
type pointSolver struct {
	matrix  DynamicalMatrix
	solver  EigenstateSolver
	density DensityExtractor
	factor  float64
}

// pointResult carries everything one q-point contributes to its path.
type pointResult struct {
	frequencies  []float64
	weights      []float64
	rotWeights   [][]float64
	eigenvectors [][]complex128
	pointGroup   string
	numArms      int
	numIrreps    int
	irLabels     []string
}

// solve extracts the eigenstates at q, converts eigenvalues to frequencies,
// and appends one line to each of the atoms and irreps spectral streams,
// keyed by the cumulative distance.
func (ps *pointSolver) solve(q types.QPoint, distance float64, atoms, irreps io.Writer) (pointResult, error) {
	if ps.matrix.IsNAC() {
		return pointResult{}, ErrNACUnsupported
	}

	st, err := ps.solver.ExtractEigenstates(q)
	if err != nil {
		return pointResult{}, fmt.Errorf("extracting eigenstates at %v: %w", q, err)
	}

	freqs := frequencies(st.Eigenvalues, ps.factor)

	// Atom-resolved spectral density, with one weight column per band.
	ps.density.Calculate(distance, st.NumArms, freqs, columnize(st.Weights), st.Eigenvectors)
	if err := ps.density.Print(atoms); err != nil {
		return pointResult{}, fmt.Errorf("writing atom spectral density: %w", err)
	}

	// Representation-resolved density, sliced to the meaningful columns.
	ps.density.Calculate(distance, st.NumArms, freqs, sliceColumns(st.RotWeights, st.NumIrreps), nil)
	if err := ps.density.Print(irreps); err != nil {
		return pointResult{}, fmt.Errorf("writing irrep spectral density: %w", err)
	}

	return pointResult{
		frequencies:  freqs,
		weights:      st.Weights,
		rotWeights:   st.RotWeights,
		eigenvectors: st.Eigenvectors,
		pointGroup:   st.PointGroup,
		numArms:      st.NumArms,
		numIrreps:    st.NumIrreps,
		irLabels:     st.IRLabels,
	}, nil
}

// frequencies converts eigenvalues with the sign-preserving square root:
// frequency = sign(λ) · factor · √|λ|, so negative eigenvalues map to
// negative (imaginary-mode) frequencies.
func frequencies(eigenvalues []float64, factor float64) []float64 {
	out := make([]float64, len(eigenvalues))
	for i, v := range eigenvalues {
		out[i] = math.Copysign(math.Sqrt(math.Abs(v)), v) * factor
	}
	return out
}

// columnize lifts per-band scalar weights into one single-column row per
// band, the shape DensityExtractor consumes.
func columnize(weights []float64) [][]float64 {
	cols := make([][]float64, len(weights))
	for i, w := range weights {
		cols[i] = []float64{w}
	}
	return cols
}

// sliceColumns narrows every row to its first n columns.
func sliceColumns(rows [][]float64, n int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = r[:n]
	}
	return out
}
