package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/unfold-engine/internal/lattice"
	"github.com/pdiddy/unfold-engine/pkg/types"
)

var identityRecip = [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func TestPathWalker_IdentityMetric(t *testing.T) {
	w := NewPathWalker(identityRecip)

	w.Reset(types.QPoint{0, 0, 0})
	assert.Equal(t, 0.0, w.Advance(types.QPoint{0, 0, 0}))
	assert.InDelta(t, 0.5, w.Advance(types.QPoint{0.5, 0, 0}), 1e-12)
}

func TestPathWalker_ResetDoesNotAdvance(t *testing.T) {
	w := NewPathWalker(identityRecip)

	w.Reset(types.QPoint{0, 0, 0})
	w.Advance(types.QPoint{0.5, 0, 0})

	// Rebasing on a far point must leave the distance untouched.
	w.Reset(types.QPoint{10, 10, 10})
	assert.InDelta(t, 0.5, w.Distance(), 1e-12)

	// The next advance measures from the new reference.
	assert.InDelta(t, 0.5, w.Advance(types.QPoint{10, 10, 10}), 1e-12)
}

func TestPathWalker_ConcatenatesPaths(t *testing.T) {
	w := NewPathWalker(identityRecip)

	w.Reset(types.QPoint{0, 0, 0})
	w.Advance(types.QPoint{0, 0, 0})
	w.Advance(types.QPoint{0.5, 0, 0})

	w.Reset(types.QPoint{0, 0, 0})
	w.Advance(types.QPoint{0, 0, 0})
	w.Advance(types.QPoint{0, 0.25, 0})

	assert.InDelta(t, 0.75, w.Distance(), 1e-12)
}

// The metric is induced by the inverse of the real-space lattice: doubling
// the lattice halves reciprocal distances.
func TestPathWalker_ReciprocalMetric(t *testing.T) {
	cell := lattice.Cell{Lattice: [3][3]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}}
	recip, err := cell.Reciprocal()
	require.NoError(t, err)

	w := NewPathWalker(recip)
	w.Reset(types.QPoint{0, 0, 0})
	assert.InDelta(t, 0.25, w.Advance(types.QPoint{0.5, 0, 0}), 1e-12)
}

func TestPathWalker_NonOrthogonalLattice(t *testing.T) {
	cell := lattice.Cell{Lattice: [3][3]float64{{1, 0, 0}, {1, 1, 0}, {0, 0, 1}}}
	recip, err := cell.Reciprocal()
	require.NoError(t, err)

	// b_0 = (1, -1, 0), so a step of (1, 0, 0) in reduced coordinates has
	// Cartesian length √2.
	w := NewPathWalker(recip)
	w.Reset(types.QPoint{0, 0, 0})
	assert.InDelta(t, 1.4142135623730951, w.Advance(types.QPoint{1, 0, 0}), 1e-12)
}
