// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package band

import (
	"math"

	"github.com/pdiddy/unfold-engine/pkg/types"
)

// PathWalker accumulates reciprocal-space distance along concatenated
// q-point paths, in the Cartesian metric of the ideal primitive cell.
// The cumulative distance never resets: consecutive paths concatenate in
// distance space.
type PathWalker struct {
	recip    [3][3]float64
	last     types.QPoint
	distance float64
}

// NewPathWalker returns a walker over the given reciprocal basis (rows are
// reciprocal lattice vectors, see lattice.Cell.Reciprocal).
func NewPathWalker(recip [3][3]float64) *PathWalker {
	return &PathWalker{recip: recip}
}

// Reset rebases the walker on q without advancing the cumulative distance.
// Call it with the first point of each path to establish the baseline.
func (w *PathWalker) Reset(q types.QPoint) {
	w.last = q
}

// Advance adds the Cartesian norm of the step from the previous point to q
// and returns the new cumulative distance. Increments are non-negative, so
// the distance is monotonically non-decreasing.
func (w *PathWalker) Advance(q types.QPoint) float64 {
	var cart [3]float64
	for k := 0; k < 3; k++ {
		for j := 0; j < 3; j++ {
			cart[k] += (q[j] - w.last[j]) * w.recip[j][k]
		}
	}
	w.distance += math.Sqrt(cart[0]*cart[0] + cart[1]*cart[1] + cart[2]*cart[2])
	w.last = q
	return w.distance
}

// Distance returns the cumulative distance walked so far.
func (w *PathWalker) Distance() float64 {
	return w.distance
}
