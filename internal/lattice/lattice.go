// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lattice describes the ideal primitive cell used to map reduced
// q-point coordinates onto the Cartesian reciprocal metric.
package lattice

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/unfold-engine/pkg/types"
)

// Cell is the ideal primitive cell of the unfolded crystal. This is the
// primitive cell with respect to the unit cell, not the supercell and not
// the disordered cell. Lattice rows are the real-space basis vectors.
type Cell struct {
	Lattice  [3][3]float64
	NumAtoms int
}

// FromConfig builds a Cell from the configuration surface.
func FromConfig(cfg types.CellConfig) Cell {
	return Cell{Lattice: cfg.Lattice, NumAtoms: cfg.NumAtoms}
}

// Reciprocal returns the reciprocal basis vectors as rows: the inverse,
// transposed, of the real-space lattice. Row i is b_i with b_i · a_j = δ_ij,
// so a reduced q-point maps to Cartesian coordinates as Σ_j q_j b_j.
func (c Cell) Reciprocal() ([3][3]float64, error) {
	a := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.Set(i, j, c.Lattice[i][j])
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return [3][3]float64{}, fmt.Errorf("inverting real-space lattice: %w", err)
	}

	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = inv.At(j, i)
		}
	}
	return r, nil
}
