package band

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/unfold-engine/pkg/types"
)

func minimalStructure() *BandStructure {
	return &BandStructure{
		Paths: []types.Path{{{0, 0, 0}}},
		Results: []PathResult{{
			Distances:   []float64{0},
			Frequencies: [][]float64{{1, 2}},
			Weights:     [][]float64{{0.5, 0.25}},
			NumArms:     []int{1},
			NumIrreps:   []int{2},
			IRLabels:    [][]string{{"A1", "E"}},
			PointGroup:  "m-3m",
		}},
		SpecialPoints:     []float64{0, 0},
		NumAtoms:          1,
		ReciprocalLattice: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
}

// Single path, single point, two bands, no optional features: the exact
// document, field widths included, is the contract.
func TestWriteYAML_MinimalDocument(t *testing.T) {
	bs := minimalStructure()

	var sb strings.Builder
	require.NoError(t, bs.WriteYAML(&sb))

	want := "" +
		"nqpoint: 1      \n" +
		"npath: 1      \n" +
		"natom: 1      \n" +
		"reciprocal_lattice:\n" +
		"- [   1.00000000,   0.00000000,   0.00000000 ] # a*\n" +
		"- [   0.00000000,   1.00000000,   0.00000000 ] # b*\n" +
		"- [   0.00000000,   0.00000000,   1.00000000 ] # c*\n" +
		"phonon:\n" +
		"- q-position: [    0.0000000,    0.0000000,    0.0000000 ]\n" +
		"  distance:    0.0000000\n" +
		"  band:\n" +
		"  - # 1\n" +
		"    frequency:    1.0000000000\n" +
		"    weight:       0.5000000000\n" +
		"  - # 2\n" +
		"    frequency:    2.0000000000\n" +
		"    weight:       0.2500000000\n" +
		"\n"

	assert.Equal(t, want, sb.String())
}

func TestWriteYAML_OptionalBlocks(t *testing.T) {
	bs := minimalStructure()
	bs.HasGroupVelocities = true
	bs.HasEigenvectors = true
	bs.Results[0].GroupVelocities = [][][3]float64{{
		{1.5, -2, 0.25},
		{0, 0, 0},
	}}
	bs.Results[0].Eigenvectors = [][][]complex128{{
		{complex(0.5, 0.25), 0, 0},
		{0, complex(0, -1), 0},
	}}

	var sb strings.Builder
	require.NoError(t, bs.WriteYAML(&sb))
	doc := sb.String()

	assert.Contains(t, doc,
		"    group_velocity: [     1.5000000,    -2.0000000,     0.2500000 ]\n")
	assert.Contains(t, doc, "    eigenvector:\n    - # atom 1\n")
	assert.Contains(t, doc, "      - [  0.50000000000000,  0.25000000000000 ]\n")
	assert.Contains(t, doc, "      - [  0.00000000000000, -1.00000000000000 ]\n")
}

func TestWriteYAML_BlankLineSeparatesBlocks(t *testing.T) {
	b, _, _ := testBuilder(t, types.BandConfig{Paths: twoPaths()})
	bs, err := b.Run()
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, bs.WriteYAML(&sb))
	doc := sb.String()

	// One block per q-point, each terminated by a blank line, in
	// path-then-point order.
	assert.Equal(t, bs.NumQPoints(), strings.Count(doc, "- q-position:"))
	assert.Equal(t, bs.NumQPoints(), strings.Count(doc, "\n\n"))
	assert.True(t, strings.HasSuffix(doc, "\n\n"))
}
