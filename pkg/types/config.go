package types

// BandConfig holds the recognized options for one band-structure
// construction.
type BandConfig struct {
	// Paths is the set of q-point paths to traverse, in reduced
	// coordinates of the ideal primitive cell.
	Paths []Path `json:"paths" yaml:"paths"`

	// WithEigenvectors retains the per-point eigenvector matrices in the
	// result and its persisted forms.
	WithEigenvectors bool `json:"with_eigenvectors" yaml:"with_eigenvectors"`

	// BandConnection orders bands by continuity across points. Connection
	// needs the eigenvectors, so enabling it forces WithEigenvectors.
	BandConnection bool `json:"band_connection" yaml:"band_connection"`

	// Factor converts dynamical-matrix eigenvalue units to frequency
	// units. Zero means DefaultFrequencyFactor (VASP to THz).
	Factor float64 `json:"factor" yaml:"factor"`

	// Star selects the symmetry star used during extraction (default
	// StarNone).
	Star StarMode `json:"star" yaml:"star"`

	// Mode selects the eigenstate extraction mode (default
	// ModeEigenvector).
	Mode ExtractionMode `json:"mode" yaml:"mode"`

	// Verbose enables per-path progress output.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// Normalized returns a copy of the config with defaults applied and the
// band-connection implication resolved.
func (c BandConfig) Normalized() BandConfig {
	if c.Factor == 0 {
		c.Factor = DefaultFrequencyFactor
	}
	if c.Star == "" {
		c.Star = StarNone
	}
	if c.Mode == "" {
		c.Mode = ModeEigenvector
	}
	if c.BandConnection {
		c.WithEigenvectors = true
	}
	return c
}

// CellConfig describes the ideal primitive cell the unfolded weights are
// resolved onto.
type CellConfig struct {
	// Lattice holds the real-space basis vectors as rows.
	Lattice [3][3]float64 `json:"lattice" yaml:"lattice"`

	// NumAtoms is the number of atoms in the primitive cell.
	NumAtoms int `json:"natom" yaml:"natom"`
}
