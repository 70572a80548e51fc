package types

// QPoint is a point in reciprocal space, expressed in reduced coordinates
// of the ideal primitive cell.
type QPoint [3]float64

// Path is an ordered sequence of q-points traversed as one band-structure
// segment. A Path is immutable once constructed.
type Path []QPoint

// DefaultFrequencyFactor converts VASP eigenvalue units to THz.
const DefaultFrequencyFactor = 15.633302

// StarMode selects which symmetry star of a q-point is used during
// eigenstate extraction.
type StarMode string

const (
	StarNone StarMode = "none"
	StarSym  StarMode = "sym"
	StarAll  StarMode = "all"
)

// ExtractionMode selects how eigenstates are extracted and unfolded.
type ExtractionMode string

const (
	ModeEigenvector ExtractionMode = "eigenvector"
	ModeEigenvalue  ExtractionMode = "eigenvalue"
)
