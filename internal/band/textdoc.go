// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package band

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WriteYAML writes the human-readable band-structure document. The layout
// and field widths are a contract: downstream tools parse the document
// positionally, so none of this goes through a YAML marshaller.
func (bs *BandStructure) WriteYAML(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "nqpoint: %-7d\n", bs.NumQPoints())
	fmt.Fprintf(bw, "npath: %-7d\n", len(bs.Paths))
	fmt.Fprintf(bw, "natom: %-7d\n", bs.NumAtoms)
	fmt.Fprintf(bw, "reciprocal_lattice:\n")
	for i, axis := range [3]string{"a*", "b*", "c*"} {
		v := bs.ReciprocalLattice[i]
		fmt.Fprintf(bw, "- [ %12.8f, %12.8f, %12.8f ] # %2s\n", v[0], v[1], v[2], axis)
	}
	fmt.Fprintf(bw, "phonon:\n")

	for pi, path := range bs.Paths {
		res := bs.Results[pi]
		for j, q := range path {
			fmt.Fprintf(bw, "- q-position: [ %12.7f, %12.7f, %12.7f ]\n", q[0], q[1], q[2])
			fmt.Fprintf(bw, "  distance: %12.7f\n", res.Distances[j])
			fmt.Fprintf(bw, "  band:\n")

			for k, freq := range res.Frequencies[j] {
				fmt.Fprintf(bw, "  - # %d\n", k+1)
				fmt.Fprintf(bw, "    frequency: %15.10f\n", freq)
				fmt.Fprintf(bw, "    weight:    %15.10f\n", res.Weights[j][k])

				if bs.HasGroupVelocities {
					gv := res.GroupVelocities[j][k]
					fmt.Fprintf(bw, "    group_velocity: [ %13.7f, %13.7f, %13.7f ]\n", gv[0], gv[1], gv[2])
				}

				if bs.HasEigenvectors {
					ev := res.Eigenvectors[j][k]
					fmt.Fprintf(bw, "    eigenvector:\n")
					for l := 0; l < bs.NumAtoms; l++ {
						fmt.Fprintf(bw, "    - # atom %d\n", l+1)
						for m := 0; m < 3; m++ {
							c := ev[l*3+m]
							fmt.Fprintf(bw, "      - [ %17.14f, %17.14f ]\n", real(c), imag(c))
						}
					}
				}
			}

			// Exactly one blank line terminates each q-point block.
			fmt.Fprintf(bw, "\n")
		}
	}

	return bw.Flush()
}

// WriteYAMLFile writes the band document to path.
func (bs *BandStructure) WriteYAMLFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating band document: %w", err)
	}
	if err := bs.WriteYAML(f); err != nil {
		f.Close()
		return fmt.Errorf("writing band document: %w", err)
	}
	return f.Close()
}
