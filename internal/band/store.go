// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package band

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Dataset names persisted to the band container. Conditional datasets are
// present only when the corresponding feature was enabled at construction.
const (
	dsPaths           = "paths"
	dsDistances       = "distances"
	dsNumsArms        = "nums_arms"
	dsPGSymbols       = "pg_symbols"
	dsNumsIrreps      = "nums_irreps"
	dsIRLabels        = "ir_labels"
	dsFrequencies     = "frequencies"
	dsPRWeights       = "pr_weights"
	dsGroupVelocities = "group_velocities"
	dsEigenvectors    = "eigenvectors_data"
)

const datasetFormatVersion = 1

// WriteDataset persists the band structure into a SQLite container at path,
// one named row per logical array plus a header with the cell metadata the
// text document needs. Existing content at path is replaced.
func (bs *BandStructure) WriteDataset(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening dataset container: %w", err)
	}
	defer db.Close()

	if err := createDatasetSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM datasets`); err != nil {
		return fmt.Errorf("clearing datasets: %w", err)
	}

	recipJSON, err := json.Marshal(bs.ReciprocalLattice)
	if err != nil {
		return fmt.Errorf("encoding reciprocal lattice: %w", err)
	}
	_, err = tx.Exec(
		`INSERT INTO header (id, format_version, natom, reciprocal_lattice)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			format_version=excluded.format_version, natom=excluded.natom,
			reciprocal_lattice=excluded.reciprocal_lattice`,
		datasetFormatVersion, bs.NumAtoms, string(recipJSON),
	)
	if err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	entries := []struct {
		name  string
		value any
	}{
		{dsPaths, bs.Paths},
		{dsDistances, collect(bs.Results, func(r PathResult) []float64 { return r.Distances })},
		{dsNumsArms, collect(bs.Results, func(r PathResult) []int { return r.NumArms })},
		{dsPGSymbols, fixedWidth(collect(bs.Results, func(r PathResult) string { return r.PointGroup }))},
		{dsNumsIrreps, collect(bs.Results, func(r PathResult) []int { return r.NumIrreps })},
		{dsIRLabels, fixedWidthNested(collect(bs.Results, func(r PathResult) [][]string { return r.IRLabels }))},
		{dsFrequencies, collect(bs.Results, func(r PathResult) [][]float64 { return r.Frequencies })},
		{dsPRWeights, collect(bs.Results, func(r PathResult) [][]float64 { return r.Weights })},
	}
	if bs.HasGroupVelocities {
		entries = append(entries, struct {
			name  string
			value any
		}{dsGroupVelocities, collect(bs.Results, func(r PathResult) [][][3]float64 { return r.GroupVelocities })})
	}
	if bs.HasEigenvectors {
		entries = append(entries, struct {
			name  string
			value any
		}{dsEigenvectors, encodeEigenvectors(bs.Results)})
	}

	stmt, err := tx.Prepare(`INSERT INTO datasets (name, data) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing dataset insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		data, err := json.Marshal(e.value)
		if err != nil {
			return fmt.Errorf("encoding dataset %s: %w", e.name, err)
		}
		if _, err := stmt.Exec(e.name, string(data)); err != nil {
			return fmt.Errorf("inserting dataset %s: %w", e.name, err)
		}
	}

	return tx.Commit()
}

func createDatasetSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS header (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			format_version INTEGER NOT NULL,
			natom INTEGER NOT NULL,
			reciprocal_lattice TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ReadDataset loads a band structure back from a container written by
// WriteDataset. Rotated partial weights are not persisted and stay empty.
func ReadDataset(path string) (*BandStructure, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset container: %w", err)
	}
	defer db.Close()

	bs := &BandStructure{}

	var version int
	var recipJSON string
	err = db.QueryRow(`SELECT format_version, natom, reciprocal_lattice FROM header WHERE id = 1`).
		Scan(&version, &bs.NumAtoms, &recipJSON)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if version != datasetFormatVersion {
		return nil, fmt.Errorf("unsupported dataset format version %d", version)
	}
	if err := json.Unmarshal([]byte(recipJSON), &bs.ReciprocalLattice); err != nil {
		return nil, fmt.Errorf("decoding reciprocal lattice: %w", err)
	}

	if err := readDataset(db, dsPaths, &bs.Paths); err != nil {
		return nil, err
	}
	bs.Results = make([]PathResult, len(bs.Paths))

	var (
		distances   [][]float64
		numsArms    [][]int
		pgSymbols   []string
		numsIrreps  [][]int
		irLabels    [][][]string
		frequencies [][][]float64
		prWeights   [][][]float64
	)
	for _, d := range []struct {
		name string
		dst  any
	}{
		{dsDistances, &distances},
		{dsNumsArms, &numsArms},
		{dsPGSymbols, &pgSymbols},
		{dsNumsIrreps, &numsIrreps},
		{dsIRLabels, &irLabels},
		{dsFrequencies, &frequencies},
		{dsPRWeights, &prWeights},
	} {
		if err := readDataset(db, d.name, d.dst); err != nil {
			return nil, err
		}
	}

	nPaths := len(bs.Paths)
	if len(distances) != nPaths || len(numsArms) != nPaths || len(pgSymbols) != nPaths ||
		len(numsIrreps) != nPaths || len(irLabels) != nPaths ||
		len(frequencies) != nPaths || len(prWeights) != nPaths {
		return nil, fmt.Errorf("dataset shapes do not match %d paths", nPaths)
	}

	// Special points are not stored separately: distances are cumulative,
	// so each path's terminal distance is the next boundary.
	bs.SpecialPoints = []float64{0}
	for i := range bs.Results {
		r := &bs.Results[i]
		r.Distances = distances[i]
		r.NumArms = numsArms[i]
		r.PointGroup = strings.TrimRight(pgSymbols[i], " ")
		r.NumIrreps = numsIrreps[i]
		r.IRLabels = trimNested(irLabels[i])
		r.Frequencies = frequencies[i]
		r.Weights = prWeights[i]
		if n := len(r.Distances); n > 0 {
			bs.SpecialPoints = append(bs.SpecialPoints, r.Distances[n-1])
		}
	}

	var gv [][][][3]float64
	ok, err := readOptionalDataset(db, dsGroupVelocities, &gv)
	if err != nil {
		return nil, err
	}
	if ok {
		bs.HasGroupVelocities = true
		for i := range bs.Results {
			bs.Results[i].GroupVelocities = gv[i]
		}
	}

	var ev [][][][][2]float64
	ok, err = readOptionalDataset(db, dsEigenvectors, &ev)
	if err != nil {
		return nil, err
	}
	if ok {
		bs.HasEigenvectors = true
		for i := range bs.Results {
			bs.Results[i].Eigenvectors = decodeEigenvectors(ev[i])
		}
	}

	return bs, nil
}

func readDataset(db *sql.DB, name string, dst any) error {
	ok, err := readOptionalDataset(db, name, dst)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("dataset %s missing from container", name)
	}
	return nil
}

func readOptionalDataset(db *sql.DB, name string, dst any) (bool, error) {
	var data string
	err := db.QueryRow(`SELECT data FROM datasets WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading dataset %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, fmt.Errorf("decoding dataset %s: %w", name, err)
	}
	return true, nil
}

// collect maps one field out of every path result.
func collect[T any](results []PathResult, f func(PathResult) T) []T {
	out := make([]T, len(results))
	for i, r := range results {
		out[i] = f(r)
	}
	return out
}

// fixedWidth space-pads every string to the longest byte width in the set,
// mirroring the fixed-width byte-string dataset encoding.
func fixedWidth(values []string) []string {
	w := 0
	for _, s := range values {
		if len(s) > w {
			w = len(s)
		}
	}
	out := make([]string, len(values))
	for i, s := range values {
		out[i] = s + strings.Repeat(" ", w-len(s))
	}
	return out
}

// fixedWidthNested pads every label in a per-path, per-point label set to
// one common width.
func fixedWidthNested(labels [][][]string) [][][]string {
	w := 0
	for _, path := range labels {
		for _, point := range path {
			for _, s := range point {
				if len(s) > w {
					w = len(s)
				}
			}
		}
	}
	out := make([][][]string, len(labels))
	for i, path := range labels {
		out[i] = make([][]string, len(path))
		for j, point := range path {
			out[i][j] = make([]string, len(point))
			for k, s := range point {
				out[i][j][k] = s + strings.Repeat(" ", w-len(s))
			}
		}
	}
	return out
}

func trimNested(labels [][]string) [][]string {
	out := make([][]string, len(labels))
	for i, point := range labels {
		out[i] = make([]string, len(point))
		for j, s := range point {
			out[i][j] = strings.TrimRight(s, " ")
		}
	}
	return out
}

// encodeEigenvectors flattens complex eigenvectors into [re, im] pairs for
// the JSON payload: per path, per point, per band, per degree of freedom.
func encodeEigenvectors(results []PathResult) [][][][][2]float64 {
	out := make([][][][][2]float64, len(results))
	for i, r := range results {
		out[i] = make([][][][2]float64, len(r.Eigenvectors))
		for j, point := range r.Eigenvectors {
			out[i][j] = make([][][2]float64, len(point))
			for k, bandVec := range point {
				pairs := make([][2]float64, len(bandVec))
				for l, c := range bandVec {
					pairs[l] = [2]float64{real(c), imag(c)}
				}
				out[i][j][k] = pairs
			}
		}
	}
	return out
}

func decodeEigenvectors(path [][][][2]float64) [][][]complex128 {
	out := make([][][]complex128, len(path))
	for j, point := range path {
		out[j] = make([][]complex128, len(point))
		for k, bandVec := range point {
			vec := make([]complex128, len(bandVec))
			for l, pair := range bandVec {
				vec[l] = complex(pair[0], pair[1])
			}
			out[j][k] = vec
		}
	}
	return out
}
