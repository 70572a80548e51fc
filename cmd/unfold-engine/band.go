// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/unfold-engine/internal/band"
	"github.com/pdiddy/unfold-engine/internal/lattice"
	"github.com/pdiddy/unfold-engine/pkg/types"
)

var bandCmd = &cobra.Command{
	Use:   "band",
	Short: "Preview q-point paths and work with band-structure containers",
	Long: `Band previews the configured q-point paths and inspects or converts
persisted band-structure dataset containers (band.db).`,
}

// bandFile mirrors the band and cell sections of the configuration file.
type bandFile struct {
	Band types.BandConfig `yaml:"band"`
	Cell types.CellConfig `yaml:"cell"`
}

func loadBandFile(cmd *cobra.Command) (bandFile, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		path = viper.ConfigFileUsed()
	}
	if path == "" {
		path = "unfold-engine.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return bandFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var f bandFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return bandFile{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// --- paths subcommand ---

var bandPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Preview cumulative distances along the configured q-point paths",
	Long: `Paths walks the configured q-point paths with the reciprocal metric of
the ideal primitive cell and prints the cumulative distance at every point
plus the special-point distances at the path boundaries. No eigenstates are
solved.`,
	RunE: runBandPaths,
}

func runBandPaths(cmd *cobra.Command, args []string) error {
	f, err := loadBandFile(cmd)
	if err != nil {
		return err
	}
	cfg := f.Band.Normalized()
	if len(cfg.Paths) == 0 {
		return fmt.Errorf("no q-point paths configured")
	}

	cell := lattice.FromConfig(f.Cell)
	recip, err := cell.Reciprocal()
	if err != nil {
		return err
	}
	walker := band.NewPathWalker(recip)

	specials := []float64{0}
	for i, path := range cfg.Paths {
		if len(path) == 0 {
			return fmt.Errorf("path %d is empty", i+1)
		}
		fmt.Fprintf(os.Stdout, "path %d: %d q-points\n", i+1, len(path))
		walker.Reset(path[0])
		for _, q := range path {
			d := walker.Advance(q)
			fmt.Fprintf(os.Stdout, "  [ %10.7f, %10.7f, %10.7f ]  distance %12.7f\n",
				q[0], q[1], q[2], d)
		}
		specials = append(specials, walker.Distance())
	}

	fmt.Fprintf(os.Stdout, "\nspecial points:")
	for _, s := range specials {
		fmt.Fprintf(os.Stdout, " %12.7f", s)
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

// --- inspect subcommand ---

var bandInspectCmd = &cobra.Command{
	Use:   "inspect <band.db>",
	Short: "Summarize a band-structure dataset container",
	Args:  cobra.ExactArgs(1),
	RunE:  runBandInspect,
}

func runBandInspect(cmd *cobra.Command, args []string) error {
	bs, err := band.ReadDataset(args[0])
	if err != nil {
		return err
	}

	yesno := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	fmt.Fprintf(os.Stdout, "q-points:         %d\n", bs.NumQPoints())
	fmt.Fprintf(os.Stdout, "paths:            %d\n", len(bs.Paths))
	fmt.Fprintf(os.Stdout, "atoms:            %d\n", bs.NumAtoms)
	fmt.Fprintf(os.Stdout, "bands:            %d\n", bs.NumBands())
	fmt.Fprintf(os.Stdout, "eigenvectors:     %s\n", yesno(bs.HasEigenvectors))
	fmt.Fprintf(os.Stdout, "group velocities: %s\n", yesno(bs.HasGroupVelocities))

	fmt.Fprintf(os.Stdout, "special points:  ")
	for _, s := range bs.SpecialPoints {
		fmt.Fprintf(os.Stdout, " %12.7f", s)
	}
	fmt.Fprintln(os.Stdout)

	for i, res := range bs.Results {
		fmt.Fprintf(os.Stdout, "path %d: %d q-points, point group %s\n",
			i+1, len(bs.Paths[i]), res.PointGroup)
	}
	return nil
}

// --- convert subcommand ---

var bandConvertCmd = &cobra.Command{
	Use:   "convert <band.db>",
	Short: "Regenerate the band text document from a dataset container",
	Long: `Convert reads a band-structure dataset container and writes the
fixed-width band text document downstream plotting tools consume.`,
	Args: cobra.ExactArgs(1),
	RunE: runBandConvert,
}

func runBandConvert(cmd *cobra.Command, args []string) error {
	bs, err := band.ReadDataset(args[0])
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if err := bs.WriteYAMLFile(out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	return nil
}

func init() {
	bandPathsCmd.Flags().String("file", "", "band configuration file (default: the loaded config file)")
	bandConvertCmd.Flags().StringP("output", "o", "band.yaml", "output document path")

	bandCmd.AddCommand(bandPathsCmd)
	bandCmd.AddCommand(bandInspectCmd)
	bandCmd.AddCommand(bandConvertCmd)

	rootCmd.AddCommand(bandCmd)
}
