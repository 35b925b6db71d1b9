package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/stlkit/pkg/analysis"
	"github.com/Faultbox/stlkit/pkg/stl"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.stl>...",
		Short: "Display general information about STL files",
		Long:  "Show encoding, header, triangle counts, bounding box, surface area, volume and edge statistics.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := a.info(cmd, path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) info(cmd *cobra.Command, path string) error {
	var m stl.Mesh
	format, err := a.codec.ReadFormat(&m, path)
	if err != nil {
		return err
	}
	rep := analysis.Analyze(&m)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", path)
	fmt.Fprintf(out, "Format: %s\n", format)
	if format == stl.FormatBinary {
		fmt.Fprintf(out, "Header: %q\n", m.HeaderText())
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", rep.Triangles)
	fmt.Fprintf(out, "  Colored: %d\n", rep.Colored)
	fmt.Fprintf(out, "  Degenerate: %d\n", rep.Degenerate)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n", rep.SurfaceArea)
	fmt.Fprintf(out, "  Volume: %.6f cubic units\n", rep.Volume)

	if rep.Triangles == 0 {
		return nil
	}

	fmt.Fprintln(out, "\nBounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", formatVec(rep.Bounds.Min))
	fmt.Fprintf(out, "  Max: %s\n", formatVec(rep.Bounds.Max))
	fmt.Fprintf(out, "  Center: %s\n", formatVec(rep.Center()))
	fmt.Fprintf(out, "  Size: %s\n", formatVec(rep.Dimensions))
	fmt.Fprintf(out, "  Diagonal: %.6f units\n", rep.Diagonal())

	fmt.Fprintln(out, "\nEdge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", rep.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", rep.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", rep.AvgEdgeLength)
	return nil
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
