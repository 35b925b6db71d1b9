package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Faultbox/stlkit/pkg/stl"
)

// pyramidVertices is a four-sided pyramid with its apex at y = -1, wound
// counter-clockwise seen from outside so computed normals face out.
var pyramidVertices = []float32{
	0, -1, 0, 1, 0, 1, -1, 0, 1, // front
	0, -1, 0, 1, 0, -1, 1, 0, 1, // right
	0, -1, 0, -1, 0, -1, 1, 0, -1, // back
	0, -1, 0, -1, 0, 1, -1, 0, -1, // left
}

func newPyramidCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pyramid [dir]",
		Short: "Write a sample pyramid in both encodings and read it back",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			m := stl.Mesh{
				Vertices:      append([]float32(nil), pyramidVertices...),
				TriangleCount: uint32(len(pyramidVertices) / 9),
			}
			m.SetHeaderText("Pauls Pyramid")
			m.ComputeNormals()

			for _, f := range []struct {
				name   string
				format stl.Format
			}{
				{"pyramid_bin.stl", stl.FormatBinary},
				{"pyramid_ascii.stl", stl.FormatASCII},
			} {
				path := filepath.Join(dir, f.name)
				if err := a.codec.Write(&m, path, f.format); err != nil {
					return err
				}

				var got stl.Mesh
				if err := a.codec.Read(&got, path); err != nil {
					return err
				}
				summary(cmd, path, &got)
			}
			return nil
		},
	}
}
