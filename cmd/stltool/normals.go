package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/stlkit/pkg/stl"
)

func newNormalsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normals <in.stl> [out.stl]",
		Short: "Recompute facet normals from vertex winding",
		Long:  "Recompute every facet normal and write the mesh back in its original encoding. The input is replaced when no output is given.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := args[0]
			if len(args) == 2 {
				dst = args[1]
			}

			var m stl.Mesh
			format, err := a.codec.ReadFormat(&m, args[0])
			if err != nil {
				return err
			}

			degenerate := m.ComputeNormals()
			if degenerate > 0 {
				a.log.Warn("degenerate triangles received zero normals", zap.Int("count", degenerate))
			}

			if err := a.codec.Write(&m, dst, format); err != nil {
				return err
			}
			summary(cmd, dst, &m)
			return nil
		},
	}
}
