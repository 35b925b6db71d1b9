package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/stlkit/pkg/stl"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		format string
		header string
		recalc bool
	)

	cmd := &cobra.Command{
		Use:   "convert <in.stl> <out.stl>",
		Short: "Convert between binary and ASCII STL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Write.Format = format
			}
			if cmd.Flags().Changed("header") {
				a.cfg.Write.Header = header
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			out, _ := a.cfg.OutputFormat()

			var m stl.Mesh
			in, err := a.codec.ReadFormat(&m, args[0])
			if err != nil {
				return err
			}

			if recalc || len(m.Normals) == 0 {
				if n := m.ComputeNormals(); n > 0 {
					a.log.Warn("degenerate triangles received zero normals", zap.Int("count", n))
				}
			}
			if a.cfg.Write.Header != "" {
				m.Header = [stl.HeaderSize]byte{}
				m.SetHeaderText(a.cfg.Write.Header)
			}

			if err := a.codec.Write(&m, args[1], out); err != nil {
				return err
			}

			a.log.Info("converted",
				zap.String("from", args[0]),
				zap.Stringer("in", in),
				zap.String("to", args[1]),
				zap.Stringer("out", out),
				zap.Uint32("triangles", m.TriangleCount),
			)
			summary(cmd, args[1], &m)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output encoding: binary or ascii (default from config)")
	cmd.Flags().StringVar(&header, "header", "", "binary header text")
	cmd.Flags().BoolVarP(&recalc, "normals", "n", false, "recompute facet normals from vertices")
	return cmd
}
