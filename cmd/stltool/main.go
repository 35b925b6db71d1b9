// stltool inspects, converts and repairs STL files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/stlkit/internal/config"
	"github.com/Faultbox/stlkit/internal/logger"
	"github.com/Faultbox/stlkit/pkg/stl"
)

// app carries state built once the persistent flags are parsed.
type app struct {
	flags *config.Flags
	cfg   *config.Config
	codec *stl.Codec
	log   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "stltool",
		Short: "Inspect, convert and repair STL files",
		Long: `stltool reads binary and ASCII STL files, reports geometry statistics,
converts between the two encodings and recomputes facet normals.

Settings are read from stltool.yaml in the working directory or the user
config directory and can be overridden by flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { logger.Sync() },
	}
	a.flags = config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newInfoCmd(a),
		newConvertCmd(a),
		newNormalsCmd(a),
		newDetectCmd(a),
		newPyramidCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}

	codec, err := cfg.Codec(logger.Named("stl"))
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.codec = codec
	a.log = logger.Named(cmd.Name())
	return nil
}

// summary prints the per-file counts line.
func summary(cmd *cobra.Command, label string, m *stl.Mesh) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  triangles %d  vertices %d  normals %d  colors %d\n",
		label, m.TriangleCount, len(m.Vertices), len(m.Normals), len(m.Colors))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
