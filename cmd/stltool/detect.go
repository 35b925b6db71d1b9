package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/stlkit/pkg/stl"
)

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file.stl>...",
		Short: "Classify files as binary or ASCII STL",
		Long:  "Run both the size check and the keyword sniffer and report when they disagree.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}

				bySize := stl.DetectFormat(data)
				byToken := stl.DetectByToken(data)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (size %s, token %s)\n",
					path, a.codec.Detection.Detect(data), bySize, byToken)

				if bySize != byToken {
					a.log.Warn("detection strategies disagree",
						zap.String("path", path),
						zap.Stringer("size", bySize),
						zap.Stringer("token", byToken),
					)
				}
			}
			return nil
		},
	}
}
