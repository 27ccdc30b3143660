// seehuhn.de/go/slicer - a slicer for resin 3D printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"seehuhn.de/go/slicer/mesh"
	"seehuhn.de/go/slicer/preview"
	"seehuhn.de/go/slicer/stlio"
)

func newSectionCmd(opt *options) *cobra.Command {
	var outline, margin float64
	cmd := &cobra.Command{
		Use:   "section [flags] <input.stl> <z> <output.pdf>",
		Short: "Draw the cross-section at height z (in mm) as a PDF file",
		Long: `Draw the cross-section at height z (in mm) as a PDF file.

The height is given in the same coordinates as the layer heights, so
--zero-slice-position applies. The page shows the whole footprint of
the model at a scale of 1:1.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid height %q", args[1])
			}
			p, err := opt.profile(cmd)
			if err != nil {
				return err
			}

			tris, err := stlio.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := mesh.New(tris)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if p.Slicer.ZeroSlicePosition {
				z += m.BBox().Min.Z
			}

			stats, err := preview.Section(args[2], m, z, &preview.Options{
				Margin:   margin,
				FillRule: p.Slicer.FillRule,
				Outline:  outline,
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s: %d segments, %d tangent triangles\n",
				args[2], stats.Segments, stats.Tangent)
			return nil
		},
	}
	cmd.Flags().Float64Var(&outline, "outline", 0, "line width for contours in mm (0 = none)")
	cmd.Flags().Float64Var(&margin, "page-margin", 2, "space around the model in mm")
	return cmd
}
