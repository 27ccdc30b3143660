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

	"github.com/spf13/cobra"

	"seehuhn.de/go/slicer"
	"seehuhn.de/go/slicer/mesh"
	"seehuhn.de/go/slicer/stlio"
)

func newInfoCmd(opt *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info [flags] <input.stl>",
		Short: "Show information about an STL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			st := m.Stats()
			box := st.BBox
			size := box.Size()

			printf(cmd, "file:       %s\n", args[0])
			printf(cmd, "triangles:  %d read, %d usable\n", len(tris), st.Triangles)
			if skipped := m.Skipped(); skipped > 0 {
				printf(cmd, "skipped:    %d zero area, %d horizontal, %d non-finite\n",
					st.ZeroArea, st.Horizontal, st.NonFinite)
			}
			printf(cmd, "bounds:     [%.3f, %.3f] × [%.3f, %.3f] × [%.3f, %.3f] mm\n",
				box.Min.X, box.Max.X, box.Min.Y, box.Max.Y, box.Min.Z, box.Max.Z)
			printf(cmd, "size:       %.3f × %.3f × %.3f mm\n", size.X, size.Y, size.Z)
			printf(cmd, "volume:     %.3f mm³\n", st.Volume)

			s, err := slicer.New(p.Slicer)
			if err != nil {
				return err
			}
			g, err := s.Grid(m)
			if err != nil {
				return err
			}
			layers, err := s.Plan(m)
			if err != nil {
				return err
			}
			ext := g.Extent()
			printf(cmd, "grid:       %d × %d px at %g µm\n", g.Width, g.Height, p.Slicer.PixelSizeUM)
			printf(cmd, "covering:   [%.3f, %.3f] × [%.3f, %.3f] mm\n", ext.LLx, ext.URx, ext.LLy, ext.URy)
			printf(cmd, "layers:     %d at %g µm\n", len(layers), p.Slicer.LayerHeightUM)
			return nil
		},
	}
}
