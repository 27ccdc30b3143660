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

// Package testcases provides named solids for testing and benchmarking
// the slicer. The solids are grouped into categories; see [All].
package testcases

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"seehuhn.de/go/slicer/mesh"
)

// Solid is a named triangle mesh used in tests.
type Solid struct {
	Name      string          // lowercase a-z, 0-9 and _ only
	Tris      []mesh.Triangle // the surface, with outward normals
	PixelSize float64         // suggested pixel size in mm
	Layer     float64         // suggested layer height in mm
}

// Mesh builds the mesh for the solid.
func (s Solid) Mesh() (*mesh.Mesh, error) {
	return mesh.New(s.Tris)
}

// pt is a helper to create a v3.Vec from x, y, z coordinates.
func pt(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

// quad returns two triangles covering the planar quadrilateral a, b, c, d.
// The normals are derived from the winding order.
func quad(a, b, c, d v3.Vec) []mesh.Triangle {
	return []mesh.Triangle{
		mesh.NewTriangle(a, b, c, v3.Vec{}),
		mesh.NewTriangle(a, c, d, v3.Vec{}),
	}
}

// flip reverses the orientation of all triangles.
func flip(tris []mesh.Triangle) []mesh.Triangle {
	res := make([]mesh.Triangle, len(tris))
	for i, t := range tris {
		res[i] = mesh.NewTriangle(t.V[0], t.V[2], t.V[1], v3.Vec{})
	}
	return res
}
