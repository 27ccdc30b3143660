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

package testcases

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"seehuhn.de/go/slicer/mesh"
)

// sdfCells is the marching cubes resolution along the longest axis.
// Finer tessellations make the tests slow without covering new cases.
const sdfCells = 48

// sdfCases are tessellated from signed distance functions. The resulting
// meshes have many small, irregular triangles, with vertices shared
// between neighbours.
var sdfCases = []Solid{
	{
		Name:      "sphere",
		Tris:      Tessellate(must(sdf.Sphere3D(5))),
		PixelSize: 0.1,
		Layer:     0.25,
	},
	{
		Name:      "rounded_cylinder",
		Tris:      Tessellate(must(sdf.Cylinder3D(8, 3, 0.5))),
		PixelSize: 0.05,
		Layer:     0.25,
	},
	{
		Name:      "drilled_block",
		Tris:      Tessellate(drilledBlock()),
		PixelSize: 0.1,
		Layer:     0.25,
	},
}

// Tessellate converts a signed distance function into triangles using
// marching cubes.
func Tessellate(s sdf.SDF3) []mesh.Triangle {
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(sdfCells))
	res := make([]mesh.Triangle, 0, len(tris))
	for _, tri := range tris {
		res = append(res, mesh.NewTriangle(tri[0], tri[1], tri[2], tri.Normal()))
	}
	return res
}

// drilledBlock is a box with a vertical hole through its centre, giving a
// section with an inner contour on every layer.
func drilledBlock() sdf.SDF3 {
	block := must(sdf.Box3D(v3.Vec{X: 10, Y: 10, Z: 4}, 0.5))
	hole := must(sdf.Cylinder3D(6, 2, 0))
	return sdf.Difference3D(block, hole)
}

func must(s sdf.SDF3, err error) sdf.SDF3 {
	if err != nil {
		panic(fmt.Sprintf("testcases: %v", err))
	}
	return s
}
