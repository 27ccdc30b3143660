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
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"seehuhn.de/go/slicer/mesh"
)

var boxCases = []Solid{
	{
		Name:      "unit_cube",
		Tris:      Box(0, 0, 0, 1, 1, 1),
		PixelSize: 0.01,
		Layer:     0.1,
	},
	{
		Name:      "plate",
		Tris:      Box(0.3, 0.7, 0, 20.3, 10.7, 1),
		PixelSize: 0.05,
		Layer:     0.05,
	},
	{
		Name:      "offset_cube",
		Tris:      Box(-2.5, -2.5, -1, 2.5, 2.5, 4),
		PixelSize: 0.05,
		Layer:     0.25,
	},
	{
		Name:      "hollow_box",
		Tris:      HollowBox(0, 0, 0, 10, 10, 10, 2),
		PixelSize: 0.1,
		Layer:     0.5,
	},
	{
		Name:      "tall_needle",
		Tris:      Box(0, 0, 0, 0.2, 0.2, 30),
		PixelSize: 0.05,
		Layer:     0.5,
	},
}

var prismCases = []Solid{
	{
		Name:      "pyramid",
		Tris:      Pyramid(10, 10),
		PixelSize: 0.1,
		Layer:     0.5,
	},
	{
		Name:      "octagon",
		Tris:      RegularPrism(8, 5, 0, 3),
		PixelSize: 0.05,
		Layer:     0.25,
	},
	{
		Name:      "cylinder_64",
		Tris:      RegularPrism(64, 5, 0, 3),
		PixelSize: 0.05,
		Layer:     0.25,
	},
	{
		Name:      "triangle_prism",
		Tris:      RegularPrism(3, 4, 1, 2),
		PixelSize: 0.05,
		Layer:     0.1,
	},
}

// overlapCases contain intersecting shells, where the even-odd and
// nonzero fill rules give different results.
var overlapCases = []Solid{
	{
		Name:      "overlapping_cubes",
		Tris:      append(Box(0, 0, 0, 2, 2, 2), Box(1, 1, 0, 3, 3, 2)...),
		PixelSize: 0.05,
		Layer:     0.5,
	},
	{
		Name:      "nested_cubes",
		Tris:      append(Box(0, 0, 0, 4, 4, 4), Box(1, 1, 1, 3, 3, 3)...),
		PixelSize: 0.05,
		Layer:     0.5,
	},
}

// Box returns the 12 triangles of the axis-aligned box
// [x0, x1]×[y0, y1]×[z0, z1], with outward normals.
func Box(x0, y0, z0, x1, y1, z1 float64) []mesh.Triangle {
	var tris []mesh.Triangle
	tris = append(tris, quad(pt(x0, y0, z0), pt(x0, y1, z0), pt(x1, y1, z0), pt(x1, y0, z0))...) // bottom
	tris = append(tris, quad(pt(x0, y0, z1), pt(x1, y0, z1), pt(x1, y1, z1), pt(x0, y1, z1))...) // top
	tris = append(tris, quad(pt(x0, y0, z0), pt(x1, y0, z0), pt(x1, y0, z1), pt(x0, y0, z1))...) // front
	tris = append(tris, quad(pt(x0, y1, z0), pt(x0, y1, z1), pt(x1, y1, z1), pt(x1, y1, z0))...) // back
	tris = append(tris, quad(pt(x0, y0, z0), pt(x0, y0, z1), pt(x0, y1, z1), pt(x0, y1, z0))...) // left
	tris = append(tris, quad(pt(x1, y0, z0), pt(x1, y1, z0), pt(x1, y1, z1), pt(x1, y0, z1))...) // right
	return tris
}

// HollowBox returns a box with a closed cubic cavity.
// The cavity is inset by wall on every side and its surface faces inwards.
func HollowBox(x0, y0, z0, x1, y1, z1, wall float64) []mesh.Triangle {
	outer := Box(x0, y0, z0, x1, y1, z1)
	inner := Box(x0+wall, y0+wall, z0+wall, x1-wall, y1-wall, z1-wall)
	return append(outer, flip(inner)...)
}

// Pyramid returns a square pyramid with base side length base, centred
// on the origin, and apex at the given height.
func Pyramid(base, height float64) []mesh.Triangle {
	h := base / 2
	apex := pt(0, 0, height)
	c := []v3.Vec{pt(-h, -h, 0), pt(h, -h, 0), pt(h, h, 0), pt(-h, h, 0)}

	tris := quad(c[0], c[3], c[2], c[1]) // base, facing down
	for i := range c {
		tris = append(tris, mesh.NewTriangle(c[i], c[(i+1)%4], apex, v3.Vec{}))
	}
	return tris
}

// RegularPrism returns a vertical prism over the regular n-gon with the
// given circumradius, centred on the z-axis, between heights z0 and z1.
func RegularPrism(n int, radius, z0, z1 float64) []mesh.Triangle {
	ring := make([]v3.Vec, n)
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		ring[i] = v3.Vec{X: radius * math.Cos(phi), Y: radius * math.Sin(phi)}
	}

	var tris []mesh.Triangle
	bottom := pt(0, 0, z0)
	top := pt(0, 0, z1)
	for i := range n {
		a := ring[i]
		b := ring[(i+1)%n]
		a0, a1 := pt(a.X, a.Y, z0), pt(a.X, a.Y, z1)
		b0, b1 := pt(b.X, b.Y, z0), pt(b.X, b.Y, z1)

		tris = append(tris, mesh.NewTriangle(bottom, b0, a0, v3.Vec{}))
		tris = append(tris, mesh.NewTriangle(top, a1, b1, v3.Vec{}))
		tris = append(tris, quad(a0, b0, b1, a1)...)
	}
	return tris
}
