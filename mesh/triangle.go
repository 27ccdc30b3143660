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

// Package mesh holds the triangle soup of a solid to be sliced.
//
// A [Mesh] is built once from the triangles supplied by the caller and is
// read-only afterwards. It can be shared between goroutines without
// locking. Triangles are referenced by their int32 index into the mesh.
package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangle is one facet of a mesh, in millimetres.
type Triangle struct {
	// V holds the three vertices. The winding order together with Normal
	// defines which side of the facet is outside the solid.
	V [3]v3.Vec

	// Normal is the outward facing normal. A zero normal is replaced by
	// the winding normal (V1-V0)×(V2-V0) when the triangle is added to a
	// mesh.
	Normal v3.Vec

	zMin, zMax float64
}

// NewTriangle returns the triangle with vertices a, b, c.
// If n is the zero vector, the normal is computed from the winding order.
func NewTriangle(a, b, c, n v3.Vec) Triangle {
	t := Triangle{V: [3]v3.Vec{a, b, c}, Normal: n}
	t.init()
	return t
}

// init fills in the cached z-extent and a missing normal.
func (t *Triangle) init() {
	t.zMin = min(t.V[0].Z, t.V[1].Z, t.V[2].Z)
	t.zMax = max(t.V[0].Z, t.V[1].Z, t.V[2].Z)
	if t.Normal == (v3.Vec{}) {
		t.Normal = t.windingNormal()
	}
}

func (t *Triangle) windingNormal() v3.Vec {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0]))
}

// ZMin returns the smallest z coordinate of the three vertices.
func (t *Triangle) ZMin() float64 { return t.zMin }

// ZMax returns the largest z coordinate of the three vertices.
func (t *Triangle) ZMax() float64 { return t.zMax }

// Area returns the area of the triangle.
func (t *Triangle) Area() float64 {
	return t.windingNormal().Length() / 2
}

// Degeneracy classifies why a triangle cannot contribute to a cross-section.
type Degeneracy int

const (
	// NotDegenerate marks a usable triangle.
	NotDegenerate Degeneracy = iota

	// ZeroArea marks triangles whose vertices are (nearly) collinear.
	ZeroArea

	// Horizontal marks triangles lying exactly in a plane z = const.
	Horizontal

	// NonFinite marks triangles with NaN or infinite coordinates.
	NonFinite
)

func (d Degeneracy) String() string {
	switch d {
	case NotDegenerate:
		return "ok"
	case ZeroArea:
		return "zero area"
	case Horizontal:
		return "horizontal"
	case NonFinite:
		return "non-finite"
	default:
		return "unknown"
	}
}

// Degeneracy reports whether t must be skipped when slicing.
func (t *Triangle) Degeneracy() Degeneracy {
	for _, v := range t.V {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return NonFinite
		}
	}
	if t.windingNormal().Length() < areaEpsilon {
		return ZeroArea
	}
	if min(t.V[0].Z, t.V[1].Z, t.V[2].Z) == max(t.V[0].Z, t.V[1].Z, t.V[2].Z) {
		return Horizontal
	}
	return NotDegenerate
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// areaEpsilon is the smallest length of the cross product (twice the area,
// in mm²) of a usable triangle.
const areaEpsilon = 1e-14
