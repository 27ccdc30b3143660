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

package mesh

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrEmpty is returned by [New] if no usable triangle remains.
var ErrEmpty = errors.New("mesh: no usable triangles")

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min, Max v3.Vec
}

// Size returns the extent of the box along each axis.
func (b BBox) Size() v3.Vec {
	return b.Max.Sub(b.Min)
}

// extend grows the box to include v.
func (b *BBox) extend(v v3.Vec) {
	b.Min.X = min(b.Min.X, v.X)
	b.Min.Y = min(b.Min.Y, v.Y)
	b.Min.Z = min(b.Min.Z, v.Z)
	b.Max.X = max(b.Max.X, v.X)
	b.Max.Y = max(b.Max.Y, v.Y)
	b.Max.Z = max(b.Max.Z, v.Z)
}

// Mesh is an immutable collection of triangles with a bounding box and an
// index for finding the triangles which cross a given height.
//
// A Mesh is safe for concurrent use.
type Mesh struct {
	tris    []Triangle
	box     BBox
	index   intervalTree
	skipped [4]int // by Degeneracy
	volume  float64
}

// New builds a mesh from the given triangles. The triangles are copied.
//
// Degenerate triangles (see [Triangle.Degeneracy]) are dropped and counted,
// since STL exporters routinely produce them. If no triangle is left,
// [ErrEmpty] is returned.
func New(tris []Triangle) (*Mesh, error) {
	m := &Mesh{
		tris: make([]Triangle, 0, len(tris)),
	}
	for _, t := range tris {
		d := t.Degeneracy()
		if d != NonFinite {
			// horizontal facets still close the surface
			m.volume += t.V[0].Dot(t.V[1].Cross(t.V[2]))
		}
		if d != NotDegenerate {
			m.skipped[d]++
			continue
		}
		t.init()
		m.tris = append(m.tris, t)
	}
	if len(m.tris) == 0 {
		return nil, ErrEmpty
	}
	m.volume = math.Abs(m.volume) / 6

	m.box = BBox{Min: m.tris[0].V[0], Max: m.tris[0].V[0]}
	for i := range m.tris {
		for _, v := range m.tris[i].V {
			m.box.extend(v)
		}
	}

	m.index = buildIntervalTree(m.tris)
	return m, nil
}

// Len returns the number of usable triangles.
func (m *Mesh) Len() int {
	return len(m.tris)
}

// Triangle returns the triangle with index i.
// The result points into the mesh and must not be modified.
func (m *Mesh) Triangle(i int32) *Triangle {
	return &m.tris[i]
}

// BBox returns the bounding box of all usable triangles.
func (m *Mesh) BBox() BBox {
	return m.box
}

// Skipped returns the number of input triangles which were dropped as
// degenerate.
func (m *Mesh) Skipped() int {
	return m.skipped[ZeroArea] + m.skipped[Horizontal] + m.skipped[NonFinite]
}

// SkippedBy returns the number of dropped input triangles of kind d.
func (m *Mesh) SkippedBy(d Degeneracy) int {
	if d <= NotDegenerate || int(d) >= len(m.skipped) {
		return 0
	}
	return m.skipped[d]
}

// Intersecting appends to dst the indices of all triangles t with
// t.ZMin() <= z <= t.ZMax() and returns the extended slice.
// The cost is O(log n + k) for k results.
func (m *Mesh) Intersecting(z float64, dst []int32) []int32 {
	return m.index.query(m.tris, z, dst)
}

// Volume returns the volume enclosed by the mesh, in mm³.
// The value is only meaningful for closed meshes with consistent winding.
// Degenerate facets are included in the computation, so that a solid
// with horizontal faces gives the correct result.
func (m *Mesh) Volume() float64 {
	return m.volume
}

// Stats summarises a mesh, for diagnostics.
type Stats struct {
	Triangles  int // usable triangles
	ZeroArea   int // dropped: area below the tolerance
	Horizontal int // dropped: lying in a plane z = const
	NonFinite  int // dropped: NaN or infinite coordinates
	BBox       BBox
	Volume     float64
}

// Stats returns summary information about m.
func (m *Mesh) Stats() Stats {
	return Stats{
		Triangles:  len(m.tris),
		ZeroArea:   m.skipped[ZeroArea],
		Horizontal: m.skipped[Horizontal],
		NonFinite:  m.skipped[NonFinite],
		BBox:       m.box,
		Volume:     m.volume,
	}
}
