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

package raster

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/slicer/mesh"
)

// FillRule identifies which fill rule to apply.
type FillRule int

const (
	// EvenOdd toggles between inside and outside at every crossing.
	// It does not depend on the orientation of the facets and gives
	// usable results for self-intersecting and non-manifold meshes.
	EvenOdd FillRule = iota

	// NonZero counts crossings by direction and fills where the winding
	// number is non-zero. Overlapping shells of a mesh with consistent
	// normals are merged; meshes with inconsistent normals give wrong
	// results.
	NonZero
)

func (r FillRule) String() string {
	switch r {
	case EvenOdd:
		return "evenodd"
	case NonZero:
		return "nonzero"
	default:
		return fmt.Sprintf("FillRule(%d)", int(r))
	}
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (r FillRule) MarshalText() ([]byte, error) {
	if r != EvenOdd && r != NonZero {
		return nil, fmt.Errorf("raster: invalid fill rule %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (r *FillRule) UnmarshalText(text []byte) error {
	rule, err := ParseFillRule(string(text))
	if err != nil {
		return err
	}
	*r = rule
	return nil
}

// ParseFillRule converts "evenodd" or "nonzero" to a FillRule.
func ParseFillRule(s string) (FillRule, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "evenodd":
		return EvenOdd, nil
	case "nonzero":
		return NonZero, nil
	}
	return 0, fmt.Errorf("raster: unknown fill rule %q", s)
}

// Segment is one piece of a cross-section, in world coordinates.
// The solid lies to the left of the direction A→B.
type Segment struct {
	A, B vec.Vec2
}

// SectionStats describes the cross-section of a mesh at one height.
type SectionStats struct {
	// Candidates is the number of triangles whose z-extent contains the
	// cutting height.
	Candidates int

	// Segments is the number of segments in the cross-section.
	Segments int

	// Tangent counts the candidates which only touch the cutting plane
	// and therefore contribute no segment.
	Tangent int
}

// edge is a segment in device coordinates, with y0 < y1.
type edge struct {
	x0, y0 float64
	y1     float64
	dxdy   float64 // (x1-x0)/(y1-y0), precomputed for x-intercept calculation
	dir    int8    // +1 if the segment runs downwards in device space
}

// crossing is an intersection between a sample row and an edge.
type crossing struct {
	x   float64
	dir int8
}

// Rasterizer computes cross-sections of a mesh and fills them into masks.
// Create one instance per goroutine and reuse it for all layers. Internal
// buffers grow as needed but never shrink, so that slicing is allocation
// free in steady state.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// Grid maps world coordinates to pixels. Must not be nil.
	Grid *Grid

	// Rule is the fill rule.
	Rule FillRule

	// Samples is the number of samples per pixel along each axis.
	// With the default value 1 the mask is binary and a pixel is inside
	// if its centre is. Larger values give anti-aliased masks.
	// Values above MaxSamples are clamped.
	Samples int

	// Internal buffers (reused across calls)
	tris      []int32    // candidate triangles
	segs      []Segment  // cross-section in world coordinates
	edges     []edge     // non-horizontal segments in device coordinates
	active    []int      // indices of active edges
	crossings []crossing // crossings of the current sample row
	acc       []uint16   // per-pixel sample counts of the current row
}

// MaxSamples is the largest supported number of samples per pixel and axis.
const MaxSamples = 16

// NewRasterizer returns a Rasterizer for the given grid, using the
// even-odd rule and one sample per pixel.
func NewRasterizer(g *Grid) *Rasterizer {
	return &Rasterizer{
		Grid:    g,
		Rule:    EvenOdd,
		Samples: 1,
	}
}

// Rasterize fills dst with the cross-section of m at height z.
// dst must have the size of the grid.
func (r *Rasterizer) Rasterize(m *mesh.Mesh, z float64, dst *Mask) SectionStats {
	segs, stats := r.Section(m, z)
	r.Fill(segs, dst)
	return stats
}

// Section computes the cross-section of m with the plane at height z.
//
// A vertex counts as below the plane if its z-coordinate is <= z, so the
// section is the one just above z: a face lying exactly at the cutting
// height belongs to the layer if the solid extends upwards from it. A
// triangle with all vertices on one side only touches the plane and is
// counted as tangent.
//
// Section does not use the grid, so a zero Rasterizer can be used to
// compute sections without filling them. The returned slice is valid until
// the next call.
func (r *Rasterizer) Section(m *mesh.Mesh, z float64) ([]Segment, SectionStats) {
	r.tris = m.Intersecting(z, r.tris[:0])
	r.segs = r.segs[:0]

	stats := SectionStats{Candidates: len(r.tris)}
	for _, k := range r.tris {
		t := m.Triangle(k)

		var below [3]bool
		nBelow := 0
		for i, v := range t.V {
			if v.Z <= z {
				below[i] = true
				nBelow++
			}
		}
		if nBelow == 0 || nBelow == 3 {
			stats.Tangent++
			continue
		}

		// The vertex on its own side of the plane is shared by the two
		// edges which cross the plane.
		lone := 0
		for i := range 3 {
			if below[i] != below[(i+1)%3] && below[i] != below[(i+2)%3] {
				lone = i
				break
			}
		}
		a := t.V[lone]
		b := t.V[(lone+1)%3]
		c := t.V[(lone+2)%3]
		var p, q vec.Vec2
		if below[lone] {
			p = planePoint(a.X, a.Y, a.Z, b.X, b.Y, b.Z, z)
			q = planePoint(a.X, a.Y, a.Z, c.X, c.Y, c.Z, z)
		} else {
			p = planePoint(b.X, b.Y, b.Z, a.X, a.Y, a.Z, z)
			q = planePoint(c.X, c.Y, c.Z, a.X, a.Y, a.Z, z)
		}
		if p == q {
			stats.Tangent++
			continue
		}

		// The solid is on the left of ẑ×n.
		d := q.Sub(p)
		if d.X*(-t.Normal.Y)+d.Y*t.Normal.X < 0 {
			p, q = q, p
		}
		r.segs = append(r.segs, Segment{A: p, B: q})
	}
	stats.Segments = len(r.segs)
	return r.segs, stats
}

// planePoint returns the point where the edge from lo to hi crosses the
// plane at height z. The caller guarantees zLo <= z < zHi. The edge is
// always evaluated from its lower end, so that the two triangles sharing
// an edge produce bit-identical points.
func planePoint(xLo, yLo, zLo, xHi, yHi, zHi, z float64) vec.Vec2 {
	t := (z - zLo) / (zHi - zLo)
	return vec.Vec2{
		X: xLo + t*(xHi-xLo),
		Y: yLo + t*(yHi-yLo),
	}
}

// Fill clears dst and fills the region bounded by segs, using the
// configured fill rule.
//
// Each sample row at device height y intersects the segments with
// yMin <= y < yMax. A span [xa, xb) between crossings covers the samples
// whose centre lies in the span, so a crossing exactly on a sample centre
// belongs to the sample on its right.
func (r *Rasterizer) Fill(segs []Segment, dst *Mask) {
	dst.Clear()
	if !r.collectEdges(segs) {
		return
	}

	samples := min(max(r.Samples, 1), MaxSamples)
	width := dst.Width
	if samples > 1 {
		r.acc = slices.Grow(r.acc[:0], width)[:width]
		clear(r.acc)
	}

	// Only rows between the lowest and highest edge can be inside.
	yFirst := max(int(math.Floor(r.edges[0].y0)), 0)
	yLast := min(int(math.Ceil(r.maxEdgeY())), dst.Height)

	r.active = r.active[:0]
	nextEdge := 0
	sampleCount := samples * width
	for y := yFirst; y < yLast; y++ {
		rowHit := false
		for s := range samples {
			yc := float64(y) + (float64(s)+0.5)/float64(samples)

			// Add edges that start at or above this sample row
			for nextEdge < len(r.edges) && r.edges[nextEdge].y0 <= yc {
				r.active = append(r.active, nextEdge)
				nextEdge++
			}

			// Remove finished edges and collect crossings
			r.crossings = r.crossings[:0]
			for i := 0; i < len(r.active); {
				e := &r.edges[r.active[i]]
				if e.y1 <= yc {
					r.active[i] = r.active[len(r.active)-1]
					r.active = r.active[:len(r.active)-1]
					continue
				}
				r.crossings = append(r.crossings, crossing{
					x:   e.x0 + e.dxdy*(yc-e.y0),
					dir: e.dir,
				})
				i++
			}
			if len(r.crossings) < 2 {
				continue
			}
			slices.SortFunc(r.crossings, func(a, b crossing) int {
				return cmp.Or(cmp.Compare(a.x, b.x), cmp.Compare(a.dir, b.dir))
			})

			row := dst.Row(y)
			r.spans(func(xa, xb float64) {
				qa := max(sampleIndex(xa, samples), 0)
				qb := min(sampleIndex(xb, samples), sampleCount)
				if qa >= qb {
					return
				}
				rowHit = true
				if samples == 1 {
					for i := qa; i < qb; i++ {
						row[i] = 255
					}
					return
				}
				addSamples(r.acc, qa, qb, samples)
			})
		}

		if samples > 1 && rowHit {
			row := dst.Row(y)
			total := uint32(samples * samples)
			for x, n := range r.acc {
				row[x] = byte((uint32(n)*255 + total/2) / total)
			}
			clear(r.acc)
		}
	}
}

// collectEdges converts segs to device space, drops horizontal segments and
// sorts the remaining edges by their upper end. It reports whether any
// edge is left.
func (r *Rasterizer) collectEdges(segs []Segment) bool {
	r.edges = r.edges[:0]
	for _, s := range segs {
		a := r.Grid.ToDevice(s.A)
		b := r.Grid.ToDevice(s.B)

		dy := b.Y - a.Y
		if dy == 0 {
			continue
		}
		var dir int8 = 1
		if dy < 0 {
			a, b = b, a
			dir = -1
		}
		r.edges = append(r.edges, edge{
			x0:   a.X,
			y0:   a.Y,
			y1:   b.Y,
			dxdy: (b.X - a.X) / (b.Y - a.Y),
			dir:  dir,
		})
	}
	if len(r.edges) == 0 {
		return false
	}
	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.y0, b.y0)
	})
	return true
}

// maxEdgeY returns the largest device y of all edges.
func (r *Rasterizer) maxEdgeY() float64 {
	hi := math.Inf(-1)
	for i := range r.edges {
		hi = max(hi, r.edges[i].y1)
	}
	return hi
}

// spans calls fill for every interval of the sorted crossings which lies
// inside the region, according to the fill rule.
func (r *Rasterizer) spans(fill func(xa, xb float64)) {
	xs := r.crossings
	switch r.Rule {
	case NonZero:
		winding := 0
		var start float64
		for _, c := range xs {
			before := winding
			winding += int(c.dir)
			switch {
			case before == 0 && winding != 0:
				start = c.x
			case before != 0 && winding == 0:
				fill(start, c.x)
			}
		}
	default:
		// A trailing unmatched crossing (open contour) fills nothing.
		for i := 0; i+1 < len(xs); i += 2 {
			fill(xs[i].x, xs[i+1].x)
		}
	}
}

// sampleIndex returns the index of the first sample whose centre is at or
// to the right of device coordinate x.
func sampleIndex(x float64, samples int) int {
	q := math.Ceil(x*float64(samples) - 0.5)
	// keep the conversion to int well-defined for far away crossings
	q = max(q, -1)
	q = min(q, MaxGridSide*MaxSamples+1)
	return int(q)
}

// addSamples counts the samples qa, ..., qb-1 of a row towards their pixels.
func addSamples(acc []uint16, qa, qb, samples int) {
	ca := qa / samples
	cb := (qb - 1) / samples
	if ca == cb {
		acc[ca] += uint16(qb - qa)
		return
	}
	acc[ca] += uint16((ca+1)*samples - qa)
	for c := ca + 1; c < cb; c++ {
		acc[c] += uint16(samples)
	}
	acc[cb] += uint16(qb - cb*samples)
}
