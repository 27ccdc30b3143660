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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Contour is a polyline assembled from cross-section segments.
type Contour struct {
	Points []vec.Vec2

	// Closed is true if the last point connects back to the first.
	// Sections of watertight meshes only have closed contours.
	Closed bool
}

// Area returns the signed area enclosed by the contour.
// Outer boundaries have positive area, holes have negative area.
// Open contours are closed by a straight line for the computation.
func (c Contour) Area() float64 {
	n := len(c.Points)
	if n < 3 {
		return 0
	}
	var a float64
	for i, p := range c.Points {
		q := c.Points[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Chain joins segments with matching end points into contours.
// Points must match exactly; this is the case for segments computed by
// [Rasterizer.Section] from a watertight mesh.
func Chain(segs []Segment) []Contour {
	next := make(map[vec.Vec2][]int, len(segs))
	hasPrev := make(map[vec.Vec2]bool, len(segs))
	for i, s := range segs {
		next[s.A] = append(next[s.A], i)
		hasPrev[s.B] = true
	}
	used := make([]bool, len(segs))

	take := func(p vec.Vec2) (int, bool) {
		cand := next[p]
		for len(cand) > 0 {
			i := cand[0]
			cand = cand[1:]
			if !used[i] {
				next[p] = cand
				used[i] = true
				return i, true
			}
		}
		next[p] = cand
		return 0, false
	}

	follow := func(start int) Contour {
		used[start] = true
		first := segs[start].A
		pts := []vec.Vec2{first, segs[start].B}
		cur := segs[start].B
		for cur != first {
			i, ok := take(cur)
			if !ok {
				return Contour{Points: pts}
			}
			cur = segs[i].B
			pts = append(pts, cur)
		}
		return Contour{Points: pts[:len(pts)-1], Closed: true}
	}

	var res []Contour
	// Open chains must start at a point without predecessor.
	for i, s := range segs {
		if !used[i] && !hasPrev[s.A] {
			res = append(res, follow(i))
		}
	}
	for i := range segs {
		if !used[i] {
			res = append(res, follow(i))
		}
	}
	return res
}

// Contours returns the cross-section as a path, with one subpath per
// contour. Closed contours end with a ClosePath command.
func Contours(segs []Segment) *path.Data {
	p := &path.Data{}
	for _, c := range Chain(segs) {
		p = p.MoveTo(c.Points[0])
		for _, q := range c.Points[1:] {
			p = p.LineTo(q)
		}
		if c.Closed {
			p = p.Close()
		}
	}
	return p
}
