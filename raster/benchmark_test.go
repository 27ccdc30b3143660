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
	"fmt"
	"image"
	"image/color"
	"maps"
	"math"
	"slices"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/slicer/mesh"
	"seehuhn.de/go/slicer/testcases"
)

// ringVertices is the number of vertices used for each circle of the
// ring shape.
const ringVertices = 256

// ringSegments returns the section of an "O" shape filling most of a
// size×size grid.
func ringSegments(size int) (*Grid, []Segment, error) {
	box := mesh.BBox{Max: v3.Vec{X: float64(size), Y: float64(size), Z: 1}}
	g, err := NewGrid(box, 1, 0)
	if err != nil {
		return nil, nil, err
	}
	center := float64(size) / 2
	outerR := float64(size) * 0.45
	innerR := float64(size) * 0.30
	segs := append(circle(center, center, outerR, false), circle(center, center, innerR, true)...)
	return g, segs, nil
}

// BenchmarkFillO benchmarks filling an "O" shape, given as section
// segments, at different grid sizes.
func BenchmarkFillO(b *testing.B) {
	sizes := []int{20, 200, 2000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			g, segs, err := ringSegments(size)
			if err != nil {
				b.Fatal(err)
			}
			r := NewRasterizer(g)
			dst := g.NewMask()

			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				r.Fill(segs, dst)
			}
		})
	}
}

// BenchmarkVectorO benchmarks x/image/vector drawing the same polygons
// as BenchmarkFillO.
func BenchmarkVectorO(b *testing.B) {
	sizes := []int{20, 200, 2000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			g, segs, err := ringSegments(size)
			if err != nil {
				b.Fatal(err)
			}
			p := Contours(segs)
			vr := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})

			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				vr.Reset(size, size)
				addPath(vr, g, p)
				vr.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// BenchmarkRasterizeAll measures steady-state performance by reusing one
// Rasterizer and Mask per test solid, slicing ten layers per iteration.
func BenchmarkRasterizeAll(b *testing.B) {
	type job struct {
		m   *mesh.Mesh
		r   *Rasterizer
		dst *Mask
		zs  []float64
	}
	var jobs []job
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, s := range testcases.All[category] {
			m, err := s.Mesh()
			if err != nil {
				b.Fatal(err)
			}
			g, err := NewGrid(m.BBox(), s.PixelSize, 0)
			if err != nil {
				b.Fatal(err)
			}
			box := m.BBox()
			var zs []float64
			for i := range 10 {
				zs = append(zs, box.Min.Z+(float64(i)+0.5)/10*(box.Max.Z-box.Min.Z))
			}
			jobs = append(jobs, job{m: m, r: NewRasterizer(g), dst: g.NewMask(), zs: zs})
		}
	}

	b.ResetTimer()
	for b.Loop() {
		for _, j := range jobs {
			for _, z := range j.zs {
				j.r.Rasterize(j.m, z, j.dst)
			}
		}
	}
}

// circle returns a closed polygon approximating a circle, as section
// segments.
func circle(cx, cy, r float64, clockwise bool) []Segment {
	pts := make([]vec.Vec2, ringVertices)
	for i := range pts {
		phi := 2 * math.Pi * float64(i) / ringVertices
		if clockwise {
			phi = -phi
		}
		pts[i] = vec.Vec2{X: cx + r*math.Cos(phi), Y: cy + r*math.Sin(phi)}
	}
	segs := make([]Segment, ringVertices)
	for i := range pts {
		segs[i] = Segment{A: pts[i], B: pts[(i+1)%len(pts)]}
	}
	return segs
}
