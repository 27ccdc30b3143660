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
	"math/rand/v2"
	"slices"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// box returns the 12 triangles of an axis-aligned box with outward winding.
func box(x0, y0, z0, x1, y1, z1 float64) []Triangle {
	p := func(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }
	quad := func(a, b, c, d v3.Vec) []Triangle {
		return []Triangle{
			NewTriangle(a, b, c, v3.Vec{}),
			NewTriangle(a, c, d, v3.Vec{}),
		}
	}
	var tris []Triangle
	tris = append(tris, quad(p(x0, y0, z0), p(x0, y1, z0), p(x1, y1, z0), p(x1, y0, z0))...) // bottom
	tris = append(tris, quad(p(x0, y0, z1), p(x1, y0, z1), p(x1, y1, z1), p(x0, y1, z1))...) // top
	tris = append(tris, quad(p(x0, y0, z0), p(x1, y0, z0), p(x1, y0, z1), p(x0, y0, z1))...) // front
	tris = append(tris, quad(p(x0, y1, z0), p(x0, y1, z1), p(x1, y1, z1), p(x1, y1, z0))...) // back
	tris = append(tris, quad(p(x0, y0, z0), p(x0, y0, z1), p(x0, y1, z1), p(x0, y1, z0))...) // left
	tris = append(tris, quad(p(x1, y0, z0), p(x1, y1, z0), p(x1, y1, z1), p(x1, y0, z1))...) // right
	return tris
}

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("New(nil): got %v, want ErrEmpty", err)
	}

	// only degenerate input
	flat := NewTriangle(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1}, v3.Vec{})
	_, err = New([]Triangle{flat})
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("New(horizontal): got %v, want ErrEmpty", err)
	}
}

func TestDegenerateSkipped(t *testing.T) {
	tris := box(0, 0, 0, 1, 1, 1)
	line := NewTriangle(v3.Vec{}, v3.Vec{X: 1, Z: 1}, v3.Vec{X: 2, Z: 2}, v3.Vec{})
	nan := NewTriangle(v3.Vec{X: math.NaN()}, v3.Vec{X: 1, Z: 1}, v3.Vec{Y: 2}, v3.Vec{})
	tris = append(tris, line, nan)

	m, err := New(tris)
	if err != nil {
		t.Fatal(err)
	}
	// 4 horizontal facets, one collinear, one NaN
	if got := m.Skipped(); got != 6 {
		t.Errorf("Skipped() = %d, want 6", got)
	}
	if got := m.SkippedBy(Horizontal); got != 4 {
		t.Errorf("SkippedBy(Horizontal) = %d, want 4", got)
	}
	if got := m.SkippedBy(ZeroArea); got != 1 {
		t.Errorf("SkippedBy(ZeroArea) = %d, want 1", got)
	}
	if got := m.SkippedBy(NonFinite); got != 1 {
		t.Errorf("SkippedBy(NonFinite) = %d, want 1", got)
	}
	if got := m.Len(); got != 8 {
		t.Errorf("Len() = %d, want 8", got)
	}
}

func TestBBox(t *testing.T) {
	m, err := New(box(-1, 2, 0.5, 3, 4, 7))
	if err != nil {
		t.Fatal(err)
	}
	want := BBox{Min: v3.Vec{X: -1, Y: 2, Z: 0.5}, Max: v3.Vec{X: 3, Y: 4, Z: 7}}
	if got := m.BBox(); got != want {
		t.Errorf("BBox() = %v, want %v", got, want)
	}
	if got := m.BBox().Size(); got != (v3.Vec{X: 4, Y: 2, Z: 6.5}) {
		t.Errorf("Size() = %v", got)
	}
}

func TestVolume(t *testing.T) {
	m, err := New(box(0, 0, 0, 2, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Volume(); math.Abs(got-24) > 1e-9 {
		t.Errorf("Volume() = %g, want 24", got)
	}
}

func TestNormalFromWinding(t *testing.T) {
	tri := NewTriangle(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1, Z: 1}, v3.Vec{})
	n := tri.Normal
	if n.X != 0 || n.Y >= 0 || n.Z <= 0 {
		t.Errorf("unexpected winding normal %v", n)
	}
	given := v3.Vec{Z: -1}
	tri = NewTriangle(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1, Z: 1}, given)
	if tri.Normal != given {
		t.Errorf("explicit normal replaced: %v", tri.Normal)
	}
}

// TestIntersectingBruteForce compares the interval tree with a linear scan.
func TestIntersectingBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var tris []Triangle
	for range 2000 {
		z0 := rng.Float64() * 10
		h := rng.ExpFloat64()
		if rng.IntN(10) == 0 {
			z0 = float64(rng.IntN(10)) // shared endpoints
			h = float64(rng.IntN(3) + 1)
		}
		a := v3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: z0}
		b := v3.Vec{X: rng.Float64() + 1, Y: rng.Float64(), Z: z0 + h*rng.Float64()}
		c := v3.Vec{X: rng.Float64(), Y: rng.Float64() + 1, Z: z0 + h}
		tris = append(tris, NewTriangle(a, b, c, v3.Vec{}))
	}
	m, err := New(tris)
	if err != nil {
		t.Fatal(err)
	}

	var got []int32
	for i := range 500 {
		z := float64(i) * 0.025
		got = m.Intersecting(z, got[:0])
		slices.Sort(got)

		var want []int32
		for k := range m.Len() {
			tri := m.Triangle(int32(k))
			if tri.ZMin() <= z && z <= tri.ZMax() {
				want = append(want, int32(k))
			}
		}
		if !slices.Equal(got, want) {
			t.Fatalf("z=%g: got %d triangles, want %d", z, len(got), len(want))
		}
	}

	if d := m.index.depth(); d > 40 {
		t.Errorf("tree depth %d is too large for %d triangles", d, m.Len())
	}
}

func TestIntersectingClosedInterval(t *testing.T) {
	m, err := New(box(0, 0, 0, 1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	for _, z := range []float64{0, 0.5, 1} {
		if got := len(m.Intersecting(z, nil)); got != 8 {
			t.Errorf("z=%g: %d triangles, want 8", z, got)
		}
	}
	for _, z := range []float64{-0.001, 1.001} {
		if got := len(m.Intersecting(z, nil)); got != 0 {
			t.Errorf("z=%g: %d triangles, want 0", z, got)
		}
	}
}

func BenchmarkIntersecting(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	var tris []Triangle
	for range 200_000 {
		z0 := rng.Float64() * 100
		a := v3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: z0}
		c := v3.Vec{X: rng.Float64(), Y: rng.Float64() + 1, Z: z0 + 0.5*rng.Float64()}
		tris = append(tris, NewTriangle(a, v3.Vec{X: 2, Y: 0, Z: z0}, c, v3.Vec{}))
	}
	m, err := New(tris)
	if err != nil {
		b.Fatal(err)
	}
	var buf []int32
	b.ResetTimer()
	for b.Loop() {
		for z := 0.0; z < 100; z += 0.05 {
			buf = m.Intersecting(z, buf[:0])
		}
	}
}
