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
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/slicer/mesh"
)

// ErrGridTooLarge is returned by [NewGrid] if the pixel grid would exceed
// [MaxGridSide] or [MaxGridPixels]. This usually means that the pixel size
// is misconfigured.
var ErrGridTooLarge = errors.New("raster: pixel grid too large")

// Limits for the size of a pixel grid.
const (
	MaxGridSide   = 1 << 16
	MaxGridPixels = 1 << 28
)

// Grid maps world coordinates (millimetres) to pixels.
// The same grid is used for all layers of a run, so that all masks are
// registered to each other.
//
// Device space has x pointing right and y pointing down, with one unit per
// pixel: pixel (i, j) covers [i, i+1)×[j, j+1). Row 0 is at the largest
// world y, as in image files.
type Grid struct {
	// OriginX and OriginY are the world coordinates of the lower left
	// corner of the grid.
	OriginX, OriginY float64

	// PixelSize is the side length of a pixel in millimetres.
	PixelSize float64

	// Width and Height give the grid size in pixels.
	Width, Height int

	// CTM transforms world coordinates to device space.
	CTM matrix.Matrix
}

// NewGrid returns the grid covering the xy-extent of box, with margin
// empty pixels added on each side.
func NewGrid(box mesh.BBox, pixelSize float64, margin int) (*Grid, error) {
	if !(pixelSize > 0) || math.IsInf(pixelSize, 0) {
		return nil, fmt.Errorf("%w: pixel size %g", ErrGridTooLarge, pixelSize)
	}
	if margin < 0 {
		margin = 0
	}

	size := box.Size()
	w := gridSide(size.X, pixelSize) + 2*float64(margin)
	h := gridSide(size.Y, pixelSize) + 2*float64(margin)
	if !(w <= MaxGridSide && h <= MaxGridSide && w*h <= MaxGridPixels) {
		return nil, fmt.Errorf("%w: %gx%g pixels at %g mm", ErrGridTooLarge, w, h, pixelSize)
	}

	g := &Grid{
		OriginX:   box.Min.X - float64(margin)*pixelSize,
		OriginY:   box.Min.Y - float64(margin)*pixelSize,
		PixelSize: pixelSize,
		Width:     int(w),
		Height:    int(h),
	}
	g.updateCTM()
	return g, nil
}

// updateCTM sets g.CTM from the origin, pixel size and height.
func (g *Grid) updateCTM() {
	s := 1 / g.PixelSize
	g.CTM = matrix.Matrix{
		s, 0,
		0, -s,
		-g.OriginX * s, float64(g.Height) + g.OriginY*s,
	}
}

// gridSide returns the number of pixels needed to cover length.
// A length which is a whole multiple of the pixel size up to rounding
// errors does not get an extra pixel.
func gridSide(length, pixelSize float64) float64 {
	n := math.Ceil(length/pixelSize - gridEpsilon)
	return max(n, 1)
}

// ToDevice maps a point from world space to device space.
func (g *Grid) ToDevice(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: g.CTM[0]*p.X + g.CTM[2]*p.Y + g.CTM[4],
		Y: g.CTM[1]*p.X + g.CTM[3]*p.Y + g.CTM[5],
	}
}

// PixelCenter returns the world coordinates of the centre of pixel (x, y).
func (g *Grid) PixelCenter(x, y int) vec.Vec2 {
	return vec.Vec2{
		X: g.OriginX + (float64(x)+0.5)*g.PixelSize,
		Y: g.OriginY + (float64(g.Height-y)-0.5)*g.PixelSize,
	}
}

// Pixel returns the pixel containing the world point p.
// The result may lie outside the grid.
func (g *Grid) Pixel(p vec.Vec2) (x, y int) {
	d := g.ToDevice(p)
	return int(math.Floor(d.X)), int(math.Floor(d.Y))
}

// Extent returns the area covered by the grid, in world coordinates.
func (g *Grid) Extent() rect.Rect {
	return rect.Rect{
		LLx: g.OriginX,
		LLy: g.OriginY,
		URx: g.OriginX + float64(g.Width)*g.PixelSize,
		URy: g.OriginY + float64(g.Height)*g.PixelSize,
	}
}

// NewMask allocates an empty mask of the grid's size.
func (g *Grid) NewMask() *Mask {
	return NewMask(g.Width, g.Height)
}

// gridEpsilon absorbs rounding errors when a model extent is a whole
// number of pixels.
const gridEpsilon = 1e-9
