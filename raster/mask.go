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
	"bytes"
	"image"
)

// Mask is a single-channel pixel buffer for one layer.
// A value of 0 means outside the solid, 255 means inside. Intermediate
// values only occur for anti-aliased masks.
type Mask struct {
	Width, Height int

	// Pix holds the pixel values in row-major order, starting with the
	// top row. The stride equals Width.
	Pix []byte
}

// NewMask allocates an empty mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
}

// Clear sets all pixels to 0.
func (m *Mask) Clear() {
	clear(m.Pix)
}

// At returns the value of pixel (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) byte {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Pix[y*m.Width+x]
}

// Row returns the pixels of row y.
func (m *Mask) Row(y int) []byte {
	return m.Pix[y*m.Width : (y+1)*m.Width]
}

// Count returns the number of non-zero pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Filled returns the smallest rectangle containing all non-zero pixels.
// The result is empty if the mask is empty.
func (m *Mask) Filled() image.Rectangle {
	var r image.Rectangle
	for y := range m.Height {
		row := m.Row(y)
		lo := 0
		for lo < len(row) && row[lo] == 0 {
			lo++
		}
		if lo == len(row) {
			continue
		}
		hi := len(row)
		for row[hi-1] == 0 {
			hi--
		}
		r = r.Union(image.Rect(lo, y, hi, y+1))
	}
	return r
}

// Equal reports whether m and other have the same size and content.
func (m *Mask) Equal(other *Mask) bool {
	return m.Width == other.Width && m.Height == other.Height && bytes.Equal(m.Pix, other.Pix)
}

// Clone returns a deep copy of m.
func (m *Mask) Clone() *Mask {
	return &Mask{
		Width:  m.Width,
		Height: m.Height,
		Pix:    bytes.Clone(m.Pix),
	}
}

// Gray returns an image which shares its pixels with m.
func (m *Mask) Gray() *image.Gray {
	return &image.Gray{
		Pix:    m.Pix,
		Stride: m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}
