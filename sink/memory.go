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

package sink

import (
	"cmp"
	"slices"
	"sync"

	"seehuhn.de/go/slicer/raster"
)

// Layer is a stored layer.
type Layer struct {
	Index int
	Z     float64
	Mask  *raster.Mask
}

// Memory keeps copies of all layers in memory.
// It is mostly useful for tests and for programs which process the
// masks further.
type Memory struct {
	mu     sync.Mutex
	layers []Layer
}

// WriteLayer implements the [slicer.Sink] interface.
func (s *Memory) WriteLayer(index int, z float64, m *raster.Mask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, Layer{Index: index, Z: z, Mask: m.Clone()})
	return nil
}

// Layers returns the stored layers, sorted by index.
func (s *Memory) Layers() []Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := slices.Clone(s.layers)
	slices.SortFunc(res, func(a, b Layer) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return res
}

// Len returns the number of stored layers.
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}
