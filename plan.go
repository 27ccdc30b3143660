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

package slicer

import (
	"math"

	"seehuhn.de/go/slicer/mesh"
)

// Layer describes one planned layer.
type Layer struct {
	// Index is the position of the layer in the output, starting at 0.
	Index int

	// Z is the height of the layer in mm, as reported to the sink.
	Z float64

	// ModelZ is the height in mesh coordinates where the mesh is cut.
	// It differs from Z when [Config.ZeroSlicePosition] is set.
	ModelZ float64
}

// PlanLayers returns the layers for a model with the given bounding box.
//
// Layers are spaced by the layer height, starting at the bottom of the
// model and ending with the last layer not above its top. A model of
// height R gives floor(R/h)+1 candidate layers; candidates below z=0 are
// then removed unless cfg.KeepAboveZero is set. With cfg.ZeroSlicePosition
// candidate i is reported at z=i·h, and cfg.ZeroSliceMode decides whether
// the removal looks at the reported height or at the height in mesh
// coordinates. The result is sorted by height and may be empty.
func PlanLayers(box mesh.BBox, cfg Config) []Layer {
	h := cfg.layerHeight()
	zMin, zMax := box.Min.Z, box.Max.Z
	if !positive(h) || !(zMax >= zMin) {
		return nil
	}
	n := int(math.Floor((zMax-zMin)/h+planEpsilon)) + 1

	layers := make([]Layer, 0, n)
	for i := range n {
		offset := float64(i) * h
		modelZ := min(zMin+offset, zMax)

		z := modelZ
		if cfg.ZeroSlicePosition {
			z = offset
		}
		if math.Abs(z) < snapEpsilon {
			z = 0
		}

		// the filter sees the height after the optional move
		filterZ := z
		if cfg.ZeroSlicePosition && cfg.ZeroSliceMode == RenameOnly {
			filterZ = modelZ
			if math.Abs(filterZ) < snapEpsilon {
				filterZ = 0
			}
		}
		if filterZ < 0 && !cfg.KeepAboveZero {
			continue
		}

		layers = append(layers, Layer{
			Index:  len(layers),
			Z:      z,
			ModelZ: modelZ,
		})
	}
	return layers
}

const (
	// planEpsilon absorbs rounding errors when the model height is a
	// whole number of layers.
	planEpsilon = 1e-9

	// snapEpsilon is the distance in mm below which heights are reported
	// as exactly 0.
	snapEpsilon = 1e-9
)
