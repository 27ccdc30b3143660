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
	"errors"
	"fmt"

	"seehuhn.de/go/slicer/mesh"
)

// Errors returned by the slicer. Use [errors.Is] to test for them.
var (
	// ErrConfig indicates an invalid configuration. It is reported before
	// any geometry is processed.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmptyMesh indicates that the input has no usable triangles.
	// It is the same value as [mesh.ErrEmpty].
	ErrEmptyMesh = mesh.ErrEmpty

	// ErrGeometry indicates that the mesh cannot be sliced, for example
	// because the pixel grid would be too large.
	ErrGeometry = errors.New("unusable geometry")

	// ErrIO indicates that a layer could not be stored.
	ErrIO = errors.New("cannot store layer")
)

// LayerError is returned when processing of a single layer fails.
type LayerError struct {
	Layer int     // index of the failed layer
	Z     float64 // height of the layer in mm
	Err   error
}

func (e *LayerError) Error() string {
	return fmt.Sprintf("layer %d (z=%g mm): %v", e.Layer, e.Z, e.Err)
}

func (e *LayerError) Unwrap() error {
	return e.Err
}
