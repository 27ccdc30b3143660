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

// Package slicer converts a triangulated solid into a stack of layer
// masks for resin 3D printers.
//
// A run takes a [mesh.Mesh] and a [Config], plans the layer heights,
// rasterizes every layer on a fixed pixel grid and hands the masks to a
// [Sink]. Layers are processed concurrently; see [Slicer.Run].
package slicer

//go:generate go run ./testcases/export
