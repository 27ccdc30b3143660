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

// Package stlio reads and writes triangle meshes in STL format.
//
// Both the binary and the ASCII variant of STL are accepted on input.
// Output is always binary STL.
package stlio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/unixpickle/model3d/model3d"

	"seehuhn.de/go/slicer/mesh"
)

// Read decodes an STL file.
// Facet normals are recomputed from the vertex order, since exporters
// often write zero or inaccurate normals.
func Read(r io.Reader) ([]mesh.Triangle, error) {
	tris, err := model3d.ReadSTL(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("stlio: %w", err)
	}
	res := make([]mesh.Triangle, len(tris))
	for i, t := range tris {
		res[i] = mesh.NewTriangle(vec(t[0]), vec(t[1]), vec(t[2]), v3.Vec{})
	}
	return res, nil
}

// ReadFile reads the STL file with the given name.
func ReadFile(name string) ([]mesh.Triangle, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tris, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tris, nil
}

// Write encodes tris as a binary STL file.
func Write(w io.Writer, tris []mesh.Triangle) error {
	out := make([]*model3d.Triangle, len(tris))
	for i := range tris {
		t := &tris[i]
		out[i] = &model3d.Triangle{coord(t.V[0]), coord(t.V[1]), coord(t.V[2])}
	}
	if err := model3d.WriteSTL(w, out); err != nil {
		return fmt.Errorf("stlio: %w", err)
	}
	return nil
}

// WriteFile writes tris to the named file, replacing any existing file.
func WriteFile(name string, tris []mesh.Triangle) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := Write(w, tris); err != nil {
		return err
	}
	return w.Flush()
}

func vec(c model3d.Coord3D) v3.Vec {
	return v3.Vec{X: c.X, Y: c.Y, Z: c.Z}
}

func coord(v v3.Vec) model3d.Coord3D {
	return model3d.Coord3D{X: v.X, Y: v.Y, Z: v.Z}
}
