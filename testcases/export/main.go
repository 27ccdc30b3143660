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

// Command export writes the test solids to STL files, together with a JSON
// index, so that they can be inspected with other slicers and viewers.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/slicer/stlio"
	"seehuhn.de/go/slicer/testcases"
)

const outDir = "testdata/solids"

func main() {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		panic(err)
	}

	var out struct {
		Solids []jsonSolid `json:"solids"`
	}
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, s := range testcases.All[category] {
			name := category + "_" + s.Name
			fileName := name + ".stl"
			if err := stlio.WriteFile(filepath.Join(outDir, fileName), s.Tris); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			js, err := toJSON(name, fileName, s)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			out.Solids = append(out.Solids, js)
		}
	}

	f, err := os.Create(filepath.Join(outDir, "index.json"))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonSolid struct {
	Name        string     `json:"name"`
	File        string     `json:"file"`
	Triangles   int        `json:"triangles"`
	Skipped     int        `json:"skipped,omitempty"`
	Min         [3]float64 `json:"min"`
	Max         [3]float64 `json:"max"`
	Volume      float64    `json:"volume"`
	PixelSizeUM float64    `json:"pixel_size_um"`
	LayerUM     float64    `json:"layer_height_um"`
}

func toJSON(name, fileName string, s testcases.Solid) (jsonSolid, error) {
	m, err := s.Mesh()
	if err != nil {
		return jsonSolid{}, err
	}
	st := m.Stats()
	box := st.BBox
	return jsonSolid{
		Name:        name,
		File:        fileName,
		Triangles:   len(s.Tris),
		Skipped:     m.Skipped(),
		Min:         [3]float64{box.Min.X, box.Min.Y, box.Min.Z},
		Max:         [3]float64{box.Max.X, box.Max.Y, box.Max.Z},
		Volume:      st.Volume,
		PixelSizeUM: s.PixelSize * 1000,
		LayerUM:     s.Layer * 1000,
	}, nil
}
