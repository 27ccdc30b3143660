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

package preview

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/slicer/mesh"
	"seehuhn.de/go/slicer/raster"
	"seehuhn.de/go/slicer/testcases"
)

func TestSection(t *testing.T) {
	m, err := mesh.New(testcases.HollowBox(0, 0, 0, 10, 10, 10, 2))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		z        float64
		opt      *Options
		segments int
	}{
		{"default", 5, nil, 16},
		{"outline", 5, &Options{Outline: 0.2, Margin: 1, FillRule: raster.NonZero}, 16},
		{"above", 12, nil, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fileName := filepath.Join(t.TempDir(), test.name+".pdf")
			stats, err := Section(fileName, m, test.z, test.opt)
			if err != nil {
				t.Fatal(err)
			}
			if stats.Segments != test.segments {
				t.Errorf("%d segments, want %d", stats.Segments, test.segments)
			}

			data, err := os.ReadFile(fileName)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Error("output is not a PDF file")
			}
		})
	}
}

func TestEmptyPage(t *testing.T) {
	// a vertical wall has no extent in y
	box := mesh.BBox{}
	box.Max.X = 1
	err := WritePDF(filepath.Join(t.TempDir(), "empty.pdf"), box, nil, nil)
	if err == nil {
		t.Error("page without area accepted")
	}
}
