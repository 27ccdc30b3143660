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

// Command genpdf draws the mid-height cross-section of every test solid
// as a PDF file, and renders the PDFs to PNG using Ghostscript.
// The PNG files use the suggested pixel size of the solid, so they can be
// compared with the masks produced by the slicer.
// Run from the module root directory.
package main

import (
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"

	"seehuhn.de/go/slicer/preview"
	"seehuhn.de/go/slicer/raster"
	"seehuhn.de/go/slicer/testcases"
)

// refDir is where the raster tests look for reference images.
const refDir = "raster/testdata/sections"

func main() {
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, s := range testcases.All[category] {
			name := category + "_" + s.Name
			pdfPath := filepath.Join(refDir, name+".pdf")
			pngPath := filepath.Join(refDir, name+".png")

			if err := generatePDF(s, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := renderPNG(pdfPath, pngPath, s.PixelSize); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func generatePDF(s testcases.Solid, pdfPath string) error {
	m, err := s.Mesh()
	if err != nil {
		return err
	}
	box := m.BBox()
	z := (box.Min.Z + box.Max.Z) / 2

	// Overlapping solids are only filled correctly with the nonzero rule,
	// and both rules agree on the other test cases.
	opt := &preview.Options{FillRule: raster.NonZero}
	_, err = preview.Section(pdfPath, m, z, opt)
	return err
}

func renderPNG(pdfPath, pngPath string, pixelSize float64) error {
	// At 1:1 scale, one pixel of pixelSize mm needs 25.4/pixelSize dpi.
	dpi := strconv.FormatFloat(25.4/pixelSize, 'f', -1, 64)
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r"+dpi,
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
