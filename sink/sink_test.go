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
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"seehuhn.de/go/slicer"
	"seehuhn.de/go/slicer/raster"
	"seehuhn.de/go/slicer/testcases"
)

func testMask() *raster.Mask {
	m := raster.NewMask(7, 5)
	for x := 2; x < 5; x++ {
		m.Row(1)[x] = 255
	}
	m.Row(4)[6] = 128
	return m
}

func TestFileName(t *testing.T) {
	tests := []struct {
		d     Dir
		index int
		z     float64
		want  string
	}{
		{Dir{}, 3, 0.06, "00003.png"},
		{Dir{Digits: 3, Format: BMP}, 12, 0, "012.bmp"},
		{Dir{Digits: 2}, 123, 0, "123.png"},
		{Dir{Naming: ByZ}, 3, 0.06, "60.png"},
		{Dir{Naming: ByZ, Format: TIFF}, 0, 0.0199999, "20.tiff"},
		{Dir{Naming: ByZ}, 0, -0.5, "-500.png"},
	}
	for _, test := range tests {
		if got := test.d.FileName(test.index, test.z); got != test.want {
			t.Errorf("%+v: got %q, want %q", test.d, got, test.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, ext := range []string{"png", ".PNG", "bmp", "tif", ".tiff"} {
		if _, err := ParseFormat(ext); err != nil {
			t.Errorf("%q: %v", ext, err)
		}
	}
	if _, err := ParseFormat("jpeg"); err == nil {
		t.Error("jpeg accepted")
	}
}

func TestDirRoundTrip(t *testing.T) {
	decoders := map[Format]func(*os.File) (image.Image, error){
		PNG:  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		BMP:  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		TIFF: func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	}
	want := testMask()

	for format, decode := range decoders {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			d := &Dir{Path: dir, Format: format}
			if err := d.WriteLayer(0, 0.02, want); err != nil {
				t.Fatal(err)
			}

			f, err := os.Open(filepath.Join(dir, "00000."+format.Ext()))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := decode(f)
			if err != nil {
				t.Fatal(err)
			}

			b := img.Bounds()
			if b.Dx() != want.Width || b.Dy() != want.Height {
				t.Fatalf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), want.Width, want.Height)
			}
			for y := range want.Height {
				for x := range want.Width {
					r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
					if got := byte(r >> 8); got != want.At(x, y) {
						t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got, want.At(x, y))
					}
				}
			}
		})
	}
}

func TestDirNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	d := NewDir(dir)
	for i := range 3 {
		if err := d.WriteLayer(i, float64(i)*0.05, testMask()); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"00000.png", "00001.png", "00002.png"}
	if !slices.Equal(names, want) {
		t.Errorf("directory contains %v, want %v", names, want)
	}
}

func TestDirMissing(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "missing"))
	if err := d.WriteLayer(0, 0, testMask()); err == nil {
		t.Error("writing into a missing directory succeeded")
	}
}

func TestSliceToDir(t *testing.T) {
	dir := t.TempDir()
	cfg := slicer.DefaultConfig()
	cfg.PixelSizeUM = 50
	cfg.LayerHeightUM = 250

	d := &Dir{Path: dir, Naming: ByZ}
	summary, err := slicer.Slice(context.Background(), cfg, testcases.Box(0, 0, 0, 2, 1, 1), d, nil)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != summary.Layers || summary.Layers != 5 {
		t.Errorf("%d files for %d layers, want 5", len(entries), summary.Layers)
	}
	for _, name := range []string{"0.png", "250.png", "500.png", "750.png", "1000.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Error(err)
		}
	}
}

func TestMemory(t *testing.T) {
	s := &Memory{}
	m := testMask()
	for _, i := range []int{2, 0, 1} {
		if err := s.WriteLayer(i, float64(i), m); err != nil {
			t.Fatal(err)
		}
	}
	m.Clear()

	layers := s.Layers()
	if len(layers) != 3 || s.Len() != 3 {
		t.Fatalf("got %d layers, want 3", len(layers))
	}
	for i, l := range layers {
		if l.Index != i || l.Z != float64(i) {
			t.Errorf("layer %d: got index %d, z=%g", i, l.Index, l.Z)
		}
		if !l.Mask.Equal(testMask()) {
			t.Errorf("layer %d: stored mask changed", i)
		}
	}
}
