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

// Package sink stores layer masks produced by the slicer.
package sink

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"seehuhn.de/go/slicer"
	"seehuhn.de/go/slicer/raster"
)

var (
	_ slicer.Sink = (*Dir)(nil)
	_ slicer.Sink = (*Memory)(nil)
)

// Format is an image file format.
type Format int

// The supported image formats.
const (
	PNG Format = iota
	BMP
	TIFF
)

// Ext returns the file name extension for the format, without a dot.
func (f Format) Ext() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func (f Format) String() string {
	return f.Ext()
}

// ParseFormat returns the format for a name or file name extension,
// which may start with a dot.
func ParseFormat(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return 0, fmt.Errorf("sink: unsupported image format %q", ext)
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (f Format) MarshalText() ([]byte, error) {
	if f < PNG || f > TIFF {
		return nil, fmt.Errorf("sink: invalid image format %d", int(f))
	}
	return []byte(f.Ext()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (f *Format) UnmarshalText(text []byte) error {
	format, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = format
	return nil
}

// Encode writes m as an 8-bit grayscale image.
func (f Format) Encode(w io.Writer, m *raster.Mask) error {
	img := m.Gray()
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		return enc.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("sink: unsupported image format %d", int(f))
	}
}

// Naming selects how layer files are named.
type Naming int

const (
	// ByIndex names files by the zero-padded layer index, so that they
	// sort in layer order: 00000.png, 00001.png, ...
	ByIndex Naming = iota

	// ByZ names files by the layer height in whole micrometres, for
	// example 20.png, 40.png, ...
	ByZ
)

// DefaultDigits is the width of layer indices in file names.
const DefaultDigits = 5

// Dir writes every layer into an image file in a directory.
//
// The directory must exist. Files are first written under a temporary
// name and then renamed, so that an interrupted run never leaves a
// partially written image behind.
type Dir struct {
	Path   string
	Format Format
	Naming Naming

	// Digits is the minimum number of digits for [ByIndex] file names.
	// The zero value means [DefaultDigits].
	Digits int
}

// NewDir returns a sink writing PNG files named by layer index into the
// directory path.
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

// FileName returns the name of the file for a layer, relative to the
// directory.
func (d *Dir) FileName(index int, z float64) string {
	var base string
	switch d.Naming {
	case ByZ:
		base = fmt.Sprintf("%d", int(math.Round(z*1000)))
	default:
		digits := d.Digits
		if digits <= 0 {
			digits = DefaultDigits
		}
		base = fmt.Sprintf("%0*d", digits, index)
	}
	return base + "." + d.Format.Ext()
}

// WriteLayer implements the [slicer.Sink] interface.
func (d *Dir) WriteLayer(index int, z float64, m *raster.Mask) (err error) {
	tmp, err := os.CreateTemp(d.Path, ".layer-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := d.Format.Encode(w, m); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// CreateTemp uses mode 0600
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(d.Path, d.FileName(index, z)))
}
