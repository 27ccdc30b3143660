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
	"fmt"
	"math"
	"runtime"
	"strings"

	"seehuhn.de/go/slicer/raster"
)

// Default values for the configuration.
const (
	DefaultPixelSizeUM   = 33.3333
	DefaultLayerHeightUM = 20
)

// Config holds the parameters of a slicing run.
// A Config must pass [Config.Validate] before use and is not modified
// afterwards.
type Config struct {
	// PixelSizeUM is the side length of a pixel, in micrometres.
	PixelSizeUM float64 `toml:"pixel_size_um" yaml:"pixel_size_um"`

	// LayerHeightUM is the distance between layers, in micrometres.
	LayerHeightUM float64 `toml:"layer_height_um" yaml:"layer_height_um"`

	// ZeroSlicePosition reports layer heights relative to the lowest
	// point of the model, so that the first layer is at z=0.
	ZeroSlicePosition bool `toml:"zero_slice_position" yaml:"zero_slice_position"`

	// ZeroSliceMode decides whether ZeroSlicePosition moves the model
	// before layers below z=0 are removed.
	ZeroSliceMode ZeroSliceMode `toml:"zero_slice_mode" yaml:"zero_slice_mode"`

	// KeepAboveZero disables the removal of layers with z < 0.
	// By default, these layers are dropped before slicing.
	KeepAboveZero bool `toml:"keep_above_zero" yaml:"keep_above_zero"`

	// MarginPX is the number of empty pixels added around the model on
	// every side.
	MarginPX int `toml:"margin_px" yaml:"margin_px"`

	// FillRule decides which points are inside the solid.
	// The default, [raster.EvenOdd], tolerates meshes with inconsistent
	// normals.
	FillRule raster.FillRule `toml:"fill_rule" yaml:"fill_rule"`

	// Samples is the number of samples per pixel along each axis, between
	// 1 and [raster.MaxSamples]. The value 0 is treated as 1, giving
	// binary masks.
	Samples int `toml:"samples" yaml:"samples"`

	// Workers limits the number of layers processed concurrently.
	// The value 0 means runtime.GOMAXPROCS(0).
	Workers int `toml:"workers" yaml:"workers"`
}

// ZeroSliceMode selects the meaning of [Config.ZeroSlicePosition].
type ZeroSliceMode int

const (
	// Rebase moves the model down so that its lowest point is at z=0
	// before layers below z=0 are removed. No layer of the model is lost.
	Rebase ZeroSliceMode = iota

	// RenameOnly leaves the model in place. Layers below z=0 in mesh
	// coordinates are removed, and the remaining layers keep the
	// heights they would have had after rebasing.
	RenameOnly
)

func (m ZeroSliceMode) String() string {
	switch m {
	case Rebase:
		return "rebase"
	case RenameOnly:
		return "rename-only"
	default:
		return fmt.Sprintf("ZeroSliceMode(%d)", int(m))
	}
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (m ZeroSliceMode) MarshalText() ([]byte, error) {
	if m != Rebase && m != RenameOnly {
		return nil, fmt.Errorf("slicer: invalid zero slice mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (m *ZeroSliceMode) UnmarshalText(text []byte) error {
	mode, err := ParseZeroSliceMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ParseZeroSliceMode converts "rebase" or "rename-only" to a
// ZeroSliceMode.
func ParseZeroSliceMode(s string) (ZeroSliceMode, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "rebase":
		return Rebase, nil
	case "renameonly":
		return RenameOnly, nil
	}
	return 0, fmt.Errorf("slicer: unknown zero slice mode %q", s)
}

// DefaultConfig returns the configuration used when nothing else is
// specified.
func DefaultConfig() Config {
	return Config{
		PixelSizeUM:   DefaultPixelSizeUM,
		LayerHeightUM: DefaultLayerHeightUM,
		Samples:       1,
	}
}

// Validate checks the configuration. The returned error wraps [ErrConfig].
func (c Config) Validate() error {
	if !positive(c.PixelSizeUM) {
		return fmt.Errorf("%w: pixel size %g µm", ErrConfig, c.PixelSizeUM)
	}
	if !positive(c.LayerHeightUM) {
		return fmt.Errorf("%w: layer height %g µm", ErrConfig, c.LayerHeightUM)
	}
	if c.ZeroSliceMode != Rebase && c.ZeroSliceMode != RenameOnly {
		return fmt.Errorf("%w: %s", ErrConfig, c.ZeroSliceMode)
	}
	if c.MarginPX < 0 {
		return fmt.Errorf("%w: negative margin %d", ErrConfig, c.MarginPX)
	}
	if c.FillRule != raster.EvenOdd && c.FillRule != raster.NonZero {
		return fmt.Errorf("%w: %s", ErrConfig, c.FillRule)
	}
	if c.Samples < 0 || c.Samples > raster.MaxSamples {
		return fmt.Errorf("%w: %d samples per pixel, want 1 to %d",
			ErrConfig, c.Samples, raster.MaxSamples)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative number of workers", ErrConfig)
	}
	return nil
}

// pixelSize returns the pixel size in mm.
func (c Config) pixelSize() float64 {
	return c.PixelSizeUM / 1000
}

// layerHeight returns the layer height in mm.
func (c Config) layerHeight() float64 {
	return c.LayerHeightUM / 1000
}

func (c Config) samples() int {
	return max(c.Samples, 1)
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
