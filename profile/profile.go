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

// Package profile loads printer profiles from TOML or YAML files.
//
// A profile combines the slicing parameters with the settings for the
// output directory. Fields which are missing from a file keep their
// default values. Example (TOML):
//
//	name = "Mono 4K"
//
//	[slicer]
//	pixel_size_um = 35
//	layer_height_um = 50
//	zero_slice_position = true
//	zero_slice_mode = "rename-only"
//	fill_rule = "nonzero"
//
//	[output]
//	format = "png"
//	name_by_z = true
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/slicer"
	"seehuhn.de/go/slicer/sink"
)

// ErrUnknownFormat is returned for file names with an unsupported
// extension.
var ErrUnknownFormat = errors.New("profile: unknown file format")

// Profile holds the settings for one printer.
type Profile struct {
	Name   string        `toml:"name" yaml:"name"`
	Slicer slicer.Config `toml:"slicer" yaml:"slicer"`
	Output Output        `toml:"output" yaml:"output"`
}

// Output describes how layer images are stored.
type Output struct {
	Format  sink.Format `toml:"format" yaml:"format"`
	NameByZ bool        `toml:"name_by_z" yaml:"name_by_z"`

	// KeepOutputDir keeps an existing output directory and its contents.
	// By default, the directory is deleted before slicing.
	KeepOutputDir bool `toml:"keep_output_dir" yaml:"keep_output_dir"`

	// OpenOutputDir opens the output directory in the file manager
	// after a successful run.
	OpenOutputDir bool `toml:"open_output_dir" yaml:"open_output_dir"`
}

// Default returns the profile used when no file is given.
func Default() *Profile {
	return &Profile{
		Name:   "default",
		Slicer: slicer.DefaultConfig(),
	}
}

// Load reads a profile from a file. The format is chosen by the file name
// extension: ".toml", ".yaml" or ".yml". Unknown keys are an error.
// The slicing parameters are validated.
func Load(fileName string) (*Profile, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	p, err := Decode(data, filepath.Ext(fileName))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return p, nil
}

// Decode parses a profile in the format given by ext.
func Decode(data []byte, ext string) (*Profile, error) {
	p := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(p); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, ext)
	}

	if err := p.Slicer.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the profile to a file, in the format given by the file
// name extension.
func (p *Profile) Save(fileName string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".toml":
		data, err = toml.Marshal(p)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(p)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, filepath.Ext(fileName))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(fileName, data, 0o644)
}
