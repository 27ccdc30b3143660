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

// Command slicer converts an STL file into a directory of layer images
// for resin 3D printers.
//
// Usage:
//
//	slicer [flags] <input.stl> <output-dir>
//	slicer section [flags] <input.stl> <z> <output.pdf>
//	slicer info [flags] <input.stl>
//
// By default the output directory is deleted and re-created before
// slicing. Use --keep-output-dir to keep existing files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"seehuhn.de/go/slicer"
	"seehuhn.de/go/slicer/profile"
	"seehuhn.de/go/slicer/raster"
	"seehuhn.de/go/slicer/sink"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

// options collects the command line flags shared by all subcommands.
type options struct {
	configFile string
	verbose    bool

	pixelSize         float64
	layerHeight       float64
	zeroSlicePosition bool
	zeroSliceMode     string
	keepAboveZero     bool
	margin            int
	fillRule          string
	samples           int
	workers           int

	format        string
	nameByZ       bool
	keepOutputDir bool
	openOutputDir bool
	plain         bool
	watch         bool
}

func newRootCmd() *cobra.Command {
	opt := &options{}
	cmd := &cobra.Command{
		Use:   "slicer [flags] <input.stl> <output-dir>",
		Short: "Slice an STL file into layer images for resin printers",
		Long: `Slice an STL file into layer images for resin printers.

Every layer is written as a grayscale image into the output directory.
White pixels are inside the model, black pixels are outside.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, opt.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opt.profile(cmd)
			if err != nil {
				return err
			}
			job := &sliceJob{
				input:   args[0],
				outDir:  args[1],
				profile: p,
				plain:   opt.plain,
				out:     cmd.ErrOrStderr(),
			}
			if opt.watch {
				return watch(cmd.Context(), job)
			}
			_, err = job.run(cmd.Context())
			return err
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opt.configFile, "config", "c", "", "printer profile (.toml, .yaml)")
	pf.BoolVarP(&opt.verbose, "verbose", "v", false, "show debug messages")
	pf.Float64VarP(&opt.pixelSize, "pixel-size", "p", slicer.DefaultPixelSizeUM, "pixel size in µm")
	pf.Float64VarP(&opt.layerHeight, "layer-height", "l", slicer.DefaultLayerHeightUM, "layer height in µm")
	pf.BoolVar(&opt.zeroSlicePosition, "zero-slice-position", false, "move the bottom of the model to z=0")
	pf.StringVar(&opt.zeroSliceMode, "zero-slice-mode", slicer.Rebase.String(),
		"with --zero-slice-position: rebase (move the model up) or rename-only")
	pf.BoolVar(&opt.keepAboveZero, "keep-above-zero", false, "keep layers below z=0")
	pf.IntVar(&opt.margin, "margin", 0, "empty pixels around the model")
	pf.StringVar(&opt.fillRule, "fill-rule", raster.EvenOdd.String(), "fill rule: evenodd or nonzero")

	f := cmd.Flags()
	f.IntVar(&opt.samples, "samples", 1, "samples per pixel and axis, for anti-aliasing")
	f.IntVar(&opt.workers, "workers", 0, "number of layers sliced in parallel (0 = all CPUs)")
	f.StringVar(&opt.format, "format", sink.PNG.Ext(), "image format: png, bmp or tiff")
	f.BoolVar(&opt.nameByZ, "name-by-z", false, "name files by layer height in µm")
	f.BoolVar(&opt.keepOutputDir, "keep-output-dir", false, "do not delete the output directory first")
	f.BoolVar(&opt.openOutputDir, "open-output-dir", false, "open the output directory when done")
	f.BoolVar(&opt.plain, "plain", false, "print log messages instead of a progress bar")
	f.BoolVarP(&opt.watch, "watch", "w", false, "slice again whenever the input file changes")

	cmd.AddCommand(newSectionCmd(opt), newInfoCmd(opt))
	return cmd
}

// profile returns the printer profile, with values from the command line
// taking precedence over the profile file.
func (opt *options) profile(cmd *cobra.Command) (*profile.Profile, error) {
	p := profile.Default()
	if opt.configFile != "" {
		var err error
		p, err = profile.Load(opt.configFile)
		if err != nil {
			return nil, err
		}
	}

	changed := func(name string) bool {
		return cmd.Flags().Changed(name)
	}
	if changed("pixel-size") {
		p.Slicer.PixelSizeUM = opt.pixelSize
	}
	if changed("layer-height") {
		p.Slicer.LayerHeightUM = opt.layerHeight
	}
	if changed("zero-slice-position") {
		p.Slicer.ZeroSlicePosition = opt.zeroSlicePosition
	}
	if changed("zero-slice-mode") {
		mode, err := slicer.ParseZeroSliceMode(opt.zeroSliceMode)
		if err != nil {
			return nil, err
		}
		p.Slicer.ZeroSliceMode = mode
	}
	if changed("keep-above-zero") {
		p.Slicer.KeepAboveZero = opt.keepAboveZero
	}
	if changed("margin") {
		p.Slicer.MarginPX = opt.margin
	}
	if changed("fill-rule") {
		rule, err := raster.ParseFillRule(opt.fillRule)
		if err != nil {
			return nil, err
		}
		p.Slicer.FillRule = rule
	}
	if changed("samples") {
		p.Slicer.Samples = opt.samples
	}
	if changed("workers") {
		p.Slicer.Workers = opt.workers
	}
	if changed("format") {
		format, err := sink.ParseFormat(opt.format)
		if err != nil {
			return nil, err
		}
		p.Output.Format = format
	}
	if changed("name-by-z") {
		p.Output.NameByZ = opt.nameByZ
	}
	if changed("keep-output-dir") {
		p.Output.KeepOutputDir = opt.keepOutputDir
	}
	if changed("open-output-dir") {
		p.Output.OpenOutputDir = opt.openOutputDir
	}

	if err := p.Slicer.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// setupLogging sends log messages of the slicer to the error output of
// the command.
func setupLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slicer.SetLogger(slog.New(h))
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
