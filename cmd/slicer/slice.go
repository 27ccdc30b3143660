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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/browser"

	"seehuhn.de/go/slicer"
	"seehuhn.de/go/slicer/internal/tui"
	"seehuhn.de/go/slicer/mesh"
	"seehuhn.de/go/slicer/profile"
	"seehuhn.de/go/slicer/sink"
	"seehuhn.de/go/slicer/stlio"
)

// plainProgressStep is the number of layers between progress messages
// in plain mode.
const plainProgressStep = 5

// sliceJob slices one input file into an output directory.
type sliceJob struct {
	input   string
	outDir  string
	profile *profile.Profile
	plain   bool
	out     io.Writer // terminal for the progress bar
}

func (j *sliceJob) run(ctx context.Context) (*slicer.Summary, error) {
	log := slicer.Logger()

	tris, err := stlio.ReadFile(j.input)
	if err != nil {
		return nil, err
	}
	m, err := mesh.New(tris)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", j.input, err)
	}
	s, err := slicer.New(j.profile.Slicer)
	if err != nil {
		return nil, err
	}

	if err := j.prepareOutputDir(); err != nil {
		return nil, err
	}
	d := &sink.Dir{
		Path:   j.outDir,
		Format: j.profile.Output.Format,
	}
	if j.profile.Output.NameByZ {
		d.Naming = sink.ByZ
	}

	var summary *slicer.Summary
	if j.useTUI() {
		summary, err = j.runTUI(ctx, s, m, d)
	} else {
		summary, err = j.runPlain(ctx, s, m, d)
	}
	if err != nil {
		return summary, err
	}

	log.Info("layers written", "dir", j.outDir, "count", summary.Layers)
	if j.profile.Output.OpenOutputDir {
		if err := browser.OpenFile(j.outDir); err != nil {
			log.Warn("cannot open output directory", "error", err)
		}
	}
	return summary, nil
}

// useTUI reports whether the progress bar can be shown.
func (j *sliceJob) useTUI() bool {
	if j.plain {
		return false
	}
	f, ok := j.out.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (j *sliceJob) runPlain(ctx context.Context, s *slicer.Slicer, m *mesh.Mesh, d *sink.Dir) (*slicer.Summary, error) {
	log := slicer.Logger()
	progress := make(chan slicer.Snapshot, 16)
	done := make(chan struct{})

	// Snapshots can be dropped, so the step is measured from the last
	// message rather than by divisibility.
	lastLogged := 0
	go func() {
		defer close(done)
		for snap := range progress {
			if snap.Completed < lastLogged+plainProgressStep {
				continue
			}
			lastLogged = snap.Completed
			logProgress(log, snap)
		}
	}()

	summary, err := s.Run(ctx, m, d, progress)
	close(progress)
	<-done
	if summary != nil && summary.Layers > lastLogged {
		logProgress(log, slicer.Snapshot{
			Completed: summary.Layers,
			Total:     summary.Planned,
			Elapsed:   summary.Elapsed,
		})
	}
	return summary, err
}

func logProgress(log *slog.Logger, snap slicer.Snapshot) {
	args := []any{"layer", snap.Completed, "of", snap.Total}
	if snap.RemainingKnown {
		args = append(args, "remaining", snap.Remaining.Round(time.Second))
	}
	log.Info("progress", args...)
}

func (j *sliceJob) runTUI(ctx context.Context, s *slicer.Slicer, m *mesh.Mesh, d *sink.Dir) (*slicer.Summary, error) {
	// log output would garble the progress bar
	log := slicer.Logger()
	slicer.SetLogger(nil)
	defer slicer.SetLogger(log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := make(chan slicer.Snapshot, 16)
	done := make(chan tui.Result, 1)
	go func() {
		summary, err := s.Run(ctx, m, d, progress)
		close(progress)
		done <- tui.Result{Summary: summary, Err: err}
	}()

	g, err := s.Grid(m)
	detail := ""
	if err == nil {
		detail = fmt.Sprintf("%d×%d px → %s", g.Width, g.Height, j.outDir)
	}
	res, err := tui.Run(tui.New(filepath.Base(j.input), detail, progress, done, cancel))
	if err != nil {
		// the display failed, but the run may still be going
		cancel()
		r := <-done
		return r.Summary, errors.Join(r.Err, err)
	}
	return res.Summary, res.Err
}

// prepareOutputDir deletes the output directory, unless this is disabled
// in the profile, and creates it.
func (j *sliceJob) prepareOutputDir() error {
	if !j.profile.Output.KeepOutputDir {
		if err := checkSafeToDelete(j.outDir, j.input); err != nil {
			return err
		}
		if err := os.RemoveAll(j.outDir); err != nil {
			return err
		}
	}
	return os.MkdirAll(j.outDir, 0o755)
}

// checkSafeToDelete refuses to delete a directory which contains the
// input file, the working directory, or the file system root.
func checkSafeToDelete(dir, input string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if absDir == filepath.Dir(absDir) {
		return fmt.Errorf("refusing to delete %s", dir)
	}
	if wd, err := os.Getwd(); err == nil && isWithin(wd, absDir) {
		return fmt.Errorf("refusing to delete %s, which contains the working directory", dir)
	}
	absInput, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if isWithin(absInput, absDir) {
		return fmt.Errorf("refusing to delete %s, which contains the input file", dir)
	}
	return nil
}

// isWithin reports whether path is dir or lies inside dir.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
