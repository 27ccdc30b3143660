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
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"seehuhn.de/go/slicer"
)

// watchDelay is the time to wait after the last change of the input file
// before slicing again. Exporters often write a file in several steps.
var watchDelay = 300 * time.Millisecond

// watch slices the input file once and then again every time it changes,
// until ctx is cancelled. Errors of individual runs are logged, but do
// not end the watch.
func watch(ctx context.Context, job *sliceJob) error {
	log := slicer.Logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, since editors replace files by renaming.
	input, err := filepath.Abs(job.input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return err
	}

	slice := func() {
		_, err := job.run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("slicing failed", "input", job.input, "error", err)
		}
	}
	slice()
	log.Info("watching for changes", "input", job.input)

	timer := time.NewTimer(watchDelay)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(watchDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher", "error", err)

		case <-timer.C:
			log.Info("input changed", "input", job.input)
			slice()
		}
	}
}
