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
	"sync/atomic"
	"time"
)

// Snapshot describes the progress of a run at one point in time.
type Snapshot struct {
	Completed int // number of layers stored so far
	Total     int // number of layers in the run

	Elapsed time.Duration

	// Remaining is the estimated time until the run completes.
	// It is only valid if RemainingKnown is true.
	Remaining      time.Duration
	RemainingKnown bool
}

// Fraction returns the completed fraction of the run, between 0 and 1.
// A run without layers is reported as complete.
func (s Snapshot) Fraction() float64 {
	if s.Total <= 0 {
		return 1
	}
	return float64(s.Completed) / float64(s.Total)
}

// Tracker counts completed layers.
// A Tracker is safe for concurrent use.
type Tracker struct {
	total     int64
	completed atomic.Int64
	start     time.Time

	now func() time.Time // for testing
}

// NewTracker returns a tracker for a run with the given number of layers.
// The clock starts immediately.
func NewTracker(total int) *Tracker {
	return newTrackerWithClock(total, time.Now)
}

func newTrackerWithClock(total int, now func() time.Time) *Tracker {
	return &Tracker{
		total: int64(max(total, 0)),
		start: now(),
		now:   now,
	}
}

// Done records one completed layer and returns the new progress.
// The count never exceeds the total.
func (t *Tracker) Done() Snapshot {
	for {
		old := t.completed.Load()
		if old >= t.total {
			break
		}
		if t.completed.CompareAndSwap(old, old+1) {
			break
		}
	}
	return t.Snapshot()
}

// Snapshot returns the current progress.
func (t *Tracker) Snapshot() Snapshot {
	completed := t.completed.Load()
	elapsed := t.now().Sub(t.start)
	s := Snapshot{
		Completed: int(completed),
		Total:     int(t.total),
		Elapsed:   elapsed,
	}
	if completed > 0 {
		perLayer := float64(elapsed) / float64(completed)
		s.Remaining = time.Duration(perLayer * float64(t.total-completed))
		s.RemainingKnown = true
	}
	return s
}
