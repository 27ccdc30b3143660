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
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"seehuhn.de/go/slicer/mesh"
	"seehuhn.de/go/slicer/raster"
	"seehuhn.de/go/slicer/testcases"
)

// recorder is a Sink which keeps copies of all masks.
type recorder struct {
	mu     sync.Mutex
	masks  map[int]*raster.Mask
	zs     map[int]float64
	before func(index int) error // called before storing a layer
}

func newRecorder() *recorder {
	return &recorder{
		masks: make(map[int]*raster.Mask),
		zs:    make(map[int]float64),
	}
}

func (r *recorder) WriteLayer(index int, z float64, m *raster.Mask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.before != nil {
		if err := r.before(index); err != nil {
			return err
		}
	}
	r.masks[index] = m.Clone()
	r.zs[index] = z
	return nil
}

func cubeConfig() Config {
	cfg := DefaultConfig()
	cfg.PixelSizeUM = 10
	cfg.LayerHeightUM = 100
	return cfg
}

func TestCubeScenario(t *testing.T) {
	rec := newRecorder()
	summary, err := Slice(context.Background(), cubeConfig(), testcases.Box(0, 0, 0, 1, 1, 1), rec, nil)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Layers != 11 || summary.Planned != 11 {
		t.Errorf("got %d of %d layers, want 11", summary.Layers, summary.Planned)
	}
	if summary.Width != 100 || summary.Height != 100 {
		t.Errorf("masks are %dx%d, want 100x100", summary.Width, summary.Height)
	}
	if summary.Skipped != 4 {
		t.Errorf("%d triangles skipped, want 4 (top and bottom)", summary.Skipped)
	}

	for i := range 11 {
		m, ok := rec.masks[i]
		if !ok {
			t.Fatalf("layer %d missing", i)
		}
		if z := rec.zs[i]; math.Abs(z-float64(i)/10) > 1e-12 {
			t.Errorf("layer %d at z=%g", i, z)
		}
		want := 100 * 100
		if i == 10 {
			want = 0 // top face: nothing above the cut
		}
		if got := m.Count(); got != want {
			t.Errorf("layer %d: %d pixels set, want %d", i, got, want)
		}
	}
}

func TestConfigErrors(t *testing.T) {
	mod := []func(*Config){
		func(c *Config) { c.PixelSizeUM = 0 },
		func(c *Config) { c.PixelSizeUM = math.NaN() },
		func(c *Config) { c.LayerHeightUM = -20 },
		func(c *Config) { c.LayerHeightUM = math.Inf(1) },
		func(c *Config) { c.MarginPX = -1 },
		func(c *Config) { c.FillRule = raster.FillRule(9) },
		func(c *Config) { c.Samples = raster.MaxSamples + 1 },
		func(c *Config) { c.Workers = -2 },
	}
	for i, f := range mod {
		cfg := DefaultConfig()
		f(&cfg)
		if _, err := New(cfg); !errors.Is(err, ErrConfig) {
			t.Errorf("%d: got %v, want ErrConfig", i, err)
		}
	}

	if _, err := New(DefaultConfig()); err != nil {
		t.Errorf("default config: %v", err)
	}
}

func TestGeometryErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Slice(ctx, DefaultConfig(), nil, newRecorder(), nil)
	if !errors.Is(err, ErrEmptyMesh) || errors.Is(err, ErrGeometry) {
		t.Errorf("empty mesh: got %v", err)
	}

	// only a horizontal face
	flat := testcases.Box(0, 0, 0, 1, 1, 1)[:2]
	_, err = Slice(ctx, DefaultConfig(), flat, newRecorder(), nil)
	if !errors.Is(err, mesh.ErrEmpty) {
		t.Errorf("flat mesh: got %v", err)
	}

	cfg := DefaultConfig()
	cfg.PixelSizeUM = 0.001
	_, err = Slice(ctx, cfg, testcases.Box(0, 0, 0, 100, 100, 1), newRecorder(), nil)
	if !errors.Is(err, ErrGeometry) || !errors.Is(err, raster.ErrGridTooLarge) {
		t.Errorf("huge grid: got %v", err)
	}

	cfg = DefaultConfig()
	cfg.LayerHeightUM = 0.001
	_, err = Slice(ctx, cfg, testcases.Box(0, 0, 0, 1, 1, 10), newRecorder(), nil)
	if !errors.Is(err, ErrGeometry) {
		t.Errorf("too many layers: got %v", err)
	}
}

func TestEmptyPlan(t *testing.T) {
	rec := newRecorder()
	summary, err := Slice(context.Background(), cubeConfig(), testcases.Box(0, 0, -2, 1, 1, -1), rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Layers != 0 || len(rec.masks) != 0 {
		t.Errorf("got %d layers for a model below the plate", summary.Layers)
	}
}

func TestCancelAfterN(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		ctx, cancel := context.WithCancel(context.Background())

		rec := newRecorder()
		stored := 0
		rec.before = func(int) error {
			stored++
			if stored == n {
				cancel()
			}
			return nil
		}

		cfg := cubeConfig()
		cfg.Workers = 4
		summary, err := Slice(ctx, cfg, testcases.Box(0, 0, 0, 1, 1, 1), rec, nil)
		cancel()

		if !errors.Is(err, context.Canceled) {
			t.Errorf("n=%d: got error %v, want context.Canceled", n, err)
		}
		if len(rec.masks) != n {
			t.Errorf("n=%d: %d layers stored", n, len(rec.masks))
		}
		if summary == nil || summary.Layers != n {
			t.Errorf("n=%d: summary %+v", n, summary)
		}
	}
}

func TestSinkError(t *testing.T) {
	errDiskFull := errors.New("disk full")
	rec := newRecorder()
	rec.before = func(index int) error {
		if index == 4 {
			return errDiskFull
		}
		return nil
	}

	cfg := cubeConfig()
	cfg.Workers = 1
	summary, err := Slice(context.Background(), cfg, testcases.Box(0, 0, 0, 1, 1, 1), rec, nil)

	var layerErr *LayerError
	if !errors.As(err, &layerErr) {
		t.Fatalf("got %v, want a LayerError", err)
	}
	if layerErr.Layer != 4 {
		t.Errorf("failed layer %d, want 4", layerErr.Layer)
	}
	if !errors.Is(err, ErrIO) || !errors.Is(err, errDiskFull) {
		t.Errorf("error %v does not wrap ErrIO and the sink error", err)
	}
	if summary.Layers != 4 {
		t.Errorf("%d layers stored before the error, want 4", summary.Layers)
	}
}

// TestNoWriteAfterSinkError checks that no layer reaches the sink after
// a failed write, even while other workers are still running.
func TestNoWriteAfterSinkError(t *testing.T) {
	errDiskFull := errors.New("disk full")
	for range 20 {
		calls := 0
		afterError := 0
		sink := SinkFunc(func(index int, z float64, m *raster.Mask) error {
			calls++
			if calls == 3 {
				return errDiskFull
			}
			if calls > 3 {
				afterError++
			}
			return nil
		})

		cfg := cubeConfig()
		cfg.Workers = 8
		summary, err := Slice(context.Background(), cfg, testcases.Box(0, 0, 0, 1, 1, 1), sink, nil)
		if !errors.Is(err, errDiskFull) {
			t.Fatalf("got %v, want the sink error", err)
		}
		if afterError != 0 {
			t.Fatalf("%d layers written after the error", afterError)
		}
		if summary.Layers != 2 {
			t.Errorf("%d layers stored, want 2", summary.Layers)
		}
	}
}

func TestProgress(t *testing.T) {
	progress := make(chan Snapshot, 100)
	summary, err := Slice(context.Background(), cubeConfig(), testcases.Box(0, 0, 0, 1, 1, 1), newRecorder(), progress)
	if err != nil {
		t.Fatal(err)
	}
	close(progress)

	prev := 0
	n := 0
	for s := range progress {
		if s.Completed <= prev || s.Total != summary.Planned {
			t.Errorf("snapshot %+v after %d", s, prev)
		}
		prev = s.Completed
		n++
	}
	if n != summary.Layers || prev != summary.Layers {
		t.Errorf("got %d snapshots ending at %d, want %d", n, prev, summary.Layers)
	}
}

func TestProgressSlowReceiver(t *testing.T) {
	// nobody reads from the channel
	progress := make(chan Snapshot)
	summary, err := Slice(context.Background(), cubeConfig(), testcases.Box(0, 0, 0, 1, 1, 1), newRecorder(), progress)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Layers != 11 {
		t.Errorf("got %d layers, want 11", summary.Layers)
	}
}

func TestWorkersAgree(t *testing.T) {
	s := testcases.All["sdf"][0]
	cfg := DefaultConfig()
	cfg.PixelSizeUM = s.PixelSize * 1000
	cfg.LayerHeightUM = 500
	cfg.KeepAboveZero = true

	var results []*recorder
	for _, workers := range []int{1, 8} {
		cfg.Workers = workers
		rec := newRecorder()
		if _, err := Slice(context.Background(), cfg, s.Tris, rec, nil); err != nil {
			t.Fatal(err)
		}
		results = append(results, rec)
	}

	a, b := results[0], results[1]
	if len(a.masks) == 0 || len(a.masks) != len(b.masks) {
		t.Fatalf("got %d and %d layers", len(a.masks), len(b.masks))
	}
	for i, m := range a.masks {
		if !m.Equal(b.masks[i]) {
			t.Errorf("layer %d differs", i)
		}
	}
}
