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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/slicer/mesh"
	"seehuhn.de/go/slicer/raster"
)

// MaxLayers is the largest number of layers in a run.
const MaxLayers = 1 << 20

// Sink receives the layer masks of a run.
//
// Calls to WriteLayer are serialized, but layers may arrive out of order.
// The mask is only valid for the duration of the call; implementations
// which keep the data must copy it.
type Sink interface {
	WriteLayer(index int, z float64, m *raster.Mask) error
}

// SinkFunc adapts an ordinary function to the [Sink] interface.
type SinkFunc func(index int, z float64, m *raster.Mask) error

// WriteLayer calls f(index, z, m).
func (f SinkFunc) WriteLayer(index int, z float64, m *raster.Mask) error {
	return f(index, z, m)
}

// Summary describes a finished run.
type Summary struct {
	Layers  int // layers handed to the sink
	Planned int // layers in the plan

	// Width and Height give the size of every mask, in pixels.
	Width, Height int

	// Skipped is the number of degenerate input triangles.
	Skipped int

	// Tangent is the number of triangles which touched a cutting plane
	// without crossing it, summed over all layers.
	Tangent int

	Elapsed time.Duration
}

// Slicer slices meshes using a fixed configuration.
// A Slicer can be used for several concurrent runs.
type Slicer struct {
	cfg Config
}

// New returns a Slicer for the given configuration.
// If the configuration is invalid, the error wraps [ErrConfig].
func New(cfg Config) (*Slicer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Slicer{cfg: cfg}, nil
}

// Config returns the configuration of the slicer.
func (s *Slicer) Config() Config {
	return s.cfg
}

// Grid returns the pixel grid used for slicing m.
// If the grid would be too large, the error wraps [ErrGeometry].
func (s *Slicer) Grid(m *mesh.Mesh) (*raster.Grid, error) {
	g, err := raster.NewGrid(m.BBox(), s.cfg.pixelSize(), s.cfg.MarginPX)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeometry, err)
	}
	return g, nil
}

// Plan returns the layers for slicing m.
// If there would be more than [MaxLayers] layers, the error wraps
// [ErrGeometry].
func (s *Slicer) Plan(m *mesh.Mesh) ([]Layer, error) {
	box := m.BBox()
	if n := (box.Max.Z - box.Min.Z) / s.cfg.layerHeight(); n >= MaxLayers {
		return nil, fmt.Errorf("%w: %.0f layers", ErrGeometry, n)
	}
	return PlanLayers(box, s.cfg), nil
}

// worker holds the per-goroutine state of a run.
type worker struct {
	r    *raster.Rasterizer
	mask *raster.Mask
}

// Run slices m and hands the layer masks to sink.
//
// Layers are rasterized concurrently, using up to cfg.Workers goroutines.
// After every stored layer a progress snapshot is offered on progress,
// if non-nil. Snapshots are dropped if the receiver is not ready, so a
// slow front end never delays the run. Run does not close the channel.
//
// If ctx is cancelled, no new layers are started and no further layers
// are handed to the sink. Run then returns the summary of the layers
// stored so far, together with the context's error. If the sink fails,
// the run is aborted and the error is a [*LayerError] wrapping [ErrIO].
func (s *Slicer) Run(ctx context.Context, m *mesh.Mesh, sink Sink, progress chan<- Snapshot) (*Summary, error) {
	start := time.Now()
	log := Logger()

	g, err := s.Grid(m)
	if err != nil {
		return nil, err
	}
	layers, err := s.Plan(m)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Planned: len(layers),
		Width:   g.Width,
		Height:  g.Height,
		Skipped: m.Skipped(),
	}
	if summary.Skipped > 0 {
		log.Warn("skipped degenerate triangles", "count", summary.Skipped)
	}
	log.Info("slicing",
		"layers", len(layers),
		"width", g.Width,
		"height", g.Height,
		"triangles", m.Len())

	nWorkers := min(s.cfg.workers(), max(len(layers), 1))
	free := make(chan *worker, nWorkers)
	for range nWorkers {
		r := raster.NewRasterizer(g)
		r.Rule = s.cfg.FillRule
		r.Samples = s.cfg.samples()
		free <- &worker{r: r, mask: g.NewMask()}
	}

	tracker := NewTracker(len(layers))
	var (
		handoff sync.Mutex
		failed  bool // guarded by handoff
		tangent atomic.Int64
	)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(nWorkers)
	for _, layer := range layers {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			w := <-free
			defer func() { free <- w }()

			stats := w.r.Rasterize(m, layer.ModelZ, w.mask)
			tangent.Add(int64(stats.Tangent))

			handoff.Lock()
			defer handoff.Unlock()
			// gctx is only cancelled after a failing goroutine returns
			if failed || gctx.Err() != nil {
				return nil
			}
			if err := sink.WriteLayer(layer.Index, layer.Z, w.mask); err != nil {
				failed = true
				return &LayerError{
					Layer: layer.Index,
					Z:     layer.Z,
					Err:   fmt.Errorf("%w: %w", ErrIO, err),
				}
			}

			snap := tracker.Done()
			log.Debug("layer done",
				"index", layer.Index,
				"z", layer.Z,
				"segments", stats.Segments,
				"tangent", stats.Tangent)
			if progress != nil {
				select {
				case progress <- snap:
				default:
				}
			}
			return nil
		})
	}
	err = group.Wait()

	summary.Layers = tracker.Snapshot().Completed
	summary.Tangent = int(tangent.Load())
	summary.Elapsed = time.Since(start)

	if err == nil && summary.Layers < summary.Planned {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("slicing cancelled", "stored", summary.Layers, "planned", summary.Planned)
		} else {
			log.Error("slicing failed", "error", err)
		}
		return summary, err
	}

	log.Info("slicing done", "layers", summary.Layers, "elapsed", summary.Elapsed)
	return summary, nil
}

// Slice validates cfg, builds a mesh from tris and slices it.
// If no usable triangle is left, the error is [ErrEmptyMesh].
// See [Slicer.Run] for details.
func Slice(ctx context.Context, cfg Config, tris []mesh.Triangle, sink Sink, progress chan<- Snapshot) (*Summary, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	m, err := mesh.New(tris)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, m, sink, progress)
}
