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

// Package preview draws cross-sections of a mesh as vector graphics.
//
// The output is a single-page PDF file in which the solid is shown in
// white on a black background, as on the layer masks. Unlike the masks,
// the preview is resolution independent, which helps to inspect thin
// features and the effect of the fill rule.
package preview

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/slicer/mesh"
	"seehuhn.de/go/slicer/raster"
)

// PointsPerMM converts millimetres to PDF points.
const PointsPerMM = 72 / 25.4

// Options controls the appearance of a preview.
type Options struct {
	// Scale is the number of PDF points per mm. The zero value means
	// [PointsPerMM], giving a drawing at 1:1 scale.
	Scale float64

	// Margin is the space around the model, in mm.
	Margin float64

	// FillRule decides which regions are filled.
	FillRule raster.FillRule

	// Outline is the line width in mm for drawing the contours on top of
	// the filled region. Use 0 to omit the outline.
	Outline float64
}

// Section writes the cross-section of m at height z to a PDF file.
// The page covers the xy-extent of the whole mesh, so that previews of
// different layers are registered to each other.
func Section(fileName string, m *mesh.Mesh, z float64, opt *Options) (raster.SectionStats, error) {
	r := &raster.Rasterizer{}
	segs, stats := r.Section(m, z)
	err := WritePDF(fileName, m.BBox(), segs, opt)
	return stats, err
}

// WritePDF writes the region bounded by segs to a PDF file.
// The page shows the xy-extent of box.
func WritePDF(fileName string, box mesh.BBox, segs []raster.Segment, opt *Options) error {
	if opt == nil {
		opt = &Options{}
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = PointsPerMM
	}
	margin := max(opt.Margin, 0)

	size := box.Size()
	width := (size.X + 2*margin) * scale
	height := (size.Y + 2*margin) * scale
	if !(width > 0 && height > 0) {
		return fmt.Errorf("preview: empty page (%gx%g mm)", size.X, size.Y)
	}

	paper := &pdf.Rectangle{URx: width, URy: height}
	page, err := document.CreateSinglePage(fileName, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, width, height)
	page.Fill()

	// PDF user space has y pointing up, like the model.
	page.Transform(matrix.Matrix{
		scale, 0,
		0, scale,
		(margin - box.Min.X) * scale, (margin - box.Min.Y) * scale,
	})

	contours := raster.Contours(segs)
	if len(contours.Cmds) == 0 {
		return page.Close()
	}

	page.SetFillColor(color.DeviceGray(1))
	drawPath(page, contours)
	if opt.FillRule == raster.NonZero {
		page.Fill()
	} else {
		page.FillEvenOdd()
	}

	if opt.Outline > 0 {
		page.SetStrokeColor(color.DeviceGray(0.5))
		page.SetLineWidth(opt.Outline)
		page.SetLineCap(graphics.LineCapRound)
		page.SetLineJoin(graphics.LineJoinRound)
		drawPath(page, contours)
		page.Stroke()
	}

	return page.Close()
}

// drawPath adds the commands of p to the current path of the page.
func drawPath(page *document.Page, p *path.Data) {
	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			pt := p.Coords[coordIdx]
			page.MoveTo(pt.X, pt.Y)
			coordIdx++
		case path.CmdLineTo:
			pt := p.Coords[coordIdx]
			page.LineTo(pt.X, pt.Y)
			coordIdx++
		case path.CmdClose:
			page.ClosePath()
		}
	}
}
