/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Painter receives tip stamps. The surface computes where and what to stamp;
// the sink owns clipping and the actual pixels. Surface itself is the default
// sink, but tests and recorders can substitute their own.
type Painter interface {
	StampTip(tip *image.RGBA, topLeftX, topLeftY int)
}

// Surface is the drawing target: a pixel canvas, the one live brush, and the
// per-stroke interpolator state. Every pointer-move event is processed
// synchronously and in arrival order; all methods must be called from the UI
// event goroutine.
type Surface struct {
	img        *image.RGBA
	brush      *Brush
	interp     Interpolator
	background color.RGBA
	sink       Painter
}

// NewSurface creates a canvas of the given size filled with the background
// color. The surface stamps onto its own canvas unless SetPainter overrides
// the sink.
func NewSurface(w, h int, background color.RGBA) *Surface {
	s := &Surface{
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		brush:      NewBrush(),
		background: background,
	}
	s.sink = s
	s.Clear()
	return s
}

// SetPainter redirects stamps to an alternative sink.
func (s *Surface) SetPainter(p Painter) {
	if p == nil {
		p = s
	}
	s.sink = p
}

// Brush returns the surface's live brush.
func (s *Surface) Brush() *Brush { return s.brush }

// Image exposes the canvas pixels. Callers must not hold the returned image
// across a Resize.
func (s *Surface) Image() *image.RGBA { return s.img }

// Background returns the canvas background color.
func (s *Surface) Background() color.RGBA { return s.background }

// PointerMove handles one pointer sample: every interpolated point between
// the previous sample and this one is stamped, in sweep order, before the
// call returns.
func (s *Surface) PointerMove(p Point) {
	tip := s.brush.Tip()
	off := s.brush.Width() - 1
	for _, q := range s.interp.Observe(p) {
		s.sink.StampTip(tip, q.X-off, q.Y-off)
	}
}

// EndStroke finishes the current stroke on pointer-up or pointer-leave. The
// carried final sample is stamped here because the interpolator never
// re-emits it; afterwards the next PointerMove starts a new stroke.
func (s *Surface) EndStroke() {
	if p, ok := s.interp.Current(); ok {
		tip := s.brush.Tip()
		off := s.brush.Width() - 1
		s.sink.StampTip(tip, p.X-off, p.Y-off)
	}
	s.interp.Reset()
}

// StampTip paints the tip with its top-left corner at (x, y), replacing the
// destination pixels. Portions outside the canvas are clipped.
func (s *Surface) StampTip(tip *image.RGBA, x, y int) {
	b := tip.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(s.img, r, tip, b.Min, draw.Src)
}

// Clear fills the canvas with the background color and abandons any stroke in
// progress.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)
	s.interp.Reset()
}

// Resize rescales the canvas pixels to the new size. Stroke state is reset:
// recorded pointer coordinates no longer line up with the scaled pixels.
func (s *Surface) Resize(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	if b := s.img.Bounds(); w == b.Dx() && h == b.Dy() {
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), xdraw.Src, nil)
	s.img = dst
	s.interp.Reset()
}
