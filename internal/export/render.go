/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders sketches to raster images and writes PNG/PDF output.
// Rendering replays the recorded strokes through the same engine the canvas
// uses, so exported pixels match what was drawn on screen.
package export

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"inkpad/internal/domain"
	"inkpad/internal/raster"
)

// Render replays all strokes of the sketch onto a fresh surface and returns
// the resulting bitmap.
func Render(sk domain.Sketch) (*image.RGBA, error) {
	if sk.Width <= 0 || sk.Height <= 0 {
		return nil, fmt.Errorf("invalid sketch dimensions %dx%d", sk.Width, sk.Height)
	}
	s := raster.NewSurface(sk.Width, sk.Height, toRGBA(sk.Background))
	for _, st := range sk.Strokes {
		applyBrush(s.Brush(), st.Brush)
		for _, p := range st.Points {
			s.PointerMove(raster.Point{X: p.X, Y: p.Y})
		}
		s.EndStroke()
	}
	return s.Image(), nil
}

// Thumbnail renders the sketch and scales the result to fit within maxW x
// maxH, preserving aspect ratio.
func Thumbnail(sk domain.Sketch, maxW, maxH int) (*image.RGBA, error) {
	if maxW <= 0 || maxH <= 0 {
		return nil, fmt.Errorf("invalid thumbnail bounds %dx%d", maxW, maxH)
	}
	full, err := Render(sk)
	if err != nil {
		return nil, err
	}
	fw := full.Bounds().Dx()
	fh := full.Bounds().Dy()
	sx := float64(maxW) / float64(fw)
	sy := float64(maxH) / float64(fh)
	scale := sx
	if sy < scale {
		scale = sy
	}
	if scale >= 1 {
		return full, nil
	}
	tw := int(float64(fw) * scale)
	th := int(float64(fh) * scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	thumb := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), full, full.Bounds(), xdraw.Src, nil)
	return thumb, nil
}

func applyBrush(b *raster.Brush, style domain.BrushStyle) {
	b.SetWidth(style.Width)
	b.SetColor(fmt.Sprintf("%02x%02x%02x", style.Color.R, style.Color.G, style.Color.B), style.Color.A)
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
