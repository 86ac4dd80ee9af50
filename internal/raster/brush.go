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
	"strconv"
)

// Brush holds the live color and width and caches the square tip image that
// gets stamped at every interpolated point. There is one brush per surface;
// strokes do not keep their own brush history.
type Brush struct {
	color color.RGBA
	width int
	tip   *image.RGBA // rebuilt lazily after color or width changes
}

// NewBrush returns a 1px opaque black brush.
func NewBrush() *Brush {
	return &Brush{color: color.RGBA{A: 0xff}, width: 1}
}

// SetColor parses a 6-hex-digit color string ("ff8800") by pairwise base-16
// decode and stores it with the given alpha. Malformed strings yield an
// unspecified color; validating them is the caller's concern.
func (b *Brush) SetColor(hex string, alpha uint8) {
	var rgb [3]uint8
	for i := 0; i < 3 && 2*i+2 <= len(hex); i++ {
		v, _ := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		rgb[i] = uint8(v)
	}
	b.color = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}
	b.tip = nil
}

// SetWidth sets the brush diameter in pixels. Values below 1 are clamped.
func (b *Brush) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	b.width = w
	b.tip = nil
}

// Width returns the brush diameter in pixels.
func (b *Brush) Width() int { return b.width }

// Color returns the current brush color.
func (b *Brush) Color() color.RGBA { return b.color }

// Tip returns the square tip buffer, rebuilding it if color or width changed
// since the last call. The side length is 2*width-1, always odd, so the tip
// has a well-defined center pixel to place on the stamped point.
func (b *Brush) Tip() *image.RGBA {
	if b.tip != nil {
		return b.tip
	}
	side := 2*b.width - 1
	tip := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(tip, tip.Bounds(), image.NewUniform(b.color), image.Point{}, draw.Src)
	b.tip = tip
	return tip
}
