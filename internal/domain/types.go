/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the data model for an Ink Pad sketch. A sketch records
// the raw pointer samples of every stroke rather than the rasterized bitmap;
// replaying the samples through the raster engine reproduces the bitmap
// exactly, so the manifest stays small and resolution-honest.

// Sketch is the top-level document, serialized to a human-readable JSON
// manifest (sketch.json).
type Sketch struct {
	Name       string   `json:"name"`
	Metadata   Metadata `json:"metadata,omitempty"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Background Color    `json:"background"`
	Strokes    []Stroke `json:"strokes"`
}

// Metadata contains optional descriptive metadata for a sketch.
type Metadata struct {
	Author  string `json:"author,omitempty"`
	Created string `json:"created,omitempty"` // RFC 3339
	Notes   string `json:"notes,omitempty"`
}

// Stroke is one continuous pointer-down-to-pointer-up gesture. Points are the
// sampled pointer positions in canvas device pixels, in arrival order; the
// dense in-between pixels are recomputed on replay.
type Stroke struct {
	ID     string     `json:"id"`
	Brush  BrushStyle `json:"brush"`
	Points []Point    `json:"points"`
}

// BrushStyle is the brush configuration a stroke was drawn with.
type BrushStyle struct {
	Color Color `json:"color"`
	Width int   `json:"width"` // diameter in pixels, >= 1
}

// Point is an integer pixel coordinate in canvas space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Color is an 8-bit-per-channel RGBA color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// White is the default canvas background.
var White = Color{R: 255, G: 255, B: 255, A: 255}

// SampleCount returns the total number of recorded pointer samples across all
// strokes.
func (s *Sketch) SampleCount() int {
	n := 0
	for _, st := range s.Strokes {
		n += len(st.Points)
	}
	return n
}
