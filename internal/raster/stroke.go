/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

// Interpolator reconstructs a dense pixel path from the sparse samples of one
// stroke. It remembers the previous sample; each Observe call fills in every
// integer step along the dominant axis between that sample and the new one.
//
// The zero value is ready to use and represents a fresh stroke.
type Interpolator struct {
	prev    Point
	hasPrev bool
}

// Observe records a pointer sample and returns the points to stamp for it, in
// sweep order. The first sample after a reset yields exactly itself. For
// later samples the dominant axis is the one with the larger absolute delta
// (ties go to x); the sweep runs from the smaller independent coordinate to
// the larger, covers the low endpoint and stops before the high one. The new
// sample always becomes the carried previous point, whether or not it was
// emitted.
//
// Calling Observe with a sample equal to the previous one returns no points.
func (it *Interpolator) Observe(p Point) []Point {
	if !it.hasPrev {
		it.prev = p
		it.hasPrev = true
		return []Point{p}
	}
	p0 := it.prev
	it.prev = p

	out := []Point{}
	if abs(p.X-p0.X) >= abs(p.Y-p0.Y) {
		x0, y0, x1, y1 := p0.X, p0.Y, p.X, p.Y
		if x1 < x0 {
			x0, y0, x1, y1 = x1, y1, x0, y0
		}
		for _, s := range span(x0, x1, y0, y1) {
			out = append(out, Point{X: s[0], Y: s[1]})
		}
	} else {
		y0, x0, y1, x1 := p0.Y, p0.X, p.Y, p.X
		if y1 < y0 {
			y0, x0, y1, x1 = y1, x1, y0, x0
		}
		for _, s := range span(y0, y1, x0, x1) {
			out = append(out, Point{X: s[1], Y: s[0]})
		}
	}
	return out
}

// Current returns the carried previous point, if any. The carried point is
// the most recent sample; depending on sweep direction it may not have been
// emitted yet.
func (it *Interpolator) Current() (Point, bool) {
	return it.prev, it.hasPrev
}

// Reset clears the carried point. The next Observe behaves as a stroke start.
// Pointer-up and pointer-leave both end the stroke this way.
func (it *Interpolator) Reset() {
	it.prev = Point{}
	it.hasPrev = false
}
