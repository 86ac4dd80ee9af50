/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import "math"

// Point is a pixel coordinate on the canvas, in device pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// span samples the straight segment between two points along its dominant
// ("independent") axis. It emits one (independent, dependent) pair per
// integer step, starting at indStart inclusive and stopping before indEnd.
// The dependent coordinate starts at depStart, advances by the segment slope
// each step, and is rounded half away from zero.
//
// A zero-length sweep (indStart == indEnd) has an undefined slope and yields
// nothing; callers cover that case through the single-point stroke-start
// path.
func span(indStart, indEnd, depStart, depEnd int) [][2]int {
	if indStart == indEnd {
		return nil
	}
	step := 1
	if indEnd < indStart {
		step = -1
	}
	slope := float64(depEnd-depStart) / float64(indEnd-indStart)

	out := make([][2]int, 0, step*(indEnd-indStart))
	dep := float64(depStart)
	for ind := indStart; ind != indEnd; ind += step {
		out = append(out, [2]int{ind, int(math.Round(dep))})
		dep += slope * float64(step)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
