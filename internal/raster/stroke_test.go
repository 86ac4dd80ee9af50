/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import "testing"

func equalPoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestObserveStrokeStart(t *testing.T) {
	var it Interpolator
	got := it.Observe(Point{5, 5})
	if !equalPoints(got, []Point{{5, 5}}) {
		t.Fatalf("first observe: got %v, want [(5,5)]", got)
	}
}

func TestObserveHorizontalSegment(t *testing.T) {
	var it Interpolator
	it.Observe(Point{5, 5})
	got := it.Observe(Point{10, 5})
	want := []Point{{5, 5}, {6, 5}, {7, 5}, {8, 5}, {9, 5}}
	if !equalPoints(got, want) {
		t.Fatalf("horizontal segment: got %v, want %v", got, want)
	}
}

func TestObserveSteepSegmentSweepsAlongY(t *testing.T) {
	var it Interpolator
	first := it.Observe(Point{0, 0})
	if !equalPoints(first, []Point{{0, 0}}) {
		t.Fatalf("stroke start: got %v", first)
	}
	got := it.Observe(Point{2, 4})
	// |dy| > |dx|, so y is independent; x follows at slope 0.5 and rounds
	// half away from zero.
	want := []Point{{0, 0}, {1, 1}, {1, 2}, {2, 3}}
	if !equalPoints(got, want) {
		t.Fatalf("steep segment: got %v, want %v", got, want)
	}
}

func TestObserveTieUsesXAsIndependent(t *testing.T) {
	var it Interpolator
	it.Observe(Point{0, 0})
	got := it.Observe(Point{3, 3})
	want := []Point{{0, 0}, {1, 1}, {2, 2}}
	if !equalPoints(got, want) {
		t.Fatalf("diagonal tie: got %v, want %v", got, want)
	}
}

func TestObserveRepeatedSampleYieldsNothing(t *testing.T) {
	var it Interpolator
	it.Observe(Point{7, 7})
	if got := it.Observe(Point{7, 7}); len(got) != 0 {
		t.Fatalf("repeated sample must yield no points, got %v", got)
	}
}

func TestObserveGapFreeAlongDominantAxis(t *testing.T) {
	samples := []Point{{13, 5}, {13, 21}, {2, 18}, {-4, -3}, {40, -2}}
	var it Interpolator
	it.Observe(Point{0, 0})
	for _, p := range samples {
		out := it.Observe(p)
		for i := 1; i < len(out); i++ {
			dx := abs(out[i].X - out[i-1].X)
			dy := abs(out[i].Y - out[i-1].Y)
			major := dx
			if dy > dx {
				major = dy
			}
			minor := dx + dy - major
			if major != 1 || minor > 1 {
				t.Fatalf("gap between %v and %v after sample %v", out[i-1], out[i], p)
			}
		}
	}
}

func TestObserveReverseSweepPreservesPairing(t *testing.T) {
	var it Interpolator
	it.Observe(Point{10, 5})
	got := it.Observe(Point{5, 5})
	// The sweep is ordered low-to-high on x; the new sample is covered and
	// the old one (already stamped) is excluded.
	want := []Point{{5, 5}, {6, 5}, {7, 5}, {8, 5}, {9, 5}}
	if !equalPoints(got, want) {
		t.Fatalf("reverse sweep: got %v, want %v", got, want)
	}
	if p, ok := it.Current(); !ok || p != (Point{5, 5}) {
		t.Fatalf("carried point: got %v (%v), want (5,5)", p, ok)
	}
}

func TestResetStartsNewStroke(t *testing.T) {
	var it Interpolator
	it.Observe(Point{0, 0})
	it.Observe(Point{9, 9})
	it.Reset()
	got := it.Observe(Point{1, 1})
	if !equalPoints(got, []Point{{1, 1}}) {
		t.Fatalf("observe after reset: got %v, want [(1,1)]", got)
	}
}

func TestObserveDeterministic(t *testing.T) {
	run := func() [][]Point {
		var it Interpolator
		var seqs [][]Point
		for _, p := range []Point{{0, 0}, {5, 2}, {5, 9}, {-3, 4}} {
			seqs = append(seqs, it.Observe(p))
		}
		return seqs
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("run lengths differ")
	}
	for i := range a {
		if !equalPoints(a[i], b[i]) {
			t.Fatalf("observation %d differs between identical runs: %v vs %v", i, a[i], b[i])
		}
	}
}
