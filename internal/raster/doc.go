/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package raster implements the freehand stroke engine: it turns sparse
// pointer samples into a dense, gap-free sequence of integer pixel
// coordinates and stamps a square brush tip at each of them.
//
// Pointer devices report discrete move events, not every pixel the cursor
// crossed. The Interpolator closes those gaps by sampling the straight
// segment between consecutive events at one point per integer step along the
// dominant axis, so even fast diagonal strokes come out solid.
//
// The package is pure and single-threaded: a Surface is driven synchronously
// from the UI event loop and never blocks, spawns goroutines, or touches
// anything beyond the pixel buffer it owns.
package raster
