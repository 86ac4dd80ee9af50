/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"inkpad/internal/domain"
	"inkpad/internal/storage"
)

// ExportPNG renders the sketch and writes it as a PNG file. A relative
// outPath is placed under the sketch's exports folder; an empty outPath
// defaults to <name>.png there.
func ExportPNG(sh *storage.SketchHandle, outPath string) (string, error) {
	if sh == nil {
		return "", fmt.Errorf("sketch handle is nil")
	}
	outPath = resolveExportPath(sh, outPath, ".png")

	img, err := Render(sh.Sketch)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create png: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return outPath, nil
}

// EncodeThumbnailPNG renders a scaled-down preview of the sketch and returns
// the encoded PNG bytes with the thumbnail dimensions. Used to populate the
// per-sketch preview cache.
func EncodeThumbnailPNG(sk domain.Sketch, maxW, maxH int) (w, h int, data []byte, err error) {
	img, err := Thumbnail(sk, maxW, maxH)
	if err != nil {
		return 0, 0, nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, 0, nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy(), buf.Bytes(), nil
}

func resolveExportPath(sh *storage.SketchHandle, outPath, ext string) string {
	if outPath == "" {
		name := strings.TrimSpace(sh.Sketch.Name)
		if name == "" {
			name = "sketch"
		}
		outPath = name + ext
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(sh.Root, storage.ExportsDirName, outPath)
	}
	return outPath
}
