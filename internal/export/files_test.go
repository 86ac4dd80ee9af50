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
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"inkpad/internal/storage"
)

func TestExportPNGWritesDecodableFile(t *testing.T) {
	root := t.TempDir()
	sh, err := storage.InitSketch(root, renderTestSketch())
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}

	out, err := ExportPNG(sh, "")
	if err != nil {
		t.Fatalf("ExportPNG error: %v", err)
	}
	if filepath.Dir(out) != filepath.Join(root, storage.ExportsDirName) {
		t.Fatalf("PNG written outside exports dir: %s", out)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read exported png: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode exported png: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Fatalf("exported png size: %v", img.Bounds())
	}
}

func TestEncodeThumbnailPNGRoundTrips(t *testing.T) {
	w, h, data, err := EncodeThumbnailPNG(renderTestSketch(), 10, 10)
	if err != nil {
		t.Fatalf("EncodeThumbnailPNG error: %v", err)
	}
	if w != 10 || h != 5 {
		t.Fatalf("thumbnail dims: got %dx%d want 10x5", w, h)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Fatalf("thumbnail bytes disagree with reported dims: %v", img.Bounds())
	}
}

func TestExportPDFWritesFile(t *testing.T) {
	root := t.TempDir()
	sh, err := storage.InitSketch(root, renderTestSketch())
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}

	out, err := ExportPDF(sh, "drawing.pdf", PDFOptions{DPI: 144})
	if err != nil {
		t.Fatalf("ExportPDF error: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read exported pdf: %v", err)
	}
	if len(b) == 0 || !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("exported file does not look like a PDF (%d bytes)", len(b))
	}
}
