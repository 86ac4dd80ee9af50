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

	"github.com/jung-kurt/gofpdf"

	"inkpad/internal/storage"
	"inkpad/internal/version"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt) unless otherwise noted.
//
// Coordinates:
// - Page origin is top-left.
// - The sketch bitmap is placed at 1 pixel = 1 pt by default; DPI > 0 scales
//   the page so the bitmap prints at that resolution (1pt = 1/72").
type PDFOptions struct {
	DPI   int
	Title string
}

// ExportPDF renders the sketch and embeds the bitmap into a single-page PDF
// at outPath. A relative outPath is placed under the sketch's exports folder;
// an empty outPath defaults to <name>.pdf there.
func ExportPDF(sh *storage.SketchHandle, outPath string, opt PDFOptions) (string, error) {
	if sh == nil {
		return "", fmt.Errorf("sketch handle is nil")
	}
	outPath = resolveExportPath(sh, outPath, ".pdf")

	img, err := Render(sh.Sketch)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode bitmap: %w", err)
	}

	pw := float64(img.Bounds().Dx())
	ph := float64(img.Bounds().Dy())
	if opt.DPI > 0 {
		scale := 72.0 / float64(opt.DPI)
		pw *= scale
		ph *= scale
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pw, Ht: ph},
		OrientationStr: "",
	})
	title := opt.Title
	if title == "" {
		title = sh.Sketch.Name
	}
	pdf.SetTitle(title, false)
	pdf.SetAuthor("Ink Pad "+version.String(), false)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pw, Ht: ph})

	imgName := "sketch"
	pdf.RegisterImageOptionsReader(imgName, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	pdf.ImageOptions(imgName, 0, 0, pw, ph, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if pdf.Err() {
		return "", fmt.Errorf("build pdf: %v", pdf.Error())
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return outPath, nil
}
