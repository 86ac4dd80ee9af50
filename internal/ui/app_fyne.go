//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"inkpad/internal/config"
	"inkpad/internal/domain"
	"inkpad/internal/export"
	applog "inkpad/internal/log"
	"inkpad/internal/raster"
	"inkpad/internal/storage"
	"inkpad/internal/telemetry"
	"inkpad/internal/undo"
	"inkpad/internal/version"
)

// Run starts the desktop UI. Pass an optional sketch directory to open
// immediately; an empty path starts with a fresh canvas from config defaults.
func Run(sketchDir string) error {
	l := applog.WithComponent("ui")
	cfg, _, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}

	a := app.New()
	w := a.NewWindow("Ink Pad " + version.String())

	var sh *storage.SketchHandle
	if sketchDir != "" {
		sh, err = storage.Open(sketchDir)
		if err != nil {
			return fmt.Errorf("open sketch: %w", err)
		}
	} else {
		sh = &storage.SketchHandle{
			Sketch: domain.Sketch{
				Name:       "Untitled",
				Width:      cfg.Canvas.Width,
				Height:     cfg.Canvas.Height,
				Background: domain.White,
			},
		}
	}

	status := widget.NewLabel("Ready")
	sc := NewSketchCanvas(sh.Sketch, cfg)
	telemetry.Event("ui_started", nil)

	undoMgr := undo.NewManager(undo.Config{MaxDepth: 64})
	pushUndo := func() {
		blob, err := json.Marshal(sc.Strokes())
		if err != nil {
			return
		}
		undoMgr.PushSnapshot(undo.Snapshot{Blob: blob, TS: time.Now()})
	}
	sc.OnStrokeEnd = func() {
		pushUndo()
		status.SetText(fmt.Sprintf("%d strokes", len(sc.Strokes())))
	}
	pushUndo() // baseline state

	restore := func(blob []byte) {
		var strokes []domain.Stroke
		if err := json.Unmarshal(blob, &strokes); err != nil {
			l.Error("restore snapshot failed", slog.Any("err", err))
			return
		}
		sc.SetStrokes(strokes)
	}
	doUndo := func() {
		// Pop the current state; the new top is what we restore to.
		if _, ok := undoMgr.Undo(); !ok {
			return
		}
		if s, ok := undoMgr.Undo(); ok {
			undoMgr.Redo() // keep it on the stack
			restore(s.Blob)
		} else {
			restore([]byte("[]"))
		}
		status.SetText("Undo")
	}
	doRedo := func() {
		if s, ok := undoMgr.Redo(); ok {
			restore(s.Blob)
			status.SetText("Redo")
		}
	}

	// Toolbar: brush color, width, clear.
	colorSelect := widget.NewSelect([]string{"Black", "Red", "Green", "Blue"}, func(name string) {
		hex := map[string]string{
			"Black": "000000",
			"Red":   "ff0000",
			"Green": "00aa00",
			"Blue":  "0000ff",
		}[name]
		sc.SetBrushColor(hex, 255)
	})
	colorSelect.SetSelected("Black")

	widthSlider := widget.NewSlider(1, 16)
	widthSlider.SetValue(float64(cfg.Brush.Width))
	widthSlider.OnChanged = func(v float64) { sc.SetBrushWidth(int(v)) }

	btnClear := widget.NewButton("Clear", func() {
		sc.SetStrokes(nil)
		pushUndo()
		status.SetText("Cleared")
	})

	saveSketch := func() {
		sh.Sketch.Strokes = sc.Strokes()
		if sh.Root == "" {
			status.SetText("Use File > Save As (no sketch folder yet)")
			return
		}
		if err := storage.Save(sh); err != nil {
			dialog.ShowError(err, w)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = storage.SaveSnapshot(ctx, sh, sh.Sketch.Strokes, time.Now())
			if tw, th, png, err := export.EncodeThumbnailPNG(sh.Sketch, 256, 256); err == nil {
				_ = storage.PutPreview(ctx, sh, tw, th, png)
			}
			_, _ = storage.PruneOldSnapshots(ctx, sh, 20)
		}()
		status.SetText("Saved " + sh.ManifestPath)
		telemetry.Event("sketch_saved", map[string]any{"strokes": len(sh.Sketch.Strokes)})
	}

	btnSave := widget.NewButton("Save", saveSketch)
	btnExportPNG := widget.NewButton("Export PNG", func() {
		sh.Sketch.Strokes = sc.Strokes()
		path, err := export.ExportPNG(sh, "")
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + path)
		telemetry.Event("sketch_exported", map[string]any{"format": "png"})
	})
	btnExportPDF := widget.NewButton("Export PDF", func() {
		sh.Sketch.Strokes = sc.Strokes()
		path, err := export.ExportPDF(sh, "", export.PDFOptions{})
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + path)
		telemetry.Event("sketch_exported", map[string]any{"format": "pdf"})
	})

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { doUndo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { doRedo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { saveSketch() })

	toolbar := container.NewHBox(
		widget.NewLabel("Color"), colorSelect,
		widget.NewLabel("Width"), widthSlider,
		btnClear, btnSave, btnExportPNG, btnExportPDF,
	)
	root := container.NewBorder(toolbar, status, nil, nil, sc)
	w.SetContent(root)
	w.Resize(fyne.NewSize(float32(sh.Sketch.Width)+40, float32(sh.Sketch.Height)+120))
	w.ShowAndRun()
	return nil
}

// SketchCanvas is the drawing widget: pointer drags feed the stroke engine,
// the resulting bitmap is displayed 1:1.
type SketchCanvas struct {
	widget.BaseWidget

	surface *raster.Surface
	img     *canvas.Image

	strokes []domain.Stroke
	current *domain.Stroke
	nextID  int

	// OnStrokeEnd fires after a pointer-up completes a stroke.
	OnStrokeEnd func()
}

func NewSketchCanvas(sk domain.Sketch, cfg config.AppConfig) *SketchCanvas {
	s := raster.NewSurface(sk.Width, sk.Height, color.RGBA{R: sk.Background.R, G: sk.Background.G, B: sk.Background.B, A: sk.Background.A})
	s.Brush().SetColor(cfg.Brush.Color, uint8(cfg.Brush.Alpha))
	s.Brush().SetWidth(cfg.Brush.Width)

	c := &SketchCanvas{surface: s}
	c.img = canvas.NewImageFromImage(s.Image())
	c.img.FillMode = canvas.ImageFillOriginal
	c.img.ScaleMode = canvas.ImageScalePixels
	c.SetStrokes(sk.Strokes)
	c.ExtendBaseWidget(c)
	return c
}

func (c *SketchCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.img)
}

// Strokes returns a copy of the recorded strokes.
func (c *SketchCanvas) Strokes() []domain.Stroke {
	out := make([]domain.Stroke, len(c.strokes))
	copy(out, c.strokes)
	return out
}

// SetStrokes replaces the recorded strokes and re-renders the bitmap.
func (c *SketchCanvas) SetStrokes(strokes []domain.Stroke) {
	c.strokes = strokes
	c.current = nil
	c.surface.Clear()
	brush := c.surface.Brush()
	savedColor := brush.Color()
	savedWidth := brush.Width()
	for _, st := range strokes {
		brush.SetColor(fmt.Sprintf("%02x%02x%02x", st.Brush.Color.R, st.Brush.Color.G, st.Brush.Color.B), st.Brush.Color.A)
		brush.SetWidth(st.Brush.Width)
		for _, p := range st.Points {
			c.surface.PointerMove(raster.Point{X: p.X, Y: p.Y})
		}
		c.surface.EndStroke()
	}
	brush.SetColor(fmt.Sprintf("%02x%02x%02x", savedColor.R, savedColor.G, savedColor.B), savedColor.A)
	brush.SetWidth(savedWidth)
	c.refreshImage()
}

func (c *SketchCanvas) SetBrushColor(hex string, alpha uint8) {
	c.surface.Brush().SetColor(hex, alpha)
}

func (c *SketchCanvas) SetBrushWidth(w int) {
	c.surface.Brush().SetWidth(w)
}

func (c *SketchCanvas) refreshImage() {
	c.img.Image = c.surface.Image()
	c.img.Refresh()
}

func (c *SketchCanvas) recordSample(x, y int) {
	if c.current == nil {
		col := c.surface.Brush().Color()
		c.nextID++
		c.current = &domain.Stroke{
			ID: fmt.Sprintf("s%d", c.nextID),
			Brush: domain.BrushStyle{
				Color: domain.Color{R: col.R, G: col.G, B: col.B, A: col.A},
				Width: c.surface.Brush().Width(),
			},
		}
	}
	c.current.Points = append(c.current.Points, domain.Point{X: x, Y: y})
}

// Tapped places a single dot.
func (c *SketchCanvas) Tapped(e *fyne.PointEvent) {
	x, y := int(e.Position.X), int(e.Position.Y)
	c.recordSample(x, y)
	c.surface.PointerMove(raster.Point{X: x, Y: y})
	c.finishStroke()
}

// Dragged feeds pointer samples into the stroke engine; the engine fills the
// gaps between OS-rate samples.
func (c *SketchCanvas) Dragged(e *fyne.DragEvent) {
	x, y := int(e.Position.X), int(e.Position.Y)
	c.recordSample(x, y)
	c.surface.PointerMove(raster.Point{X: x, Y: y})
	c.refreshImage()
}

// DragEnd closes the stroke: the final sample is stamped and the engine is
// reset so the next drag starts a fresh stroke.
func (c *SketchCanvas) DragEnd() {
	c.finishStroke()
}

func (c *SketchCanvas) finishStroke() {
	c.surface.EndStroke()
	if c.current != nil {
		c.strokes = append(c.strokes, *c.current)
		c.current = nil
	}
	c.refreshImage()
	if c.OnStrokeEnd != nil {
		c.OnStrokeEnd()
	}
}
