/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"inkpad/internal/backend"
	"inkpad/internal/config"
	"inkpad/internal/crash"
	"inkpad/internal/domain"
	"inkpad/internal/export"
	applog "inkpad/internal/log"
	"inkpad/internal/storage"
	"inkpad/internal/ui"
	"inkpad/internal/version"
)

func usage() {
	fmt.Println("Ink Pad — freehand drawing pad")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  inkpad version|-v|--version            Show version")
	fmt.Println("  inkpad init <dir> <name> [WxH]          Create a new sketch at <dir> with name <name>")
	fmt.Println("  inkpad open <dir>                       Open sketch at <dir> and print summary")
	fmt.Println("  inkpad render <dir> [out.png]           Render sketch strokes to a PNG")
	fmt.Println("  inkpad export-pdf <dir> [out.pdf]       Render sketch strokes to a single-page PDF")
	fmt.Println("  inkpad serve                            Run the gallery backend server")
	fmt.Println("  inkpad ui [<dir>]                       Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var sh *storage.SketchHandle
	defer func() { crash.Recover(sh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Ink Pad — freehand drawing pad")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			cfg := loadConfig(l)
			w, h := cfg.Canvas.Width, cfg.Canvas.Height
			if len(args) >= 5 {
				w, h = parseSize(args[4], w, h)
			}
			l.Info("init sketch", slog.String("root", abs), slog.String("name", name), slog.Int("w", w), slog.Int("h", h))
			sk := domain.Sketch{Name: name, Width: w, Height: h, Background: domain.White}
			handle, err := storage.InitSketch(abs, sk)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			sh = handle
			fmt.Println("Created sketch at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open sketch", slog.String("root", abs))
			handle, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			sh = handle
			samples := handle.Sketch.SampleCount()
			fmt.Printf("Opened sketch: %s\n", handle.Sketch.Name)
			fmt.Printf("Canvas: %dx%d\n", handle.Sketch.Width, handle.Sketch.Height)
			fmt.Printf("Strokes: %d (%d samples)\n", len(handle.Sketch.Strokes), samples)
			fmt.Println("Root:", handle.Root)
			return
		case "render":
			if len(args) < 3 {
				fmt.Println("render requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			handle, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			sh = handle
			var out string
			if len(args) >= 4 {
				out = args[3]
			}
			path, err := export.ExportPNG(handle, out)
			if err != nil {
				l.Error("render failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", path)
			return
		case "export-pdf":
			if len(args) < 3 {
				fmt.Println("export-pdf requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			handle, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			sh = handle
			var out string
			if len(args) >= 4 {
				out = args[3]
			}
			path, err := export.ExportPDF(handle, out, export.PDFOptions{})
			if err != nil {
				l.Error("export-pdf failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", path)
			return
		case "serve":
			l.Info("starting gallery server")
			if err := backend.Start(); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func loadConfig(l *slog.Logger) config.AppConfig {
	cfg, _, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		return config.Defaults()
	}
	return cfg
}

// parseSize parses "WxH"; falls back to the given defaults on bad input.
func parseSize(s string, defW, defH int) (int, int) {
	for i := 0; i < len(s); i++ {
		if s[i] == 'x' || s[i] == 'X' {
			w, werr := strconv.Atoi(s[:i])
			h, herr := strconv.Atoi(s[i+1:])
			if werr == nil && herr == nil && w > 0 && h > 0 {
				return w, h
			}
			break
		}
	}
	return defW, defH
}
