/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkpad/internal/domain"
)

func testSketch(name string) domain.Sketch {
	return domain.Sketch{
		Name:       name,
		Width:      800,
		Height:     600,
		Background: domain.White,
		Strokes: []domain.Stroke{
			{
				ID:    "s1",
				Brush: domain.BrushStyle{Color: domain.Color{A: 255}, Width: 3},
				Points: []domain.Point{
					{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 7, Y: 5},
				},
			},
		},
	}
}

func TestInitSketchCreatesStructureAndManifest(t *testing.T) {
	root := t.TempDir()
	sk := testSketch("Test Sketch")

	sh, err := InitSketch(root, sk)
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}
	if sh == nil {
		t.Fatalf("InitSketch returned nil handle")
	}
	if sh.ManifestPath == "" {
		t.Fatalf("ManifestPath not set")
	}

	b, err := os.ReadFile(sh.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var got domain.Sketch
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if got.Name != sk.Name {
		t.Fatalf("manifest name mismatch: got %q want %q", got.Name, sk.Name)
	}
	if len(got.Strokes) != 1 || len(got.Strokes[0].Points) != 3 {
		t.Fatalf("manifest strokes not round-tripped: %+v", got.Strokes)
	}

	for _, d := range []string{ExportsDirName, BackupsDirName} {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	sh, err := InitSketch(root, testSketch("Backup Test"))
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}

	sh.Sketch.Name = "Backup Test v2"
	if err := Save(sh); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var found bool
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), ManifestFileName+".") && strings.HasSuffix(e.Name(), ".bak") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a timestamped backup after second Save")
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if got.Sketch.Name != "Backup Test v2" {
		t.Fatalf("Open returned stale manifest: %q", got.Sketch.Name)
	}
}

func TestOpenFallsBackToBackupOnCorruptManifest(t *testing.T) {
	root := t.TempDir()
	sh, err := InitSketch(root, testSketch("Corrupt Test"))
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}
	// Second save produces a backup of the valid manifest.
	if err := Save(sh); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := os.WriteFile(sh.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open should recover from backup, got error: %v", err)
	}
	if got.Sketch.Name != "Corrupt Test" {
		t.Fatalf("recovered sketch name mismatch: %q", got.Sketch.Name)
	}
}

func TestOpenRejectsSchemaViolations(t *testing.T) {
	root := t.TempDir()
	// Valid JSON that violates the schema (missing required fields), with no
	// backups to fall back to.
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	bad := []byte(`{"name": "x"}`)
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), bad, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := Open(root); err == nil {
		t.Fatalf("expected error opening schema-violating manifest with no backups")
	}
}

func TestSaveAsMovesHandle(t *testing.T) {
	root := t.TempDir()
	sh, err := InitSketch(root, testSketch("Move Me"))
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}

	newRoot := filepath.Join(t.TempDir(), "copy")
	if err := SaveAs(sh, newRoot); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	if sh.Root != newRoot {
		t.Fatalf("handle root not updated: %q", sh.Root)
	}
	if _, err := os.Stat(filepath.Join(newRoot, ManifestFileName)); err != nil {
		t.Fatalf("manifest missing at new root: %v", err)
	}
}

func TestAutosaveCrashSnapshotWritesToBackups(t *testing.T) {
	root := t.TempDir()
	sh, err := InitSketch(root, testSketch("Crash Test"))
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}

	path, err := AutosaveCrashSnapshot(sh)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(root, BackupsDirName) {
		t.Fatalf("autosave written outside backups dir: %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read autosave: %v", err)
	}
	var got domain.Sketch
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal autosave: %v", err)
	}
	if got.Name != "Crash Test" {
		t.Fatalf("autosave name mismatch: %q", got.Name)
	}
}
