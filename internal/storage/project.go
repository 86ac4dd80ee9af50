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
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"inkpad/internal/domain"
)

const (
	ManifestFileName = "sketch.json"
	BackupsDirName   = "backups"
	ExportsDirName   = "exports"
)

var standardSubDirs = []string{
	ExportsDirName,
	BackupsDirName,
}

// SketchHandle keeps track of the sketch state loaded/saved from disk.
// Root is the sketch directory containing sketch.json and subfolders.
// Sketch holds the in-memory representation of the manifest.
type SketchHandle struct {
	Root         string
	ManifestPath string
	Sketch       domain.Sketch
}

// InitSketch creates a new sketch directory at root (creating it if it
// doesn't exist), scaffolds the standard subfolders, and writes the manifest
// transactionally.
func InitSketch(root string, sk domain.Sketch) (*SketchHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create sketch root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	sh := &SketchHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Sketch:       sk,
	}
	if err := Save(sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// Open loads an existing sketch from the given root directory. The manifest
// is validated against the embedded JSON schema; if it cannot be read, parsed
// or validated, the latest backup is tried instead.
func Open(root string) (*SketchHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if err != nil {
		sk, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return &SketchHandle{Root: root, ManifestPath: mpath, Sketch: *sk}, nil
	}
	sk, perr := parseManifest(b)
	if perr != nil {
		bsk, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", perr, berr)
		}
		return &SketchHandle{Root: root, ManifestPath: mpath, Sketch: *bsk}, nil
	}
	return &SketchHandle{Root: root, ManifestPath: mpath, Sketch: *sk}, nil
}

func parseManifest(b []byte) (*domain.Sketch, error) {
	if err := ValidateManifest(b); err != nil {
		return nil, err
	}
	var sk domain.Sketch
	if err := json.Unmarshal(b, &sk); err != nil {
		return nil, err
	}
	return &sk, nil
}

// Save writes the current SketchHandle.Sketch to disk with transactional
// semantics and a timestamped backup of the previous manifest (if present).
func Save(sh *SketchHandle) error {
	if sh == nil {
		return errors.New("nil SketchHandle")
	}
	if sh.Root == "" || sh.ManifestPath == "" {
		return errors.New("invalid SketchHandle: missing paths")
	}
	data, err := json.MarshalIndent(sh.Sketch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(sh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// Copy the current manifest to a timestamped backup before replacing it.
	if _, statErr := os.Stat(sh.ManifestPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp))
		if cerr := copyFile(sh.ManifestPath, bpath); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// Transactional write: temp file in the same directory, then rename.
	dir := filepath.Dir(sh.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	// On Windows, replace by removing the destination first if needed.
	if _, err := os.Stat(sh.ManifestPath); err == nil {
		_ = os.Remove(sh.ManifestPath)
	}
	if rerr := os.Rename(temp, sh.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	return nil
}

// SaveAs writes the manifest to a new root folder, scaffolding structure if
// needed, and updates the handle.
func SaveAs(sh *SketchHandle, newRoot string) error {
	if sh == nil {
		return errors.New("nil SketchHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	sh.Root = newRoot
	sh.ManifestPath = filepath.Join(newRoot, ManifestFileName)
	return Save(sh)
}

// AutosaveCrashSnapshot writes the in-memory sketch to the backups folder
// without touching the live manifest. Used by crash recovery.
func AutosaveCrashSnapshot(sh *SketchHandle) (string, error) {
	if sh == nil {
		return "", errors.New("nil SketchHandle")
	}
	data, err := json.MarshalIndent(sh.Sketch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sketch: %w", err)
	}
	bdir := filepath.Join(sh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("autosave-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file and ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if it exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Sketch, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var sk domain.Sketch
	if err := json.Unmarshal(b, &sk); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &sk, nil
}
