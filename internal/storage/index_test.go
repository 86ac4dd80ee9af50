/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"inkpad/internal/domain"
)

func TestInitOrOpenIndexCreatesDatabase(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}

	ctx := context.Background()
	var have int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&have); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if have != schemaVersion {
		t.Fatalf("schema version: got %d want %d", have, schemaVersion)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if _, ok, err := GetMeta(ctx, db, "missing"); err != nil || ok {
		t.Fatalf("GetMeta on absent key: ok=%v err=%v", ok, err)
	}
	if err := SetMeta(ctx, db, "k", "v1"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	if err := SetMeta(ctx, db, "k", "v2"); err != nil {
		t.Fatalf("SetMeta overwrite: %v", err)
	}
	v, ok, err := GetMeta(ctx, db, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("GetMeta: got (%q, %v, %v), want (v2, true, nil)", v, ok, err)
	}
}

func TestSnapshotSaveLatestAndPrune(t *testing.T) {
	root := t.TempDir()
	sh, err := InitSketch(root, testSketch("Snapshot Test"))
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}
	ctx := context.Background()

	if _, _, err := GetLatestSnapshot(ctx, sh); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows on empty snapshots, got %v", err)
	}

	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		strokes := []domain.Stroke{{
			ID:     "s1",
			Brush:  domain.BrushStyle{Color: domain.Color{A: 255}, Width: 1},
			Points: make([]domain.Point, i+1),
		}}
		if err := SaveSnapshot(ctx, sh, strokes, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
	}

	strokes, ts, err := GetLatestSnapshot(ctx, sh)
	if err != nil {
		t.Fatalf("GetLatestSnapshot: %v", err)
	}
	if !ts.Equal(base.Add(4 * time.Second)) {
		t.Fatalf("latest snapshot ts: got %v", ts)
	}
	if len(strokes) != 1 || len(strokes[0].Points) != 5 {
		t.Fatalf("latest snapshot content mismatch: %+v", strokes)
	}

	removed, err := PruneOldSnapshots(ctx, sh, 2)
	if err != nil {
		t.Fatalf("PruneOldSnapshots: %v", err)
	}
	if removed != 3 {
		t.Fatalf("pruned rows: got %d want 3", removed)
	}
	left, err := ListSnapshots(ctx, sh, 10)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(left) != 2 {
		t.Fatalf("snapshots remaining: got %d want 2", len(left))
	}
	if !left[0].After(left[1]) {
		t.Fatalf("ListSnapshots not newest-first: %v", left)
	}
}

func TestPreviewRoundTrip(t *testing.T) {
	root := t.TempDir()
	sh, err := InitSketch(root, testSketch("Preview Test"))
	if err != nil {
		t.Fatalf("InitSketch error: %v", err)
	}
	ctx := context.Background()

	if _, _, _, err := GetPreview(ctx, sh); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows before PutPreview, got %v", err)
	}

	blob := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	if err := PutPreview(ctx, sh, 128, 96, blob); err != nil {
		t.Fatalf("PutPreview: %v", err)
	}
	// Upsert replaces.
	blob2 := []byte{0x89, 'P', 'N', 'G', 9}
	if err := PutPreview(ctx, sh, 64, 48, blob2); err != nil {
		t.Fatalf("PutPreview replace: %v", err)
	}

	w, h, png, err := GetPreview(ctx, sh)
	if err != nil {
		t.Fatalf("GetPreview: %v", err)
	}
	if w != 64 || h != 48 || len(png) != len(blob2) {
		t.Fatalf("preview mismatch: %dx%d, %d bytes", w, h, len(png))
	}
}
