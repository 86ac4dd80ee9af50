/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Snapshot persistence for autosave: serialized stroke lists are stored in the
// per-sketch SQLite index so an interrupted session can be restored without
// touching the canonical manifest.

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inkpad/internal/domain"
)

// language=SQL
const insertSnapshotSQL = `INSERT INTO snapshots(ts, strokes_blob) VALUES (?, ?)`

// language=SQL
const selectLatestSnapshotSQL = `SELECT ts, strokes_blob FROM snapshots ORDER BY ts DESC LIMIT 1`

// language=SQL
const listSnapshotsSQL = `SELECT ts, strokes_blob FROM snapshots ORDER BY ts DESC LIMIT ?`

// language=SQL
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY ts DESC LIMIT ?
)`

// SaveSnapshot stores the sketch's stroke list as an autosave snapshot.
func SaveSnapshot(ctx context.Context, sh *SketchHandle, strokes []domain.Stroke, ts time.Time) error {
	if sh == nil {
		return errors.New("nil SketchHandle")
	}
	blob, err := json.Marshal(strokes)
	if err != nil {
		return fmt.Errorf("marshal strokes: %w", err)
	}
	db, err := InitOrOpenIndex(sh.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, ts.UTC().Format(time.RFC3339Nano), blob)
	return err
}

// GetLatestSnapshot returns the most recent autosave snapshot, or
// sql.ErrNoRows when none exists.
func GetLatestSnapshot(ctx context.Context, sh *SketchHandle) ([]domain.Stroke, time.Time, error) {
	if sh == nil {
		return nil, time.Time{}, errors.New("nil SketchHandle")
	}
	db, err := InitOrOpenIndex(sh.Root)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = db.Close() }()

	var tsStr string
	var blob []byte
	if err := db.QueryRowContext(ctx, selectLatestSnapshotSQL).Scan(&tsStr, &blob); err != nil {
		return nil, time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse snapshot timestamp: %w", err)
	}
	var strokes []domain.Stroke
	if err := json.Unmarshal(blob, &strokes); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse snapshot strokes: %w", err)
	}
	return strokes, ts, nil
}

// ListSnapshots returns up to limit snapshot timestamps, newest first.
func ListSnapshots(ctx context.Context, sh *SketchHandle, limit int) ([]time.Time, error) {
	if sh == nil {
		return nil, errors.New("nil SketchHandle")
	}
	if limit <= 0 {
		limit = 10
	}
	db, err := InitOrOpenIndex(sh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []time.Time
	for rows.Next() {
		var tsStr string
		var blob []byte
		if err := rows.Scan(&tsStr, &blob); err != nil {
			return nil, err
		}
		ts, perr := time.Parse(time.RFC3339Nano, tsStr)
		if perr != nil {
			continue
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// PruneOldSnapshots deletes all but the newest keepLast snapshots and returns
// the number of rows removed.
func PruneOldSnapshots(ctx context.Context, sh *SketchHandle, keepLast int) (int64, error) {
	if sh == nil {
		return 0, errors.New("nil SketchHandle")
	}
	if keepLast < 0 {
		keepLast = 0
	}
	db, err := InitOrOpenIndex(sh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
