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
	"errors"
	"time"
)

// language=SQL
const upsertPreviewSQL = `INSERT INTO previews(id, w, h, png_blob, updated_at) VALUES (1, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET w=excluded.w, h=excluded.h, png_blob=excluded.png_blob, updated_at=excluded.updated_at`

// language=SQL
const selectPreviewSQL = `SELECT w, h, png_blob FROM previews WHERE id = 1`

// PutPreview stores a rendered thumbnail PNG for the sketch, replacing any
// previous one.
func PutPreview(ctx context.Context, sh *SketchHandle, w, h int, png []byte) error {
	if sh == nil {
		return errors.New("nil SketchHandle")
	}
	if w <= 0 || h <= 0 || len(png) == 0 {
		return errors.New("invalid preview")
	}
	db, err := InitOrOpenIndex(sh.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, upsertPreviewSQL, w, h, png, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetPreview returns the stored thumbnail PNG, or sql.ErrNoRows when no
// preview has been rendered yet.
func GetPreview(ctx context.Context, sh *SketchHandle) (w, h int, png []byte, err error) {
	if sh == nil {
		return 0, 0, nil, errors.New("nil SketchHandle")
	}
	db, err := InitOrOpenIndex(sh.Root)
	if err != nil {
		return 0, 0, nil, err
	}
	defer func() { _ = db.Close() }()
	err = db.QueryRowContext(ctx, selectPreviewSQL).Scan(&w, &h, &png)
	return w, h, png, err
}
