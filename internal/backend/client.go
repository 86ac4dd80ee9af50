/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the gallery API used by the desktop app
// under a feature flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new gallery client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// SketchSummary is a minimal projection for listing.
type SketchSummary struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// PublishRequest is the upload body: the raw manifest plus a stable identity
// so re-publishing the same sketch bumps its version instead of duplicating.
type PublishRequest struct {
	StableID string          `json:"stable_id"`
	Manifest json.RawMessage `json:"manifest"`
}

// ListSketches returns the available gallery sketches.
func (c *Client) ListSketches(ctx context.Context) ([]SketchSummary, error) {
	var list []SketchSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/sketches", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// PublishSketch uploads a manifest; the server validates it against the
// shared schema and returns the assigned id and version.
func (c *Client) PublishSketch(ctx context.Context, stableID string, manifest []byte) (id, ver int64, err error) {
	body, err := json.Marshal(PublishRequest{StableID: stableID, Manifest: manifest})
	if err != nil {
		return 0, 0, err
	}
	var resp struct {
		ID      int64 `json:"id"`
		Version int64 `json:"version"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/sketches", body, &resp); err != nil {
		return 0, 0, err
	}
	return resp.ID, resp.Version, nil
}

// SketchEnvelope matches the server response for a single sketch fetch.
type SketchEnvelope struct {
	ID        int64           `json:"id"`
	Version   int64           `json:"version"`
	UpdatedAt string          `json:"updated_at"`
	Manifest  json.RawMessage `json:"manifest"`
}

// GetSketch fetches a stored manifest by id.
func (c *Client) GetSketch(ctx context.Context, id int64) (*SketchEnvelope, error) {
	var env SketchEnvelope
	path := fmt.Sprintf("/api/sketches/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
