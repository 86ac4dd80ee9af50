/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakeStore keeps tokens in memory so tests never touch the OS keychain.
type fakeStore struct {
	m map[string]string
}

func newFakeStore() *fakeStore { return &fakeStore{m: map[string]string{}} }

func (f *fakeStore) Get(service, key string) (string, error) {
	v, ok := f.m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (f *fakeStore) Set(service, key, value string) error {
	f.m[service+"/"+key] = value
	return nil
}
func (f *fakeStore) Delete(service, key string) error {
	delete(f.m, service+"/"+key)
	return nil
}

func isolateHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	t.Setenv("USERPROFILE", dir)
	for _, k := range []string{
		EnvGalleryURL, EnvGalleryTimeoutMs, EnvGalleryTLSInsec,
		EnvTelemetryOptIn, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile,
	} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Canvas.Width != 800 || d.Canvas.Height != 600 || d.Canvas.Background != "ffffff" {
		t.Fatalf("unexpected canvas defaults: %+v", d.Canvas)
	}
	if d.Brush.Color != "000000" || d.Brush.Alpha != 255 || d.Brush.Width != 3 {
		t.Fatalf("unexpected brush defaults: %+v", d.Brush)
	}
	if d.Logging.Level != "info" || d.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", d.Logging)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolateHome(t)
	prev := SetTokenStore(newFakeStore())
	defer SetTokenStore(prev)

	cfg := Defaults()
	cfg.Canvas.Width = 1024
	cfg.Brush.Color = "ff8800"
	cfg.Logging.Level = "debug"
	if err := Save(cfg, "secret-token"); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, tok, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Canvas.Width != 1024 {
		t.Fatalf("canvas width = %d, want 1024", got.Canvas.Width)
	}
	if got.Brush.Color != "ff8800" {
		t.Fatalf("brush color = %q", got.Brush.Color)
	}
	if got.Logging.Level != "debug" {
		t.Fatalf("log level = %q", got.Logging.Level)
	}
	if tok != "secret-token" {
		t.Fatalf("token = %q, want keyring value", tok)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	isolateHome(t)
	prev := SetTokenStore(newFakeStore())
	defer SetTokenStore(prev)

	t.Setenv(EnvGalleryURL, "https://gallery.example")
	t.Setenv(EnvGalleryTimeoutMs, "2500")
	t.Setenv(EnvTelemetryOptIn, "yes")
	t.Setenv(EnvLogFormat, "JSON")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gallery.BaseURL != "https://gallery.example" || cfg.Gallery.TimeoutMs != 2500 {
		t.Fatalf("gallery overrides not applied: %+v", cfg.Gallery)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry opt-in override not applied")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("log format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadIgnoresCorruptFile(t *testing.T) {
	isolateHome(t)
	prev := SetTokenStore(newFakeStore())
	defer SetTokenStore(prev)

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Canvas.Width != Defaults().Canvas.Width {
		t.Fatalf("corrupt file should fall back to defaults, got %+v", cfg.Canvas)
	}
}

func TestForgetToken(t *testing.T) {
	isolateHome(t)
	fs := newFakeStore()
	prev := SetTokenStore(fs)
	defer SetTokenStore(prev)

	if err := Save(Defaults(), "tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ForgetToken(); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, tok, _ := Load(); tok != "" {
		t.Fatalf("token survived ForgetToken: %q", tok)
	}
}
