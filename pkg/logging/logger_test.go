// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	cases := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tc := range cases {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("Level(%d).String() = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFileLogging(t *testing.T) {
	t.Run("writes JSON entries to dated file", func(t *testing.T) {
		dir := t.TempDir()
		logger := New(Config{
			Level:   LevelDebug,
			LogDir:  dir,
			Service: "testsvc",
			Quiet:   true,
		})

		logger.Info("report generated", "colleges", 2)
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		name := "testsvc_" + time.Now().Format("2006-01-02") + ".log"
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading log file: %v", err)
		}

		var entry map[string]any
		if err := json.Unmarshal([]byte(strings.SplitN(string(data), "\n", 2)[0]), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v", err)
		}
		if entry["msg"] != "report generated" {
			t.Errorf("msg = %v, want %q", entry["msg"], "report generated")
		}
		if entry["service"] != "testsvc" {
			t.Errorf("service = %v, want %q", entry["service"], "testsvc")
		}
	})

	t.Run("level filter drops lower levels", func(t *testing.T) {
		dir := t.TempDir()
		logger := New(Config{
			Level:   LevelWarn,
			LogDir:  dir,
			Service: "testsvc",
			Quiet:   true,
		})

		logger.Info("should be filtered")
		logger.Warn("should appear")
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		name := "testsvc_" + time.Now().Format("2006-01-02") + ".log"
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading log file: %v", err)
		}
		if strings.Contains(string(data), "should be filtered") {
			t.Error("Info entry present despite Warn level")
		}
		if !strings.Contains(string(data), "should appear") {
			t.Error("Warn entry missing")
		}
	})
}

func TestWith(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "testsvc",
		Quiet:   true,
	})
	defer logger.Close()

	child := logger.With("run_id", "abc123")
	child.Info("child entry")

	name := "testsvc_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "abc123") {
		t.Error("child logger attribute missing from output")
	}
}

func TestCloseWithoutFile(t *testing.T) {
	logger := New(Config{Quiet: true})
	if err := logger.Close(); err != nil {
		t.Errorf("Close without file returned error: %v", err)
	}
}
