// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resultcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key([]string{"AS", "EN"}, []string{"202480", "202380"}, nil, nil, nil)
	b := Key([]string{"EN", "AS"}, []string{"202380", "202480"}, nil, nil, nil)
	assert.Equal(t, a, b, "parameter order must not change the key")
	assert.Equal(t, "anomaly-cache_AS-EN_202380-202480.json", a)
}

func TestKeySentinels(t *testing.T) {
	assert.Equal(t, "anomaly-cache_all-colleges_all-terms.json", Key(nil, nil, nil, nil, nil))
}

func TestKeyOptionalSegments(t *testing.T) {
	got := Key([]string{"AS"}, []string{"202580"}, []string{"upper", "lower"}, []string{"ABQ"}, []string{"HIST 1105"})
	assert.Equal(t, "anomaly-cache_AS_202580_lv-lower-upper_cp-ABQ_cr-HIST-1105.json", got)
}

func TestKeyCourseSegmentNeverAliases(t *testing.T) {
	unfiltered := Key(nil, nil, nil, nil, nil)
	filtered := Key(nil, nil, nil, nil, []string{"MATH 9999"})
	assert.NotEqual(t, unfiltered, filtered,
		"a course-filtered run must not share a file with an unfiltered one")
	assert.Equal(t, "anomaly-cache_all-colleges_all-terms_cr-MATH-9999.json", filtered)
}

func TestKeySanitize(t *testing.T) {
	got := Key([]string{"A&S/Fine Arts"}, nil, nil, nil, nil)
	assert.Equal(t, "anomaly-cache_A-S-Fine-Arts_all-terms.json", got)
	assert.NotContains(t, got, string(os.PathSeparator)+"..")
}

type payload struct {
	Course string `json:"course"`
	Count  int    `json:"count"`
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	ctx := context.Background()
	key := Key([]string{"AS"}, []string{"202580"}, nil, nil, nil)

	want := payload{Course: "HIST 1105", Count: 100}
	require.NoError(t, c.Store(ctx, key, want))

	var got payload
	info := c.Load(ctx, key, &got)
	assert.True(t, info.Hit)
	assert.Equal(t, want, got)
	assert.Equal(t, key, info.Path)
	assert.GreaterOrEqual(t, info.Age, time.Duration(0))
}

func TestLoadMissAbsent(t *testing.T) {
	c := New(t.TempDir(), nil)
	var got payload
	info := c.Load(context.Background(), Key(nil, nil, nil, nil, nil), &got)
	assert.False(t, info.Hit)
}

func TestLoadMissExpired(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	ctx := context.Background()
	key := Key(nil, nil, nil, nil, nil)
	require.NoError(t, c.Store(ctx, key, payload{Course: "HIST 1105"}))

	// Back-date the entry past the TTL.
	old := time.Now().Add(-DefaultTTL - time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, key), old, old))

	var got payload
	info := c.Load(ctx, key, &got)
	assert.False(t, info.Hit, "entry older than the TTL is a miss")
	assert.Empty(t, got.Course, "stale entry must not be decoded")
}

func TestLoadMissCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	key := Key(nil, nil, nil, nil, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, key), []byte("{not json"), 0o640))

	var got payload
	info := c.Load(context.Background(), key, &got)
	assert.False(t, info.Hit, "undecodable entry degrades to a miss")
}

func TestCustomTTL(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil, WithTTL(time.Minute))
	ctx := context.Background()
	key := Key(nil, nil, nil, nil, nil)
	require.NoError(t, c.Store(ctx, key, payload{}))

	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(dir, key), old, old))

	var got payload
	assert.False(t, c.Load(ctx, key, &got).Hit)
}

func TestRetentionEvictsOldest(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil, WithRetain(20))
	ctx := context.Background()

	// 25 entries with strictly increasing mtimes. Filesystem timestamp
	// granularity is too coarse to rely on write order alone.
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		key := Key([]string{fmt.Sprintf("C%02d", i)}, nil, nil, nil, nil)
		require.NoError(t, c.Store(ctx, key, payload{Count: i}))
		mtime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(filepath.Join(dir, key), mtime, mtime))
	}

	// One more write triggers eviction over the staggered set.
	last := Key([]string{"C25"}, nil, nil, nil, nil)
	require.NoError(t, c.Store(ctx, last, payload{Count: 25}))

	matches, err := filepath.Glob(filepath.Join(dir, "anomaly-cache_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 20)

	// The oldest back-dated entries are the ones that went.
	for i := 0; i < 6; i++ {
		key := Key([]string{fmt.Sprintf("C%02d", i)}, nil, nil, nil, nil)
		assert.NoFileExists(t, filepath.Join(dir, key), "oldest entry %d should be evicted", i)
	}
	assert.FileExists(t, filepath.Join(dir, last))
}

func TestStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	c := New(dir, nil)
	require.NoError(t, c.Store(context.Background(), Key(nil, nil, nil, nil, nil), payload{}))
	assert.DirExists(t, dir)
}
