// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package verify

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fnichol/reindeer/pkg/lockfile"
	"github.com/fnichol/reindeer/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockfilePath(t *testing.T) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "testdata", "Cargo.lock")
}

func TestResolveLockfilePath(t *testing.T) {
	path := lockfilePath(t)

	resolved, err := resolveLockfilePath(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	resolved, err = resolveLockfilePath(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	_, err = resolveLockfilePath(filepath.Join(filepath.Dir(path), "nope"))
	assert.Error(t, err)
}

func TestEntriesTable(t *testing.T) {
	lock, err := lockfile.Load(lockfilePath(t))
	require.NoError(t, err)

	output := entriesTable(lock)
	assert.Contains(t, output, "serde")
	assert.Contains(t, output, "1.0.203")
	assert.Contains(t, output, "7253ab4de971e72fb7be983802300c30b5a7f0c2e56fab8abfc6a214307c0094")
}

func TestMatchTable(t *testing.T) {
	lock, err := lockfile.Load(lockfilePath(t))
	require.NoError(t, err)
	meta := testutil.LoadMetadata(t, "metadata.json")

	// semver-parser is in the snapshot but not pinned in the lockfile.
	output, missing := matchTable(lock, meta)
	assert.Equal(t, 1, missing)
	assert.Contains(t, output, "semver-parser")
	assert.Contains(t, output, "missing")
	assert.Contains(t, output, "97b3888a4aecf77e811145cadf6eef5901f4782c53886191b2f693f24761847c")
}
