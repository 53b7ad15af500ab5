// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cargo_test

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/fnichol/reindeer/pkg/cargo"
	"github.com/fnichol/reindeer/pkg/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	meta := testutil.LoadMetadata(t, "metadata.json")

	assert.Len(t, meta.Packages, 5)
	assert.Len(t, meta.Resolve.Nodes, 5)
	assert.Equal(t, cargo.PkgID("top 0.0.0 (path+file:///work/third-party)"), meta.Resolve.Root)
	assert.Equal(t, []cargo.PkgID{meta.Resolve.Root}, meta.WorkspaceMembers)

	names := lo.Map(meta.Packages, func(m *cargo.Manifest, _ int) string { return m.Name })
	assert.Contains(t, names, "serde")
	assert.Contains(t, names, "semver-parser")
}

func TestParseMetadataWithoutResolve(t *testing.T) {
	_, err := cargo.ParseMetadata([]byte(`{"packages": [], "version": 1}`))
	assert.ErrorIs(t, err, cargo.ErrInvalidMetadata)
}

func TestDependencyDecoding(t *testing.T) {
	meta := testutil.LoadMetadata(t, "metadata.json")

	top, ok := lo.Find(meta.Packages, func(m *cargo.Manifest) bool { return m.Name == "top" })
	require.True(t, ok)
	require.Len(t, top.Dependencies, 3)

	serde := top.Dependencies[0]
	assert.Equal(t, cargo.DepKindNormal, serde.Kind)
	assert.Nil(t, serde.Target)
	assert.Nil(t, serde.Rename)
	assert.Equal(t, "^1.0", serde.Req)
	assert.Equal(t, []string{"derive"}, serde.Features)

	libc := top.Dependencies[1]
	require.NotNil(t, libc.Target)
	assert.Equal(t, "cfg(unix)", *libc.Target)

	svparser := top.Dependencies[2]
	require.NotNil(t, svparser.Rename)
	assert.Equal(t, "sv-parser", *svparser.Rename)
}

func TestDepKindDecoding(t *testing.T) {
	tests := map[string]cargo.DepKind{
		`null`:     cargo.DepKindNormal,
		`"normal"`: cargo.DepKindNormal,
		`"dev"`:    cargo.DepKindDev,
		`"build"`:  cargo.DepKindBuild,
	}

	for input, expected := range tests {
		var k cargo.DepKind
		require.NoError(t, k.UnmarshalJSON([]byte(input)))
		assert.Equal(t, expected, k)
	}

	var k cargo.DepKind
	assert.Error(t, k.UnmarshalJSON([]byte(`"weird"`)))
}

func TestTargetKinds(t *testing.T) {
	meta := testutil.LoadMetadata(t, "metadata.json")

	serde, ok := lo.Find(meta.Packages, func(m *cargo.Manifest) bool { return m.Name == "serde" })
	require.True(t, ok)
	require.Len(t, serde.Targets, 2)

	lib, buildScript := serde.Targets[0], serde.Targets[1]
	assert.True(t, lib.KindLib())
	assert.False(t, lib.KindBin())
	assert.False(t, lib.KindCustomBuild())
	assert.True(t, buildScript.KindCustomBuild())

	libTarget, ok := serde.LibTarget()
	require.True(t, ok)
	assert.Same(t, lib, libTarget)
	assert.True(t, serde.HasTarget(lib))

	derive, ok := lo.Find(meta.Packages, func(m *cargo.Manifest) bool { return m.Name == "serde_derive" })
	require.True(t, ok)
	assert.True(t, derive.Targets[0].KindProcMacro())

	_, ok = derive.LibTarget()
	assert.True(t, ok)
}

func TestManifestString(t *testing.T) {
	m := &cargo.Manifest{Name: "serde", Version: semver.MustParse("1.0.203")}
	assert.Equal(t, "serde-1.0.203", m.String())
}

func TestCompareSources(t *testing.T) {
	registry := cargo.Source("registry+https://github.com/rust-lang/crates.io-index")
	git := cargo.Source("git+https://github.com/foo/bar")

	assert.Equal(t, 0, cargo.CompareSources(nil, nil))
	assert.Equal(t, -1, cargo.CompareSources(nil, &registry))
	assert.Equal(t, 1, cargo.CompareSources(&registry, nil))
	assert.Equal(t, 0, cargo.CompareSources(&registry, &registry))
	assert.Negative(t, cargo.CompareSources(&git, &registry))
}

func TestCompareManifests(t *testing.T) {
	registry := cargo.Source("registry+https://github.com/rust-lang/crates.io-index")

	a := &cargo.Manifest{Name: "libc", Version: semver.MustParse("0.2.155"), Source: &registry}
	b := &cargo.Manifest{Name: "libc", Version: semver.MustParse("0.2.160"), Source: &registry}
	c := &cargo.Manifest{Name: "serde", Version: semver.MustParse("1.0.203"), Source: &registry}
	local := &cargo.Manifest{Name: "libc", Version: semver.MustParse("0.2.155")}

	assert.Negative(t, cargo.CompareManifests(a, b))
	assert.Negative(t, cargo.CompareManifests(b, c))
	assert.Negative(t, cargo.CompareManifests(local, a))
	assert.Equal(t, 0, cargo.CompareManifests(a, a))
}

func TestNodeDepKindTargetReq(t *testing.T) {
	plain := &cargo.NodeDepKind{Kind: cargo.DepKindNormal}
	assert.Equal(t, cargo.TargetReqLib, plain.TargetReq())

	bin := "bin"
	artifact := &cargo.NodeDepKind{Kind: cargo.DepKindNormal, Artifact: &bin}
	assert.Equal(t, cargo.TargetReqEveryBin, artifact.TargetReq())
}
