// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cargo

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// PkgID is the opaque package identifier cargo assigns to one
// (name, version, source) combination. It is the sole key into the
// manifest catalog and the resolution graph.
type PkgID string

// Source identifies where a package comes from, e.g.
// "registry+https://github.com/rust-lang/crates.io-index" or a git URL.
// Path dependencies have no source at all.
type Source string

// CompareSources orders two optional sources; an absent source sorts first.
func CompareSources(a, b *Source) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return strings.Compare(string(*a), string(*b))
	}
}

// DepKind is the declared dependency kind. Cargo encodes the normal kind
// as JSON null, so the decoder maps null (and empty) to DepKindNormal.
type DepKind string

const (
	DepKindNormal DepKind = "normal"
	DepKindDev    DepKind = "dev"
	DepKindBuild  DepKind = "build"
)

func (k *DepKind) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*k = DepKindNormal
		return nil
	}
	switch kind := DepKind(*s); kind {
	case DepKindNormal, DepKindDev, DepKindBuild:
		*k = kind
		return nil
	default:
		return fmt.Errorf("unknown dependency kind %q", *s)
	}
}

func (k DepKind) MarshalJSON() ([]byte, error) {
	if k == DepKindNormal {
		return []byte("null"), nil
	}
	return json.Marshal(string(k))
}

// Manifest is one package's declared metadata: its identity, dependencies,
// build targets and the free-form metadata blob from its Cargo.toml.
type Manifest struct {
	Name         string                     `json:"name"`
	Version      *semver.Version            `json:"version"`
	ID           PkgID                      `json:"id"`
	Source       *Source                    `json:"source"`
	Dependencies []*ManifestDep             `json:"dependencies"`
	Targets      []*ManifestTarget          `json:"targets"`
	Features     map[string][]string        `json:"features"`
	ManifestPath string                     `json:"manifest_path"`
	Metadata     map[string]json.RawMessage `json:"metadata"`
}

// String renders the full name-version identity used for private rule names.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s-%s", m.Name, m.Version)
}

// HasTarget reports whether tgt is one of this manifest's own build targets.
func (m *Manifest) HasTarget(tgt *ManifestTarget) bool {
	return slices.Contains(m.Targets, tgt)
}

// LibTarget returns the manifest's library target, if it has one.
func (m *Manifest) LibTarget() (*ManifestTarget, bool) {
	for _, tgt := range m.Targets {
		if tgt.KindLib() || tgt.KindProcMacro() || tgt.KindCDylib() {
			return tgt, true
		}
	}
	return nil, false
}

// ManifestDep is a single declared dependency as written in the manifest.
// A dependency may be declared several times under different platform
// conditions; each declaration is a separate entry.
type ManifestDep struct {
	Name                string   `json:"name"`
	Source              *Source  `json:"source"`
	Req                 string   `json:"req"`
	Kind                DepKind  `json:"kind"`
	Optional            bool     `json:"optional"`
	UsesDefaultFeatures bool     `json:"uses_default_features"`
	Features            []string `json:"features"`
	Target              *string  `json:"target"`
	Rename              *string  `json:"rename"`
}

// TargetKind is a build target kind as cargo reports it.
type TargetKind string

const (
	TargetKindLib         TargetKind = "lib"
	TargetKindRlib        TargetKind = "rlib"
	TargetKindBin         TargetKind = "bin"
	TargetKindExample     TargetKind = "example"
	TargetKindTest        TargetKind = "test"
	TargetKindBench       TargetKind = "bench"
	TargetKindProcMacro   TargetKind = "proc-macro"
	TargetKindCDylib      TargetKind = "cdylib"
	TargetKindDylib       TargetKind = "dylib"
	TargetKindStaticlib   TargetKind = "staticlib"
	TargetKindCustomBuild TargetKind = "custom-build"
)

// ManifestTarget is one build target belonging to a package.
type ManifestTarget struct {
	Name       string       `json:"name"`
	Kind       []TargetKind `json:"kind"`
	CrateTypes []TargetKind `json:"crate_types"`
	SrcPath    string       `json:"src_path"`
	Edition    string       `json:"edition"`
}

func (t *ManifestTarget) hasKind(kinds ...TargetKind) bool {
	for _, k := range kinds {
		if slices.Contains(t.Kind, k) {
			return true
		}
	}
	return false
}

func (t *ManifestTarget) KindLib() bool         { return t.hasKind(TargetKindLib, TargetKindRlib) }
func (t *ManifestTarget) KindBin() bool         { return t.hasKind(TargetKindBin) }
func (t *ManifestTarget) KindExample() bool     { return t.hasKind(TargetKindExample) }
func (t *ManifestTarget) KindTest() bool        { return t.hasKind(TargetKindTest) }
func (t *ManifestTarget) KindBench() bool       { return t.hasKind(TargetKindBench) }
func (t *ManifestTarget) KindProcMacro() bool   { return t.hasKind(TargetKindProcMacro) }
func (t *ManifestTarget) KindCDylib() bool      { return t.hasKind(TargetKindCDylib, TargetKindDylib) }
func (t *ManifestTarget) KindCustomBuild() bool { return t.hasKind(TargetKindCustomBuild) }

// CompareManifests orders manifests by (name, version, source), the same
// key the lockfile uses.
func CompareManifests(a, b *Manifest) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := a.Version.Compare(b.Version); c != 0 {
		return c
	}
	return CompareSources(a.Source, b.Source)
}
