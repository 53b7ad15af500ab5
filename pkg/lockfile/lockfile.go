// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package lockfile loads Cargo.lock files for integrity and checksum
// lookup. Entries are sorted once on load; lookups are exact-match binary
// searches, never partial or fuzzy.
package lockfile

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/fnichol/reindeer/pkg/cargo"
)

// ExpectedVersion is the lockfile format version this loader understands.
const ExpectedVersion = 3

var ErrInvalidLockfile = fmt.Errorf("invalid lockfile")

// Lockfile is a pinned, checksum-bearing record of exact resolved
// versions, independent of the live resolution graph.
type Lockfile struct {
	Version  FormatVersion `toml:"version"`
	Packages []*Package    `toml:"package"`
}

// Package is one pinned lockfile entry.
type Package struct {
	Name         string          `toml:"name"`
	Version      *semver.Version `toml:"version"`
	Source       *cargo.Source   `toml:"source"`
	Checksum     *string         `toml:"checksum"`
	Dependencies []string        `toml:"dependencies"`
}

// FormatVersion decodes the lockfile schema version. Any value other than
// ExpectedVersion is only warned about; loading proceeds regardless.
type FormatVersion int

func (v *FormatVersion) UnmarshalTOML(value any) error {
	n, ok := value.(int64)
	if !ok {
		return fmt.Errorf("lockfile version must be an integer, got %T", value)
	}
	if n != ExpectedVersion {
		slog.Warn("unrecognized Cargo.lock format version", "version", n)
	}
	*v = FormatVersion(n)
	return nil
}

// Load reads and parses a lockfile from disk.
func Load(path string) (*Lockfile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	lock, err := Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return lock, nil
}

// Parse decodes lockfile contents and sorts the entries so Find's binary
// search is correct for every entry.
func Parse(contents []byte) (*Lockfile, error) {
	var lock Lockfile
	if err := toml.Unmarshal(contents, &lock); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLockfile, err.Error())
	}

	slices.SortFunc(lock.Packages, func(a, b *Package) int {
		return comparePackageKey(a, b.Name, b.Version, b.Source)
	})
	return &lock, nil
}

// Find returns the single lockfile entry exactly matching a manifest's
// (name, version, source) triple, or nil if there is none.
func (l *Lockfile) Find(m *cargo.Manifest) *Package {
	i, ok := slices.BinarySearchFunc(l.Packages, m, func(p *Package, m *cargo.Manifest) int {
		return comparePackageKey(p, m.Name, m.Version, m.Source)
	})
	if !ok {
		return nil
	}
	return l.Packages[i]
}

func comparePackageKey(p *Package, name string, version *semver.Version, source *cargo.Source) int {
	if c := cmp.Compare(p.Name, name); c != 0 {
		return c
	}
	if c := p.Version.Compare(version); c != 0 {
		return c
	}
	return cargo.CompareSources(p.Source, source)
}
