// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package index turns a resolved cargo metadata snapshot into an
// immutable query structure: which packages and targets are publicly
// buildable, what each build target depends on, and under which platform
// guard. It is built once and only read afterwards, so concurrent use
// needs no synchronization.
package index

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/fnichol/reindeer/pkg/buck"
	"github.com/fnichol/reindeer/pkg/cargo"
	"github.com/fnichol/reindeer/pkg/utils/sets"
)

var (
	ErrNoRootPackage     = fmt.Errorf("couldn't identify unambiguous top-level package")
	ErrMissingManifest   = fmt.Errorf("resolution graph references package missing from catalog")
	ErrMissingNode       = fmt.Errorf("no resolution graph node for package")
	ErrUnnamedDependency = fmt.Errorf("resolved dependency edge has no resolvable name")
	ErrUnknownPackage    = fmt.Errorf("unknown package id")
	ErrForeignTarget     = fmt.Errorf("target does not belong to package")
)

// Options configure index construction.
type Options struct {
	// RootIsReal marks the top-level package as a real, publicly
	// buildable package rather than a virtual umbrella manifest.
	RootIsReal bool

	// Logger receives recoverable diagnostics such as platform
	// predicate parse failures. Defaults to slog.Default().
	Logger *slog.Logger
}

type publicTarget struct {
	id  cargo.PkgID
	req cargo.TargetReq
}

// Index is the queryable form of one metadata snapshot.
type Index struct {
	pkgs  map[cargo.PkgID]*cargo.Manifest
	nodes map[cargo.PkgID]*cargo.Node

	rootID cargo.PkgID

	// publicTargets maps each externally buildable (package, target
	// requirement) pair to its rename, if the root imports it under one.
	publicTargets  map[publicTarget]*string
	publicPackages sets.Set[cargo.PkgID]

	log *slog.Logger
}

// New builds the index for a metadata snapshot. The snapshot must name a
// resolution root present in the package list, and every package id the
// graph mentions must have a manifest; anything else fails construction.
func New(meta *cargo.Metadata, opts Options) (*Index, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	if meta.Resolve == nil {
		return nil, fmt.Errorf("%w: snapshot has no resolve section", ErrNoRootPackage)
	}

	pkgs := make(map[cargo.PkgID]*cargo.Manifest, len(meta.Packages))
	for _, m := range meta.Packages {
		pkgs[m.ID] = m
	}

	rootPkg, ok := pkgs[meta.Resolve.Root]
	if !ok {
		return nil, fmt.Errorf("%w: root id %q", ErrNoRootPackage, meta.Resolve.Root)
	}

	nodes := make(map[cargo.PkgID]*cargo.Node, len(meta.Resolve.Nodes))
	for _, n := range meta.Resolve.Nodes {
		if _, ok := pkgs[n.ID]; !ok {
			return nil, fmt.Errorf("%w: node %q", ErrMissingManifest, n.ID)
		}
		for _, dep := range n.Deps {
			if _, ok := pkgs[dep.Pkg]; !ok {
				return nil, fmt.Errorf("%w: edge %q -> %q", ErrMissingManifest, n.ID, dep.Pkg)
			}
			if dep.Name != "" {
				continue
			}
			for _, kind := range dep.DepKinds {
				if kind.ExternName == nil {
					return nil, fmt.Errorf("%w: edge %q -> %q", ErrUnnamedDependency, n.ID, dep.Pkg)
				}
			}
		}
		nodes[n.ID] = n
	}

	if _, ok := nodes[rootPkg.ID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingNode, rootPkg.ID)
	}

	idx := &Index{
		pkgs:           pkgs,
		nodes:          nodes,
		rootID:         rootPkg.ID,
		publicTargets:  map[publicTarget]*string{},
		publicPackages: sets.New[cargo.PkgID](),
		log:            log,
	}

	// Renamed crates, keyed by the underscore-normalized rename (hyphens
	// become underscores for identifier use).
	depRenamed := map[string]string{}
	for _, dep := range rootPkg.Dependencies {
		if dep.Rename != nil {
			depRenamed[strings.ReplaceAll(*dep.Rename, "-", "_")] = *dep.Rename
		}
	}

	// Public set: first-order dependencies of the root, then the root
	// itself if it is real. Later insertions win on key conflicts.
	for _, edge := range idx.resolvedEdges(rootPkg.ID) {
		var rename *string
		if r, ok := depRenamed[edge.name]; ok {
			rename = &r
		}
		idx.publicTargets[publicTarget{edge.pkg.ID, edge.kind.TargetReq()}] = rename
	}
	if opts.RootIsReal {
		idx.publicTargets[publicTarget{rootPkg.ID, cargo.TargetReqLib}] = nil
		idx.publicTargets[publicTarget{rootPkg.ID, cargo.TargetReqEveryBin}] = nil
	}

	for key := range idx.publicTargets {
		idx.publicPackages.Add(key.id)
	}

	return idx, nil
}

// RootPackage returns the manifest of the top-level package.
func (i *Index) RootPackage() *cargo.Manifest {
	return i.pkgs[i.rootID]
}

// Package looks up a manifest by package id.
func (i *Index) Package(id cargo.PkgID) (*cargo.Manifest, bool) {
	m, ok := i.pkgs[id]
	return m, ok
}

// AllPackages returns every manifest in the catalog, ordered by id.
func (i *Index) AllPackages() []*cargo.Manifest {
	all := make([]*cargo.Manifest, 0, len(i.pkgs))
	for _, m := range i.pkgs {
		all = append(all, m)
	}
	slices.SortFunc(all, func(a, b *cargo.Manifest) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return all
}

// IsRootPackage tests if id identifies the top-level package.
func (i *Index) IsRootPackage(id cargo.PkgID) bool {
	return id == i.rootID
}

// IsPublicPackage tests if any target of the package is public.
func (i *Index) IsPublicPackage(id cargo.PkgID) bool {
	return i.publicPackages.Contains(id)
}

// IsPublicTarget tests if a specific target requirement of the package is
// public.
func (i *Index) IsPublicTarget(id cargo.PkgID, req cargo.TargetReq) bool {
	_, ok := i.publicTargets[publicTarget{id, req}]
	return ok
}

// ResolvedFeatures returns the feature set the resolver enabled for a
// package.
func (i *Index) ResolvedFeatures(id cargo.PkgID) []string {
	node, ok := i.nodes[id]
	if !ok {
		return nil
	}
	return node.Features
}

// PublicRuleName returns the rule name a public package is imported
// under: its rename if the root aliases its library target, else the bare
// package name.
func (i *Index) PublicRuleName(id cargo.PkgID) buck.Name {
	pkg := i.pkgs[id]
	if rename, ok := i.publicTargets[publicTarget{id, cargo.TargetReqLib}]; ok && rename != nil {
		return buck.Name(*rename)
	}
	return buck.Name(pkg.Name)
}

// PrivateRuleName returns the fully qualified name-version rule identity,
// suffixed with the rename when the library target is imported under an
// alias, so multiple resolved versions of one crate stay distinct.
func (i *Index) PrivateRuleName(id cargo.PkgID) buck.Name {
	pkg := i.pkgs[id]
	if rename, ok := i.publicTargets[publicTarget{id, cargo.TargetReqLib}]; ok && rename != nil {
		return buck.Name(fmt.Sprintf("%s-%s", pkg, *rename))
	}
	return buck.Name(pkg.String())
}
