// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"
	"slices"

	"github.com/fnichol/reindeer/pkg/cargo"
	"github.com/fnichol/reindeer/pkg/platform"
	"github.com/samber/lo"
)

// ResolvedDep is one effective dependency of a build target: the
// dependency's manifest, the combined platform guard of all matching
// declarations (nil = unconditional), the name the dependency resolves
// under, and the specific kind record of the graph edge. The kind record
// may carry its own platform string, which is passed through unmerged.
type ResolvedDep struct {
	Package  *cargo.Manifest
	Platform *platform.Expr
	Rename   string
	DepKind  *cargo.NodeDepKind
}

type resolvedEdge struct {
	name string
	kind *cargo.NodeDepKind
	pkg  *cargo.Manifest
}

// resolvedEdges flattens a package's graph edges, one entry per kind
// record. Edge names were validated at construction.
func (i *Index) resolvedEdges(id cargo.PkgID) []resolvedEdge {
	node, ok := i.nodes[id]
	if !ok {
		return nil
	}

	var edges []resolvedEdge
	for _, dep := range node.Deps {
		for _, kind := range dep.DepKinds {
			name := dep.Name
			if name == "" {
				name = *kind.ExternName
			}
			edges = append(edges, resolvedEdge{
				name: name,
				kind: kind,
				pkg:  i.pkgs[dep.Pkg],
			})
		}
	}
	return edges
}

// ResolvedDeps returns every resolved dependency of a package, unfiltered
// by target. Mostly useful for the top-level package.
func (i *Index) ResolvedDeps(id cargo.PkgID) ([]ResolvedDep, error) {
	if _, ok := i.pkgs[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, id)
	}
	return lo.Map(i.resolvedEdges(id), func(e resolvedEdge, _ int) ResolvedDep {
		return ResolvedDep{Package: e.pkg, Rename: e.name, DepKind: e.kind}
	}), nil
}

// depApplies is the fixed compatibility table between a declared
// dependency kind and the target kinds it can supply.
func depApplies(dep *cargo.ManifestDep, tgt *cargo.ManifestTarget) bool {
	switch dep.Kind {
	case cargo.DepKindNormal:
		return tgt.KindLib() || tgt.KindProcMacro() || tgt.KindBin() || tgt.KindCDylib()
	case cargo.DepKindDev:
		return tgt.KindBench() || tgt.KindTest() || tgt.KindExample()
	case cargo.DepKindBuild:
		return tgt.KindCustomBuild()
	default:
		return false
	}
}

// DepsForTarget returns the declared dependencies applicable to one build
// target of the package. The target must belong to the package.
func (i *Index) DepsForTarget(id cargo.PkgID, tgt *cargo.ManifestTarget) ([]*cargo.ManifestDep, error) {
	pkg, ok := i.pkgs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, id)
	}
	if !pkg.HasTarget(tgt) {
		return nil, fmt.Errorf("%w: %q has no target %q", ErrForeignTarget, pkg, tgt.Name)
	}

	return lo.Filter(pkg.Dependencies, func(dep *cargo.ManifestDep, _ int) bool {
		return depApplies(dep, tgt)
	}), nil
}

// ResolvedDepsForTarget merges the declared dependencies applicable to a
// target with the package's resolved graph edges. Declarations sharing a
// name are combined into a single platform guard: an unconditional
// declaration absorbs all others, otherwise the parsed predicates are
// OR'ed. A declaration whose platform string fails to parse is logged and
// dropped without aborting resolution.
func (i *Index) ResolvedDepsForTarget(id cargo.PkgID, tgt *cargo.ManifestTarget) ([]ResolvedDep, error) {
	declared, err := i.DepsForTarget(id, tgt)
	if err != nil {
		return nil, err
	}

	declaredByName := map[string][]*cargo.ManifestDep{}
	for _, dep := range declared {
		declaredByName[dep.Name] = append(declaredByName[dep.Name], dep)
	}

	// Declarations are grouped by name only. A group mixing kinds merges
	// conditions of logically distinct dependency relationships, so make
	// that visible instead of resolving it silently.
	declaredNames := make([]string, 0, len(declaredByName))
	for name := range declaredByName {
		declaredNames = append(declaredNames, name)
	}
	slices.Sort(declaredNames)
	for _, name := range declaredNames {
		group := declaredByName[name]
		kinds := lo.Uniq(lo.Map(group, func(dep *cargo.ManifestDep, _ int) cargo.DepKind {
			return dep.Kind
		}))
		if len(kinds) > 1 {
			i.log.Warn("declarations mix dependency kinds; their platform conditions will be merged",
				"dependency", name, "target", tgt.Name)
		}
	}

	var resolved []ResolvedDep
	for _, edge := range i.resolvedEdges(id) {
		group, ok := declaredByName[edge.pkg.Name]
		if !ok {
			continue
		}
		resolved = append(resolved, ResolvedDep{
			Package:  edge.pkg,
			Platform: i.combinedGuard(edge.pkg, group),
			Rename:   edge.name,
			DepKind:  edge.kind,
		})
	}
	return resolved, nil
}

// combinedGuard folds the platform conditions of all declarations for one
// dependency name into a single guard. Unconditional short-circuits,
// regardless of declaration order.
func (i *Index) combinedGuard(dep *cargo.Manifest, group []*cargo.ManifestDep) *platform.Expr {
	var preds []platform.Predicate
	for _, mdep := range group {
		if mdep.Target == nil {
			preds = nil
			break
		}
		pred, err := platform.ParsePredicate(*mdep.Target)
		if err != nil {
			i.log.Error("failed to parse platform predicate",
				"dependency", dep.String(), "predicate", *mdep.Target, "error", err)
			continue
		}
		preds = append(preds, pred)
	}

	if len(preds) == 0 {
		return nil
	}
	expr := platform.CfgExpr(platform.AnyOf(preds))
	return &expr
}
