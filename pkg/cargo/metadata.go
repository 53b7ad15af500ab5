// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cargo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

var ErrInvalidMetadata = fmt.Errorf("invalid cargo metadata")

// Metadata is a resolved metadata snapshot in the shape produced by
// `cargo metadata --format-version=1`: the full manifest list plus the
// computed dependency-resolution graph.
type Metadata struct {
	Packages         []*Manifest `json:"packages"`
	WorkspaceMembers []PkgID     `json:"workspace_members"`
	Resolve          *Resolve    `json:"resolve"`
	TargetDirectory  string      `json:"target_directory"`
	WorkspaceRoot    string      `json:"workspace_root"`
	Version          int         `json:"version"`
}

// Resolve is the solved dependency graph: one node per package, plus the
// id of the top-level package the resolution was computed for.
type Resolve struct {
	Nodes []*Node `json:"nodes"`
	Root  PkgID   `json:"root"`
}

// Node carries one package's resolved feature set and dependency edges.
type Node struct {
	ID       PkgID      `json:"id"`
	Deps     []*NodeDep `json:"deps"`
	Features []string   `json:"features"`
}

// NodeDep is one resolved dependency edge. An edge carries one kind
// record per declared relationship, so a single edge may simultaneously
// be a normal, dev and build dependency.
type NodeDep struct {
	Name     string         `json:"name"`
	Pkg      PkgID          `json:"pkg"`
	DepKinds []*NodeDepKind `json:"dep_kinds"`
}

// NodeDepKind is one resolved relationship on an edge.
type NodeDepKind struct {
	Kind       DepKind `json:"kind"`
	Target     *string `json:"target"`
	Artifact   *string `json:"artifact"`
	ExternName *string `json:"extern_name"`
	BinName    *string `json:"bin_name"`
}

// TargetReq derives the query key this relationship demands from the
// dependency package: its library target, or (for binary artifact
// dependencies) any of its binary targets.
func (k *NodeDepKind) TargetReq() TargetReq {
	if k.Artifact != nil && *k.Artifact == "bin" {
		return TargetReqEveryBin
	}
	return TargetReqLib
}

// LoadMetadata reads and decodes a metadata snapshot from a file.
func LoadMetadata(path string) (*Metadata, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	meta, err := ParseMetadata(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return meta, nil
}

// ParseMetadata decodes a metadata snapshot from raw JSON.
func ParseMetadata(contents []byte) (*Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal(contents, &meta); err != nil {
		return nil, err
	}
	if meta.Resolve == nil {
		return nil, fmt.Errorf("%w: missing resolve section", ErrInvalidMetadata)
	}
	return &meta, nil
}
