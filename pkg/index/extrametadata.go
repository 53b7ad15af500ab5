// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/fnichol/reindeer/pkg/utils/sets"
)

const extraMetadataKey = "third-party"

var ErrInvalidExtraMetadata = fmt.Errorf("invalid third-party metadata")

// ExtraMetadata is the per-package ownership record kept in the root
// manifest's metadata blob, keyed by package name.
type ExtraMetadata struct {
	// Oncall is the maintainer shortname for the package.
	Oncall string `json:"oncall"`
}

// ExtraMetadata extracts the "third-party" table from the root manifest's
// metadata blob, keyed by the direct dependency names of the root. Keys
// naming no direct dependency are not errors individually; they are
// collected into the returned report, sorted, so the caller can surface
// them all at once. The error return covers malformed structure only.
func (i *Index) ExtraMetadata() (map[string]ExtraMetadata, []string, error) {
	raw, ok := i.RootPackage().Metadata[extraMetadataKey]
	if !ok {
		return map[string]ExtraMetadata{}, nil, nil
	}

	decoded := map[string]ExtraMetadata{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&decoded); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidExtraMetadata, err.Error())
	}

	direct := sets.New[string]()
	for _, dep := range i.RootPackage().Dependencies {
		direct.Add(dep.Name)
	}

	ret := make(map[string]ExtraMetadata, len(decoded))
	var unknown []string
	for name, val := range decoded {
		if !direct.Contains(name) {
			unknown = append(unknown, name)
			continue
		}
		ret[name] = val
	}

	slices.Sort(unknown)
	return ret, unknown, nil
}
