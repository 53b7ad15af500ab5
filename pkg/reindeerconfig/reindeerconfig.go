// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package reindeerconfig

import (
	"path/filepath"
)

const (
	LogLevelEnvVar = "REINDEER_LOG_LEVEL"

	ManifestFilename = "Cargo.toml"
	LockfileFilename = "Cargo.lock"
)

// Paths locates the inputs of one invocation, all relative to the
// third-party directory holding the top-level manifest.
type Paths struct {
	ThirdPartyDir string
	ManifestPath  string
	LockfilePath  string
}

func NewPaths(thirdPartyDir string) (*Paths, error) {
	abs, err := filepath.Abs(thirdPartyDir)
	if err != nil {
		return nil, err
	}
	return &Paths{
		ThirdPartyDir: abs,
		ManifestPath:  filepath.Join(abs, ManifestFilename),
		LockfilePath:  filepath.Join(abs, LockfileFilename),
	}, nil
}
