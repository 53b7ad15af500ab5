// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cargo

// TargetReq is a query key against a package's build targets: either the
// package's library target, or any of its binary targets.
type TargetReq int

const (
	TargetReqLib TargetReq = iota
	TargetReqEveryBin
)

func (r TargetReq) String() string {
	switch r {
	case TargetReqLib:
		return "lib"
	case TargetReqEveryBin:
		return "every-bin"
	default:
		return "unknown"
	}
}
