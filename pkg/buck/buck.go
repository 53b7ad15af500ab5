// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package buck holds the small vocabulary shared with the rule-emission
// stage.
package buck

// Name is the name of a generated build rule.
type Name string

func (n Name) String() string {
	return string(n)
}
