// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package platform models the platform conditions cargo attaches to
// dependency declarations: either a bare target triple, or a cfg()
// expression over configuration predicates.
package platform

import (
	"fmt"
	"strings"
)

// Expr is a rendered configuration-guard expression, e.g.
// `cfg(any(windows, target_os = "linux"))`.
type Expr string

func (e Expr) String() string {
	return string(e)
}

// Predicate is a parsed boolean expression over target triples and cfg
// flags.
type Predicate interface {
	fmt.Stringer
	isPredicate()
}

// Any is the logical OR of its member predicates.
type Any []Predicate

// All is the logical AND of its member predicates.
type All []Predicate

// Not negates a predicate.
type Not struct {
	Pred Predicate
}

// Atom is a bare configuration flag such as `unix` or `windows`.
type Atom string

// KeyEqual is a key/value predicate such as `target_os = "linux"`.
type KeyEqual struct {
	Key   string
	Value string
}

// Triple is a bare target triple such as `x86_64-pc-windows-gnu`.
type Triple string

func (Any) isPredicate()      {}
func (All) isPredicate()      {}
func (Not) isPredicate()      {}
func (Atom) isPredicate()     {}
func (KeyEqual) isPredicate() {}
func (Triple) isPredicate()   {}

func (p Any) String() string {
	return fmt.Sprintf("any(%s)", joinPredicates(p))
}

func (p All) String() string {
	return fmt.Sprintf("all(%s)", joinPredicates(p))
}

func (p Not) String() string {
	return fmt.Sprintf("not(%s)", p.Pred)
}

func (p Atom) String() string {
	return string(p)
}

func (p KeyEqual) String() string {
	return fmt.Sprintf("%s = %q", p.Key, p.Value)
}

func (p Triple) String() string {
	return string(p)
}

func joinPredicates(preds []Predicate) string {
	strs := make([]string, len(preds))
	for i, p := range preds {
		strs[i] = p.String()
	}
	return strings.Join(strs, ", ")
}

// AnyOf combines predicates into their logical OR. A single predicate is
// returned as itself.
func AnyOf(preds []Predicate) Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	return Any(preds)
}

// CfgExpr renders a predicate as a cfg() guard expression.
func CfgExpr(pred Predicate) Expr {
	return Expr(fmt.Sprintf("cfg(%s)", pred))
}
